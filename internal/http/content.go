package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/localizer"
)

func (api *TranslationsAPI) registerContentRoutes(mux *http.ServeMux, root string) {
	api.protected(mux, "POST "+root, api.handleCreateContent)
	api.protected(mux, "PUT "+root+"/{id}", api.handleUpdateContent)
	api.public(mux, "GET "+root+"/search", api.handleSearchContent)
	api.public(mux, "GET "+root+"/{contentType}/{id}", api.handleGetContent)
}

func (api *TranslationsAPI) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	if api.localizer == nil {
		unavailable(w, "Content localizer")
		return
	}
	var req localizer.ContentRequest
	if err := decodeJSON(r, &req); err != nil {
		api.fail(w, r, err)
		return
	}
	doc, err := api.localizer.CreateMultilingualContent(r.Context(), req)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, doc)
}

func (api *TranslationsAPI) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	if api.localizer == nil {
		unavailable(w, "Content localizer")
		return
	}
	var patch localizer.ContentPatch
	if err := decodeJSON(r, &patch); err != nil {
		api.fail(w, r, err)
		return
	}
	doc, err := api.localizer.UpdateMultilingualContent(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, doc)
}

func (api *TranslationsAPI) handleSearchContent(w http.ResponseWriter, r *http.Request) {
	if api.localizer == nil {
		unavailable(w, "Content localizer")
		return
	}
	query := r.URL.Query()
	limit, err := intQuery(r, "limit", localizer.DefaultSearchLimit)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	from, err := timeQuery(query.Get("dateFrom"), "dateFrom")
	if err != nil {
		api.fail(w, r, err)
		return
	}
	to, err := timeQuery(query.Get("dateTo"), "dateTo")
	if err != nil {
		api.fail(w, r, err)
		return
	}

	text := query.Get("q")
	if strings.TrimSpace(text) == "" {
		text = query.Get("query")
	}
	results, err := api.localizer.SearchMultilingualContent(r.Context(), localizer.SearchQuery{
		Query:       text,
		Language:    domain.Language(strings.ToLower(strings.TrimSpace(query.Get("language")))),
		ContentType: localizer.ContentType(strings.TrimSpace(query.Get("contentType"))),
		DateFrom:    from,
		DateTo:      to,
		Limit:       limit,
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, results)
}

func (api *TranslationsAPI) handleGetContent(w http.ResponseWriter, r *http.Request) {
	if api.localizer == nil {
		unavailable(w, "Content localizer")
		return
	}
	query := r.URL.Query()
	language, err := domain.ParseLanguage(query.Get("language"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	content, err := api.localizer.GetLocalizedContent(r.Context(),
		localizer.ContentType(r.PathValue("contentType")),
		r.PathValue("id"),
		language,
		localizer.RenderOptions{Format: localizer.RenderFormat(strings.ToLower(strings.TrimSpace(query.Get("format"))))},
	)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, content)
}

// timeQuery accepts RFC 3339 timestamps or plain dates.
func timeQuery(raw, name string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, domain.Validationf("%s must be an RFC 3339 timestamp or YYYY-MM-DD date", name)
}
