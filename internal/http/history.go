package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-translations/internal/middleware"
	"github.com/goliatone/go-translations/internal/translations"
)

type rollbackPayload struct {
	Version int    `json:"version"`
	Reason  string `json:"reason,omitempty"`
}

func (api *TranslationsAPI) registerHistoryRoutes(mux *http.ServeMux, root string) {
	api.protected(mux, "GET "+root+"/{key}/history", api.handleHistory)
	api.protected(mux, "GET "+root+"/changes/recent", api.handleRecentChanges)
	api.protected(mux, "POST "+root+"/{key}/rollback", api.handleRollback)
	api.protected(mux, "GET "+root+"/{key}/compare", api.handleCompare)
}

func (api *TranslationsAPI) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", translations.DefaultHistoryLimit)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	entries, err := api.translations.GetTranslationHistory(r.Context(), r.PathValue("key"), limit)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (api *TranslationsAPI) handleRecentChanges(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", translations.DefaultRecentLimit)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	entries, err := api.translations.GetRecentChanges(r.Context(), strings.TrimSpace(r.URL.Query().Get("namespace")), limit)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (api *TranslationsAPI) handleRollback(w http.ResponseWriter, r *http.Request) {
	var payload rollbackPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.fail(w, r, err)
		return
	}
	record, err := api.translations.RollbackTranslation(r.Context(), translations.RollbackRequest{
		Key:     r.PathValue("key"),
		Version: payload.Version,
		Actor:   middleware.ActorID(r.Context()),
		Reason:  payload.Reason,
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *TranslationsAPI) handleCompare(w http.ResponseWriter, r *http.Request) {
	v1, err := requiredIntQuery(r, "v1")
	if err != nil {
		api.fail(w, r, err)
		return
	}
	v2, err := requiredIntQuery(r, "v2")
	if err != nil {
		api.fail(w, r, err)
		return
	}
	comparison, err := api.translations.CompareVersions(r.Context(), r.PathValue("key"), v1, v2)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, comparison)
}
