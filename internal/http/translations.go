package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/middleware"
	"github.com/goliatone/go-translations/internal/translations"
)

type updateKeyPayload struct {
	Translations *translations.TranslationsPatch `json:"translations,omitempty"`
	EN           *string                         `json:"en,omitempty"`
	NE           *string                         `json:"ne,omitempty"`
	Context      *string                         `json:"context,omitempty"`
	IsRequired   *bool                           `json:"isRequired,omitempty"`
	Reason       string                          `json:"reason,omitempty"`
}

func (api *TranslationsAPI) registerTranslationRoutes(mux *http.ServeMux, root string) {
	api.public(mux, "GET "+root, api.handleGetTranslations)
	api.protected(mux, "POST "+root, api.handleCreateKey)
	api.protected(mux, "PUT "+root+"/{key}", api.handleUpdateKey)
	api.protected(mux, "DELETE "+root+"/{key}", api.handleDeleteKey)
	api.protected(mux, "GET "+root+"/keys", api.handleListKeys)
	api.protected(mux, "GET "+root+"/validate", api.handleValidate)
}

func (api *TranslationsAPI) handleGetTranslations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	language, err := domain.ParseLanguage(query.Get("language"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	tree, err := api.translations.GetTranslations(r.Context(), language, strings.TrimSpace(query.Get("namespace")))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, tree)
}

func (api *TranslationsAPI) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	var req translations.CreateKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		api.fail(w, r, err)
		return
	}
	req.Actor = middleware.ActorID(r.Context())
	record, err := api.translations.CreateTranslation(r.Context(), req)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, record)
}

// handleUpdateKey accepts either the nested {translations: {en, ne}} shape
// with optional context/isRequired, or bare top-level en/ne.
func (api *TranslationsAPI) handleUpdateKey(w http.ResponseWriter, r *http.Request) {
	var payload updateKeyPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.fail(w, r, err)
		return
	}
	key := r.PathValue("key")
	actor := middleware.ActorID(r.Context())

	var (
		record *translations.TranslationKey
		err    error
	)
	if payload.Translations == nil && payload.Context == nil && payload.IsRequired == nil {
		record, err = api.translations.UpdateTranslation(r.Context(), key, translations.TranslationsPatch{
			EN: payload.EN,
			NE: payload.NE,
		}, actor)
	} else {
		req := translations.UpdateKeyRequest{
			Context:    payload.Context,
			IsRequired: payload.IsRequired,
			Reason:     payload.Reason,
			Actor:      actor,
		}
		if payload.Translations != nil {
			req.Translations = *payload.Translations
		}
		record, err = api.translations.UpdateTranslationKey(r.Context(), key, req)
	}
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *TranslationsAPI) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := api.translations.DeleteTranslation(r.Context(), key, middleware.ActorID(r.Context())); err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"key": key})
}

func (api *TranslationsAPI) handleListKeys(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", translations.DefaultPageSize)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if page < 1 {
		api.fail(w, r, domain.Validationf("page must be at least 1"))
		return
	}
	if limit < 1 || limit > translations.MaxPageSize {
		api.fail(w, r, domain.Validationf("limit must be between 1 and %d", translations.MaxPageSize))
		return
	}

	query := r.URL.Query()
	result, err := api.translations.GetTranslationKeys(r.Context(), translations.ListKeysRequest{
		Namespace: strings.TrimSpace(query.Get("namespace")),
		Search:    strings.TrimSpace(query.Get("search")),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (api *TranslationsAPI) handleValidate(w http.ResponseWriter, r *http.Request) {
	report, err := api.translations.ValidateTranslationCompleteness(r.Context(), strings.TrimSpace(r.URL.Query().Get("namespace")))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, report)
}
