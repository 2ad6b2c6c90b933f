package http

import (
	"net/http"

	"github.com/goliatone/go-translations/internal/identity"
	"github.com/goliatone/go-translations/internal/middleware"
)

type settingsPayload struct {
	EnforceRequired   *bool `json:"enforceRequired,omitempty"`
	FallbackToEnglish *bool `json:"fallbackToEnglish,omitempty"`
}

func (api *TranslationsAPI) registerSettingsRoutes(mux *http.ServeMux, root string) {
	api.protected(mux, "GET "+root+"/settings", api.handleGetSettings)
	api.protected(mux, "PUT "+root+"/settings", api.handleUpdateSettings)
}

func (api *TranslationsAPI) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if api.settings == nil {
		unavailable(w, "Settings service")
		return
	}
	current, err := api.settings.GetSettings(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, current)
}

func (api *TranslationsAPI) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if api.settings == nil {
		unavailable(w, "Settings service")
		return
	}
	var payload settingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.fail(w, r, err)
		return
	}
	current, err := api.settings.GetSettings(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if payload.EnforceRequired != nil {
		current.EnforceRequired = *payload.EnforceRequired
	}
	if payload.FallbackToEnglish != nil {
		current.FallbackToEnglish = *payload.FallbackToEnglish
	}

	actor := identity.SystemActorName
	if a, ok := middleware.ActorFromContext(r.Context()); ok && a.Subject != "" {
		actor = a.Subject
	}
	updated, err := api.settings.ApplySettings(r.Context(), current, actor)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}
