package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	settings "github.com/goliatone/go-translations/internal/admin/settings"
	translationscmd "github.com/goliatone/go-translations/internal/commands/translations"
	"github.com/goliatone/go-translations/internal/localizer"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/middleware"
	"github.com/goliatone/go-translations/internal/translations"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// DefaultMaxUploadBytes caps import uploads.
const DefaultMaxUploadBytes = translationscmd.MaxImportBytes

// TranslationsAPI registers the REST endpoints.
type TranslationsAPI struct {
	basePath     string
	translations translations.Service
	localizer    localizer.Service
	settings     *settings.Service
	importer     *translationscmd.ImportHandler
	auth         middleware.Middleware
	health       func(context.Context) error
	logger       interfaces.Logger
	maxUpload    int64
}

// Option mutates the TranslationsAPI configuration.
type Option func(*TranslationsAPI)

// NewTranslationsAPI constructs the API. Services are attached with options.
func NewTranslationsAPI(opts ...Option) *TranslationsAPI {
	api := &TranslationsAPI{
		basePath:  "/api",
		logger:    logging.NoOp(),
		maxUpload: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	if api.importer == nil && api.translations != nil {
		api.importer = translationscmd.NewImportHandler(api.translations, api.logger)
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *TranslationsAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithTranslationService wires the translation service.
func WithTranslationService(service translations.Service) Option {
	return func(api *TranslationsAPI) {
		api.translations = service
	}
}

// WithLocalizer wires the content localizer.
func WithLocalizer(service localizer.Service) Option {
	return func(api *TranslationsAPI) {
		api.localizer = service
	}
}

// WithSettingsService wires the enforcement settings admin service.
func WithSettingsService(service *settings.Service) Option {
	return func(api *TranslationsAPI) {
		api.settings = service
	}
}

// WithImportHandler replaces the import command handler used by uploads.
func WithImportHandler(handler *translationscmd.ImportHandler) Option {
	return func(api *TranslationsAPI) {
		api.importer = handler
	}
}

// WithAuth protects the authenticated routes. Without it every route is open.
func WithAuth(auth middleware.Middleware) Option {
	return func(api *TranslationsAPI) {
		api.auth = auth
	}
}

// WithHealthCheck makes /healthz report the result of check.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(api *TranslationsAPI) {
		api.health = check
	}
}

// WithLogger sets the logger used for 5xx responses.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *TranslationsAPI) {
		api.logger = logging.OrNoOp(logger)
	}
}

// WithMaxUploadBytes overrides the import upload limit.
func WithMaxUploadBytes(limit int64) Option {
	return func(api *TranslationsAPI) {
		if limit > 0 {
			api.maxUpload = limit
		}
	}
}

// Register attaches the endpoints to mux.
func (api *TranslationsAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: translations api is nil")
	}
	if api.translations == nil {
		return fmt.Errorf("http: translation service is required")
	}

	mux.HandleFunc("GET /healthz", api.handleHealth)

	root := joinPath(api.basePath, "translations")
	api.registerTranslationRoutes(mux, root)
	api.registerHistoryRoutes(mux, root)
	api.registerExchangeRoutes(mux, root)
	api.registerSettingsRoutes(mux, root)
	api.registerContentRoutes(mux, joinPath(root, "content"))
	return nil
}

// public registers a route open to anonymous callers.
func (api *TranslationsAPI) public(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, h)
}

// protected registers a route behind the auth middleware when one is set.
func (api *TranslationsAPI) protected(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if api.auth == nil {
		mux.Handle(pattern, h)
		return
	}
	mux.Handle(pattern, api.auth(h))
}

func (api *TranslationsAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	if api.health != nil {
		if err := api.health(r.Context()); err != nil {
			api.logger.WithContext(r.Context()).Error("http.health.failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, envelope{Error: "Service unavailable", Code: codeUnavailable})
			return
		}
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
