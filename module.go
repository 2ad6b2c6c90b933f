package translations

import (
	"net/http"

	settings "github.com/goliatone/go-translations/internal/admin/settings"
	"github.com/goliatone/go-translations/internal/di"
	"github.com/goliatone/go-translations/internal/localizer"
	"github.com/goliatone/go-translations/internal/translations"
)

// TranslationService exports the translation key service contract.
type TranslationService = translations.Service

// LocalizerService exports the content localization contract.
type LocalizerService = localizer.Service

// SettingsAdminService exports the enforcement settings admin helper.
type SettingsAdminService = *settings.Service

type (
	TranslationKey       = translations.TranslationKey
	CreateKeyRequest     = translations.CreateKeyRequest
	Translations         = translations.Translations
	HistoryEntry         = translations.HistoryEntry
	ImportResult         = translations.ImportResult
	Export               = translations.Export
	Format               = translations.Format
	MultilingualDocument = localizer.MultilingualDocument
	ContentRequest       = localizer.ContentRequest
	ContentPatch         = localizer.ContentPatch
	SearchQuery          = localizer.SearchQuery
	SearchResults        = localizer.SearchResults
)

// Module is the top-level entry point for host applications.
type Module struct {
	container *di.Container
}

// New builds the module over a validated configuration.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Translations returns the translation key service.
func (m *Module) Translations() TranslationService {
	return m.container.TranslationService()
}

// Localizer returns the content localizer, or nil when the feature is off.
func (m *Module) Localizer() LocalizerService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LocalizerService()
}

// SettingsAdmin returns the settings admin helper, or nil when the feature is off.
func (m *Module) SettingsAdmin() SettingsAdminService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.SettingsService()
}

// Handler returns the REST API with its middleware stack.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}
