package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	settings "github.com/goliatone/go-translations/internal/admin/settings"
	"github.com/goliatone/go-translations/internal/audit"
	translationscmd "github.com/goliatone/go-translations/internal/commands/translations"
	apihttp "github.com/goliatone/go-translations/internal/http"
	"github.com/goliatone/go-translations/internal/localizer"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/logging/console"
	"github.com/goliatone/go-translations/internal/logging/gologger"
	"github.com/goliatone/go-translations/internal/markdown"
	"github.com/goliatone/go-translations/internal/middleware"
	"github.com/goliatone/go-translations/internal/runtimeconfig"
	"github.com/goliatone/go-translations/internal/translationconfig"
	"github.com/goliatone/go-translations/internal/translations"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// Container wires module dependencies. Without a bun database every store is
// in memory.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	clock         func() time.Time

	translationStore translations.Store
	contentStore     localizer.Store
	settingsRepo     translationconfig.Repository
	recorder         audit.Recorder
	settingsState    *translationconfig.State

	translationSvc translations.Service
	localizerSvc   localizer.Service
	settingsSvc    *settings.Service

	importHandler   *translationscmd.ImportHandler
	exportHandler   *translationscmd.ExportHandler
	rollbackHandler *translationscmd.RollbackHandler

	auth middleware.Middleware
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches every store to bun over db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service used for content lookups.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected from Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithClock overrides the clock handed to the services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithTranslationService overrides the default translation service binding.
func WithTranslationService(svc translations.Service) Option {
	return func(c *Container) {
		c.translationSvc = svc
	}
}

// WithLocalizer overrides the default content localizer binding.
func WithLocalizer(svc localizer.Service) Option {
	return func(c *Container) {
		c.localizerSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureServices(); err != nil {
		return nil, err
	}
	if err := c.configureAuth(); err != nil {
		return nil, err
	}

	c.logger.Info("container.configured",
		"storage", c.storageKind(),
		"cache", c.cacheService != nil,
		"auth", c.auth != nil,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		c.logger = logging.RootLogger(c.loggerProvider)
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure gologger: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		if strings.EqualFold(strings.TrimSpace(logCfg.Format), string(console.FormatJSON)) {
			opts.Format = console.FormatJSON
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	c.logger = logging.RootLogger(c.loggerProvider)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		c.translationStore = translations.NewBunStore(c.bunDB)
		c.contentStore = localizer.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.settingsRepo = translationconfig.NewBunRepository(c.bunDB)
		c.recorder = audit.NewBunRecorder(c.bunDB)
		return
	}
	c.translationStore = translations.NewMemoryStore()
	c.contentStore = localizer.NewMemoryStore()
	c.settingsRepo = translationconfig.NewMemoryRepository()
	c.recorder = audit.NewMemoryRecorder()
}

func (c *Container) configureServices() error {
	c.settingsState = translationconfig.NewState(c.seedSettings())
	if err := c.loadSettings(context.Background()); err != nil {
		return fmt.Errorf("di: load settings: %w", err)
	}

	if c.translationSvc == nil {
		c.translationSvc = translations.NewService(c.translationStore,
			translations.WithClock(c.clock),
			translations.WithLogger(logging.ServiceLogger(c.loggerProvider)),
			translations.WithSettings(c.settingsState),
		)
	}

	if c.localizerSvc == nil && c.Config.Features.Localizer {
		c.localizerSvc = localizer.NewService(c.contentStore,
			localizer.WithClock(c.clock),
			localizer.WithLogger(logging.LocalizerLogger(c.loggerProvider)),
			localizer.WithRenderer(markdown.NewRenderer(markdown.Options{})),
		)
	}

	if c.Config.Features.Settings {
		c.settingsSvc = settings.NewService(c.settingsRepo, c.recorder,
			settings.WithClock(c.clock),
			settings.WithState(c.settingsState),
		)
	}

	commandsLogger := logging.CommandsLogger(c.loggerProvider)
	c.importHandler = translationscmd.NewImportHandler(c.translationSvc, commandsLogger)
	c.exportHandler = translationscmd.NewExportHandler(c.translationSvc, commandsLogger)
	c.rollbackHandler = translationscmd.NewRollbackHandler(c.translationSvc, commandsLogger)
	return nil
}

// seedSettings are the settings in effect until a stored row exists.
func (c *Container) seedSettings() translationconfig.Settings {
	return translationconfig.Settings{
		EnforceRequired:   c.Config.Translations.EnforceRequired,
		FallbackToEnglish: c.Config.Translations.FallbackToEnglish,
	}
}

func (c *Container) loadSettings(ctx context.Context) error {
	stored, err := c.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, translationconfig.ErrSettingsNotFound) {
			return nil
		}
		return err
	}
	c.settingsState.Apply(stored)
	return nil
}

func (c *Container) configureAuth() error {
	authCfg := c.Config.Auth
	if !authCfg.Enabled {
		return nil
	}
	auth, err := middleware.Auth(middleware.AuthConfig{
		Secret:   []byte(authCfg.Secret),
		Issuer:   authCfg.Issuer,
		Audience: authCfg.Audience,
		Leeway:   authCfg.Leeway,
		Logger:   logging.HTTPLogger(c.loggerProvider),
	})
	if err != nil {
		return fmt.Errorf("di: configure auth: %w", err)
	}
	c.auth = auth
	return nil
}

func (c *Container) storageKind() string {
	if c.bunDB == nil {
		return "memory"
	}
	return "bun:" + c.bunDB.Dialect().Name().String()
}

// Watch keeps the live settings in step with repository change events until
// ctx is cancelled.
func (c *Container) Watch(ctx context.Context) error {
	return translationconfig.Watch(ctx, c.settingsRepo, c.settingsState, c.logger)
}

// API constructs the REST API over the configured services.
func (c *Container) API() *apihttp.TranslationsAPI {
	httpCfg := c.Config.HTTP
	opts := []apihttp.Option{
		apihttp.WithBasePath(httpCfg.BasePath),
		apihttp.WithTranslationService(c.translationSvc),
		apihttp.WithImportHandler(c.importHandler),
		apihttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		apihttp.WithMaxUploadBytes(httpCfg.MaxUploadBytes),
		apihttp.WithHealthCheck(c.health),
	}
	if c.localizerSvc != nil {
		opts = append(opts, apihttp.WithLocalizer(c.localizerSvc))
	}
	if c.settingsSvc != nil {
		opts = append(opts, apihttp.WithSettingsService(c.settingsSvc))
	}
	if c.auth != nil {
		opts = append(opts, apihttp.WithAuth(c.auth))
	}
	return apihttp.NewTranslationsAPI(opts...)
}

// Handler returns the routed API wrapped in the recover, request id and
// request logging middleware.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := c.API().Register(mux); err != nil {
		return nil, err
	}
	httpLogger := logging.HTTPLogger(c.loggerProvider)
	return middleware.Chain(mux,
		middleware.Recover(httpLogger),
		middleware.RequestID(),
		middleware.Log(httpLogger),
	), nil
}

func (c *Container) health(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	return c.bunDB.PingContext(ctx)
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the root module logger.
func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

// TranslationService returns the configured translation service.
func (c *Container) TranslationService() translations.Service {
	return c.translationSvc
}

// LocalizerService returns the content localizer, or nil when the feature is off.
func (c *Container) LocalizerService() localizer.Service {
	return c.localizerSvc
}

// SettingsService returns the settings admin service, or nil when the feature is off.
func (c *Container) SettingsService() *settings.Service {
	return c.settingsSvc
}

// SettingsState exposes the live enforcement settings.
func (c *Container) SettingsState() *translationconfig.State {
	return c.settingsState
}

// AuditRecorder exposes the recorder behind settings changes.
func (c *Container) AuditRecorder() audit.Recorder {
	return c.recorder
}

// ImportHandler returns the import command handler.
func (c *Container) ImportHandler() *translationscmd.ImportHandler {
	return c.importHandler
}

// ExportHandler returns the export command handler.
func (c *Container) ExportHandler() *translationscmd.ExportHandler {
	return c.exportHandler
}

// RollbackHandler returns the rollback command handler.
func (c *Container) RollbackHandler() *translationscmd.RollbackHandler {
	return c.rollbackHandler
}
