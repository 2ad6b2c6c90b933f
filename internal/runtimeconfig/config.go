package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var ErrStorageDriverUnknown = errors.New("translations config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("translations config: postgres storage requires a dsn")
var ErrCacheTTLInvalid = errors.New("translations config: cache ttl must be positive when cache is enabled")
var ErrHTTPAddrRequired = errors.New("translations config: http address is required")
var ErrHTTPTimeoutInvalid = errors.New("translations config: http timeouts must be zero or positive")
var ErrUploadLimitInvalid = errors.New("translations config: max upload bytes must be positive")

// ErrAuthSecretRequired keeps protected routes from running with an empty signing key.
var ErrAuthSecretRequired = errors.New("translations config: auth secret is required when auth is enabled")
var ErrLoggingProviderRequired = errors.New("translations config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("translations config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("translations config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("translations config: logging format is invalid")

// Config aggregates the runtime settings of the translation service.
type Config struct {
	Storage      StorageConfig      `toml:"storage"`
	Cache        CacheConfig        `toml:"cache"`
	Logging      LoggingConfig      `toml:"logging"`
	HTTP         HTTPConfig         `toml:"http"`
	Auth         AuthConfig         `toml:"auth"`
	Translations TranslationsConfig `toml:"translations"`
	Features     Features           `toml:"features"`
}

// StorageConfig selects the database. Driver is sqlite or postgres.
type StorageConfig struct {
	Driver       string `toml:"driver"`
	DSN          string `toml:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns"`
	AutoMigrate  bool   `toml:"auto_migrate"`
}

// CacheConfig captures cache behaviour toggles for content lookups.
type CacheConfig struct {
	Enabled    bool          `toml:"enabled"`
	DefaultTTL time.Duration `toml:"default_ttl"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider"`
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// HTTPConfig configures the REST server.
type HTTPConfig struct {
	Addr            string        `toml:"addr"`
	BasePath        string        `toml:"base_path"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxUploadBytes  int64         `toml:"max_upload_bytes"`
}

// AuthConfig configures bearer token verification for protected routes.
type AuthConfig struct {
	Enabled  bool          `toml:"enabled"`
	Secret   string        `toml:"secret"`
	Issuer   string        `toml:"issuer"`
	Audience string        `toml:"audience"`
	Leeway   time.Duration `toml:"leeway"`
}

// TranslationsConfig seeds the enforcement settings when none are stored.
type TranslationsConfig struct {
	EnforceRequired   bool `toml:"enforce_required"`
	FallbackToEnglish bool `toml:"fallback_to_english"`
}

// Features toggles optional modules.
type Features struct {
	Localizer bool `toml:"localizer"`
	Settings  bool `toml:"settings"`
	Logger    bool `toml:"logger"`
}

// DefaultConfig returns defaults suitable for local development: in-memory
// SQLite, console logging, auth disabled.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:      "sqlite",
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  10 << 20,
		},
		Auth: AuthConfig{
			Leeway: 30 * time.Second,
		},
		Translations: TranslationsConfig{
			FallbackToEnglish: true,
		},
		Features: Features{
			Localizer: true,
			Settings:  true,
		},
	}
}

// LoadFile decodes a TOML file on top of DefaultConfig and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("translations config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML text on top of DefaultConfig and validates the result.
func Decode(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("translations config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalizeDriver(cfg.Storage.Driver) {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 || cfg.HTTP.ShutdownTimeout < 0 {
		return ErrHTTPTimeoutInvalid
	}
	if cfg.HTTP.MaxUploadBytes <= 0 {
		return ErrUploadLimitInvalid
	}
	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.Secret) == "" {
		return ErrAuthSecretRequired
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
