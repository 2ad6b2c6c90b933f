package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-translations/pkg/interfaces"
)

const (
	rootModule      = "translations"
	serviceModule   = "translations.service"
	localizerModule = "translations.localizer"
	httpModule      = "translations.http"
	commandsModule  = "translations.commands"
	storageModule   = "translations.storage"
)

const (
	fieldTranslationKey = "translation_key"
	fieldNamespace      = "namespace"
	fieldActor          = "actor_id"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields the
// no-op logger. The module name is always attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RootLogger returns the logger for process-level events.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// ServiceLogger returns the logger used by the translation service.
func ServiceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, serviceModule)
}

// LocalizerLogger returns the logger used by the content localizer.
func LocalizerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localizerModule)
}

// HTTPLogger returns the logger used by the REST adapter and middleware.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// StorageLogger returns the logger used while opening and migrating storage.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithTranslationContext attaches the translation key, namespace and actor
// to logger. Empty values are skipped.
func WithTranslationContext(logger interfaces.Logger, key, namespace, actor string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(key); trimmed != "" {
		fields[fieldTranslationKey] = trimmed
	}
	if trimmed := strings.TrimSpace(namespace); trimmed != "" {
		fields[fieldNamespace] = trimmed
	}
	if trimmed := strings.TrimSpace(actor); trimmed != "" {
		fields[fieldActor] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
