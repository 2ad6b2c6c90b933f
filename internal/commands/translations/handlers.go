package translationscmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-translations/internal/commands"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/translations"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

const (
	importOperation   = "translations.import"
	exportOperation   = "translations.export"
	rollbackOperation = "translations.rollback"
)

var (
	_ command.Commander[ImportTranslationsCommand]  = (*ImportHandler)(nil)
	_ command.Commander[ExportTranslationsCommand]  = (*ExportHandler)(nil)
	_ command.Commander[RollbackTranslationCommand] = (*RollbackHandler)(nil)
)

// ImportHandler runs translation imports through the shared command handler.
type ImportHandler struct {
	inner *commands.Handler[ImportTranslationsCommand]
}

// NewImportHandler binds an import handler to service.
func NewImportHandler(service translations.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ImportTranslationsCommand]) *ImportHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg ImportTranslationsCommand) error {
		format, err := translations.ParseFormat(msg.Format)
		if err != nil {
			return err
		}
		result, err := service.ImportTranslations(ctx, msg.Data, format, msg.ActorID)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"imported_count":  result.Imported,
			"created_count":   result.Created,
			"updated_count":   result.Updated,
			"unchanged_count": result.Unchanged,
			"error_count":     len(result.Errors),
			"warning_count":   len(result.Warnings),
		}).Info("translations.command.import.completed")
		if msg.Result != nil {
			*msg.Result = *result
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportTranslationsCommand]{
		commands.WithLogger[ImportTranslationsCommand](baseLogger),
		commands.WithOperation[ImportTranslationsCommand](importOperation),
		commands.WithMessageFields(func(msg ImportTranslationsCommand) map[string]any {
			return map[string]any{
				"format":     msg.Format,
				"size_bytes": len(msg.Data),
				"actor_id":   msg.ActorID.String(),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportTranslationsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportTranslationsCommand].
func (h *ImportHandler) Execute(ctx context.Context, msg ImportTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportHandler renders translation exports.
type ExportHandler struct {
	inner *commands.Handler[ExportTranslationsCommand]
}

// NewExportHandler binds an export handler to service.
func NewExportHandler(service translations.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ExportTranslationsCommand]) *ExportHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg ExportTranslationsCommand) error {
		format, err := translations.ParseFormat(msg.Format)
		if err != nil {
			return err
		}
		export, err := service.ExportTranslations(ctx, format)
		if err != nil {
			return err
		}
		if msg.Result != nil {
			*msg.Result = *export
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportTranslationsCommand]{
		commands.WithLogger[ExportTranslationsCommand](baseLogger),
		commands.WithOperation[ExportTranslationsCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportTranslationsCommand) map[string]any {
			return map[string]any{"format": msg.Format}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportTranslationsCommand].
func (h *ExportHandler) Execute(ctx context.Context, msg ExportTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RollbackHandler restores keys to earlier versions.
type RollbackHandler struct {
	inner *commands.Handler[RollbackTranslationCommand]
}

// NewRollbackHandler binds a rollback handler to service.
func NewRollbackHandler(service translations.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RollbackTranslationCommand]) *RollbackHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg RollbackTranslationCommand) error {
		record, err := service.RollbackTranslation(ctx, translations.RollbackRequest{
			Key:     msg.Key,
			Version: msg.Version,
			Actor:   msg.ActorID,
			Reason:  msg.Reason,
		})
		if err != nil {
			return err
		}
		if msg.Result != nil {
			*msg.Result = *record
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RollbackTranslationCommand]{
		commands.WithLogger[RollbackTranslationCommand](baseLogger),
		commands.WithOperation[RollbackTranslationCommand](rollbackOperation),
		commands.WithMessageFields(func(msg RollbackTranslationCommand) map[string]any {
			return map[string]any{
				"translation_key": msg.Key,
				"version":         msg.Version,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RollbackTranslationCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RollbackHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RollbackTranslationCommand].
func (h *RollbackHandler) Execute(ctx context.Context, msg RollbackTranslationCommand) error {
	return h.inner.Execute(ctx, msg)
}
