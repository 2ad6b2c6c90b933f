package translationscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/translations"
)

const (
	importMessageType   = "translations.import"
	exportMessageType   = "translations.export"
	rollbackMessageType = "translations.rollback"
)

// MaxImportBytes caps the size of an import document.
const MaxImportBytes = 10 << 20

var formats = []any{string(translations.FormatJSON), string(translations.FormatCSV)}

// ImportTranslationsCommand upserts translation keys from a JSON or CSV document.
type ImportTranslationsCommand struct {
	Format  string    `json:"format"`
	Data    []byte    `json:"-"`
	ActorID uuid.UUID `json:"actor_id,omitempty"`
	// Result receives the import summary when set.
	Result *translations.ImportResult `json:"-"`
}

// Type implements command.Message.
func (ImportTranslationsCommand) Type() string { return importMessageType }

// Validate checks the format and the document size.
func (cmd ImportTranslationsCommand) Validate() error {
	format := strings.ToLower(strings.TrimSpace(cmd.Format))
	return validation.Errors{
		"format": validation.Validate(format, validation.Required, validation.In(formats...).Error("must be json or csv")),
		"data": validation.Validate(cmd.Data,
			validation.Required.Error("import document is empty"),
			validation.Length(0, MaxImportBytes).Error("import document exceeds 10MB"),
		),
	}.Filter()
}

// ExportTranslationsCommand renders every key in the requested format.
type ExportTranslationsCommand struct {
	Format string `json:"format"`
	// Result receives the rendered export when set.
	Result *translations.Export `json:"-"`
}

// Type implements command.Message.
func (ExportTranslationsCommand) Type() string { return exportMessageType }

// Validate checks the format.
func (cmd ExportTranslationsCommand) Validate() error {
	format := strings.ToLower(strings.TrimSpace(cmd.Format))
	return validation.Errors{
		"format": validation.Validate(format, validation.In(formats...).Error("must be json or csv")),
	}.Filter()
}

// RollbackTranslationCommand restores a key to a stored version.
type RollbackTranslationCommand struct {
	Key     string    `json:"key"`
	Version int       `json:"version"`
	ActorID uuid.UUID `json:"actor_id,omitempty"`
	Reason  string    `json:"reason,omitempty"`
	// Result receives the restored key when set.
	Result *translations.TranslationKey `json:"-"`
}

// Type implements command.Message.
func (RollbackTranslationCommand) Type() string { return rollbackMessageType }

// Validate requires a key and a positive version.
func (cmd RollbackTranslationCommand) Validate() error {
	return validation.Errors{
		"key":     validation.Validate(strings.TrimSpace(cmd.Key), validation.Required),
		"version": validation.Validate(cmd.Version, validation.Required, validation.Min(1)),
	}.Filter()
}
