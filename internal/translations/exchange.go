package translations

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-translations/internal/domain"
)

// Format names an import/export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat normalises a format name; blank input resolves to JSON.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", domain.Validationf("Unsupported export format: %s", strings.TrimSpace(value))
	}
}

var csvHeader = []string{"key", "namespace", "en", "ne", "context", "isRequired"}

// ExportRecord is one key in an export document.
type ExportRecord struct {
	Key        string `json:"key"`
	Namespace  string `json:"namespace"`
	EN         string `json:"en"`
	NE         string `json:"ne"`
	Context    string `json:"context"`
	IsRequired bool   `json:"isRequired"`
}

type exportDocument struct {
	ExportDate   string         `json:"exportDate"`
	Translations []ExportRecord `json:"translations"`
}

// Export is an encoded set of translations ready to be served as a download.
type Export struct {
	ContentType string
	Filename    string
	Data        []byte
}

// ImportIssue points at the CSV line, or the 1-based JSON item, that produced
// a warning or error.
type ImportIssue struct {
	Line    int    `json:"line"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

func (i ImportIssue) String() string {
	if i.Key != "" {
		return fmt.Sprintf("line %d (%s): %s", i.Line, i.Key, i.Message)
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// ImportResult summarises an import. Imported counts every valid row,
// including rows that matched the stored state.
type ImportResult struct {
	Success   bool          `json:"success"`
	Imported  int           `json:"imported"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Errors    []ImportIssue `json:"errors"`
	Warnings  []ImportIssue `json:"warnings"`
}

func (r *ImportResult) fail(line int, key, message string) {
	r.Errors = append(r.Errors, ImportIssue{Line: line, Key: key, Message: message})
}

func (r *ImportResult) warn(line int, key, message string) {
	r.Warnings = append(r.Warnings, ImportIssue{Line: line, Key: key, Message: message})
}

// importRow carries the fields a row provided. Nil pointers are left untouched
// on existing keys.
type importRow struct {
	Line       int
	Key        string
	Namespace  string
	EN         *string
	NE         *string
	Context    *string
	IsRequired *bool
}

func (s *service) ExportTranslations(ctx context.Context, format Format) (*Export, error) {
	if format != FormatJSON && format != FormatCSV {
		return nil, domain.Validationf("Unsupported export format: %s", format)
	}
	keys, _, err := s.store.Keys().List(ctx, KeyFilter{})
	if err != nil {
		return nil, err
	}
	records := make([]ExportRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, ExportRecord{
			Key:        key.Key,
			Namespace:  string(key.Namespace),
			EN:         key.Translations.EN,
			NE:         key.Translations.NE,
			Context:    key.Context,
			IsRequired: key.IsRequired,
		})
	}

	now := s.now().UTC()
	filename := "translations-" + now.Format("2006-01-02") + "." + string(format)
	if format == FormatCSV {
		data, err := encodeCSV(records)
		if err != nil {
			return nil, domain.Internal("encode csv export", err)
		}
		return &Export{ContentType: "text/csv; charset=utf-8", Filename: filename, Data: data}, nil
	}

	data, err := json.MarshalIndent(exportDocument{
		ExportDate:   now.Format("2006-01-02T15:04:05.000Z07:00"),
		Translations: records,
	}, "", "  ")
	if err != nil {
		return nil, domain.Internal("encode json export", err)
	}
	return &Export{ContentType: "application/json", Filename: filename, Data: data}, nil
}

func encodeCSV(records []ExportRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write([]string{r.Key, r.Namespace, r.EN, r.NE, r.Context, strconv.FormatBool(r.IsRequired)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *service) ImportTranslations(ctx context.Context, data []byte, format Format, actor uuid.UUID) (*ImportResult, error) {
	result := &ImportResult{Errors: []ImportIssue{}, Warnings: []ImportIssue{}}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var (
		rows []importRow
		err  error
	)
	switch format {
	case FormatJSON:
		rows, err = parseJSONRows(data, result)
	case FormatCSV:
		rows, err = parseCSVRows(data, result)
	default:
		return nil, domain.Validationf("Unsupported import format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	actor = s.actor(actor)
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.applyRow(ctx, row, actor, result)
	}

	result.Success = len(result.Errors) == 0
	s.logger.Info("translations.import.completed",
		"format", string(format),
		"imported", result.Imported,
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *service) applyRow(ctx context.Context, row importRow, actor uuid.UUID, result *ImportResult) {
	key := strings.TrimSpace(row.Key)
	if key == "" {
		result.fail(row.Line, "", "key is required")
		return
	}
	namespace := strings.TrimSpace(row.Namespace)
	if namespace == "" {
		namespace = string(domain.NamespaceFromKey(key))
		result.warn(row.Line, key, fmt.Sprintf("namespace missing, derived %q from key", namespace))
	}

	unlock := s.locks.lock(key)
	defer unlock()

	existing, err := s.store.Keys().GetByKey(ctx, key)
	switch {
	case err == nil:
	case domain.Is(err, domain.KindNotFound):
		existing = nil
	default:
		result.fail(row.Line, key, err.Error())
		return
	}

	if existing == nil {
		req := CreateKeyRequest{Key: key, Namespace: namespace, Actor: actor}
		if row.EN != nil {
			req.Translations.EN = *row.EN
		}
		if row.NE != nil {
			req.Translations.NE = *row.NE
		}
		if row.Context != nil {
			req.Context = *row.Context
		}
		if row.IsRequired != nil {
			req.IsRequired = *row.IsRequired
		}
		record, err := s.createLocked(ctx, req, "Imported")
		if err != nil {
			result.fail(row.Line, key, err.Error())
			return
		}
		result.Created++
		result.Imported++
		s.warnRequired(row.Line, record, result)
		return
	}

	before := *existing
	updated := existing
	updated.Namespace = domain.Namespace(namespace)
	if row.EN != nil {
		updated.Translations.EN = strings.TrimSpace(*row.EN)
	}
	if row.NE != nil {
		updated.Translations.NE = strings.TrimSpace(*row.NE)
	}
	if row.Context != nil {
		updated.Context = strings.TrimSpace(*row.Context)
	}
	if row.IsRequired != nil {
		updated.IsRequired = *row.IsRequired
	}
	if sameContent(&before, updated) {
		result.Unchanged++
		result.Imported++
		return
	}
	record, err := s.save(ctx, updated, actor, "Imported")
	if err != nil {
		result.fail(row.Line, key, err.Error())
		return
	}
	result.Updated++
	result.Imported++
	s.warnRequired(row.Line, record, result)
}

func (s *service) warnRequired(line int, record *TranslationKey, result *ImportResult) {
	if record.IsRequired && record.Translations.NE == "" {
		result.warn(line, record.Key, "required key has no Nepali translation")
	}
}

func sameContent(a, b *TranslationKey) bool {
	return a.Namespace == b.Namespace &&
		a.Translations == b.Translations &&
		a.Context == b.Context &&
		a.IsRequired == b.IsRequired
}

func parseCSVRows(data []byte, result *ImportResult) ([]importRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.Validationf("CSV file is empty")
		}
		return nil, domain.Validation("CSV header could not be read", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["key"]; !ok {
		return nil, domain.Validationf("CSV header must include a key column")
	}

	var rows []importRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.fail(parseErr.StartLine, "", parseErr.Err.Error())
				continue
			}
			return nil, domain.Validation("CSV could not be read", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, csvRow(line, record, columns))
	}
	return rows, nil
}

func csvRow(line int, record []string, columns map[string]int) importRow {
	cell := func(name string) (string, bool) {
		idx, ok := columns[strings.ToLower(name)]
		if !ok || idx >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[idx]), true
	}
	optional := func(name string) *string {
		if value, ok := cell(name); ok && value != "" {
			return &value
		}
		return nil
	}

	row := importRow{Line: line}
	row.Key, _ = cell("key")
	row.Namespace, _ = cell("namespace")
	row.EN = optional("en")
	row.NE = optional("ne")
	row.Context = optional("context")
	if raw, ok := cell("isRequired"); ok && raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			row.IsRequired = &parsed
		}
	}
	return row
}

//go:embed schemas/import.schema.json
var schemaFS embed.FS

var importSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/import.schema.json")
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("import.schema.json", bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile("import.schema.json")
})

type jsonItem struct {
	Key        string  `json:"key"`
	Namespace  string  `json:"namespace"`
	EN         *string `json:"en"`
	NE         *string `json:"ne"`
	Context    *string `json:"context"`
	IsRequired any     `json:"isRequired"`
}

// parseJSONRows validates the document against the import schema. Schema
// violations inside an item reject only that item.
func parseJSONRows(data []byte, result *ImportResult) ([]importRow, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, domain.Validation("Invalid JSON document", err)
	}

	schema, err := importSchema()
	if err != nil {
		return nil, domain.Internal("compile import schema", err)
	}
	rejected := map[int]bool{}
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, domain.Validation("Invalid import document", err)
		}
		for _, issue := range leafIssues(validationErr) {
			index, ok := itemIndex(issue.InstanceLocation)
			if !ok {
				return nil, domain.Validationf("Invalid import document: translations array is required")
			}
			if !rejected[index] {
				rejected[index] = true
				result.fail(index+1, "", fmt.Sprintf("%s: %s", issue.InstanceLocation, issue.Message))
			}
		}
	}

	var doc struct {
		Translations []json.RawMessage `json:"translations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.Validation("Invalid import document", err)
	}

	rows := make([]importRow, 0, len(doc.Translations))
	for i, raw := range doc.Translations {
		if rejected[i] {
			continue
		}
		var item jsonItem
		if err := json.Unmarshal(raw, &item); err != nil {
			result.fail(i+1, "", err.Error())
			continue
		}
		row := importRow{
			Line:      i + 1,
			Key:       item.Key,
			Namespace: item.Namespace,
			EN:        nonEmpty(item.EN),
			NE:        nonEmpty(item.NE),
			Context:   nonEmpty(item.Context),
		}
		switch v := item.IsRequired.(type) {
		case bool:
			row.IsRequired = &v
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				row.IsRequired = &parsed
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func leafIssues(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if err == nil {
		return nil
	}
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		out = append(out, leafIssues(cause)...)
	}
	return out
}

// itemIndex extracts N from "/translations/N/...".
func itemIndex(location string) (int, bool) {
	rest, ok := strings.CutPrefix(location, "/translations/")
	if !ok {
		return 0, false
	}
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	index, err := strconv.Atoi(rest)
	return index, err == nil
}

func nonEmpty(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
