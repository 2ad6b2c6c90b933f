package translations_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/translations"
	"github.com/goliatone/go-translations/pkg/testsupport"
)

func seedExchange(t *testing.T, svc translations.Service) {
	t.Helper()
	ctx := context.Background()
	reqs := []translations.CreateKeyRequest{
		{Key: "common.buttons.save", Namespace: "common", Translations: translations.Translations{EN: "Save", NE: "सेभ गर्नुहोस्"}, IsRequired: true},
		{Key: "common.buttons.cancel", Namespace: "common", Translations: translations.Translations{EN: `Cancel, "now"`}, Context: "Cancel button, dialogs"},
		{Key: "products.card.unit", Namespace: "products", Translations: translations.Translations{EN: "per kg", NE: "प्रति केजी"}},
	}
	for _, req := range reqs {
		if _, err := svc.CreateTranslation(ctx, req); err != nil {
			t.Fatalf("seed %s: %v", req.Key, err)
		}
	}
}

func TestExportJSONShape(t *testing.T) {
	svc := newService(translations.NewMemoryStore())
	seedExchange(t, svc)

	export, err := svc.ExportTranslations(context.Background(), translations.FormatJSON)
	if err != nil {
		t.Fatalf("ExportTranslations: %v", err)
	}
	if export.ContentType != "application/json" || !strings.HasSuffix(export.Filename, ".json") {
		t.Fatalf("unexpected export metadata %+v", export)
	}

	var doc struct {
		ExportDate   string                      `json:"exportDate"`
		Translations []translations.ExportRecord `json:"translations"`
	}
	if err := json.Unmarshal(export.Data, &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.ExportDate == "" || len(doc.Translations) != 3 {
		t.Fatalf("unexpected export document %+v", doc)
	}
	if doc.Translations[0].Key != "common.buttons.cancel" || doc.Translations[0].Context != "Cancel button, dialogs" {
		t.Fatalf("expected key ordering, got %+v", doc.Translations[0])
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newService(translations.NewMemoryStore())
	_, err := svc.ExportTranslations(context.Background(), translations.Format("xml"))
	if !domain.Is(err, domain.KindValidation) || err.Error() != "Unsupported export format: xml" {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestJSONRoundTripIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, store translations.Store) {
		svc := newService(store)
		seedExchange(t, svc)
		ctx := context.Background()

		export, err := svc.ExportTranslations(ctx, translations.FormatJSON)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		result, err := svc.ImportTranslations(ctx, export.Data, translations.FormatJSON, uuid.Nil)
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if !result.Success || result.Imported != 3 || result.Created != 0 || result.Updated != 0 || result.Unchanged != 3 {
			t.Fatalf("expected an idempotent re-import, got %+v", result)
		}

		history, err := svc.GetTranslationHistory(ctx, "common.buttons.save", 0)
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("unchanged rows must not write history, got %d entries", len(history))
		}
	})
}

func TestCSVRoundTripPreservesQuoting(t *testing.T) {
	source := newService(translations.NewMemoryStore())
	seedExchange(t, source)
	ctx := context.Background()

	export, err := source.ExportTranslations(ctx, translations.FormatCSV)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(string(export.Data), "key,namespace,en,ne,context,isRequired\n") {
		t.Fatalf("unexpected csv header %q", string(export.Data))
	}
	if !strings.Contains(string(export.Data), `"Cancel, ""now"""`) {
		t.Fatalf("expected RFC 4180 quoting, got %s", export.Data)
	}

	target := newService(translations.NewMemoryStore())
	result, err := target.ImportTranslations(ctx, export.Data, translations.FormatCSV, uuid.Nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.Success || result.Created != 3 {
		t.Fatalf("unexpected import result %+v", result)
	}

	page, err := target.GetTranslationKeys(ctx, translations.ListKeysRequest{Search: "cancel"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Keys) != 1 || page.Keys[0].Translations.EN != `Cancel, "now"` || page.Keys[0].Context != "Cancel button, dialogs" {
		t.Fatalf("values were not preserved: %+v", page.Keys)
	}
	save, err := target.GetTranslationKeys(ctx, translations.ListKeysRequest{Search: "buttons.save"})
	if err != nil || len(save.Keys) != 1 || !save.Keys[0].IsRequired {
		t.Fatalf("expected isRequired to survive the round trip, got %+v %v", save, err)
	}
}

func TestCSVImportReportsMalformedRow(t *testing.T) {
	data, err := testsupport.LoadFixture("testdata/malformed.csv")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	svc := newService(translations.NewMemoryStore())

	result, err := svc.ImportTranslations(context.Background(), data, translations.FormatCSV, uuid.Nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Success || result.Imported != 2 {
		t.Fatalf("expected two valid rows and a failure, got %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Line != 4 {
		t.Fatalf("expected one error on line 4, got %+v", result.Errors)
	}

	page, err := svc.GetTranslationKeys(context.Background(), translations.ListKeysRequest{Search: "buttons.cancel"})
	if err != nil || len(page.Keys) != 1 {
		t.Fatalf("expected cancel row imported, got %+v %v", page, err)
	}
	if page.Keys[0].Translations.NE != `रद्द "गर्नुहोस्"` {
		t.Fatalf("unexpected nepali value %q", page.Keys[0].Translations.NE)
	}
}

func TestJSONImportRowErrorsDoNotAbort(t *testing.T) {
	svc := newService(translations.NewMemoryStore())
	doc := `{"translations":[
		{"key":"auth.login.title","en":"Login"},
		{"key":"auth.login.submit","namespace":"auth","en":42},
		{"key":"auth.login.help","namespace":"common","en":"Help"}
	]}`

	result, err := svc.ImportTranslations(context.Background(), []byte(doc), translations.FormatJSON, uuid.Nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Success || result.Created != 1 {
		t.Fatalf("expected one created row, got %+v", result)
	}
	if len(result.Errors) != 2 || result.Errors[0].Line != 2 || result.Errors[1].Line != 3 {
		t.Fatalf("expected errors for items 2 and 3, got %+v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Line != 1 {
		t.Fatalf("expected a derived namespace warning, got %+v", result.Warnings)
	}
}

func TestJSONImportRequiresTranslationsArray(t *testing.T) {
	svc := newService(translations.NewMemoryStore())
	for _, doc := range []string{`{"items":[]}`, `{"translations":{}}`, `not json`} {
		if _, err := svc.ImportTranslations(context.Background(), []byte(doc), translations.FormatJSON, uuid.Nil); !domain.Is(err, domain.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", doc, err)
		}
	}
}

func TestImportUpdatesChangedRows(t *testing.T) {
	svc := newService(translations.NewMemoryStore())
	seedExchange(t, svc)
	ctx := context.Background()

	doc := `{"translations":[{"key":"products.card.unit","namespace":"products","en":"per kilogram"}]}`
	result, err := svc.ImportTranslations(ctx, []byte(doc), translations.FormatJSON, uuid.Nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Updated != 1 || !result.Success {
		t.Fatalf("expected one update, got %+v", result)
	}
	history, err := svc.GetTranslationHistory(ctx, "products.card.unit", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Translations.NE != "प्रति केजी" || history[0].ChangeReason != "Imported" {
		t.Fatalf("expected update to keep the nepali value, got %+v", history[0])
	}
}
