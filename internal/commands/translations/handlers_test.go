package translationscmd_test

import (
	"context"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	translationscmd "github.com/goliatone/go-translations/internal/commands/translations"
	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/translations"
)

const sampleCSV = "key,namespace,en,ne,context,isRequired\n" +
	"common.buttons.save,common,Save,सेभ,Primary save button,true\n" +
	"auth.login.title,auth,Sign in,,,false\n"

func TestImportHandlerFillsResult(t *testing.T) {
	svc := translations.NewService(translations.NewMemoryStore())
	handler := translationscmd.NewImportHandler(svc, nil)

	var result translations.ImportResult
	err := handler.Execute(context.Background(), translationscmd.ImportTranslationsCommand{
		Format: "CSV",
		Data:   []byte(sampleCSV),
		Result: &result,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Success || result.Imported != 2 || result.Created != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	record, err := svc.GetTranslationKeys(context.Background(), translations.ListKeysRequest{Search: "sign in"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if record.Total != 1 {
		t.Fatalf("expected imported key to be listed, got %d", record.Total)
	}
}

func TestImportCommandValidation(t *testing.T) {
	cases := map[string]translationscmd.ImportTranslationsCommand{
		"missing format": {Data: []byte(sampleCSV)},
		"unknown format": {Format: "xml", Data: []byte("<x/>")},
		"empty document": {Format: "json"},
		"too large":      {Format: "json", Data: make([]byte, translationscmd.MaxImportBytes+1)},
	}
	svc := translations.NewService(translations.NewMemoryStore())
	handler := translationscmd.NewImportHandler(svc, nil)
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			err := handler.Execute(context.Background(), cmd)
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
			if !domain.Is(err, domain.KindValidation) {
				t.Fatalf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestExportHandler(t *testing.T) {
	svc := translations.NewService(translations.NewMemoryStore())
	ctx := context.Background()
	if _, err := svc.CreateTranslation(ctx, translations.CreateKeyRequest{
		Key:          "common.buttons.save",
		Namespace:    "common",
		Translations: translations.Translations{EN: "Save"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := translationscmd.NewExportHandler(svc, nil)
	var export translations.Export
	if err := handler.Execute(ctx, translationscmd.ExportTranslationsCommand{Format: "csv", Result: &export}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(export.ContentType, "text/csv") {
		t.Fatalf("unexpected content type %q", export.ContentType)
	}
	if !strings.Contains(string(export.Data), "common.buttons.save,common,Save") {
		t.Fatalf("unexpected export body %q", export.Data)
	}

	err := handler.Execute(ctx, translationscmd.ExportTranslationsCommand{Format: "yaml"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestRollbackHandler(t *testing.T) {
	svc := translations.NewService(translations.NewMemoryStore())
	ctx := context.Background()
	if _, err := svc.CreateTranslation(ctx, translations.CreateKeyRequest{
		Key:          "common.buttons.save",
		Namespace:    "common",
		Translations: translations.Translations{EN: "Save"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	en := "Store"
	if _, err := svc.UpdateTranslation(ctx, "common.buttons.save", translations.TranslationsPatch{EN: &en}, uuid.Nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	handler := translationscmd.NewRollbackHandler(svc, nil)
	var restored translations.TranslationKey
	err := handler.Execute(ctx, translationscmd.RollbackTranslationCommand{
		Key:     "common.buttons.save",
		Version: 1,
		Reason:  "typo",
		Result:  &restored,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if restored.Translations.EN != "Save" {
		t.Fatalf("expected rollback to restore English text, got %q", restored.Translations.EN)
	}

	err = handler.Execute(ctx, translationscmd.RollbackTranslationCommand{Key: "common.buttons.save", Version: 9})
	if !domain.Is(err, domain.KindNotFound) {
		t.Fatalf("expected not found for missing version, got %v", err)
	}

	err = handler.Execute(ctx, translationscmd.RollbackTranslationCommand{Key: "common.buttons.save"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category for version 0, got %v", err)
	}
}
