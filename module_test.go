package translations_test

import (
	"context"
	"errors"
	"testing"

	translations "github.com/goliatone/go-translations"
	"github.com/goliatone/go-translations/internal/domain"
)

func TestConfigValidatePostgresRequiresDSN(t *testing.T) {
	cfg := translations.DefaultConfig()
	cfg.Storage.Driver = "postgres"
	if err := cfg.Validate(); !errors.Is(err, translations.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestModuleServesTranslations(t *testing.T) {
	module, err := translations.New(translations.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	svc := module.Translations()
	if _, err := svc.CreateTranslation(ctx, translations.CreateKeyRequest{
		Key:          "common.hello",
		Namespace:    "common",
		Translations: translations.Translations{EN: "Hello"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	tree, err := svc.GetTranslations(ctx, domain.LanguageNepali, "common")
	if err != nil {
		t.Fatalf("get translations: %v", err)
	}
	if tree["hello"] != "Hello" {
		t.Fatalf("expected english fallback, got %#v", tree)
	}
	if module.Localizer() == nil || module.SettingsAdmin() == nil {
		t.Fatalf("expected default features to be wired")
	}
}
