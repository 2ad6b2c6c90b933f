package localizer

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-translations/internal/domain"
)

func TestLocalizeWalksNestedValues(t *testing.T) {
	input := map[string]any{
		"name": map[string]any{"en": "Tomato", "ne": "गोलभेडा"},
		"sections": []any{
			map[string]any{"heading": map[string]any{"en": "Fresh", "ne": ""}},
			map[string]any{"heading": map[string]any{"en": "Organic"}},
		},
		"price": 40.5,
		"meta":  map[string]any{"en": "x", "extra": true},
	}

	got := Localize(input, domain.LanguageNepali)
	want := map[string]any{
		"name": "गोलभेडा",
		"sections": []any{
			map[string]any{"heading": "Fresh"},
			map[string]any{"heading": "Organic"},
		},
		"price": 40.5,
		"meta":  map[string]any{"en": "x", "extra": true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected localization:\n got %#v\nwant %#v", got, want)
	}
}

func TestLocalizeEnglishAndScalars(t *testing.T) {
	got := Localize(map[string]any{"en": "Save", "ne": "सेभ"}, domain.LanguageEnglish)
	if got != "Save" {
		t.Fatalf("expected English text, got %#v", got)
	}
	if got := Localize("plain", domain.LanguageNepali); got != "plain" {
		t.Fatalf("expected scalar passthrough, got %#v", got)
	}
	if got := Localize(nil, domain.LanguageNepali); got != nil {
		t.Fatalf("expected nil passthrough, got %#v", got)
	}
}

func TestLocalizeRejectsNonStringLeaves(t *testing.T) {
	leaf := map[string]any{"en": 12.0, "ne": "बाह्र"}
	got := Localize(leaf, domain.LanguageNepali)
	if !reflect.DeepEqual(got, leaf) {
		t.Fatalf("expected map with non-string en to stay a map, got %#v", got)
	}
	empty := map[string]any{}
	if got := Localize(empty, domain.LanguageEnglish); !reflect.DeepEqual(got, empty) {
		t.Fatalf("expected empty map to stay a map, got %#v", got)
	}
}

func TestLocalizeNormalisesStructs(t *testing.T) {
	product := &Product{
		Name:        MultilingualField{EN: "Rice", NE: "चामल"},
		Description: MultilingualField{EN: "Long grain"},
		Tags:        []string{"grain"},
	}
	got, ok := Localize(product, domain.LanguageNepali).(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", got)
	}
	if got["name"] != "चामल" {
		t.Fatalf("expected Nepali name, got %#v", got["name"])
	}
	if got["description"] != "Long grain" {
		t.Fatalf("expected English fallback, got %#v", got["description"])
	}
	if tags, _ := got["tags"].([]any); len(tags) != 1 || tags[0] != "grain" {
		t.Fatalf("unexpected tags %#v", got["tags"])
	}
}

func TestSearchColumns(t *testing.T) {
	got := searchColumns(ContentMayor, domain.LanguageNepali)
	if !reflect.DeepEqual(got, []string{"heading_ne", "text_ne"}) {
		t.Fatalf("unexpected columns %v", got)
	}
	got = searchColumns(ContentProduct, "")
	want := []string{"name_en", "name_ne", "description_en", "description_ne"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected columns %v", got)
	}
}

func TestAssignFallsBackToAvailableSlot(t *testing.T) {
	body := "Fresh from the hills"
	product := &Product{}
	assign(product, domain.LanguageEnglish, nil, nil, &body)
	if product.Description.EN != body {
		t.Fatalf("expected body to land in description, got %q", product.Description.EN)
	}

	desc := "Office hours"
	msg := &MayorMessage{}
	assign(msg, domain.LanguageNepali, nil, &desc, nil)
	if msg.Text.NE != desc {
		t.Fatalf("expected description to land in text, got %q", msg.Text.NE)
	}
}
