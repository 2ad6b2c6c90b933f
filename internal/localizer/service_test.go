package localizer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/localizer"
	"github.com/goliatone/go-translations/internal/storage"
	"github.com/goliatone/go-translations/pkg/testsupport"
)

func forEachStore(t *testing.T, fn func(t *testing.T, store localizer.Store)) {
	t.Helper()
	factories := map[string]func(t *testing.T) localizer.Store{
		"memory": func(*testing.T) localizer.Store { return localizer.NewMemoryStore() },
		"bun": func(t *testing.T) localizer.Store {
			db := testsupport.NewBunDB(t)
			if err := storage.Migrate(context.Background(), db); err != nil {
				t.Fatalf("migrate: %v", err)
			}
			return localizer.NewBunStore(db)
		},
	}
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func newService(store localizer.Store) localizer.Service {
	tick := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return localizer.NewService(store, localizer.WithClock(clock))
}

func create(t *testing.T, svc localizer.Service, req localizer.ContentRequest) *localizer.MultilingualDocument {
	t.Helper()
	doc, err := svc.CreateMultilingualContent(context.Background(), req)
	if err != nil {
		t.Fatalf("create %s: %v", req.Metadata.Type, err)
	}
	return doc
}

func TestCreateProductDerivesSlug(t *testing.T) {
	forEachStore(t, func(t *testing.T, store localizer.Store) {
		svc := newService(store)
		doc := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Organic Tomatoes", Description: "Grown in Dhading", Tags: []string{"vegetable"}},
			NE:       &localizer.LanguageFields{Title: "अर्गानिक गोलभेडा", Tags: []string{"vegetable", "तरकारी"}},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentProduct, Price: 120, Unit: "kg"},
		})

		if doc.Type != localizer.ContentProduct {
			t.Fatalf("expected product, got %s", doc.Type)
		}
		if doc.Metadata["slug"] != "organic-tomatoes" {
			t.Fatalf("unexpected slug %#v", doc.Metadata["slug"])
		}
		if doc.Title.NE != "अर्गानिक गोलभेडा" || doc.Description.EN != "Grown in Dhading" {
			t.Fatalf("unexpected text %+v", doc)
		}
		if len(doc.Tags) != 2 || doc.Tags[1] != "तरकारी" {
			t.Fatalf("expected merged tags, got %v", doc.Tags)
		}

		localized, err := svc.GetLocalizedContent(context.Background(), localizer.ContentProduct, doc.ID.String(), domain.LanguageNepali, localizer.RenderOptions{})
		if err != nil {
			t.Fatalf("get localized: %v", err)
		}
		if localized["name"] != "अर्गानिक गोलभेडा" {
			t.Fatalf("expected Nepali name, got %#v", localized["name"])
		}
		if localized["description"] != "Grown in Dhading" {
			t.Fatalf("expected English fallback, got %#v", localized["description"])
		}
	})
}

func TestCreateRejectsInvalidRequests(t *testing.T) {
	svc := newService(localizer.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.CreateMultilingualContent(ctx, localizer.ContentRequest{
		EN:       localizer.LanguageFields{Title: "x"},
		Metadata: localizer.ContentMetadata{Type: "recipe"},
	})
	if !domain.Is(err, domain.KindValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}

	_, err = svc.CreateMultilingualContent(ctx, localizer.ContentRequest{
		Metadata: localizer.ContentMetadata{Type: localizer.ContentNews},
	})
	if !domain.Is(err, domain.KindValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}

	_, err = svc.CreateMultilingualContent(ctx, localizer.ContentRequest{
		EN:       localizer.LanguageFields{Title: "Notice"},
		Metadata: localizer.ContentMetadata{Type: localizer.ContentMayor, Priority: "URGENT"},
	})
	if !domain.Is(err, domain.KindValidation) {
		t.Fatalf("expected validation error for priority, got %v", err)
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, store localizer.Store) {
		svc := newService(store)
		ctx := context.Background()
		doc := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Road closure", Description: "Ward 4", Body: "The road is **closed**."},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentNews, Priority: domain.PriorityHigh},
		})

		ne := "सडक बन्द"
		updated, err := svc.UpdateMultilingualContent(ctx, doc.ID.String(), localizer.ContentPatch{
			NE: &localizer.FieldsPatch{Title: &ne},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title.NE != ne || updated.Title.EN != "Road closure" {
			t.Fatalf("unexpected title %+v", updated.Title)
		}
		if updated.Body.EN != "The road is **closed**." {
			t.Fatalf("body should be untouched, got %q", updated.Body.EN)
		}
		if !updated.UpdatedAt.After(doc.UpdatedAt) {
			t.Fatalf("expected updatedAt to advance")
		}

		localized, err := svc.GetLocalizedContent(ctx, localizer.ContentNews, doc.ID.String(), domain.LanguageNepali, localizer.RenderOptions{Format: localizer.FormatHTML})
		if err != nil {
			t.Fatalf("get localized: %v", err)
		}
		if localized["headline"] != ne {
			t.Fatalf("expected Nepali headline, got %#v", localized["headline"])
		}
		html, _ := localized["body_html"].(string)
		if !strings.Contains(html, "<strong>closed</strong>") {
			t.Fatalf("expected rendered body, got %q", html)
		}
	})
}

func TestUpdateErrors(t *testing.T) {
	forEachStore(t, func(t *testing.T, store localizer.Store) {
		svc := newService(store)
		ctx := context.Background()
		title := "New"

		_, err := svc.UpdateMultilingualContent(ctx, "not-a-uuid", localizer.ContentPatch{EN: &localizer.FieldsPatch{Title: &title}})
		if !domain.Is(err, domain.KindValidation) {
			t.Fatalf("expected validation for bad id, got %v", err)
		}

		_, err = svc.UpdateMultilingualContent(ctx, uuid.NewString(), localizer.ContentPatch{EN: &localizer.FieldsPatch{Title: &title}})
		if !domain.Is(err, domain.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}

		doc := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Sunset"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentGallery},
		})
		blank := " "
		_, err = svc.UpdateMultilingualContent(ctx, doc.ID.String(), localizer.ContentPatch{EN: &localizer.FieldsPatch{Title: &blank}})
		if !domain.Is(err, domain.KindValidation) {
			t.Fatalf("expected validation for blank title, got %v", err)
		}
		_, err = svc.UpdateMultilingualContent(ctx, doc.ID.String(), localizer.ContentPatch{})
		if !domain.Is(err, domain.KindValidation) {
			t.Fatalf("expected validation for empty patch, got %v", err)
		}
	})
}

func TestGetLocalizedContentWrongCollection(t *testing.T) {
	forEachStore(t, func(t *testing.T, store localizer.Store) {
		svc := newService(store)
		doc := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Sunset"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentGallery},
		})
		_, err := svc.GetLocalizedContent(context.Background(), localizer.ContentProduct, doc.ID.String(), domain.LanguageEnglish, localizer.RenderOptions{})
		if !domain.Is(err, domain.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestSearchRanksByPriorityThenRecency(t *testing.T) {
	forEachStore(t, func(t *testing.T, store localizer.Store) {
		svc := newService(store)
		ctx := context.Background()

		product := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Market tomatoes"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentProduct},
		})
		normal := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Tomato prices rise"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentNews},
		})
		high := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Office notice", Body: "Tomato subsidy announced"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentMayor, Priority: domain.PriorityHigh},
		})
		create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Potato harvest"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentGallery},
		})

		results, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "TOMATO"})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if results.Total != 3 {
			t.Fatalf("expected 3 hits, got %d", results.Total)
		}
		order := []uuid.UUID{high.ID, normal.ID, product.ID}
		scores := []float64{1.5, 1.2, 1.0}
		for i, hit := range results.Results {
			if hit.Document.ID != order[i] || hit.Score != scores[i] {
				t.Fatalf("hit %d: got %s (%.1f), want %s (%.1f)", i, hit.Document.ID, hit.Score, order[i], scores[i])
			}
		}

		limited, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "tomato", ContentType: localizer.ContentProduct, Limit: 1})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if limited.Total != 1 || limited.Results[0].Document.ID != product.ID {
			t.Fatalf("unexpected filtered results %+v", limited.Results)
		}
	})
}

func TestSearchLanguageAndDateFilters(t *testing.T) {
	forEachStore(t, func(t *testing.T, store localizer.Store) {
		svc := newService(store)
		ctx := context.Background()

		first := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Fresh milk"},
			NE:       &localizer.LanguageFields{Title: "ताजा दूध"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentProduct},
		})
		second := create(t, svc, localizer.ContentRequest{
			EN:       localizer.LanguageFields{Title: "Milk collection centre"},
			Metadata: localizer.ContentMetadata{Type: localizer.ContentGallery},
		})

		ne, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "दूध", Language: domain.LanguageNepali})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if ne.Total != 1 || ne.Results[0].Document.ID != first.ID {
			t.Fatalf("unexpected Nepali results %+v", ne.Results)
		}

		en, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "दूध", Language: domain.LanguageEnglish})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if en.Total != 0 {
			t.Fatalf("expected no English matches, got %+v", en.Results)
		}

		from := second.CreatedAt
		dated, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "milk", DateFrom: &from})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if dated.Total != 1 || dated.Results[0].Document.ID != second.ID {
			t.Fatalf("unexpected dated results %+v", dated.Results)
		}
	})
}

func TestSearchValidation(t *testing.T) {
	svc := newService(localizer.NewMemoryStore())
	ctx := context.Background()
	if _, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "  "}); !domain.Is(err, domain.KindValidation) {
		t.Fatalf("expected validation for blank query, got %v", err)
	}
	if _, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "x", Language: "fr"}); !domain.Is(err, domain.KindValidation) {
		t.Fatalf("expected validation for language, got %v", err)
	}
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	if _, err := svc.SearchMultilingualContent(ctx, localizer.SearchQuery{Query: "x", DateFrom: &from, DateTo: &to}); !domain.Is(err, domain.KindValidation) {
		t.Fatalf("expected validation for inverted range, got %v", err)
	}
}
