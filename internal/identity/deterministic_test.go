package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestTranslationKeyUUIDIsStable(t *testing.T) {
	first := TranslationKeyUUID("common.buttons.save")
	second := TranslationKeyUUID(" common.buttons.save ")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable non-nil id, got %s and %s", first, second)
	}
	if TranslationKeyUUID("common.buttons.cancel") == first {
		t.Fatalf("expected distinct ids for distinct keys")
	}
}

func TestActorUUID(t *testing.T) {
	existing := uuid.New()
	if ActorUUID(existing.String()) != existing {
		t.Fatalf("expected uuid subjects to pass through")
	}
	if ActorUUID("") != uuid.Nil {
		t.Fatalf("expected nil for blank subject")
	}
	if SystemActorID() != ActorUUID("SYSTEM") {
		t.Fatalf("expected actor names to be case insensitive")
	}
}
