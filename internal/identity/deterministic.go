package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const prefix = "go-translations:"

// SystemActorName identifies the actor used when no user is known (imports, CLI).
const SystemActorName = "system"

// UUID derives a stable UUID from key using go-hashid. Keys are case sensitive.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// TranslationKeyUUID is the id of the translation key record. A deleted key
// that is later re-created gets the same id, so its history continues.
func TranslationKeyUUID(key string) uuid.UUID {
	return UUID(prefix + "translation_key:" + strings.TrimSpace(key))
}

// ActorUUID maps an external subject (JWT sub, username) onto a uuid. Subjects
// that already are uuids are returned as is.
func ActorUUID(subject string) uuid.UUID {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return uuid.Nil
	}
	if parsed, err := uuid.Parse(subject); err == nil {
		return parsed
	}
	return UUID(prefix + "actor:" + strings.ToLower(subject))
}

// SystemActorID is the deterministic id of the "system" actor.
func SystemActorID() uuid.UUID {
	return ActorUUID(SystemActorName)
}

// SettingsUUID is the id of the singleton enforcement settings row.
func SettingsUUID() uuid.UUID {
	return UUID(prefix + "translation_settings")
}
