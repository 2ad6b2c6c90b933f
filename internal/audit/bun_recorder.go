package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventModel is the audit_events table.
type EventModel struct {
	bun.BaseModel `bun:"table:audit_events,alias:ae"`

	ID         uuid.UUID      `bun:",pk,type:uuid"`
	EntityType string         `bun:"entity_type,notnull"`
	EntityID   string         `bun:"entity_id,notnull"`
	Action     string         `bun:"action,notnull"`
	ActorID    string         `bun:"actor_id"`
	Metadata   map[string]any `bun:"metadata,type:jsonb"`
	OccurredAt time.Time      `bun:"occurred_at,notnull"`
}

// BunRecorder stores events through bun.
type BunRecorder struct {
	db    *bun.DB
	newID func() uuid.UUID
}

// NewBunRecorder constructs a database backed recorder.
func NewBunRecorder(db *bun.DB) *BunRecorder {
	return &BunRecorder{db: db, newID: uuid.New}
}

func (r *BunRecorder) Record(ctx context.Context, event Event) error {
	if r == nil || r.db == nil {
		return errors.New("audit: bun recorder requires a database")
	}
	model := &EventModel{
		ID:         r.newID(),
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Action:     event.Action,
		ActorID:    event.ActorID,
		Metadata:   event.Metadata,
		OccurredAt: event.OccurredAt.UTC(),
	}
	_, err := r.db.NewInsert().Model(model).Exec(ctx)
	return err
}

func (r *BunRecorder) List(ctx context.Context) ([]Event, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("audit: bun recorder requires a database")
	}
	var models []EventModel
	if err := r.db.NewSelect().Model(&models).Order("occurred_at ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(models))
	for _, m := range models {
		out = append(out, Event{
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			Action:     m.Action,
			ActorID:    m.ActorID,
			OccurredAt: m.OccurredAt,
			Metadata:   m.Metadata,
		})
	}
	return out, nil
}

func (r *BunRecorder) Clear(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("audit: bun recorder requires a database")
	}
	_, err := r.db.NewDelete().Model((*EventModel)(nil)).Where("1 = 1").Exec(ctx)
	return err
}
