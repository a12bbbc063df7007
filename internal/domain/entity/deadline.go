package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// Deadline объединяет ключевую дату и дедлайн календаря для пересчёта
// статусов и эскалаций.
type Deadline struct {
	Kind          valueobject.DeadlineKind
	ID            uuid.UUID
	FirmID        uuid.UUID
	MatterID      uuid.UUID
	Title         string
	DueAt         time.Time
	CompletedAt   *time.Time
	OwnerID       *uuid.UUID
	Status        valueobject.KeyDateStatus
	BreachedAt    *time.Time
	EscalatedTier *valueobject.Tier
	DueRevision   int
}

func (d *Deadline) IsCompleted() bool {
	return d.CompletedAt != nil
}

// ApplyStatus записывает свежий статус. breachedAt выставляется один раз,
// при первом достижении BREACH, и больше не меняется.
func (d *Deadline) ApplyStatus(status valueobject.KeyDateStatus, now time.Time) (changed, breached bool) {
	changed = d.Status != status
	d.Status = status
	if status == valueobject.KeyDateStatusBreach && d.BreachedAt == nil {
		at := now
		d.BreachedAt = &at
		breached = true
	}
	return changed, breached
}
