package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// DeadlineStore даёт пересчёту доступ к открытым дедлайнам одного вида.
type DeadlineStore interface {
	ListOpenDeadlines(ctx context.Context, firmID uuid.UUID) ([]entity.Deadline, error)
	// SaveEvaluation сохраняет кэш статуса. Уже записанный breached_at не перезаписывается.
	SaveEvaluation(ctx context.Context, d *entity.Deadline) error
	// MarkEscalated фиксирует отправленный уровень, только если ревизия срока не менялась.
	MarkEscalated(ctx context.Context, id uuid.UUID, revision int, tier valueobject.Tier) error
}

type KeyDateRepository interface {
	DeadlineStore

	Create(ctx context.Context, kd *entity.KeyDate) error
	Update(ctx context.Context, kd *entity.KeyDate) error
	Delete(ctx context.Context, firmID, id uuid.UUID) error
	FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.KeyDate, error)
	List(ctx context.Context, filter KeyDateFilter) ([]*entity.KeyDate, error)
}

type KeyDateFilter struct {
	FirmID           uuid.UUID
	MatterID         *uuid.UUID
	Search           string
	IncludeCompleted bool
}

type CalendarEventRepository interface {
	DeadlineStore

	Create(ctx context.Context, ev *entity.CalendarEvent) error
	Update(ctx context.Context, ev *entity.CalendarEvent) error
	FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.CalendarEvent, error)
	FindByDirectionID(ctx context.Context, directionID uuid.UUID) (*entity.CalendarEvent, error)
	List(ctx context.Context, filter CalendarFilter) ([]*entity.CalendarEvent, error)
}

type CalendarFilter struct {
	FirmID        uuid.UUID
	MatterID      *uuid.UUID
	From          *time.Time
	To            *time.Time
	DeadlinesOnly bool
}
