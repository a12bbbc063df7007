package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type ListInput struct {
	FirmID        uuid.UUID
	MatterID      *uuid.UUID
	From          *time.Time
	To            *time.Time
	DeadlinesOnly bool
	OverdueOnly   bool
}

// ListCalendarUseCase отдаёт события с флагом просрочки на момент запроса.
type ListCalendarUseCase struct {
	events repository.CalendarEventRepository
	clock  clock.Clock
}

func NewListCalendarUseCase(events repository.CalendarEventRepository, clk clock.Clock) *ListCalendarUseCase {
	return &ListCalendarUseCase{events: events, clock: clk}
}

func (uc *ListCalendarUseCase) Execute(ctx context.Context, input ListInput) ([]*entity.CalendarEvent, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, apperror.Validation("конец периода раньше начала")
	}

	events, err := uc.events.List(ctx, repository.CalendarFilter{
		FirmID:        input.FirmID,
		MatterID:      input.MatterID,
		From:          input.From,
		To:            input.To,
		DeadlinesOnly: input.DeadlinesOnly || input.OverdueOnly,
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := make([]*entity.CalendarEvent, 0, len(events))
	for _, ev := range events {
		ev.IsOverdue = ev.IsDeadline && rules.IsOverdue(ev.StartAt, ev.CompletedAt, now)
		if input.OverdueOnly && !ev.IsOverdue {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

type CreateDeadlineInput struct {
	FirmID      uuid.UUID
	MatterID    uuid.UUID
	Title       string
	Description *string
	DueAt       time.Time
}

// CreateDeadlineUseCase создаёт самостоятельный дедлайн календаря без указания суда.
type CreateDeadlineUseCase struct {
	events  repository.CalendarEventRepository
	matters repository.MatterRepository
	clock   clock.Clock
}

func NewCreateDeadlineUseCase(events repository.CalendarEventRepository, matters repository.MatterRepository, clk clock.Clock) *CreateDeadlineUseCase {
	return &CreateDeadlineUseCase{events: events, matters: matters, clock: clk}
}

func (uc *CreateDeadlineUseCase) Execute(ctx context.Context, input CreateDeadlineInput) (*entity.CalendarEvent, error) {
	now := uc.clock.Now()
	ev, err := entity.NewCalendarDeadline(input.MatterID, input.FirmID, input.Title, input.Description, input.DueAt, now)
	if err != nil {
		return nil, err
	}
	team, err := uc.matters.FindTeam(ctx, input.FirmID, input.MatterID)
	if err != nil {
		return nil, err
	}
	ev.MatterReference, ev.MatterTitle = team.Reference, team.Title
	ev.IsOverdue = rules.IsOverdue(ev.StartAt, nil, now)

	if err := uc.events.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

type CompleteEventUseCase struct {
	events repository.CalendarEventRepository
	clock  clock.Clock
}

func NewCompleteEventUseCase(events repository.CalendarEventRepository, clk clock.Clock) *CompleteEventUseCase {
	return &CompleteEventUseCase{events: events, clock: clk}
}

func (uc *CompleteEventUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) (*entity.CalendarEvent, error) {
	ev, err := uc.events.FindByID(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	if ev.CompletedAt != nil {
		return ev, nil
	}
	ev.Complete(uc.clock.Now())
	if err := uc.events.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}
