package direction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type CreateDirectionInput struct {
	FirmID      uuid.UUID
	MatterID    uuid.UUID
	Title       string
	Description *string
	DueAt       *time.Time
	Status      string
}

type CreateDirectionUseCase struct {
	directions repository.DirectionRepository
	matters    repository.MatterRepository
	clock      clock.Clock
}

func NewCreateDirectionUseCase(directions repository.DirectionRepository, matters repository.MatterRepository, clk clock.Clock) *CreateDirectionUseCase {
	return &CreateDirectionUseCase{directions: directions, matters: matters, clock: clk}
}

func (uc *CreateDirectionUseCase) Execute(ctx context.Context, input CreateDirectionInput) (*entity.Direction, error) {
	var status valueobject.DirectionStatus
	if input.Status != "" {
		s, err := valueobject.NewDirectionStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	d, err := entity.NewDirection(input.MatterID, input.FirmID, input.Title, input.Description, input.DueAt, status, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if _, err := uc.matters.FindTeam(ctx, input.FirmID, input.MatterID); err != nil {
		return nil, err
	}
	if err := uc.directions.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

type GetDirectionUseCase struct {
	directions repository.DirectionRepository
}

func NewGetDirectionUseCase(directions repository.DirectionRepository) *GetDirectionUseCase {
	return &GetDirectionUseCase{directions: directions}
}

func (uc *GetDirectionUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error) {
	return uc.directions.FindByID(ctx, firmID, id)
}

type ListDirectionsUseCase struct {
	directions repository.DirectionRepository
}

func NewListDirectionsUseCase(directions repository.DirectionRepository) *ListDirectionsUseCase {
	return &ListDirectionsUseCase{directions: directions}
}

func (uc *ListDirectionsUseCase) Execute(ctx context.Context, firmID, matterID uuid.UUID) ([]*entity.Direction, error) {
	return uc.directions.ListByMatter(ctx, firmID, matterID)
}

type SubmitDirectionUseCase struct {
	directions repository.DirectionRepository
	clock      clock.Clock
}

func NewSubmitDirectionUseCase(directions repository.DirectionRepository, clk clock.Clock) *SubmitDirectionUseCase {
	return &SubmitDirectionUseCase{directions: directions, clock: clk}
}

func (uc *SubmitDirectionUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error) {
	d, err := uc.directions.FindByID(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	if err := d.SubmitForReview(uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.directions.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// VacateDirectionUseCase отменяет указание и в той же транзакции снимает
// связанный дедлайн с контроля сроков.
type VacateDirectionUseCase struct {
	uow   repository.UnitOfWork
	clock clock.Clock
}

func NewVacateDirectionUseCase(uow repository.UnitOfWork, clk clock.Clock) *VacateDirectionUseCase {
	return &VacateDirectionUseCase{uow: uow, clock: clk}
}

func (uc *VacateDirectionUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error) {
	now := uc.clock.Now()
	var vacated *entity.Direction

	err := uc.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		d, err := tx.Directions.LockByID(ctx, firmID, id)
		if err != nil {
			return err
		}
		if err := d.Vacate(now); err != nil {
			return err
		}
		if err := tx.Directions.Update(ctx, d); err != nil {
			return err
		}
		vacated = d
		return withdrawDeadline(ctx, tx, d.ID, now)
	})
	if err != nil {
		return nil, err
	}
	return vacated, nil
}

type UpdateDirectionInput struct {
	FirmID      uuid.UUID
	ID          uuid.UUID
	Title       *string
	Description *string
	DueAt       *time.Time
	ClearDueAt  bool
}

// UpdateDirectionUseCase правит указание. После подтверждения правка делает
// его AMENDED, а новый срок переносит связанный дедлайн календаря.
type UpdateDirectionUseCase struct {
	uow   repository.UnitOfWork
	clock clock.Clock
}

func NewUpdateDirectionUseCase(uow repository.UnitOfWork, clk clock.Clock) *UpdateDirectionUseCase {
	return &UpdateDirectionUseCase{uow: uow, clock: clk}
}

func (uc *UpdateDirectionUseCase) Execute(ctx context.Context, input UpdateDirectionInput) (*entity.Direction, error) {
	now := uc.clock.Now()
	var updated *entity.Direction

	err := uc.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		d, err := tx.Directions.LockByID(ctx, input.FirmID, input.ID)
		if err != nil {
			return err
		}
		if err := d.Edit(input.Title, input.Description, input.DueAt, input.ClearDueAt, now); err != nil {
			return err
		}
		if err := tx.Directions.Update(ctx, d); err != nil {
			return err
		}
		updated = d

		if !d.Status.IsConfirmed() {
			return nil
		}
		if d.DueAt == nil {
			return withdrawDeadline(ctx, tx, d.ID, now)
		}
		ev, err := tx.CalendarEvents.FindByDirectionID(ctx, d.ID)
		if apperror.IsNotFound(err) {
			_, err = createDeadline(ctx, tx, d, now)
			return err
		}
		if err != nil {
			return err
		}
		ev.Track(*d.DueAt, now)
		if input.Title != nil {
			ev.Title = d.Title
		}
		ev.IsOverdue = rules.IsOverdue(ev.StartAt, ev.CompletedAt, now)
		return tx.CalendarEvents.Update(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// createDeadline материализует дедлайн указания; nil, если срока нет.
func createDeadline(ctx context.Context, tx repository.Repositories, d *entity.Direction, now time.Time) (*entity.CalendarEvent, error) {
	ev := d.Deadline(now)
	if ev == nil {
		return nil, nil
	}
	ev.IsOverdue = rules.IsOverdue(ev.StartAt, nil, now)
	if err := tx.CalendarEvents.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// withdrawDeadline снимает с контроля дедлайн указания, если он есть и не закрыт.
func withdrawDeadline(ctx context.Context, tx repository.Repositories, directionID uuid.UUID, now time.Time) error {
	ev, err := tx.CalendarEvents.FindByDirectionID(ctx, directionID)
	if apperror.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if ev.CompletedAt != nil || !ev.IsDeadline {
		return nil
	}
	ev.Withdraw(now)
	return tx.CalendarEvents.Update(ctx, ev)
}
