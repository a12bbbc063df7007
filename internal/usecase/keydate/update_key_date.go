package keydate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// UpdateKeyDateInput: nil в поле означает «не менять».
type UpdateKeyDateInput struct {
	FirmID      uuid.UUID
	ID          uuid.UUID
	Title       *string
	Description *string
	DueAt       *time.Time
	OwnerID     *uuid.UUID
	Priority    *string
	CompletedAt *time.Time
	Reopen      bool
}

type UpdateKeyDateUseCase struct {
	keyDates repository.KeyDateRepository
	clock    clock.Clock
}

func NewUpdateKeyDateUseCase(keyDates repository.KeyDateRepository, clk clock.Clock) *UpdateKeyDateUseCase {
	return &UpdateKeyDateUseCase{keyDates: keyDates, clock: clk}
}

func (uc *UpdateKeyDateUseCase) Execute(ctx context.Context, input UpdateKeyDateInput) (*entity.KeyDate, error) {
	kd, err := uc.keyDates.FindByID(ctx, input.FirmID, input.ID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if input.Title != nil {
		if err := kd.Rename(*input.Title, now); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := kd.Describe(input.Description, now); err != nil {
			return nil, err
		}
	}
	if input.DueAt != nil {
		if err := kd.Reschedule(*input.DueAt, now); err != nil {
			return nil, err
		}
	}
	if input.OwnerID != nil {
		if err := kd.AssignOwner(*input.OwnerID, now); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		priority, err := valueobject.NewPriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		if err := kd.SetPriority(priority, now); err != nil {
			return nil, err
		}
	}
	switch {
	case input.Reopen:
		kd.Reopen(now)
	case input.CompletedAt != nil:
		refreshStatus(kd, now)
		kd.Complete(*input.CompletedAt, now)
	}

	refreshStatus(kd, now)
	if err := uc.keyDates.Update(ctx, kd); err != nil {
		return nil, err
	}
	return kd, nil
}

type CompleteKeyDateUseCase struct {
	keyDates repository.KeyDateRepository
	clock    clock.Clock
}

func NewCompleteKeyDateUseCase(keyDates repository.KeyDateRepository, clk clock.Clock) *CompleteKeyDateUseCase {
	return &CompleteKeyDateUseCase{keyDates: keyDates, clock: clk}
}

// Execute отмечает ключевую дату выполненной. Повторный вызов ничего не меняет.
func (uc *CompleteKeyDateUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) (*entity.KeyDate, error) {
	kd, err := uc.keyDates.FindByID(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	if kd.IsCompleted() {
		return kd, nil
	}

	now := uc.clock.Now()
	refreshStatus(kd, now)
	kd.Complete(now, now)
	if err := uc.keyDates.Update(ctx, kd); err != nil {
		return nil, err
	}
	return kd, nil
}

type DeleteKeyDateUseCase struct {
	keyDates repository.KeyDateRepository
}

func NewDeleteKeyDateUseCase(keyDates repository.KeyDateRepository) *DeleteKeyDateUseCase {
	return &DeleteKeyDateUseCase{keyDates: keyDates}
}

func (uc *DeleteKeyDateUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) error {
	return uc.keyDates.Delete(ctx, firmID, id)
}
