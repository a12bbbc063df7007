package keydate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

type CreateKeyDateInput struct {
	FirmID      uuid.UUID
	MatterID    uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description *string
	DueAt       time.Time
	Priority    string
}

type CreateKeyDateUseCase struct {
	keyDates repository.KeyDateRepository
	matters  repository.MatterRepository
	clock    clock.Clock
}

func NewCreateKeyDateUseCase(keyDates repository.KeyDateRepository, matters repository.MatterRepository, clk clock.Clock) *CreateKeyDateUseCase {
	return &CreateKeyDateUseCase{keyDates: keyDates, matters: matters, clock: clk}
}

func (uc *CreateKeyDateUseCase) Execute(ctx context.Context, input CreateKeyDateInput) (*entity.KeyDate, error) {
	priority, err := valueobject.NewPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	kd, err := entity.NewKeyDate(input.MatterID, input.FirmID, input.OwnerID, input.Title, input.Description, input.DueAt, priority, now)
	if err != nil {
		return nil, err
	}

	team, err := uc.matters.FindTeam(ctx, input.FirmID, input.MatterID)
	if err != nil {
		return nil, err
	}
	kd.MatterReference, kd.MatterTitle = team.Reference, team.Title

	refreshStatus(kd, now)
	if err := uc.keyDates.Create(ctx, kd); err != nil {
		return nil, err
	}
	return kd, nil
}

// refreshStatus пересчитывает кэш статуса тем же классификатором, что и фоновый проход.
func refreshStatus(kd *entity.KeyDate, now time.Time) {
	d := kd.AsDeadline()
	d.ApplyStatus(rules.Classify(kd.DueAt, kd.CompletedAt, now), now)
	kd.Status, kd.BreachedAt = d.Status, d.BreachedAt
}
