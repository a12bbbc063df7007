package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// EscalationPolicy настраивает один уровень эскалации фирмы.
// На пару (фирма, уровень) приходится ровно одна политика.
type EscalationPolicy struct {
	ID          uuid.UUID
	FirmID      uuid.UUID
	Tier        valueobject.Tier
	OffsetHours int
	EscalateTo  valueobject.EscalationTarget
	Channels    []valueobject.Channel
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewEscalationPolicy(firmID uuid.UUID, tier valueobject.Tier, offsetHours int, target valueobject.EscalationTarget, channels []valueobject.Channel, isActive bool, now time.Time) (*EscalationPolicy, error) {
	if !tier.IsValid() {
		return nil, apperror.Validation("некорректный уровень эскалации")
	}
	if offsetHours < 0 {
		return nil, apperror.Validation("смещение не может быть отрицательным")
	}
	if !target.IsValid() {
		return nil, apperror.Validation("некорректный адресат эскалации")
	}
	if len(channels) == 0 {
		return nil, apperror.Validation("нужен хотя бы один канал уведомления")
	}

	return &EscalationPolicy{
		ID:          uuid.New(),
		FirmID:      firmID,
		Tier:        tier,
		OffsetHours: offsetHours,
		EscalateTo:  target,
		Channels:    channels,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Offset возвращает смещение уровня как длительность.
func (p *EscalationPolicy) Offset() time.Duration {
	return time.Duration(p.OffsetHours) * time.Hour
}

// OpensAt возвращает момент открытия окна уровня для срока dueAt.
func (p *EscalationPolicy) OpensAt(dueAt time.Time) time.Time {
	return dueAt.Add(-p.Offset())
}
