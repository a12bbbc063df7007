package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

type PolicyRepository interface {
	// ListByFirm возвращает политики фирмы по убыванию смещения.
	ListByFirm(ctx context.Context, firmID uuid.UUID) ([]entity.EscalationPolicy, error)
	// Upsert создаёт или заменяет политику по паре (фирма, уровень).
	Upsert(ctx context.Context, p *entity.EscalationPolicy) error
}
