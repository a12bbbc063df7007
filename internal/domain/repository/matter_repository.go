package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

// MatterRepository читает ролевые слоты дела для маршрутизации эскалаций.
type MatterRepository interface {
	FindTeam(ctx context.Context, firmID, matterID uuid.UUID) (*entity.MatterTeam, error)
}

type FirmRepository interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}
