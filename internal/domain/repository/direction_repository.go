package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

type DirectionRepository interface {
	Create(ctx context.Context, d *entity.Direction) error
	Update(ctx context.Context, d *entity.Direction) error
	FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error)
	// LockByID читает указание с блокировкой строки до конца транзакции.
	LockByID(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error)
	ListByMatter(ctx context.Context, firmID, matterID uuid.UUID) ([]*entity.Direction, error)
}
