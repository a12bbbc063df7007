// Package persistence реализует порты репозиториев поверх PostgreSQL (sqlx).
package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
)

// Postgres собирает репозитории вокруг одного пула и открывает транзакции.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Repositories возвращает репозитории вне транзакции.
func (p *Postgres) Repositories() repository.Repositories {
	return bind(p.db)
}

func (p *Postgres) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	return WithTransaction(ctx, p.db, func(tx *sqlx.Tx) error {
		return fn(ctx, bind(tx))
	})
}

func (p *Postgres) Matters() *MatterRepositoryAdapter {
	return NewMatterRepositoryAdapter(p.db)
}

func bind(ext sqlx.ExtContext) repository.Repositories {
	return repository.Repositories{
		KeyDates:       &KeyDateRepositoryAdapter{db: ext},
		CalendarEvents: &CalendarEventRepositoryAdapter{db: ext},
		Directions:     &DirectionRepositoryAdapter{db: ext},
		Policies:       &PolicyRepositoryAdapter{db: ext},
		Notifications:  &NotificationRepositoryAdapter{db: ext},
	}
}

func (p *Postgres) FindTeam(ctx context.Context, firmID, matterID uuid.UUID) (*entity.MatterTeam, error) {
	return p.Matters().FindTeam(ctx, firmID, matterID)
}

func (p *Postgres) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return p.Matters().ListIDs(ctx)
}

// PingContext нужен health-check.
func (p *Postgres) PingContext(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
