package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type DirectionRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewDirectionRepositoryAdapter(db sqlx.ExtContext) *DirectionRepositoryAdapter {
	return &DirectionRepositoryAdapter{db: db}
}

type directionRow struct {
	ID            uuid.UUID  `db:"id"`
	FirmID        uuid.UUID  `db:"firm_id"`
	MatterID      uuid.UUID  `db:"matter_id"`
	Title         string     `db:"title"`
	Description   *string    `db:"description"`
	DueAt         *time.Time `db:"due_at"`
	Status        string     `db:"status"`
	ConfirmedByID *uuid.UUID `db:"confirmed_by_id"`
	ConfirmedAt   *time.Time `db:"confirmed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r directionRow) toEntity() *entity.Direction {
	return &entity.Direction{
		ID:            r.ID,
		MatterID:      r.MatterID,
		FirmID:        r.FirmID,
		Title:         r.Title,
		Description:   r.Description,
		DueAt:         utcPtr(r.DueAt),
		Status:        valueobject.DirectionStatus(r.Status),
		ConfirmedByID: r.ConfirmedByID,
		ConfirmedAt:   utcPtr(r.ConfirmedAt),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

const directionSelect = `
	SELECT id, firm_id, matter_id, title, description, due_at, status, confirmed_by_id, confirmed_at,
	       created_at, updated_at
	FROM directions
`

func (r *DirectionRepositoryAdapter) Create(ctx context.Context, d *entity.Direction) error {
	query := `
		INSERT INTO directions (id, firm_id, matter_id, title, description, due_at, status,
		                        confirmed_by_id, confirmed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.FirmID,
		d.MatterID,
		d.Title,
		d.Description,
		d.DueAt,
		string(d.Status),
		d.ConfirmedByID,
		d.ConfirmedAt,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать указание")
	}
	return nil
}

func (r *DirectionRepositoryAdapter) Update(ctx context.Context, d *entity.Direction) error {
	query := `
		UPDATE directions
		SET title = $2, description = $3, due_at = $4, status = $5, confirmed_by_id = $6,
		    confirmed_at = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Title,
		d.Description,
		d.DueAt,
		string(d.Status),
		d.ConfirmedByID,
		d.ConfirmedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить указание")
	}
	return expectOne(result, apperror.ErrDirectionNotFound)
}

func (r *DirectionRepositoryAdapter) FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error) {
	return r.findOne(ctx, directionSelect+` WHERE id = $1 AND firm_id = $2`, id, firmID)
}

// LockByID берёт строку FOR UPDATE: параллельные подтверждения одного указания
// выполняются по очереди.
func (r *DirectionRepositoryAdapter) LockByID(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error) {
	return r.findOne(ctx, directionSelect+` WHERE id = $1 AND firm_id = $2 FOR UPDATE`, id, firmID)
}

func (r *DirectionRepositoryAdapter) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Direction, error) {
	var row directionRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrDirectionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить указание")
	}
	return row.toEntity(), nil
}

func (r *DirectionRepositoryAdapter) ListByMatter(ctx context.Context, firmID, matterID uuid.UUID) ([]*entity.Direction, error) {
	var rows []directionRow
	query := directionSelect + ` WHERE firm_id = $1 AND matter_id = $2 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, firmID, matterID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить указания по делу")
	}

	out := make([]*entity.Direction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
