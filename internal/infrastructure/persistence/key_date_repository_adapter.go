package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type KeyDateRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewKeyDateRepositoryAdapter(db sqlx.ExtContext) *KeyDateRepositoryAdapter {
	return &KeyDateRepositoryAdapter{db: db}
}

type keyDateRow struct {
	ID              uuid.UUID  `db:"id"`
	FirmID          uuid.UUID  `db:"firm_id"`
	MatterID        uuid.UUID  `db:"matter_id"`
	Title           string     `db:"title"`
	Description     *string    `db:"description"`
	DueAt           time.Time  `db:"due_at"`
	Priority        string     `db:"priority"`
	OwnerID         uuid.UUID  `db:"owner_id"`
	Status          string     `db:"status"`
	CompletedAt     *time.Time `db:"completed_at"`
	BreachedAt      *time.Time `db:"breached_at"`
	EscalatedTier   *string    `db:"escalated_tier"`
	DueRevision     int        `db:"due_revision"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	MatterReference string     `db:"matter_reference"`
	MatterTitle     string     `db:"matter_title"`
}

func (r keyDateRow) toEntity() *entity.KeyDate {
	return &entity.KeyDate{
		ID:              r.ID,
		MatterID:        r.MatterID,
		FirmID:          r.FirmID,
		Title:           r.Title,
		Description:     r.Description,
		DueAt:           r.DueAt.UTC(),
		Priority:        valueobject.Priority(r.Priority),
		OwnerID:         r.OwnerID,
		CompletedAt:     utcPtr(r.CompletedAt),
		BreachedAt:      utcPtr(r.BreachedAt),
		Status:          valueobject.KeyDateStatus(r.Status),
		EscalatedTier:   tierPtr(r.EscalatedTier),
		DueRevision:     r.DueRevision,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
		MatterReference: r.MatterReference,
		MatterTitle:     r.MatterTitle,
	}
}

const keyDateSelect = `
	SELECT k.id, k.firm_id, k.matter_id, k.title, k.description, k.due_at, k.priority, k.owner_id,
	       k.status, k.completed_at, k.breached_at, k.escalated_tier, k.due_revision,
	       k.created_at, k.updated_at,
	       m.reference AS matter_reference, m.title AS matter_title
	FROM key_dates k
	JOIN matters m ON m.id = k.matter_id
`

func (r *KeyDateRepositoryAdapter) Create(ctx context.Context, kd *entity.KeyDate) error {
	query := `
		INSERT INTO key_dates (id, firm_id, matter_id, title, description, due_at, priority, owner_id,
		                       status, completed_at, breached_at, escalated_tier, due_revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		kd.ID,
		kd.FirmID,
		kd.MatterID,
		kd.Title,
		kd.Description,
		kd.DueAt,
		string(kd.Priority),
		kd.OwnerID,
		string(kd.Status),
		kd.CompletedAt,
		kd.BreachedAt,
		tierString(kd.EscalatedTier),
		kd.DueRevision,
		kd.CreatedAt,
		kd.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать ключевую дату")
	}
	return nil
}

// Update перезаписывает изменяемые поля. breached_at не откатывается.
func (r *KeyDateRepositoryAdapter) Update(ctx context.Context, kd *entity.KeyDate) error {
	query := `
		UPDATE key_dates
		SET title = $2, description = $3, due_at = $4, priority = $5, owner_id = $6, status = $7,
		    completed_at = $8, breached_at = COALESCE(breached_at, $9), escalated_tier = $10, due_revision = $11,
		    updated_at = $12
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		kd.ID,
		kd.Title,
		kd.Description,
		kd.DueAt,
		string(kd.Priority),
		kd.OwnerID,
		string(kd.Status),
		kd.CompletedAt,
		kd.BreachedAt,
		tierString(kd.EscalatedTier),
		kd.DueRevision,
		kd.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить ключевую дату")
	}
	return expectOne(result, apperror.ErrKeyDateNotFound)
}

func (r *KeyDateRepositoryAdapter) Delete(ctx context.Context, firmID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM key_dates WHERE id = $1 AND firm_id = $2`, id, firmID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить ключевую дату")
	}
	return expectOne(result, apperror.ErrKeyDateNotFound)
}

func (r *KeyDateRepositoryAdapter) FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.KeyDate, error) {
	var row keyDateRow
	err := sqlx.GetContext(ctx, r.db, &row, keyDateSelect+` WHERE k.id = $1 AND k.firm_id = $2`, id, firmID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrKeyDateNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить ключевую дату")
	}
	return row.toEntity(), nil
}

func (r *KeyDateRepositoryAdapter) List(ctx context.Context, filter repository.KeyDateFilter) ([]*entity.KeyDate, error) {
	var args argList
	query := keyDateSelect + ` WHERE k.firm_id = ` + args.add(filter.FirmID)

	if filter.MatterID != nil {
		query += ` AND k.matter_id = ` + args.add(*filter.MatterID)
	}
	if !filter.IncludeCompleted {
		query += ` AND k.completed_at IS NULL`
	}
	if filter.Search != "" {
		p := args.add("%" + filter.Search + "%")
		query += ` AND (k.title ILIKE ` + p + ` OR m.reference ILIKE ` + p + ` OR m.title ILIKE ` + p + `)`
	}
	query += ` ORDER BY k.due_at ASC`

	var rows []keyDateRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список ключевых дат")
	}

	out := make([]*entity.KeyDate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *KeyDateRepositoryAdapter) ListOpenDeadlines(ctx context.Context, firmID uuid.UUID) ([]entity.Deadline, error) {
	var rows []keyDateRow
	query := keyDateSelect + ` WHERE k.firm_id = $1 AND k.completed_at IS NULL ORDER BY k.due_at`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, firmID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить открытые ключевые даты")
	}

	out := make([]entity.Deadline, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity().AsDeadline())
	}
	return out, nil
}

func (r *KeyDateRepositoryAdapter) SaveEvaluation(ctx context.Context, d *entity.Deadline) error {
	query := `UPDATE key_dates SET status = $2, breached_at = COALESCE(breached_at, $3) WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, d.ID, string(d.Status), d.BreachedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить статус ключевой даты")
	}
	return expectOne(result, apperror.ErrKeyDateNotFound)
}

func (r *KeyDateRepositoryAdapter) MarkEscalated(ctx context.Context, id uuid.UUID, revision int, tier valueobject.Tier) error {
	query := `UPDATE key_dates SET escalated_tier = $3 WHERE id = $1 AND due_revision = $2`
	if _, err := r.db.ExecContext(ctx, query, id, revision, string(tier)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить эскалацию ключевой даты")
	}
	return nil
}
