package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type PolicyRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewPolicyRepositoryAdapter(db sqlx.ExtContext) *PolicyRepositoryAdapter {
	return &PolicyRepositoryAdapter{db: db}
}

type policyRow struct {
	ID          uuid.UUID      `db:"id"`
	FirmID      uuid.UUID      `db:"firm_id"`
	Tier        string         `db:"tier"`
	OffsetHours int            `db:"offset_hours"`
	EscalateTo  string         `db:"escalate_to"`
	Channels    pq.StringArray `db:"channels"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r policyRow) toEntity() entity.EscalationPolicy {
	channels := make([]valueobject.Channel, len(r.Channels))
	for i, c := range r.Channels {
		channels[i] = valueobject.Channel(c)
	}
	return entity.EscalationPolicy{
		ID:          r.ID,
		FirmID:      r.FirmID,
		Tier:        valueobject.Tier(r.Tier),
		OffsetHours: r.OffsetHours,
		EscalateTo:  valueobject.EscalationTarget(r.EscalateTo),
		Channels:    channels,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func (r *PolicyRepositoryAdapter) ListByFirm(ctx context.Context, firmID uuid.UUID) ([]entity.EscalationPolicy, error) {
	query := `
		SELECT id, firm_id, tier, offset_hours, escalate_to, channels, is_active, created_at, updated_at
		FROM escalation_policies
		WHERE firm_id = $1
		ORDER BY offset_hours DESC, tier
	`
	var rows []policyRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, firmID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить политики эскалации")
	}

	out := make([]entity.EscalationPolicy, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Upsert сохраняет политику по паре (фирма, уровень). Для существующей записи
// в p возвращаются её исходные id и created_at.
func (r *PolicyRepositoryAdapter) Upsert(ctx context.Context, p *entity.EscalationPolicy) error {
	query := `
		INSERT INTO escalation_policies (id, firm_id, tier, offset_hours, escalate_to, channels, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (firm_id, tier) DO UPDATE
		SET offset_hours = EXCLUDED.offset_hours,
		    escalate_to = EXCLUDED.escalate_to,
		    channels = EXCLUDED.channels,
		    is_active = EXCLUDED.is_active,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	var saved struct {
		ID        uuid.UUID `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := sqlx.GetContext(ctx, r.db, &saved, query,
		p.ID,
		p.FirmID,
		string(p.Tier),
		p.OffsetHours,
		string(p.EscalateTo),
		channelArray(p.Channels),
		p.IsActive,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить политику эскалации")
	}

	p.ID = saved.ID
	p.CreatedAt = saved.CreatedAt.UTC()
	return nil
}
