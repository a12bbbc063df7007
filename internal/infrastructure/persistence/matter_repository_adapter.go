package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// MatterRepositoryAdapter читает ролевые слоты дел и список фирм.
type MatterRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewMatterRepositoryAdapter(db sqlx.ExtContext) *MatterRepositoryAdapter {
	return &MatterRepositoryAdapter{db: db}
}

func (r *MatterRepositoryAdapter) FindTeam(ctx context.Context, firmID, matterID uuid.UUID) (*entity.MatterTeam, error) {
	var row struct {
		ID              uuid.UUID  `db:"id"`
		FirmID          uuid.UUID  `db:"firm_id"`
		Reference       string     `db:"reference"`
		Title           string     `db:"title"`
		OwnerID         *uuid.UUID `db:"owner_id"`
		MatterManagerID *uuid.UUID `db:"matter_manager_id"`
		MatterPartnerID *uuid.UUID `db:"matter_partner_id"`
		ClientPartnerID *uuid.UUID `db:"client_partner_id"`
		FirmAdminID     *uuid.UUID `db:"firm_admin_id"`
	}
	query := `
		SELECT m.id, m.firm_id, m.reference, m.title, m.owner_id, m.matter_manager_id,
		       m.matter_partner_id, m.client_partner_id,
		       (SELECT u.id FROM users u
		         WHERE u.firm_id = m.firm_id AND u.role = 'ADMIN' AND u.is_active
		         ORDER BY u.created_at LIMIT 1) AS firm_admin_id
		FROM matters m
		WHERE m.id = $1 AND m.firm_id = $2
	`
	if err := sqlx.GetContext(ctx, r.db, &row, query, matterID, firmID); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrMatterNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить дело")
	}

	var assignments []struct {
		UserID  uuid.UUID `db:"user_id"`
		RoleTag string    `db:"role_tag"`
	}
	assignQuery := `
		SELECT a.user_id, a.role_tag
		FROM matter_assignments a
		JOIN users u ON u.id = a.user_id AND u.is_active
		WHERE a.matter_id = $1
		ORDER BY a.created_at, a.user_id
	`
	if err := sqlx.SelectContext(ctx, r.db, &assignments, assignQuery, matterID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить назначения по делу")
	}

	team := &entity.MatterTeam{
		MatterID:        row.ID,
		FirmID:          row.FirmID,
		Reference:       row.Reference,
		Title:           row.Title,
		OwnerID:         row.OwnerID,
		MatterManagerID: row.MatterManagerID,
		MatterPartnerID: row.MatterPartnerID,
		ClientPartnerID: row.ClientPartnerID,
		FirmAdminID:     row.FirmAdminID,
		Assignments:     make([]entity.Assignment, 0, len(assignments)),
	}
	for _, a := range assignments {
		team.Assignments = append(team.Assignments, entity.Assignment{UserID: a.UserID, RoleTag: a.RoleTag})
	}
	return team, nil
}

// ListIDs возвращает все фирмы для пакетного пересчёта.
func (r *MatterRepositoryAdapter) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := sqlx.SelectContext(ctx, r.db, &ids, `SELECT id FROM firms ORDER BY created_at, id`); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список фирм")
	}
	return ids, nil
}
