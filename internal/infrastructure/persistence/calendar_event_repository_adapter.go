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

type CalendarEventRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewCalendarEventRepositoryAdapter(db sqlx.ExtContext) *CalendarEventRepositoryAdapter {
	return &CalendarEventRepositoryAdapter{db: db}
}

type calendarEventRow struct {
	ID              uuid.UUID  `db:"id"`
	FirmID          uuid.UUID  `db:"firm_id"`
	MatterID        uuid.UUID  `db:"matter_id"`
	DirectionID     *uuid.UUID `db:"direction_id"`
	Title           string     `db:"title"`
	Description     *string    `db:"description"`
	StartAt         time.Time  `db:"start_at"`
	IsAllDay        bool       `db:"is_all_day"`
	IsDeadline      bool       `db:"is_deadline"`
	CompletedAt     *time.Time `db:"completed_at"`
	IsOverdue       bool       `db:"is_overdue"`
	EscalatedTier   *string    `db:"escalated_tier"`
	DueRevision     int        `db:"due_revision"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	MatterReference string     `db:"matter_reference"`
	MatterTitle     string     `db:"matter_title"`
}

func (r calendarEventRow) toEntity() *entity.CalendarEvent {
	return &entity.CalendarEvent{
		ID:              r.ID,
		MatterID:        r.MatterID,
		FirmID:          r.FirmID,
		DirectionID:     r.DirectionID,
		Title:           r.Title,
		Description:     r.Description,
		StartAt:         r.StartAt.UTC(),
		IsAllDay:        r.IsAllDay,
		IsDeadline:      r.IsDeadline,
		CompletedAt:     utcPtr(r.CompletedAt),
		IsOverdue:       r.IsOverdue,
		EscalatedTier:   tierPtr(r.EscalatedTier),
		DueRevision:     r.DueRevision,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
		MatterReference: r.MatterReference,
		MatterTitle:     r.MatterTitle,
	}
}

const calendarEventSelect = `
	SELECT e.id, e.firm_id, e.matter_id, e.direction_id, e.title, e.description, e.start_at, e.is_all_day,
	       e.is_deadline, e.completed_at, e.is_overdue, e.escalated_tier, e.due_revision,
	       e.created_at, e.updated_at,
	       m.reference AS matter_reference, m.title AS matter_title
	FROM calendar_events e
	JOIN matters m ON m.id = e.matter_id
`

func (r *CalendarEventRepositoryAdapter) Create(ctx context.Context, ev *entity.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (id, firm_id, matter_id, direction_id, title, description, start_at, is_all_day,
		                             is_deadline, completed_at, is_overdue, escalated_tier, due_revision,
		                             created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		ev.ID,
		ev.FirmID,
		ev.MatterID,
		ev.DirectionID,
		ev.Title,
		ev.Description,
		ev.StartAt,
		ev.IsAllDay,
		ev.IsDeadline,
		ev.CompletedAt,
		ev.IsOverdue,
		tierString(ev.EscalatedTier),
		ev.DueRevision,
		ev.CreatedAt,
		ev.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDeadlineExists
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать событие календаря")
	}
	return nil
}

func (r *CalendarEventRepositoryAdapter) Update(ctx context.Context, ev *entity.CalendarEvent) error {
	query := `
		UPDATE calendar_events
		SET title = $2, description = $3, start_at = $4, is_all_day = $5, is_deadline = $6,
		    completed_at = $7, is_overdue = $8, escalated_tier = $9, due_revision = $10,
		    updated_at = $11
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		ev.ID,
		ev.Title,
		ev.Description,
		ev.StartAt,
		ev.IsAllDay,
		ev.IsDeadline,
		ev.CompletedAt,
		ev.IsOverdue,
		tierString(ev.EscalatedTier),
		ev.DueRevision,
		ev.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить событие календаря")
	}
	return expectOne(result, apperror.ErrCalendarEventNotFound)
}

func (r *CalendarEventRepositoryAdapter) FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.CalendarEvent, error) {
	return r.findOne(ctx, ` WHERE e.id = $1 AND e.firm_id = $2`, id, firmID)
}

func (r *CalendarEventRepositoryAdapter) FindByDirectionID(ctx context.Context, directionID uuid.UUID) (*entity.CalendarEvent, error) {
	return r.findOne(ctx, ` WHERE e.direction_id = $1`, directionID)
}

func (r *CalendarEventRepositoryAdapter) findOne(ctx context.Context, where string, args ...interface{}) (*entity.CalendarEvent, error) {
	var row calendarEventRow
	if err := sqlx.GetContext(ctx, r.db, &row, calendarEventSelect+where, args...); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrCalendarEventNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить событие календаря")
	}
	return row.toEntity(), nil
}

func (r *CalendarEventRepositoryAdapter) List(ctx context.Context, filter repository.CalendarFilter) ([]*entity.CalendarEvent, error) {
	var args argList
	query := calendarEventSelect + ` WHERE e.firm_id = ` + args.add(filter.FirmID)

	if filter.MatterID != nil {
		query += ` AND e.matter_id = ` + args.add(*filter.MatterID)
	}
	if filter.DeadlinesOnly {
		query += ` AND e.is_deadline`
	}
	if filter.From != nil {
		query += ` AND e.start_at >= ` + args.add(*filter.From)
	}
	if filter.To != nil {
		query += ` AND e.start_at <= ` + args.add(*filter.To)
	}
	query += ` ORDER BY e.start_at ASC`

	var rows []calendarEventRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить календарь")
	}

	out := make([]*entity.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *CalendarEventRepositoryAdapter) ListOpenDeadlines(ctx context.Context, firmID uuid.UUID) ([]entity.Deadline, error) {
	var rows []calendarEventRow
	query := calendarEventSelect + ` WHERE e.firm_id = $1 AND e.is_deadline AND e.completed_at IS NULL ORDER BY e.start_at`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, firmID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить открытые дедлайны календаря")
	}

	out := make([]entity.Deadline, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity().AsDeadline())
	}
	return out, nil
}

// SaveEvaluation хранит только флаг просрочки: у событий нет статуса и breached_at.
func (r *CalendarEventRepositoryAdapter) SaveEvaluation(ctx context.Context, d *entity.Deadline) error {
	result, err := r.db.ExecContext(ctx, `UPDATE calendar_events SET is_overdue = $2 WHERE id = $1`, d.ID, d.Status.IsPastDue())
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить флаг просрочки")
	}
	return expectOne(result, apperror.ErrCalendarEventNotFound)
}

func (r *CalendarEventRepositoryAdapter) MarkEscalated(ctx context.Context, id uuid.UUID, revision int, tier valueobject.Tier) error {
	query := `UPDATE calendar_events SET escalated_tier = $3 WHERE id = $1 AND due_revision = $2`
	if _, err := r.db.ExecContext(ctx, query, id, revision, string(tier)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить эскалацию события")
	}
	return nil
}
