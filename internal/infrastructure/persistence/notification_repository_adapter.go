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

type NotificationRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewNotificationRepositoryAdapter(db sqlx.ExtContext) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{db: db}
}

type notificationRow struct {
	ID             uuid.UUID  `db:"id"`
	FirmID         uuid.UUID  `db:"firm_id"`
	UserID         uuid.UUID  `db:"user_id"`
	Type           string     `db:"type"`
	Channel        string     `db:"channel"`
	Title          string     `db:"title"`
	Message        string     `db:"message"`
	SourceKind     *string    `db:"source_kind"`
	SourceID       *uuid.UUID `db:"source_id"`
	MatterID       *uuid.UUID `db:"matter_id"`
	Tier           *string    `db:"tier"`
	IdempotencyKey *string    `db:"idempotency_key"`
	ReadAt         *time.Time `db:"read_at"`
	CreatedAt      time.Time  `db:"created_at"`

	AckID     *uuid.UUID `db:"ack_id"`
	AckUserID *uuid.UUID `db:"ack_user_id"`
	AckStatus *string    `db:"ack_status"`
	AckNote   *string    `db:"ack_note"`
	AckAt     *time.Time `db:"ack_at"`
}

func (r notificationRow) toEntity() *entity.Notification {
	n := &entity.Notification{
		ID:             r.ID,
		FirmID:         r.FirmID,
		UserID:         r.UserID,
		Type:           valueobject.NotificationType(r.Type),
		Channel:        valueobject.Channel(r.Channel),
		Title:          r.Title,
		Message:        r.Message,
		SourceID:       r.SourceID,
		MatterID:       r.MatterID,
		Tier:           tierPtr(r.Tier),
		IdempotencyKey: r.IdempotencyKey,
		ReadAt:         utcPtr(r.ReadAt),
		CreatedAt:      r.CreatedAt.UTC(),
	}
	if r.SourceKind != nil {
		kind := valueobject.DeadlineKind(*r.SourceKind)
		n.SourceKind = &kind
	}
	if r.AckID != nil && r.AckUserID != nil && r.AckStatus != nil && r.AckAt != nil {
		n.Acknowledgement = &entity.Acknowledgement{
			ID:             *r.AckID,
			NotificationID: r.ID,
			UserID:         *r.AckUserID,
			Status:         valueobject.AckStatus(*r.AckStatus),
			Note:           r.AckNote,
			AcknowledgedAt: r.AckAt.UTC(),
		}
	}
	return n
}

const notificationSelect = `
	SELECT n.id, n.firm_id, n.user_id, n.type, n.channel, n.title, n.message, n.source_kind, n.source_id,
	       n.matter_id, n.tier, n.idempotency_key, n.read_at, n.created_at,
	       a.id AS ack_id, a.user_id AS ack_user_id, a.status AS ack_status, a.note AS ack_note,
	       a.acknowledged_at AS ack_at
	FROM notifications n
	LEFT JOIN notification_acknowledgements a ON a.notification_id = n.id
`

const notificationInsert = `
	INSERT INTO notifications (id, firm_id, user_id, type, channel, title, message, source_kind, source_id,
	                           matter_id, tier, idempotency_key, read_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

func notificationArgs(n *entity.Notification) []interface{} {
	var sourceKind *string
	if n.SourceKind != nil {
		s := string(*n.SourceKind)
		sourceKind = &s
	}
	return []interface{}{
		n.ID,
		n.FirmID,
		n.UserID,
		string(n.Type),
		string(n.Channel),
		n.Title,
		n.Message,
		sourceKind,
		n.SourceID,
		n.MatterID,
		tierString(n.Tier),
		n.IdempotencyKey,
		n.ReadAt,
		n.CreatedAt,
	}
}

func (r *NotificationRepositoryAdapter) Create(ctx context.Context, n *entity.Notification) error {
	if _, err := r.db.ExecContext(ctx, notificationInsert, notificationArgs(n)...); err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicateNotification
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать уведомление")
	}
	return nil
}

// CreateIfAbsent не прерывает транзакцию при дубликате: конфликт
// гасится через ON CONFLICT DO NOTHING.
func (r *NotificationRepositoryAdapter) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	query := notificationInsert + `
		ON CONFLICT (idempotency_key, channel) WHERE idempotency_key IS NOT NULL DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, notificationArgs(n)...)
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать уведомление")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат вставки")
	}
	return rows > 0, nil
}

func (r *NotificationRepositoryAdapter) FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.Notification, error) {
	var row notificationRow
	err := sqlx.GetContext(ctx, r.db, &row, notificationSelect+` WHERE n.id = $1 AND n.firm_id = $2`, id, firmID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrNotificationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить уведомление")
	}
	return row.toEntity(), nil
}

func (r *NotificationRepositoryAdapter) List(ctx context.Context, filter repository.NotificationFilter) ([]*entity.Notification, int, error) {
	var args argList
	where := ` WHERE n.firm_id = ` + args.add(filter.FirmID) + ` AND n.user_id = ` + args.add(filter.UserID)
	if filter.UnreadOnly {
		where += ` AND n.read_at IS NULL`
	}

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM notifications n`+where, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать уведомления")
	}

	query := notificationSelect + where + ` ORDER BY n.created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + args.add(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + args.add(filter.Offset)
	}

	var rows []notificationRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить уведомления")
	}

	out := make([]*entity.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, total, nil
}

func (r *NotificationRepositoryAdapter) CountUnread(ctx context.Context, firmID, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE firm_id = $1 AND user_id = $2 AND read_at IS NULL`
	if err := sqlx.GetContext(ctx, r.db, &count, query, firmID, userID); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать непрочитанные")
	}
	return count, nil
}

// MarkRead не сдвигает read_at у уже прочитанного уведомления.
func (r *NotificationRepositoryAdapter) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read_at = COALESCE(read_at, $2) WHERE id = $1`, id, at)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомление прочитанным")
	}
	return expectOne(result, apperror.ErrNotificationNotFound)
}

func (r *NotificationRepositoryAdapter) MarkAllRead(ctx context.Context, firmID, userID uuid.UUID, at time.Time) (int, error) {
	query := `UPDATE notifications SET read_at = $3 WHERE firm_id = $1 AND user_id = $2 AND read_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, firmID, userID, at)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомления прочитанными")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	return int(rows), nil
}

// SaveAcknowledgement заменяет прежний ответ на уведомление, сохраняя его id.
func (r *NotificationRepositoryAdapter) SaveAcknowledgement(ctx context.Context, ack *entity.Acknowledgement) error {
	query := `
		INSERT INTO notification_acknowledgements (id, notification_id, user_id, status, note, acknowledged_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (notification_id) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    status = EXCLUDED.status,
		    note = EXCLUDED.note,
		    acknowledged_at = EXCLUDED.acknowledged_at
		RETURNING id
	`
	var id uuid.UUID
	err := sqlx.GetContext(ctx, r.db, &id, query,
		ack.ID,
		ack.NotificationID,
		ack.UserID,
		string(ack.Status),
		ack.Note,
		ack.AcknowledgedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить подтверждение")
	}
	ack.ID = id
	return nil
}
