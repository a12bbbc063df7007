package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// CreateIfAbsent вставляет уведомление, если пары (ключ идемпотентности, канал)
	// ещё нет. created=false означает, что уведомление уже было отправлено.
	CreateIfAbsent(ctx context.Context, n *entity.Notification) (created bool, err error)
	FindByID(ctx context.Context, firmID, id uuid.UUID) (*entity.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]*entity.Notification, int, error)
	CountUnread(ctx context.Context, firmID, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, firmID, userID uuid.UUID, at time.Time) (int, error)
	SaveAcknowledgement(ctx context.Context, ack *entity.Acknowledgement) error
}

type NotificationFilter struct {
	FirmID     uuid.UUID
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int
	Offset     int
}
