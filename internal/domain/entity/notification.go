package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// Notification представляет одно исходящее сообщение одному пользователю.
// После создания меняются только отметки о прочтении и подтверждении.
type Notification struct {
	ID             uuid.UUID
	FirmID         uuid.UUID
	UserID         uuid.UUID
	Type           valueobject.NotificationType
	Channel        valueobject.Channel
	Title          string
	Message        string
	SourceKind     *valueobject.DeadlineKind
	SourceID       *uuid.UUID
	MatterID       *uuid.UUID
	Tier           *valueobject.Tier
	IdempotencyKey *string
	ReadAt         *time.Time
	CreatedAt      time.Time

	Acknowledgement *Acknowledgement
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

func (n *Notification) IsOwnedBy(userID uuid.UUID) bool {
	return n.UserID == userID
}

// Acknowledgement хранит ответ пользователя на уведомление.
type Acknowledgement struct {
	ID             uuid.UUID
	NotificationID uuid.UUID
	UserID         uuid.UUID
	Status         valueobject.AckStatus
	Note           *string
	AcknowledgedAt time.Time
}
