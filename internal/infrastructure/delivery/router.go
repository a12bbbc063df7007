// Package delivery доставляет созданные уведомления по каналам.
package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
)

// EventNotification задаёт имя WS-события для новых уведомлений.
const EventNotification = "notification"

// Pusher отправляет событие в открытые подключения пользователя.
type Pusher interface {
	PushToUser(ctx context.Context, userID uuid.UUID, event string, data any) error
}

// Payload описывает WS-событие о новом уведомлении.
type Payload struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	SourceKind *string    `json:"source_kind,omitempty"`
	SourceID   *uuid.UUID `json:"source_id,omitempty"`
	MatterID   *uuid.UUID `json:"matter_id,omitempty"`
	Tier       *string    `json:"tier,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func NewPayload(n *entity.Notification) Payload {
	p := Payload{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		SourceID:  n.SourceID,
		MatterID:  n.MatterID,
		CreatedAt: n.CreatedAt,
	}
	if n.SourceKind != nil {
		s := string(*n.SourceKind)
		p.SourceKind = &s
	}
	if n.Tier != nil {
		s := string(*n.Tier)
		p.Tier = &s
	}
	return p
}

// Router выбирает транспорт по каналу уведомления. IN_APP уходит в WebSocket,
// для внешних каналов транспорт не подключён и уведомление только журналируется.
type Router struct {
	pusher Pusher
}

func NewRouter(pusher Pusher) *Router {
	return &Router{pusher: pusher}
}

func (r *Router) Deliver(ctx context.Context, n *entity.Notification) error {
	switch n.Channel {
	case valueobject.ChannelInApp:
		if r.pusher == nil {
			return nil
		}
		return r.pusher.PushToUser(ctx, n.UserID, EventNotification, NewPayload(n))
	default:
		logger.Log.WithFields(logrus.Fields{
			"notification_id": n.ID,
			"user_id":         n.UserID,
			"channel":         n.Channel,
			"title":           n.Title,
		}).Info("Уведомление поставлено в очередь внешнего канала")
		return nil
	}
}
