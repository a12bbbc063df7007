package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/notification"
)

// DispatchResult содержит итог отправки уровня для одного дедлайна.
type DispatchResult struct {
	NotificationIDs []uuid.UUID
	AlreadySent     bool
}

// Dispatcher создаёт уведомления уровня не более одного раза на пару
// (дедлайн, уровень) и передаёт их доставке.
type Dispatcher struct {
	uow       repository.UnitOfWork
	deliverer notification.Deliverer
}

func NewDispatcher(uow repository.UnitOfWork, deliverer notification.Deliverer) *Dispatcher {
	if deliverer == nil {
		deliverer = notification.Discard
	}
	return &Dispatcher{uow: uow, deliverer: deliverer}
}

// Dispatch в одной транзакции создаёт по записи на канал и отмечает уровень
// как отправленный. Повтор с тем же ключом возвращает AlreadySent.
func (d *Dispatcher) Dispatch(ctx context.Context, dl entity.Deadline, policy entity.EscalationPolicy, recipient uuid.UUID, now time.Time) (*DispatchResult, error) {
	key := rules.IdempotencyKey(dl.Kind, dl.ID, policy.Tier, dl.DueAt, dl.DueRevision)
	title, message := escalationText(dl, policy.Tier, now)

	var created []*entity.Notification
	err := d.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		created = created[:0]
		for _, ch := range policy.Channels {
			n := newEscalationNotification(dl, policy.Tier, ch, recipient, key, title, message, now)
			ok, err := tx.Notifications.CreateIfAbsent(ctx, n)
			if err != nil {
				return err
			}
			if ok {
				created = append(created, n)
			}
		}
		return tx.Deadlines(dl.Kind).MarkEscalated(ctx, dl.ID, dl.DueRevision, policy.Tier)
	})
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{AlreadySent: len(created) == 0}
	for _, n := range created {
		result.NotificationIDs = append(result.NotificationIDs, n.ID)
		if err := d.deliverer.Deliver(ctx, n); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"notification_id": n.ID,
				"channel":         n.Channel,
			}).Warn("Не удалось доставить уведомление")
		}
	}
	return result, nil
}

func newEscalationNotification(dl entity.Deadline, tier valueobject.Tier, ch valueobject.Channel, recipient uuid.UUID, key, title, message string, now time.Time) *entity.Notification {
	kind, sourceID, matterID, t, k := dl.Kind, dl.ID, dl.MatterID, tier, key
	return &entity.Notification{
		ID:             uuid.New(),
		FirmID:         dl.FirmID,
		UserID:         recipient,
		Type:           valueobject.NotificationTypeEscalation,
		Channel:        ch,
		Title:          title,
		Message:        message,
		SourceKind:     &kind,
		SourceID:       &sourceID,
		MatterID:       &matterID,
		Tier:           &t,
		IdempotencyKey: &k,
		CreatedAt:      now,
	}
}

var tierLabels = map[valueobject.Tier]string{
	valueobject.TierT14D:    "до срока 14 дней",
	valueobject.TierT7D:     "до срока 7 дней",
	valueobject.TierT48H:    "до срока 48 часов",
	valueobject.TierT24H:    "до срока 24 часа",
	valueobject.TierOverdue: "срок пропущен",
}

func escalationText(dl entity.Deadline, tier valueobject.Tier, now time.Time) (string, string) {
	label, ok := tierLabels[tier]
	if !ok {
		label = string(tier)
	}
	title := fmt.Sprintf("Эскалация: %s", dl.Title)

	due := dl.DueAt.Format("02.01.2006 15:04 MST")
	if dl.DueAt.After(now) {
		return title, fmt.Sprintf("«%s»: %s (срок %s, осталось дней: %d)", dl.Title, label, due, rules.DaysUntilDue(dl.DueAt, now))
	}
	return title, fmt.Sprintf("«%s»: %s (срок был %s)", dl.Title, label, due)
}
