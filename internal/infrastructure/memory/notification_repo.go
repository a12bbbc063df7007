package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type notificationRepo struct {
	v *view
}

func dedupKey(n *entity.Notification) string {
	return *n.IdempotencyKey + "|" + string(n.Channel)
}

func (r *notificationRepo) Create(_ context.Context, n *entity.Notification) error {
	item := *n
	return r.v.write(func(st *state) error {
		if item.IdempotencyKey != nil {
			key := dedupKey(&item)
			if _, dup := st.notifKeys[key]; dup {
				return apperror.ErrDuplicateNotification
			}
			st.notifKeys[key] = item.ID
		}
		st.notifications[item.ID] = item
		return nil
	})
}

func (r *notificationRepo) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	err := r.Create(ctx, n)
	if apperror.IsConflict(err) {
		return false, nil
	}
	return err == nil, err
}

func withAck(st *state, n entity.Notification) *entity.Notification {
	if ack, ok := st.acks[n.ID]; ok {
		n.Acknowledgement = &ack
	}
	return &n
}

func (r *notificationRepo) FindByID(_ context.Context, firmID, id uuid.UUID) (*entity.Notification, error) {
	st, done := r.v.read()
	defer done()
	n, ok := st.notifications[id]
	if !ok || n.FirmID != firmID {
		return nil, apperror.ErrNotificationNotFound
	}
	return withAck(st, n), nil
}

func (r *notificationRepo) List(_ context.Context, filter repository.NotificationFilter) ([]*entity.Notification, int, error) {
	st, done := r.v.read()
	defer done()

	all := make([]*entity.Notification, 0)
	for _, n := range st.notifications {
		if n.FirmID != filter.FirmID || n.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && n.ReadAt != nil {
			continue
		}
		all = append(all, withAck(st, n))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if filter.Offset >= total {
		return []*entity.Notification{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return all[filter.Offset:end], total, nil
}

func (r *notificationRepo) CountUnread(_ context.Context, firmID, userID uuid.UUID) (int, error) {
	st, done := r.v.read()
	defer done()
	count := 0
	for _, n := range st.notifications {
		if n.FirmID == firmID && n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.v.write(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return apperror.ErrNotificationNotFound
		}
		if n.ReadAt == nil {
			n.ReadAt = &at
			st.notifications[id] = n
		}
		return nil
	})
}

func (r *notificationRepo) MarkAllRead(_ context.Context, firmID, userID uuid.UUID, at time.Time) (int, error) {
	var updated int
	err := r.v.write(func(st *state) error {
		updated = 0
		for id, n := range st.notifications {
			if n.FirmID == firmID && n.UserID == userID && n.ReadAt == nil {
				n.ReadAt = &at
				st.notifications[id] = n
				updated++
			}
		}
		return nil
	})
	return updated, err
}

// SaveAcknowledgement заменяет прежний ответ, сохраняя его id.
func (r *notificationRepo) SaveAcknowledgement(_ context.Context, ack *entity.Acknowledgement) error {
	item := *ack
	var savedID uuid.UUID
	err := r.v.write(func(st *state) error {
		stored := item
		if existing, ok := st.acks[stored.NotificationID]; ok {
			stored.ID = existing.ID
		}
		st.acks[stored.NotificationID] = stored
		savedID = stored.ID
		return nil
	})
	if err != nil {
		return err
	}
	ack.ID = savedID
	return nil
}
