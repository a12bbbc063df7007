package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/notification"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo repository.NotificationRepository, firm, user uuid.UUID, count int) []*entity.Notification {
	t.Helper()
	out := make([]*entity.Notification, 0, count)
	for i := 0; i < count; i++ {
		n := &entity.Notification{
			ID:        uuid.New(),
			FirmID:    firm,
			UserID:    user,
			Type:      valueobject.NotificationTypeEscalation,
			Channel:   valueobject.ChannelInApp,
			Title:     "Эскалация",
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), n))
		out = append(out, n)
	}
	return out
}

func TestFeed_ListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repositories().Notifications
	clk := clock.Fixed(now)
	firm, user := uuid.New(), uuid.New()
	items := seed(t, repo, firm, user, 3)

	list := notification.NewListNotificationsUseCase(repo)
	out, err := list.Execute(ctx, notification.ListInput{FirmID: firm, UserID: user, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 3, out.UnreadCount)
	require.Len(t, out.Items, 2)
	assert.Equal(t, items[2].ID, out.Items[0].ID)

	require.NoError(t, notification.NewMarkReadUseCase(repo, clk).Execute(ctx, firm, user, items[0].ID))
	count, err := notification.NewUnreadCountUseCase(repo).Execute(ctx, firm, user)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	updated, err := notification.NewMarkAllReadUseCase(repo, clk).Execute(ctx, firm, user)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	out, err = list.Execute(ctx, notification.ListInput{FirmID: firm, UserID: user, UnreadOnly: true})
	require.NoError(t, err)
	assert.Zero(t, out.Total)
}

func TestFeed_MarkReadOthersNotificationForbidden(t *testing.T) {
	repo := memory.NewStore().Repositories().Notifications
	firm := uuid.New()
	items := seed(t, repo, firm, uuid.New(), 1)

	err := notification.NewMarkReadUseCase(repo, clock.Fixed(now)).Execute(context.Background(), firm, uuid.New(), items[0].ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestAcknowledge(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repositories().Notifications
	firm, user := uuid.New(), uuid.New()
	items := seed(t, repo, firm, user, 1)
	uc := notification.NewAcknowledgeUseCase(repo, clock.Fixed(now))

	_, err := uc.Execute(ctx, notification.AcknowledgeInput{FirmID: firm, UserID: user, NotificationID: items[0].ID, Status: "DONE"})
	assert.True(t, apperror.IsValidation(err))

	note := "Подано через портал"
	ack, err := uc.Execute(ctx, notification.AcknowledgeInput{FirmID: firm, UserID: user, NotificationID: items[0].ID, Status: "FILED", Note: &note})
	require.NoError(t, err)
	assert.Equal(t, valueobject.AckStatusFiled, ack.Status)

	got, err := repo.FindByID(ctx, firm, items[0].ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead())
	require.NotNil(t, got.Acknowledgement)
	assert.Equal(t, note, *got.Acknowledgement.Note)

	_, err = uc.Execute(ctx, notification.AcknowledgeInput{FirmID: firm, UserID: uuid.New(), NotificationID: items[0].ID, Status: "REVIEWED"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
