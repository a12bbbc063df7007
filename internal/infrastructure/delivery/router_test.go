package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
)

type mockPusher struct {
	mock.Mock
}

func (m *mockPusher) PushToUser(ctx context.Context, userID uuid.UUID, event string, data any) error {
	args := m.Called(ctx, userID, event, data)
	return args.Error(0)
}

func newNotification(ch valueobject.Channel) *entity.Notification {
	tier := valueobject.TierT48H
	kind := valueobject.DeadlineKindKeyDate
	src := uuid.New()
	return &entity.Notification{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Type:       valueobject.NotificationTypeEscalation,
		Channel:    ch,
		Title:      "Срок через 48 часов",
		Message:    "Подать возражение",
		SourceKind: &kind,
		SourceID:   &src,
		Tier:       &tier,
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRouter_InAppGoesToPusher(t *testing.T) {
	pusher := new(mockPusher)
	n := newNotification(valueobject.ChannelInApp)
	pusher.On("PushToUser", mock.Anything, n.UserID, EventNotification, mock.MatchedBy(func(p Payload) bool {
		return p.ID == n.ID && p.Tier != nil && *p.Tier == "T_48H" && *p.SourceKind == "KEY_DATE"
	})).Return(nil).Once()

	require.NoError(t, NewRouter(pusher).Deliver(context.Background(), n))
	pusher.AssertExpectations(t)
}

func TestRouter_PropagatesPushError(t *testing.T) {
	pusher := new(mockPusher)
	pusher.On("PushToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("closed"))

	err := NewRouter(pusher).Deliver(context.Background(), newNotification(valueobject.ChannelInApp))
	assert.Error(t, err)
}

func TestRouter_ExternalChannelsAreLoggedOnly(t *testing.T) {
	logger.Silence()
	pusher := new(mockPusher)

	for _, ch := range []valueobject.Channel{valueobject.ChannelEmail, valueobject.ChannelSMS, valueobject.ChannelPush} {
		require.NoError(t, NewRouter(pusher).Deliver(context.Background(), newNotification(ch)))
	}
	pusher.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
