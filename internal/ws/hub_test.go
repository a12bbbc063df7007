package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func TestHub_PushToUser_ReachesEveryConnection(t *testing.T) {
	hub := runHub(t)
	userID := uuid.New()
	first := &Client{hub: hub, userID: userID, send: make(chan []byte, 1)}
	second := &Client{hub: hub, userID: userID, send: make(chan []byte, 1)}
	other := &Client{hub: hub, userID: uuid.New(), send: make(chan []byte, 1)}
	for _, c := range []*Client{first, second, other} {
		require.NoError(t, hub.Register(context.Background(), c))
	}

	require.Eventually(t, func() bool { return hub.Online(userID) }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.PushToUser(context.Background(), userID, "notification", map[string]string{"title": "Срок"}))

	for _, c := range []*Client{first, second} {
		select {
		case raw := <-c.send:
			var env struct {
				Type string            `json:"type"`
				Data map[string]string `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, "notification", env.Type)
			assert.Equal(t, "Срок", env.Data["title"])
		case <-time.After(time.Second):
			t.Fatal("сообщение не доставлено")
		}
	}
	assert.Empty(t, other.send)
}

func TestHub_UnregisterRemovesUser(t *testing.T) {
	hub := runHub(t)
	c := &Client{hub: hub, userID: uuid.New(), send: make(chan []byte, 1)}
	require.NoError(t, hub.Register(context.Background(), c))
	require.Eventually(t, func() bool { return hub.Online(c.userID) }, time.Second, 5*time.Millisecond)

	hub.Unregister(c)
	assert.Eventually(t, func() bool { return !hub.Online(c.userID) }, time.Second, 5*time.Millisecond)
}

func TestHub_PushHonoursCancelledContext(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- message{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hub.PushToUser(ctx, uuid.New(), "notification", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHub_RegisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	c := &Client{hub: hub, userID: uuid.New(), send: make(chan []byte, 1)}
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Register(context.Background(), c) }()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrHubClosed)
	case <-time.After(time.Second):
		t.Fatal("Register завис после остановки хаба")
	}
	assert.ErrorIs(t, hub.PushToUser(context.Background(), c.userID, "notification", nil), ErrHubClosed)
}
