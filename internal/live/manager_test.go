package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/saathghoomo/go-saath/internal/stats"
	"github.com/saathghoomo/go-saath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestManager(t *testing.T, url, initial string, tokens <-chan string) *Manager {
	mockStats := &stats.MockStatsUpdater{}
	mockStats.On("Incr", mock.Anything).Maybe()

	return NewManager(url, initial, tokens, testutil.TestLogger(t), mockStats)
}

func TestManager_NoTokenStaysIdle(t *testing.T) {
	s := newWSServer(t)
	m := newTestManager(t, s.url(), "", make(chan string))

	go m.Run(context.Background())
	defer m.Close()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, m.Connected(), "no token, no connection")
	assert.Empty(t, s.authHeaders(), "expected no handshake without a token")
	assert.False(t, m.Queue(NewJoinRoom("b1")), "queueing while idle reports failure")
}

func TestManager_ConnectsWithInitialToken(t *testing.T) {
	s := newWSServer(t)
	m := newTestManager(t, s.url(), "tok-1", make(chan string))

	events, cancel := m.Subscribe()
	defer cancel()

	go m.Run(context.Background())
	defer m.Close()

	server := s.accept(t)
	defer server.Close()

	assert.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond,
		"expected the manager to come up with the startup token")
	assert.Equal(t, []string{"Bearer tok-1"}, s.authHeaders())

	assert.NoError(t, server.WriteJSON(Envelope{
		Event: EventNewNotification,
		Data:  json.RawMessage(`{"_id":"n1","title":"New Booking!","isRead":false}`),
	}))

	select {
	case ev := <-events:
		assert.Equal(t, EventNewNotification, ev.Event, "expected server events to reach subscribers")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestManager_TokenChangeRebinds(t *testing.T) {
	s := newWSServer(t)
	tokens := make(chan string, 1)
	m := newTestManager(t, s.url(), "tok-1", tokens)

	go m.Run(context.Background())
	defer m.Close()

	first := s.accept(t)
	assert.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)

	tokens <- "tok-2"

	second := s.accept(t)
	defer second.Close()

	// the old connection must be gone before the new one serves events
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	assert.Error(t, err, "expected the first connection to be closed on token change")

	assert.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Bearer tok-1", "Bearer tok-2"}, s.authHeaders(),
		"expected one handshake per token")
}

func TestManager_LogoutDisconnects(t *testing.T) {
	s := newWSServer(t)
	tokens := make(chan string, 1)
	m := newTestManager(t, s.url(), "tok-1", tokens)

	go m.Run(context.Background())
	defer m.Close()

	server := s.accept(t)
	defer server.Close()
	assert.Eventually(t, m.Connected, 2*time.Second, 10*time.Millisecond)

	tokens <- ""

	assert.Eventually(t, func() bool { return !m.Connected() }, 2*time.Second, 10*time.Millisecond,
		"expected logout to tear the connection down")
	assert.Len(t, s.authHeaders(), 1, "expected no redial without a token")
}

func TestManager_ServerDropUpdatesStatus(t *testing.T) {
	s := newWSServer(t)
	m := newTestManager(t, s.url(), "tok-1", make(chan string))

	status, cancel := m.SubscribeStatus()
	defer cancel()

	go m.Run(context.Background())
	defer m.Close()

	assert.Equal(t, Status{Connected: false}, <-status, "the current status is delivered first")

	server := s.accept(t)
	assert.Equal(t, Status{Connected: true}, <-status)

	server.Close()
	select {
	case st := <-status:
		assert.False(t, st.Connected, "expected a disconnect status after the server drop")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for status change")
	}
}

func TestManager_SubscribeCancelIdempotent(t *testing.T) {
	m := newTestManager(t, "ws://unused", "", make(chan string))

	ch, cancel := m.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open, "expected the subscriber channel to be closed")
}
