package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/saathghoomo/go-saath/internal/api"
	"github.com/saathghoomo/go-saath/internal/live"
	"github.com/saathghoomo/go-saath/internal/stats"
	"github.com/saathghoomo/go-saath/internal/testutil"
	"github.com/saathghoomo/go-saath/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	viewer = types.User{Id: "u1", Name: "Asha", Role: types.RoleUser}
	other  = types.Sender{Id: "p1", Name: "Ravi", Role: types.RolePartner}
)

// fakeChannel is an in-memory stand-in for the live connection manager.
type fakeChannel struct {
	mu        sync.Mutex
	connected bool
	queueFull bool
	queued    []*live.Envelope
	events    chan *live.Envelope
	status    chan live.Status
	cancels   int
}

func newFakeChannel(connected bool) *fakeChannel {
	return &fakeChannel{
		connected: connected,
		events:    make(chan *live.Envelope, 16),
		status:    make(chan live.Status, 16),
	}
}

func (f *fakeChannel) Queue(msg *live.Envelope) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queueFull {
		return false
	}
	f.queued = append(f.queued, msg)
	return true
}

func (f *fakeChannel) Subscribe() (<-chan *live.Envelope, func()) {
	return f.events, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancels++
	}
}

// SubscribeStatus seeds the current status first, mirroring the manager.
func (f *fakeChannel) SubscribeStatus() (<-chan live.Status, func()) {
	f.mu.Lock()
	f.status <- live.Status{Connected: f.connected}
	f.mu.Unlock()

	return f.status, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancels++
	}
}

func (f *fakeChannel) queuedEvents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.queued))
	for i, env := range f.queued {
		names[i] = env.Event
	}
	return names
}

func (f *fakeChannel) lastQueued() *live.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queued) == 0 {
		return nil
	}
	return f.queued[len(f.queued)-1]
}

type sessionFixture struct {
	session  *Session
	backend  *api.MockBackend
	ch       *fakeChannel
	notifier *testutil.RecordingNotifier
	nav      *testutil.FakeNavigator
}

func newSessionFixture(t *testing.T, connected bool) *sessionFixture {
	f := &sessionFixture{
		backend:  &api.MockBackend{},
		ch:       newFakeChannel(connected),
		notifier: &testutil.RecordingNotifier{},
		nav:      testutil.NewFakeNavigator("/chat/b1"),
	}

	mockStats := &stats.MockStatsUpdater{}
	mockStats.On("Incr", mock.Anything).Maybe()

	f.session = NewSession(f.backend, f.ch, viewer, "b1", f.notifier, f.nav,
		testutil.TestLogger(t), mockStats)
	return f
}

func testBooking() types.Booking {
	return types.Booking{
		Id:          "b1",
		UserId:      viewer.Id,
		PartnerId:   other.Id,
		UserName:    viewer.Name,
		PartnerName: other.Name,
		Status:      types.BookingAccepted,
	}
}

func TestLoadHistory(t *testing.T) {
	f := newSessionFixture(t, true)
	defer f.backend.AssertExpectations(t)

	f.backend.On("ChatHistory", mock.Anything, "b1").Return(&api.ChatHistory{
		Messages: []types.ChatMessage{
			{Id: "m1", Sender: types.Sender{Id: viewer.Id, Name: viewer.Name}, Text: "hello"},
			{Id: "m2", Sender: other, Text: "hi there"},
		},
		Booking: testBooking(),
	}, nil).Once()

	assert.NoError(t, f.session.LoadHistory(context.Background()))

	msgs := f.session.Messages()
	assert.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsOwn, "viewer's messages are tagged as own")
	assert.False(t, msgs[1].IsOwn)
	assert.Equal(t, other.Name, f.session.OtherParty(),
		"a user viewer talks to the booking's partner")
	assert.False(t, f.session.Loading())
}

func TestLoadHistory_Forbidden(t *testing.T) {
	f := newSessionFixture(t, true)
	defer f.backend.AssertExpectations(t)

	f.backend.On("ChatHistory", mock.Anything, "b1").
		Return(nil, api.NewStatusError(403, "Not your booking")).Once()

	assert.Error(t, f.session.LoadHistory(context.Background()))
	assert.Equal(t, "Not your booking", f.notifier.LastError())
	assert.Equal(t, types.DashboardPath, f.nav.Current(),
		"losing access to the room redirects away")
}

func TestLoadHistory_ErrorKeepsMessages(t *testing.T) {
	f := newSessionFixture(t, true)
	defer f.backend.AssertExpectations(t)

	f.backend.On("ChatHistory", mock.Anything, "b1").Return(&api.ChatHistory{
		Messages: []types.ChatMessage{{Id: "m1", Sender: other, Text: "hi"}},
		Booking:  testBooking(),
	}, nil).Once()
	assert.NoError(t, f.session.LoadHistory(context.Background()))

	f.backend.On("ChatHistory", mock.Anything, "b1").
		Return(nil, api.NewStatusError(500, "down")).Once()
	assert.Error(t, f.session.LoadHistory(context.Background()))

	assert.Len(t, f.session.Messages(), 1, "a failed reload keeps existing history")
	assert.Equal(t, "/chat/b1", f.nav.Current(), "only a 403 navigates away")
}

func TestSend_OptimisticEchoOnce(t *testing.T) {
	f := newSessionFixture(t, true)
	f.session.connected = true

	assert.NoError(t, f.session.Send("  see you at 5  "))

	msgs := f.session.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "see you at 5", msgs[0].Text, "input is trimmed")
	assert.True(t, msgs[0].IsOwn)
	assert.True(t, msgs[0].Pending)

	sent := f.ch.lastQueued()
	assert.Equal(t, live.EventSendMessage, sent.Event)
	var payload live.SendMessagePayload
	assert.NoError(t, json.Unmarshal(sent.Data, &payload))
	assert.Equal(t, "b1", payload.BookingId)
	assert.NotEmpty(t, payload.ClientId, "every send carries a correlation id")

	// the server echo confirms the optimistic copy in place
	f.session.receive(live.MessagePayload{
		Id:        "m9",
		BookingId: "b1",
		ClientId:  payload.ClientId,
		Sender:    types.Sender{Id: viewer.Id, Name: viewer.Name},
		Message:   "see you at 5",
		Timestamp: live.Now(),
	})

	msgs = f.session.Messages()
	assert.Len(t, msgs, 1, "the echo must not duplicate the optimistic copy")
	assert.Equal(t, "m9", msgs[0].Id, "the confirmed copy adopts the server id")
	assert.False(t, msgs[0].Pending)
}

func TestSend_EchoWithoutClientIdMatchesByText(t *testing.T) {
	f := newSessionFixture(t, true)
	f.session.connected = true

	assert.NoError(t, f.session.Send("hello"))

	f.session.receive(live.MessagePayload{
		Id:        "m1",
		BookingId: "b1",
		Sender:    types.Sender{Id: viewer.Id},
		Message:   "hello",
		Timestamp: live.Now(),
	})

	msgs := f.session.Messages()
	assert.Len(t, msgs, 1, "a correlation-less echo still reconciles by text")
	assert.Equal(t, "m1", msgs[0].Id)
}

func TestSend_Blank(t *testing.T) {
	f := newSessionFixture(t, true)
	f.session.connected = true

	assert.Error(t, f.session.Send("   "))
	assert.Empty(t, f.session.Messages())
	assert.Empty(t, f.ch.queuedEvents(), "nothing goes over the wire for blank input")
}

func TestSend_NotConnected(t *testing.T) {
	f := newSessionFixture(t, false)

	assert.Error(t, f.session.Send("hello"))
	assert.Empty(t, f.session.Messages(), "no optimistic copy while disconnected")
	assert.Equal(t, "Chat is not connected", f.notifier.LastError())
}

func TestSend_QueueFullIsAcknowledged(t *testing.T) {
	f := newSessionFixture(t, true)
	f.session.connected = true
	f.ch.queueFull = true

	assert.NoError(t, f.session.Send("hello"))
	assert.Equal(t, "Failed to send message", f.notifier.LastError())
}

func TestReceive_RecomputesOwnership(t *testing.T) {
	f := newSessionFixture(t, true)

	f.session.receive(live.MessagePayload{
		Id:        "m1",
		BookingId: "b1",
		Sender:    other,
		Message:   "on my way",
		Timestamp: live.Now(),
	})

	msgs := f.session.Messages()
	assert.Len(t, msgs, 1)
	assert.False(t, msgs[0].IsOwn, "ownership is derived from the sender id, not trusted")
}

func TestHandleEvent_FiltersOtherRooms(t *testing.T) {
	f := newSessionFixture(t, true)

	f.session.handleEvent(&live.Envelope{
		Event: live.EventReceiveMessage,
		Data:  json.RawMessage(`{"id":"m1","bookingId":"b2","sender":{"id":"p1"},"message":"wrong room"}`),
	})

	assert.Empty(t, f.session.Messages(), "events for other bookings are ignored")
}

func TestHandleEvent_RoomJoined(t *testing.T) {
	f := newSessionFixture(t, true)

	raw, err := json.Marshal(live.RoomJoinedPayload{Booking: testBooking()})
	assert.NoError(t, err)
	f.session.handleEvent(&live.Envelope{Event: live.EventRoomJoined, Data: raw})

	assert.Equal(t, other.Name, f.session.OtherParty())
}

func TestHandleEvent_Presence(t *testing.T) {
	f := newSessionFixture(t, true)

	f.session.handleEvent(&live.Envelope{
		Event: live.EventUserJoined,
		Data:  json.RawMessage(`{"bookingId":"b1","userName":"Ravi"}`),
	})
	f.session.handleEvent(&live.Envelope{
		Event: live.EventUserLeft,
		Data:  json.RawMessage(`{"bookingId":"b1","userName":"Ravi"}`),
	})

	assert.Equal(t, []string{"Ravi joined the chat", "Ravi left the chat"}, f.notifier.Infos)
}

func TestHandleEvent_ErrorKeepsHistory(t *testing.T) {
	f := newSessionFixture(t, true)
	f.session.connected = true
	assert.NoError(t, f.session.Send("hello"))

	f.session.handleEvent(&live.Envelope{
		Event: live.EventError,
		Data:  json.RawMessage(`{"message":"join failed"}`),
	})

	assert.Equal(t, "join failed", f.notifier.LastError())
	assert.Len(t, f.session.Messages(), 1, "a channel error never clears history")

	f.session.handleEvent(&live.Envelope{Event: live.EventError, Data: json.RawMessage(`{}`)})
	assert.Equal(t, "Chat error occurred", f.notifier.LastError())
}

func (f *fakeChannel) joinCount() int {
	joins := 0
	for _, ev := range f.queuedEvents() {
		if ev == live.EventJoinRoom {
			joins++
		}
	}
	return joins
}

func TestConnect_JoinsAndRejoins(t *testing.T) {
	f := newSessionFixture(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.session.Connect(ctx)

	assert.Eventually(t, func() bool { return f.ch.joinCount() == 1 },
		2*time.Second, 10*time.Millisecond, "the seeded connected status triggers the join")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, f.ch.joinCount(), "connecting while online must join exactly once")

	// drop and reconnect: the join is re-issued
	f.ch.status <- live.Status{Connected: false}
	f.ch.status <- live.Status{Connected: true}

	assert.Eventually(t, func() bool { return f.ch.joinCount() == 2 },
		2*time.Second, 10*time.Millisecond, "expected a re-join after reconnect")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, f.ch.joinCount(), "a reconnect re-joins exactly once")
}

func TestClose(t *testing.T) {
	f := newSessionFixture(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.session.Connect(ctx)
	assert.Eventually(t, func() bool { return f.ch.joinCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	f.session.Close()
	f.session.Close() // safe twice

	events := f.ch.queuedEvents()
	assert.Equal(t, live.EventLeaveRoom, events[len(events)-1], "closing leaves the room")

	f.ch.mu.Lock()
	cancels := f.ch.cancels
	f.ch.mu.Unlock()
	assert.Equal(t, 2, cancels, "both subscriptions are cancelled exactly once")
}
