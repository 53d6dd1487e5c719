package chat

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/saathghoomo/go-saath/internal/api"
	"github.com/saathghoomo/go-saath/internal/live"
	"github.com/saathghoomo/go-saath/internal/stats"
	"github.com/saathghoomo/go-saath/internal/types"
	"github.com/teris-io/shortid"
)

// Channel is the slice of the live connection manager a chat session needs.
// Connection health arrives through the status subscription, which seeds
// the current state on subscribe.
type Channel interface {
	Queue(msg *live.Envelope) bool
	Subscribe() (<-chan *live.Envelope, func())
	SubscribeStatus() (<-chan live.Status, func())
}

// Session is the transient state of one booking's chat room: the ordered
// message list, the connection-health flag, and the optimistic echo of sent
// messages reconciled against server-confirmed copies. Access control is
// the route guard's job; the session assumes the viewer may read the room.
type Session struct {
	api      api.Backend
	ch       Channel
	notifier types.Notifier
	nav      types.Navigator
	log      *log.Logger
	stats    stats.StatsProvider

	bookingId string
	viewer    types.User

	mu         sync.Mutex
	messages   []types.ChatMessage
	booking    *types.Booking
	otherParty string
	connected  bool
	loading    bool

	cancelEvents func()
	cancelStatus func()
	closeOnce    sync.Once
}

func NewSession(backend api.Backend, ch Channel, viewer types.User, bookingId string,
	notifier types.Notifier, nav types.Navigator, logger *log.Logger, sp stats.StatsProvider) *Session {
	return &Session{
		api:       backend,
		ch:        ch,
		notifier:  notifier,
		nav:       nav,
		log:       logger,
		stats:     sp,
		bookingId: bookingId,
		viewer:    viewer,
	}
}

func (s *Session) BookingId() string {
	return s.bookingId
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// OtherParty is the display name of the conversation partner: the booking's
// partner name when the viewer is a user, the booking's user name otherwise.
func (s *Session) OtherParty() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.otherParty
}

func (s *Session) Booking() *types.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booking
}

// Messages returns a snapshot in arrival order.
func (s *Session) Messages() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// LoadHistory bulk-fetches prior messages and the booking metadata. A 403
// means the viewer lost access to this room: redirect away, session stays
// valid. Other errors surface as a notice and leave existing state alone.
func (s *Session) LoadHistory(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	hist, err := s.api.ChatHistory(ctx, s.bookingId)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.notifier.Error(api.UserMessageFor(err))
		if api.IsForbidden(err) {
			s.nav.Navigate(types.DashboardPath)
		}
		return err
	}

	for i := range hist.Messages {
		hist.Messages[i].IsOwn = hist.Messages[i].Sender.Id == s.viewer.Id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = hist.Messages
	s.applyBooking(&hist.Booking)
	return nil
}

// applyBooking records the booking and derives the other party. Callers
// hold s.mu.
func (s *Session) applyBooking(b *types.Booking) {
	s.booking = b
	if s.viewer.Role == types.RoleUser {
		s.otherParty = b.PartnerName
	} else {
		s.otherParty = b.UserName
	}
}

// Connect subscribes to the shared connection and joins this booking's
// room. The status subscription seeds the current state, so the join is
// issued whenever the channel reports connected: once on an already-live
// channel, and again after every reconnect or token rebind.
func (s *Session) Connect(ctx context.Context) {
	events, cancelEvents := s.ch.Subscribe()
	status, cancelStatus := s.ch.SubscribeStatus()

	s.mu.Lock()
	s.cancelEvents = cancelEvents
	s.cancelStatus = cancelStatus
	s.mu.Unlock()

	go s.run(ctx, events, status)
}

// Close leaves the room and detaches from the shared connection. Switching
// bookings means closing the old session before opening the new one.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.ch.Queue(live.NewLeaveRoom(s.bookingId))

		s.mu.Lock()
		cancelEvents, cancelStatus := s.cancelEvents, s.cancelStatus
		s.cancelEvents, s.cancelStatus = nil, nil
		s.mu.Unlock()

		if cancelEvents != nil {
			cancelEvents()
		}
		if cancelStatus != nil {
			cancelStatus()
		}
	})
}

func (s *Session) run(ctx context.Context, events <-chan *live.Envelope, status <-chan live.Status) {
	for {
		select {
		case st, ok := <-status:
			if !ok {
				return
			}
			s.mu.Lock()
			wasConnected := s.connected
			s.connected = st.Connected
			s.mu.Unlock()
			if st.Connected && !wasConnected {
				s.ch.Queue(live.NewJoinRoom(s.bookingId))
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ev)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) handleEvent(ev *live.Envelope) {
	switch ev.Event {
	case live.EventReceiveMessage:
		var payload live.MessagePayload
		if err := ev.Decode(&payload); err != nil {
			s.log.Println(err)
			return
		}
		if payload.BookingId != "" && payload.BookingId != s.bookingId {
			return
		}
		s.receive(payload)
	case live.EventRoomJoined:
		var payload live.RoomJoinedPayload
		if err := ev.Decode(&payload); err != nil {
			s.log.Println(err)
			return
		}
		s.mu.Lock()
		s.applyBooking(&payload.Booking)
		s.mu.Unlock()
	case live.EventUserJoined:
		var payload live.PresencePayload
		if err := ev.Decode(&payload); err != nil {
			s.log.Println(err)
			return
		}
		if payload.BookingId == "" || payload.BookingId == s.bookingId {
			s.notifier.Info(payload.UserName + " joined the chat")
		}
	case live.EventUserLeft:
		var payload live.PresencePayload
		if err := ev.Decode(&payload); err != nil {
			s.log.Println(err)
			return
		}
		if payload.BookingId == "" || payload.BookingId == s.bookingId {
			s.notifier.Info(payload.UserName + " left the chat")
		}
	case live.EventError:
		var payload live.ErrorPayload
		if err := ev.Decode(&payload); err != nil {
			s.log.Println(err)
			return
		}
		// a channel error never clears already-loaded history
		msg := payload.Message
		if msg == "" {
			msg = "Chat error occurred"
		}
		s.notifier.Error(msg)
	}
}

// Send appends an optimistic local copy immediately and emits the message
// over the channel without waiting for acknowledgment. Empty and
// whitespace-only input is rejected before anything else happens.
func (s *Session) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return api.NewValidationError("message", "Message cannot be empty")
	}

	if !s.Connected() {
		err := api.NewStatusError(0, "Chat is not connected")
		s.notifier.Error(err.UserMessage())
		return err
	}

	clientId, err := shortid.Generate()
	if err != nil {
		return err
	}

	msg := types.ChatMessage{
		ClientId:  clientId,
		Sender:    types.Sender{Id: s.viewer.Id, Name: s.viewer.Name, Role: s.viewer.Role},
		Text:      text,
		Timestamp: live.Now(),
		IsOwn:     true,
		Pending:   true,
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	if !s.ch.Queue(live.NewSendMessage(s.bookingId, text, clientId)) {
		s.notifier.Error("Failed to send message")
	}
	s.stats.Incr(stats.MessagesSent)
	return nil
}

// receive appends an incoming message, recomputing IsOwn from the sender
// id. A server echo of the viewer's own message reconciles against the
// optimistic copy (by correlation id, else by text against the oldest
// pending copy) so each sent message appears exactly once.
func (s *Session) receive(payload live.MessagePayload) {
	isOwn := payload.Sender.Id == s.viewer.Id

	s.mu.Lock()
	defer s.mu.Unlock()

	if isOwn {
		if i := s.findPending(payload); i >= 0 {
			s.messages[i].Id = payload.Id
			s.messages[i].Timestamp = payload.Timestamp
			s.messages[i].Pending = false
			return
		}
	}

	s.messages = append(s.messages, types.ChatMessage{
		Id:        payload.Id,
		ClientId:  payload.ClientId,
		Sender:    payload.Sender,
		Text:      payload.Message,
		Timestamp: payload.Timestamp,
		IsOwn:     isOwn,
	})
	s.stats.Incr(stats.MessagesReceived)
}

// findPending locates the optimistic copy an own-message echo confirms.
// Callers hold s.mu.
func (s *Session) findPending(payload live.MessagePayload) int {
	if payload.ClientId != "" {
		for i := range s.messages {
			if s.messages[i].Pending && s.messages[i].ClientId == payload.ClientId {
				return i
			}
		}
		return -1
	}

	for i := range s.messages {
		if s.messages[i].Pending && s.messages[i].Text == payload.Message {
			return i
		}
	}
	return -1
}
