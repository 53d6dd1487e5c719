package live

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/saathghoomo/go-saath/internal/types"
)

// Server-to-client event families.
const (
	EventNewNotification = "new-notification"
	EventUnreadCount     = "unread-count"
	EventReceiveMessage  = "receive-message"
	EventRoomJoined      = "room-joined"
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
	EventError           = "error"
)

// Client-to-server event families.
const (
	EventJoinRoom    = "join-room"
	EventLeaveRoom   = "leave-room"
	EventSendMessage = "send-message"
)

// Envelope is the wire frame of the push channel: a named event with an
// event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func (e *Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Event, err)
	}
	return nil
}

type UnreadCountPayload struct {
	Count int `json:"count"`
}

type RoomJoinedPayload struct {
	Booking types.Booking `json:"booking"`
}

type PresencePayload struct {
	BookingId string `json:"bookingId"`
	UserName  string `json:"userName"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type MessagePayload struct {
	Id        string       `json:"id"`
	BookingId string       `json:"bookingId"`
	ClientId  string       `json:"clientId,omitempty"`
	Sender    types.Sender `json:"sender"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

type RoomRequestPayload struct {
	BookingId string `json:"bookingId"`
}

type SendMessagePayload struct {
	BookingId string `json:"bookingId"`
	Message   string `json:"message"`
	ClientId  string `json:"clientId"`
}

func newEnvelope(event string, payload any) *Envelope {
	raw, err := json.Marshal(payload)
	if err != nil {
		// payloads are plain structs; a marshal failure is a programming error
		panic(fmt.Sprintf("marshal %s payload: %v", event, err))
	}
	return &Envelope{Event: event, Data: raw}
}

func NewJoinRoom(bookingId string) *Envelope {
	return newEnvelope(EventJoinRoom, RoomRequestPayload{BookingId: bookingId})
}

func NewLeaveRoom(bookingId string) *Envelope {
	return newEnvelope(EventLeaveRoom, RoomRequestPayload{BookingId: bookingId})
}

func NewSendMessage(bookingId, text, clientId string) *Envelope {
	return newEnvelope(EventSendMessage, SendMessagePayload{
		BookingId: bookingId,
		Message:   text,
		ClientId:  clientId,
	})
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
