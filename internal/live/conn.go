package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Conn is one authenticated push-channel connection. Inbound envelopes are
// delivered on Events; Done closes when the transport drops for any reason.
type Conn struct {
	conn   *websocket.Conn
	log    *log.Logger
	send   chan *Envelope
	events chan *Envelope
	stop   chan struct{}
	done   chan struct{}

	closeOnce sync.Once
	doneOnce  sync.Once
}

// Dial opens a connection authenticated with the bearer token at handshake
// time. Callers must never Dial with an empty token.
func Dial(ctx context.Context, url, token string, logger *log.Logger) (*Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		conn:   ws,
		log:    logger,
		send:   make(chan *Envelope, 256),
		events: make(chan *Envelope, 256),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go c.write()
	go c.read()

	return c, nil
}

func (c *Conn) Events() <-chan *Envelope {
	return c.events
}

// Done closes when the connection is no longer delivering events, whether
// closed locally or dropped by the server.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Queue enqueues an envelope for delivery. It never blocks; a full send
// buffer drops the envelope and returns false.
func (c *Conn) Queue(msg *Envelope) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Println("failed to queue message, channel is full")
		return false
	}

	return true
}

// Close tears the connection down explicitly. Leaking a connection to the
// garbage collector is a defect.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.conn.Close()
	})
}

func (c *Conn) write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Println("write exiting")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := json.Marshal(msg)
			if err != nil {
				c.log.Println("failed to serialize message:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Conn) read() {
	defer func() {
		c.conn.Close()
		c.doneOnce.Do(func() { close(c.done) })
		close(c.events)
		c.log.Println("read exiting")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var msg Envelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Println("error parsing message:", err)
			continue
		}

		select {
		case c.events <- &msg:
		default:
			c.log.Printf("event buffer full, dropping %q", msg.Event)
		}
	}
}

func (c *Conn) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}
