package live

import (
	"context"
	"log"
	"sync"

	"github.com/saathghoomo/go-saath/internal/stats"
)

// Status signals a connectivity change to subscribers (the chat "Online" /
// "Connecting..." affordance). No reconnection is implied beyond what a
// later token change triggers.
type Status struct {
	Connected bool
}

type dialFunc func(ctx context.Context, url, token string, logger *log.Logger) (*Conn, error)

// Manager owns the lifecycle of the single push-channel connection. It
// holds at most one connection, bound to the token it was opened with, and
// rebinds whenever the session store publishes a new token: the old
// connection is torn down before the new dial so a stale connection can
// never deliver events attributed to a new session. With no token it stays
// idle and dependent stores run fetch-only.
type Manager struct {
	url    string
	log    *log.Logger
	stats  stats.StatsProvider
	tokens <-chan string
	dial   dialFunc

	mu         sync.RWMutex
	conn       *Conn
	connected  bool
	subs       map[chan *Envelope]struct{}
	statusSubs map[chan Status]struct{}

	initial string
	stop    chan struct{}
	done    chan struct{}
}

// NewManager wires the manager to a token feed, typically
// session.Store.Watch. initial is the token already in hand at startup.
func NewManager(url, initial string, tokens <-chan string, logger *log.Logger, sp stats.StatsProvider) *Manager {
	return &Manager{
		url:        url,
		log:        logger,
		stats:      sp,
		tokens:     tokens,
		dial:       Dial,
		initial:    initial,
		subs:       make(map[chan *Envelope]struct{}),
		statusSubs: make(map[chan Status]struct{}),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Subscribe returns a channel of inbound server events and a cancel func.
// Slow subscribers are skipped, never blocked on.
func (m *Manager) Subscribe() (<-chan *Envelope, func()) {
	ch := make(chan *Envelope, 64)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[ch]; ok {
			delete(m.subs, ch)
			close(ch)
		}
	}
}

// SubscribeStatus returns a channel of connectivity changes and a cancel
// func. The current status is delivered first.
func (m *Manager) SubscribeStatus() (<-chan Status, func()) {
	ch := make(chan Status, 8)

	m.mu.Lock()
	m.statusSubs[ch] = struct{}{}
	ch <- Status{Connected: m.connected}
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.statusSubs[ch]; ok {
			delete(m.statusSubs, ch)
			close(ch)
		}
	}
}

// Queue sends an envelope over the current connection. Returns false when
// disconnected or the connection's send buffer is full.
func (m *Manager) Queue(msg *Envelope) bool {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()

	if conn == nil {
		return false
	}
	return conn.Queue(msg)
}

// Run drives the connection lifecycle until Close. It is the only goroutine
// that opens or tears down connections.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	defer m.teardown()

	if m.initial != "" {
		m.open(ctx, m.initial)
	}

	for {
		var connDone <-chan struct{}
		var connEvents <-chan *Envelope
		m.mu.RLock()
		if m.conn != nil {
			connDone = m.conn.Done()
			connEvents = m.conn.Events()
		}
		m.mu.RUnlock()

		select {
		case token, ok := <-m.tokens:
			if !ok {
				return
			}
			// token change: always tear the bound connection down first
			m.teardown()
			if token != "" {
				m.open(ctx, token)
			}
		case ev, ok := <-connEvents:
			if !ok {
				continue
			}
			m.broadcast(ev)
		case <-connDone:
			m.dropConn()
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		}
	}
}

// Close stops the manager and closes any open connection.
func (m *Manager) Close() {
	close(m.stop)
	<-m.done
}

func (m *Manager) open(ctx context.Context, token string) {
	conn, err := m.dial(ctx, m.url, token, m.log)
	if err != nil {
		m.log.Println("dial push channel:", err)
		m.setConnected(false)
		return
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	m.stats.Incr(stats.ConnectionsOpened)
	m.setConnected(true)
}

func (m *Manager) teardown() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
		m.stats.Incr(stats.ConnectionsClosed)
	}
	m.setConnected(false)
}

// dropConn handles an involuntary disconnect reported by the connection.
func (m *Manager) dropConn() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
		m.stats.Incr(stats.ConnectionsClosed)
	}
	m.setConnected(false)
}

func (m *Manager) setConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected == connected {
		return
	}
	m.connected = connected

	for ch := range m.statusSubs {
		select {
		case ch <- Status{Connected: connected}:
		default:
			m.log.Println("status subscriber is full, skipping")
		}
	}
}

func (m *Manager) broadcast(ev *Envelope) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for ch := range m.subs {
		select {
		case ch <- ev:
		default:
			m.log.Printf("subscriber is full, dropping %q", ev.Event)
		}
	}
}
