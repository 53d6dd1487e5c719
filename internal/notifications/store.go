package notifications

import (
	"context"
	"log"
	"sync"

	"github.com/saathghoomo/go-saath/internal/api"
	"github.com/saathghoomo/go-saath/internal/live"
	"github.com/saathghoomo/go-saath/internal/stats"
	"github.com/saathghoomo/go-saath/internal/types"
)

// Store maintains the newest-first notification list and the unread
// counter, reconciling bulk-fetch state with incremental push state. The
// unread counter must always equal the number of notifications with
// IsRead false; any divergence is a defect.
type Store struct {
	api      api.Backend
	notifier types.Notifier
	nav      types.Navigator
	log      *log.Logger
	stats    stats.StatsProvider

	mu      sync.Mutex
	items   []types.Notification
	unread  int
	loading bool
}

func NewStore(backend api.Backend, notifier types.Notifier, nav types.Navigator,
	logger *log.Logger, sp stats.StatsProvider) *Store {
	return &Store{
		api:      backend,
		notifier: notifier,
		nav:      nav,
		log:      logger,
		stats:    sp,
	}
}

// Notifications returns a snapshot of the list, newest first.
func (s *Store) Notifications() []types.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// FetchAll replaces the entire list and counter from a bulk read. When
// calls overlap, whichever response resolves last wins; the replace itself
// is atomic so ordering can never be corrupted.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	list, err := s.api.ListNotifications(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Println("fetch notifications:", err)
		return err
	}

	s.items = list.Notifications
	s.unread = list.UnreadCount
	return nil
}

// ReceivePush prepends a pushed notification and increments the unread
// counter by exactly one. Push arrivals always sort to the front regardless
// of their server timestamp.
func (s *Store) ReceivePush(n types.Notification) {
	s.mu.Lock()
	s.items = append([]types.Notification{n}, s.items...)
	s.unread++
	s.mu.Unlock()

	s.stats.Incr(stats.NotificationsReceived)
	s.notifier.Info(n.Title)
}

// SetUnreadCount applies a server-pushed authoritative counter.
func (s *Store) SetUnreadCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread = count
}

// MarkAsRead flips the local flag immediately and then issues the server
// call. The optimistic update is not rolled back on failure; the counter is
// floored at zero and an already-read notification is a no-op locally.
func (s *Store) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Id == id && !s.items[i].IsRead {
			s.items[i].IsRead = true
			if s.unread > 0 {
				s.unread--
			}
			break
		}
	}
	s.mu.Unlock()

	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		s.log.Println("mark as read:", err)
		s.notifier.Error(api.UserMessageFor(err))
		return err
	}

	return nil
}

// MarkAllAsRead is confirmation-first, unlike the per-item path: local
// state is untouched until the server accepts the bulk write, which keeps
// a failed call from requiring a bulk undo.
func (s *Store) MarkAllAsRead(ctx context.Context) error {
	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		s.log.Println("mark all as read:", err)
		s.notifier.Error(api.UserMessageFor(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].IsRead = true
	}
	s.unread = 0
	return nil
}

// Delete removes the record and adopts the server's returned unread count,
// since the deleted item may itself have been unread.
func (s *Store) Delete(ctx context.Context, id string) error {
	unread, err := s.api.DeleteNotification(ctx, id)
	if err != nil {
		s.log.Println("delete notification:", err)
		s.notifier.Error(api.UserMessageFor(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.unread = unread
	return nil
}

// HandleClick marks an unread notification as read, then navigates to its
// link if it has one. The read-state mutation is issued before navigation.
func (s *Store) HandleClick(ctx context.Context, n types.Notification) {
	if !n.IsRead {
		s.MarkAsRead(ctx, n.Id)
	}

	if n.Link != "" {
		s.nav.Navigate(n.Link)
	}
}

// Clear drops all state; called on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.unread = 0
	s.loading = false
}

// Run consumes push events from the live connection until the channel
// closes or ctx is done. Chat events pass through untouched; they belong to
// the chat sessions subscribed alongside.
func (s *Store) Run(ctx context.Context, events <-chan *live.Envelope) {
	for {
		select {
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

func (s *Store) handleEvent(ev *live.Envelope) {
	switch ev.Event {
	case live.EventNewNotification:
		var n types.Notification
		if err := ev.Decode(&n); err != nil {
			s.log.Println(err)
			return
		}
		s.ReceivePush(n)
	case live.EventUnreadCount:
		var payload live.UnreadCountPayload
		if err := ev.Decode(&payload); err != nil {
			s.log.Println(err)
			return
		}
		s.SetUnreadCount(payload.Count)
	}
}
