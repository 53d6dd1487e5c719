package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/saathghoomo/go-saath/internal/api"
	"github.com/saathghoomo/go-saath/internal/stats"
	"github.com/saathghoomo/go-saath/internal/types"
)

// Store is the single source of truth for "who is logged in" and the only
// component allowed to write the bearer token. All other components read
// the token through Token or react to changes through Watch.
type Store struct {
	api      api.Backend
	tokens   TokenStore
	notifier types.Notifier
	nav      types.Navigator
	log      *log.Logger
	stats    stats.StatsProvider

	mu       sync.RWMutex
	token    string
	user     *types.User
	watchers map[chan string]struct{}
	closed   bool
}

func NewStore(backend api.Backend, tokens TokenStore, notifier types.Notifier, nav types.Navigator,
	logger *log.Logger, sp stats.StatsProvider) *Store {
	s := &Store{
		api:      backend,
		tokens:   tokens,
		notifier: notifier,
		nav:      nav,
		log:      logger,
		stats:    sp,
		watchers: make(map[chan string]struct{}),
	}

	token, err := tokens.Load()
	if err != nil {
		logger.Println("load persisted token:", err)
		return s
	}

	if token != "" && tokenExpired(token) {
		// no point dialing with a dead credential
		logger.Println("persisted token is expired, discarding")
		if err := tokens.Clear(); err != nil {
			logger.Println("clear token:", err)
		}
		return s
	}

	s.token = token
	return s
}

// tokenExpired reports whether the token carries an exp claim in the past.
// The parse is unverified: the client holds no signing key, and a forged
// token only buys the caller a 401 from the backend.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}

	return time.Now().After(time.Unix(int64(exp), 0))
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Watch returns a channel delivering the token after each change and a
// cancel func. The channel holds only the most recent value.
func (s *Store) Watch() (<-chan string, func()) {
	ch := make(chan string, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// setToken persists and publishes a token change. Callers must not hold s.mu.
func (s *Store) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if token == "" {
		if err := s.tokens.Clear(); err != nil {
			s.log.Println("clear token:", err)
		}
	} else if err := s.tokens.Save(token); err != nil {
		s.log.Println("persist token:", err)
	}

	for ch := range s.watchers {
		// keep only the latest value; watchers that lag see the newest state
		select {
		case ch <- token:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- token
		}
	}
}

// completeAuth stores the token from an auth response and resolves the
// profile, preferring a fresh profile read and falling back to any profile
// embedded in the auth response.
func (s *Store) completeAuth(ctx context.Context, resp *api.AuthResponse, successMsg string) (*types.User, error) {
	if resp.Token == "" {
		return nil, fmt.Errorf("auth response contained no token")
	}

	s.setToken(resp.Token)

	user, err := s.api.Profile(ctx)
	if err != nil || user == nil {
		if err != nil {
			s.log.Println("profile fetch after auth:", err)
		}
		if s.Token() == "" {
			// the profile read 401ed and forced the session closed
			return nil, fmt.Errorf("session invalidated during sign-in: %w", err)
		}
		user = resp.User
	}

	if user == nil {
		// token-only auth response and no profile to fall back on: the
		// sign-in did not complete, it must not report success
		s.clearSession()
		if err != nil {
			return nil, fmt.Errorf("resolve profile after sign-in: %w", err)
		}
		return nil, fmt.Errorf("auth response contained no user")
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.notifier.Success(successMsg)
	return user, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (*types.User, error) {
	if err := validateLogin(email, password); err != nil {
		s.notifier.Error(api.UserMessageFor(err))
		return nil, err
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.notifier.Error(api.UserMessageFor(err))
		return nil, err
	}

	return s.completeAuth(ctx, resp, "Welcome back")
}

func (s *Store) Register(ctx context.Context, name, email, password string) (*types.User, error) {
	if err := validateRegistration(name, email, password); err != nil {
		s.notifier.Error(api.UserMessageFor(err))
		return nil, err
	}

	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.notifier.Error(api.UserMessageFor(err))
		return nil, err
	}

	return s.completeAuth(ctx, resp, "Account created")
}

func (s *Store) GoogleLogin(ctx context.Context, idToken string) (*types.User, error) {
	if idToken == "" {
		err := api.NewValidationError("idToken", "Google sign-in is not configured")
		s.notifier.Error(api.UserMessageFor(err))
		return nil, err
	}

	resp, err := s.api.GoogleLogin(ctx, idToken)
	if err != nil {
		s.notifier.Error(api.UserMessageFor(err))
		return nil, err
	}

	return s.completeAuth(ctx, resp, "Signed in with Google")
}

// Logout clears the session synchronously and navigates to the sign-in
// surface unless the caller is already there.
func (s *Store) Logout() {
	s.clearSession()
	s.redirectToSignIn()
}

// ForceLogout is the 401 handler: same teardown as Logout plus a visible
// explanation. Idempotent, since several in-flight calls can 401 at once.
func (s *Store) ForceLogout() {
	s.mu.RLock()
	alreadyOut := s.token == "" && s.user == nil
	s.mu.RUnlock()
	if alreadyOut {
		return
	}

	s.stats.Incr(stats.ForcedLogouts)
	s.clearSession()
	s.notifier.Error("Please sign in again.")
	s.redirectToSignIn()
}

func (s *Store) clearSession() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.setToken("")
}

func (s *Store) redirectToSignIn() {
	if s.nav.Current() != types.SignInPath {
		s.nav.Navigate(types.SignInPath)
	}
}

// RefreshProfile re-fetches the profile for the current token. Any failure
// under a present token is fatal to the session: user and token both go to
// null, per the session invariant.
func (s *Store) RefreshProfile(ctx context.Context) error {
	if s.Token() == "" {
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return nil
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.ForceLogout()
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Close shuts down all watcher channels. The store is unusable afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.watchers {
		delete(s.watchers, ch)
		close(ch)
	}
}
