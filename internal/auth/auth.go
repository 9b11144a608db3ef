// Package auth owns the signed-in session: the bearer token and the user
// profile, persisted under the "token" and "user" keys. Both are present or
// both are absent.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/asyncop"
	"github.com/Skotchmaster/neotech_storefront/internal/events"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/storage"
)

const defaultLoginMessage = "Login failed"

var (
	ErrLoginFailed      = errors.New("login failed")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// LoginError carries the message to show the user.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLoginFailed}
	}
	return []error{ErrLoginFailed, e.Err}
}

type Backend interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

type Session struct {
	Token string
	User  models.User
}

type Listener func(s *Session)

type Store struct {
	mu    sync.RWMutex
	token string
	user  *models.User

	kv  storage.KV
	api Backend
	pub events.Publisher
	now func() time.Time

	login     asyncop.Op
	bootOnce  sync.Once
	ready     chan struct{}
	subMu     sync.Mutex
	subs      map[int]Listener
	nextSubID int
}

func New(kv storage.KV, api Backend, pub events.Publisher) *Store {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Store{
		kv:    kv,
		api:   api,
		pub:   pub,
		now:   time.Now,
		ready: make(chan struct{}),
		subs:  make(map[int]Listener),
	}
}

// Ready is closed once Bootstrap has finished.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// Bootstrap restores a persisted session. Any missing, unreadable or expired
// part clears both keys. Only the first call has an effect.
func (s *Store) Bootstrap(ctx context.Context) {
	s.bootOnce.Do(func() {
		defer close(s.ready)
		s.restore(ctx)
	})
}

func (s *Store) restore(ctx context.Context) {
	l := logging.FromContext(ctx).With("store", "auth")

	token, okToken, err := s.kv.Get(ctx, storage.KeyToken)
	if err != nil {
		l.Error("session_load_error", "error", err)
		return
	}
	rawUser, okUser, err := s.kv.Get(ctx, storage.KeyUser)
	if err != nil {
		l.Error("session_load_error", "error", err)
		return
	}
	if !okToken && !okUser {
		return
	}

	var u models.User
	switch {
	case !okToken || token == "" || !okUser:
		l.Warn("session_incomplete")
	case json.Unmarshal([]byte(rawUser), &u) != nil:
		l.Warn("session_user_corrupt")
	case s.expired(token):
		l.Info("session_expired")
	default:
		s.mu.Lock()
		s.token = token
		s.user = &u
		s.mu.Unlock()
		l.Info("session_restored", "user_id", u.ID)
		return
	}
	s.clearStorage(ctx)
}

// expired reports whether token is a JWT whose exp claim has passed. Tokens
// that are not JWTs are treated as opaque and never expire here.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("store", "auth", "op", "login")

	if err := s.login.Begin(); err != nil {
		return nil, err
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.login.Finish(err)
		l.Warn("login_rejected", "error", err)
		return nil, &LoginError{Message: apiclient.UserMessage(err, defaultLoginMessage), Err: err}
	}
	if !res.Success || res.Token == "" || res.User == nil {
		msg := res.Message
		if msg == "" {
			msg = defaultLoginMessage
		}
		lerr := &LoginError{Message: msg}
		s.login.Finish(lerr)
		l.Warn("login_incomplete_response", "success", res.Success)
		return nil, lerr
	}

	user := *res.User
	s.mu.Lock()
	s.token = res.Token
	s.user = &user
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.login.Finish(nil)
	l.Info("login_success", "user_id", user.ID, "is_admin", bool(user.IsAdmin))
	s.changed(ctx)
	s.pub.Publish(ctx, events.New(events.UserLoggedIn, map[string]any{"user_id": user.ID}))
	return &user, nil
}

// LoginState exposes the progress of the current or last login.
func (s *Store) LoginState() asyncop.State { return s.login.State() }

// Logout tells the backend best-effort and always clears the local session.
func (s *Store) Logout(ctx context.Context) {
	l := logging.FromContext(ctx).With("store", "auth", "op", "logout")

	s.mu.RLock()
	token := s.token
	var userID int64
	if s.user != nil {
		userID = s.user.ID
	}
	s.mu.RUnlock()

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			l.Warn("logout_backend_error", "error", err)
		}
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.clearStorage(ctx)
	s.login.Reset()

	s.changed(ctx)
	if token != "" {
		s.pub.Publish(ctx, events.New(events.UserLoggedOut, map[string]any{"user_id": userID}))
	}
}

// UpdateUser shallow-merges patch into the profile. It is a no-op without a
// session.
func (s *Store) UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	if s.user == nil || s.token == "" {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	merged := s.user.Merge(patch)
	s.user = &merged
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.changed(ctx)
	return &merged, nil
}

func (s *Store) persistLocked(ctx context.Context) {
	l := logging.FromContext(ctx)
	ctx = context.WithoutCancel(ctx)
	data, err := json.Marshal(s.user)
	if err != nil {
		l.Error("session_encode_error", "error", err)
		return
	}
	if err := s.kv.Set(ctx, storage.KeyToken, s.token); err != nil {
		l.Error("session_persist_error", "key", storage.KeyToken, "error", err)
	}
	if err := s.kv.Set(ctx, storage.KeyUser, string(data)); err != nil {
		l.Error("session_persist_error", "key", storage.KeyUser, "error", err)
	}
}

func (s *Store) clearStorage(ctx context.Context) {
	if err := s.kv.Delete(context.WithoutCancel(ctx), storage.KeyToken, storage.KeyUser); err != nil {
		logging.FromContext(ctx).Error("session_clear_error", "error", err)
	}
}

func (s *Store) Session() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" {
		return nil
	}
	return &Session{Token: s.token, User: *s.user}
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && bool(s.user.IsAdmin)
}

func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) changed(context.Context) {
	snap := s.Session()

	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
