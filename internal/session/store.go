// Package session owns the authenticated identity of the client process.
//
// State lives in durable storage as two slots, the bearer token and the
// JSON-encoded user, which are always written and cleared together.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"marketplace/client/internal/api"
	"marketplace/client/internal/apperr"
	"marketplace/client/internal/media/validator"
	"marketplace/client/internal/models"
	"marketplace/client/internal/reactive"
	"marketplace/client/internal/security"
	"marketplace/client/internal/storage"
)

const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// AuthAPI is the slice of the remote API the session store calls.
type AuthAPI interface {
	Login(ctx context.Context, credentials models.LoginRequest) (models.AuthResponse, error)
	Register(ctx context.Context, data models.RegisterRequest) (models.AuthResponse, error)
	UploadAvatar(ctx context.Context, userID string, file models.File) (api.AvatarResponse, error)
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithValidator(v *validator.Validator) Option {
	return func(s *Store) {
		if v != nil {
			s.validator = v
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

type Store struct {
	client    AuthAPI
	storage   storage.Store
	validator *validator.Validator
	log       zerolog.Logger
	now       func() time.Time

	state     *reactive.Signal[*models.Session]
	user      *reactive.Computed[*models.User]
	isAuth    *reactive.Computed[bool]
	isSeller  *reactive.Computed[bool]
	isClient  *reactive.Computed[bool]
	loggedOut *reactive.Event[struct{}]
}

// New builds the store and rehydrates it from durable storage. Unreadable,
// malformed or expired stored state yields an anonymous session.
func New(ctx context.Context, client AuthAPI, store storage.Store, opts ...Option) *Store {
	s := &Store{
		client:    client,
		storage:   store,
		validator: validator.Default(),
		log:       zerolog.Nop(),
		now:       time.Now,
		state:     reactive.NewSignal[*models.Session](nil),
		loggedOut: reactive.NewEvent[struct{}](),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.user = reactive.NewComputed(func() *models.User {
		if cur := s.state.Get(); cur != nil {
			u := cur.User
			return &u
		}
		return nil
	}, s.state)
	s.isAuth = reactive.NewComputed(func() bool { return s.state.Get() != nil }, s.state)
	s.isSeller = reactive.NewComputed(func() bool { return s.hasRole(models.UserRoleSeller) }, s.state)
	s.isClient = reactive.NewComputed(func() bool { return s.hasRole(models.UserRoleClient) }, s.state)

	s.state.Set(s.rehydrate(ctx))
	return s
}

func (s *Store) rehydrate(ctx context.Context) *models.Session {
	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read stored token")
		return nil
	}
	if !ok || token == "" {
		return nil
	}
	raw, ok, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read stored user")
		return nil
	}
	if !ok {
		s.log.Warn().Msg("stored token has no user, starting anonymous")
		s.clearStored(ctx)
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		s.log.Warn().Msg("stored user is malformed, starting anonymous")
		s.clearStored(ctx)
		return nil
	}
	if security.Expired(token, s.now()) {
		s.log.Info().Str("user_id", user.ID).Msg("stored session expired")
		s.clearStored(ctx)
		return nil
	}
	return &models.Session{Token: token, User: user}
}

// clearStored drops both slots so no half of a session outlives the other.
func (s *Store) clearStored(ctx context.Context) {
	if err := s.storage.DeleteAll(ctx, TokenKey, UserKey); err != nil {
		s.log.Warn().Err(err).Msg("clear stored session")
	}
}

func (s *Store) Login(ctx context.Context, credentials models.LoginRequest) (models.Session, error) {
	resp, err := s.client.Login(ctx, credentials)
	if err != nil {
		return models.Session{}, err
	}
	return s.establish(ctx, resp)
}

func (s *Store) Register(ctx context.Context, data models.RegisterRequest) (models.Session, error) {
	resp, err := s.client.Register(ctx, data)
	if err != nil {
		return models.Session{}, err
	}
	return s.establish(ctx, resp)
}

// establish persists the session and only then publishes it.
func (s *Store) establish(ctx context.Context, resp models.AuthResponse) (models.Session, error) {
	if resp.Token == "" || resp.ID == "" {
		return models.Session{}, &apperr.Error{
			Kind:    apperr.KindServer,
			Op:      "session.establish",
			Message: "authentication response is missing the token or user id",
		}
	}
	session := resp.Session()
	encoded, err := json.Marshal(session.User)
	if err != nil {
		return models.Session{}, fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.SetAll(ctx, map[string]string{
		TokenKey: session.Token,
		UserKey:  string(encoded),
	}); err != nil {
		return models.Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.state.Set(&session)
	s.log.Info().Str("user_id", session.User.ID).Str("role", string(session.User.Role)).Msg("session established")
	return session, nil
}

// Logout clears stored state, publishes the anonymous session and emits the
// logged-out event. The event fires even when already anonymous.
func (s *Store) Logout(ctx context.Context) error {
	err := s.storage.DeleteAll(ctx, TokenKey, UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("clear stored session")
		err = fmt.Errorf("clear session: %w", err)
	}
	s.state.Set(nil)
	s.loggedOut.Emit(struct{}{})
	return err
}

// CheckExpiry logs out when the current token has expired at now.
func (s *Store) CheckExpiry(ctx context.Context, now time.Time) (bool, error) {
	cur := s.state.Get()
	if cur == nil || !security.Expired(cur.Token, now) {
		return false, nil
	}
	s.log.Info().Str("user_id", cur.User.ID).Msg("session token expired")
	return true, s.Logout(ctx)
}

// UploadAvatar sends a new avatar for the signed-in user. The stored user is
// left as it is.
func (s *Store) UploadAvatar(ctx context.Context, file models.File) (api.AvatarResponse, error) {
	cur := s.state.Get()
	if cur == nil {
		return api.AvatarResponse{}, &apperr.Error{
			Kind:    apperr.KindAuth,
			Op:      "users.avatar",
			Message: "sign in to upload an avatar",
			Err:     apperr.ErrNotAuthenticated,
		}
	}
	if err := s.validator.Validate(file); err != nil {
		return api.AvatarResponse{}, err
	}
	return s.client.UploadAvatar(ctx, cur.User.ID, file)
}

func (s *Store) CurrentToken() (string, bool) {
	cur := s.state.Get()
	if cur == nil {
		return "", false
	}
	return cur.Token, true
}

func (s *Store) Current() (models.Session, bool) {
	cur := s.state.Get()
	if cur == nil {
		return models.Session{}, false
	}
	return *cur, true
}

func (s *Store) User() reactive.Readable[*models.User]    { return s.user }
func (s *Store) IsAuthenticated() reactive.Readable[bool] { return s.isAuth }
func (s *Store) IsSeller() reactive.Readable[bool]        { return s.isSeller }
func (s *Store) IsClient() reactive.Readable[bool]        { return s.isClient }

// OnLoggedOut registers fn to run after every Logout.
func (s *Store) OnLoggedOut(fn func()) func() {
	return s.loggedOut.Subscribe(func(struct{}) { fn() })
}

func (s *Store) hasRole(role models.UserRole) bool {
	cur := s.state.Get()
	return cur != nil && cur.User.Role == role
}
