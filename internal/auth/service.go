package auth

import (
	"context"
	"log/slog"
	"sync"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/core/events"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/session"
)

// Service runs login, registration and session upkeep for one client. State
// lives in the session store; the service itself only tracks its listener.
type Service struct {
	backend    BackendAPI
	store      *session.Store
	navigator  Navigator
	translator *i18n.Translator
	logger     *slog.Logger
	bus        *events.EventBus
	clientID   string

	listenerMu  sync.Mutex
	unsubscribe backend.Unsubscribe
}

type Option func(*Service)

// WithEventBus republishes every auth-state change as auth.state_changed.
func WithEventBus(bus *events.EventBus, clientID string) Option {
	return func(s *Service) {
		s.bus = bus
		s.clientID = clientID
	}
}

func NewService(b BackendAPI, store *session.Store, navigator Navigator, translator *i18n.Translator, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		backend:    b,
		store:      store,
		navigator:  navigator,
		translator: translator,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) navigate(path string) string {
	if s.navigator != nil {
		s.navigator.Navigate(path)
	}
	return path
}

func (s *Service) fail(err *errors.AppError) (*Result, error) {
	s.store.SetError(err.Error())
	return nil, err
}

// Login validates the credentials locally, then signs in with the backend.
// The loading flag is reset on every exit.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Result, error) {
	s.store.Begin()
	defer s.store.SetLoading(false)

	if err := dto.Validate(s.translator); err != nil {
		return s.fail(err)
	}

	resp, err := s.backend.SignInWithPassword(ctx, dto.Email, dto.Password)
	if err != nil {
		s.logger.Warn("sign in failed", "error", err)
		return s.fail(loginError(s.translator, err))
	}

	if resp == nil || resp.User == nil || resp.Session == nil {
		return s.fail(errors.NewExternalError(s.translator.T(i18n.AuthLoginUnknown), errors.ErrCodeBackendFailure, 0, nil))
	}

	s.store.SetAuth(resp.User, resp.Session)
	s.logger.Info("user signed in", "user_id", resp.User.ID)
	return &Result{User: resp.User, RedirectTo: s.navigate(ViewHome)}, nil
}

// Register creates an account. A backend that returns no session is waiting
// for e-mail confirmation; that still counts as success.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*Result, error) {
	s.store.Begin()
	defer s.store.SetLoading(false)

	if err := dto.Validate(s.translator); err != nil {
		return s.fail(err)
	}

	resp, err := s.backend.SignUp(ctx, dto.Email, dto.Password)
	if err != nil {
		s.logger.Warn("sign up failed", "error", err)
		return s.fail(registerError(s.translator, err))
	}
	if resp == nil {
		return s.fail(errors.NewExternalError(s.translator.T(i18n.AuthRegisterUnknown), errors.ErrCodeBackendFailure, 0, nil))
	}

	if resp.Session != nil {
		user := resp.User
		if user == nil {
			user = resp.Session.User
		}
		if user == nil {
			return s.fail(errors.NewExternalError(s.translator.T(i18n.AuthRegisterUnknown), errors.ErrCodeBackendFailure, 0, nil))
		}
		s.store.SetAuth(user, resp.Session)
		s.logger.Info("user registered and signed in", "user_id", user.ID)
		return &Result{User: user, RedirectTo: s.navigate(ViewHome)}, nil
	}

	s.logger.Info("user registered, awaiting confirmation", "email", dto.Email)
	return &Result{
		User:                resp.User,
		PendingConfirmation: true,
		Message:             s.translator.T(i18n.AuthConfirmEmail),
	}, nil
}

// Logout signs out remotely and always clears the local session. Backend
// errors are logged and otherwise ignored.
func (s *Service) Logout(ctx context.Context) string {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	if err := s.backend.SignOut(ctx); err != nil {
		s.logger.Error("sign out failed", "error", err)
	}

	s.store.Clear()
	return s.navigate(ViewLogin)
}

// CheckAuth syncs the store with the backend session. Any failure leaves the
// client signed out.
func (s *Service) CheckAuth(ctx context.Context) {
	sess, err := s.backend.GetSession(ctx)
	if err != nil {
		s.logger.Error("session check failed", "error", err)
		s.store.Clear()
		return
	}
	if sess != nil && sess.User != nil {
		s.store.SetAuth(sess.User, sess)
		return
	}
	s.store.Clear()
}

// InitAuthListener subscribes to backend auth-state changes once. Later calls
// return the existing handle until it is invoked.
func (s *Service) InitAuthListener(ctx context.Context) backend.Unsubscribe {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	if s.unsubscribe != nil {
		return s.unsubscribe
	}

	inner := s.backend.OnAuthStateChange(func(change backend.AuthStateChange) {
		s.applyChange(ctx, change)
	})

	var once sync.Once
	s.unsubscribe = func() {
		once.Do(func() {
			inner()
			s.listenerMu.Lock()
			s.unsubscribe = nil
			s.listenerMu.Unlock()
		})
	}
	return s.unsubscribe
}

func (s *Service) applyChange(ctx context.Context, change backend.AuthStateChange) {
	var userID string
	if change.Session != nil && change.Session.User != nil {
		s.store.SetAuth(change.Session.User, change.Session)
		userID = change.Session.User.ID
	} else {
		s.store.Clear()
	}

	s.logger.Debug("auth state changed", "event", string(change.Event), "user_id", userID)
	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewAuthStateChangedEvent(s.clientID, string(change.Event), userID))
	}
}

// GetUserProfile returns the signed-in user's profile row, or nil when there
// is no user or the lookup fails.
func (s *Service) GetUserProfile(ctx context.Context) *Profile {
	user := s.store.User()
	if user == nil {
		return nil
	}

	var profile Profile
	query := backend.Select("*").Eq("id", user.ID).One()
	if err := s.backend.Select(ctx, backend.TableProfiles, query, &profile); err != nil {
		s.logger.Error("profile lookup failed", "user_id", user.ID, "error", err)
		return nil
	}
	return &profile
}

func (s *Service) IsAuthenticated() bool {
	return s.store.IsAuthenticated()
}

func (s *Service) State() session.State {
	return s.store.Snapshot()
}

func (s *Service) ClearError() {
	s.store.ClearError()
}

func (s *Service) SetError(msg string) {
	s.store.SetError(msg)
}
