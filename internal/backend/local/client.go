package local

import (
	"context"
	"net/http"
	"sync"

	"github.com/frahmantamala/funcionarios/internal/backend"
)

// Client is one application context's view of the local backend.
type Client struct {
	backend   *Backend
	listeners *backend.Listeners

	mu      sync.RWMutex
	session *backend.Session
	closed  bool
}

var _ backend.Client = (*Client)(nil)

func (c *Client) currentSession() *backend.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s *backend.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*backend.AuthResponse, error) {
	if c.isClosed() {
		return nil, backend.ErrClosed
	}
	session, err := c.backend.signIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.setSession(session)
	c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedIn, Session: session})
	return &backend.AuthResponse{User: session.User, Session: session}, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.AuthResponse, error) {
	if c.isClosed() {
		return nil, backend.ErrClosed
	}
	user, err := c.backend.createUser(ctx, email, password, c.backend.opts.AutoConfirm)
	if err != nil {
		return nil, err
	}
	if !c.backend.opts.AutoConfirm {
		return &backend.AuthResponse{User: user}, nil
	}

	session, err := c.backend.tokens.Issue(user, c.backend.now())
	if err != nil {
		return nil, err
	}
	c.setSession(session)
	c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedIn, Session: session})
	return &backend.AuthResponse{User: user, Session: session}, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	if c.currentSession() == nil {
		return nil
	}
	c.setSession(nil)
	c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedOut})
	return nil
}

func (c *Client) GetSession(ctx context.Context) (*backend.Session, error) {
	if c.isClosed() {
		return nil, backend.ErrClosed
	}
	session := c.currentSession()
	if session == nil || !session.Expired(c.backend.now()) {
		return session, nil
	}

	refreshed, err := c.backend.refresh(ctx, session.RefreshToken)
	if err != nil {
		c.backend.logger.Debug("session refresh failed", "error", err)
		c.setSession(nil)
		c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedOut})
		return nil, nil
	}
	c.setSession(refreshed)
	c.listeners.Emit(backend.AuthStateChange{Event: backend.EventTokenRefreshed, Session: refreshed})
	return refreshed, nil
}

func (c *Client) OnAuthStateChange(callback backend.AuthStateCallback) backend.Unsubscribe {
	unsubscribe := c.listeners.Add(callback)
	callback(backend.AuthStateChange{Event: backend.EventInitialSession, Session: c.currentSession()})
	return unsubscribe
}

func (c *Client) Select(ctx context.Context, table string, query backend.Query, dest any) error {
	if c.isClosed() {
		return backend.ErrClosed
	}
	return c.backend.tables.Select(ctx, table, query, dest)
}

func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	if c.isClosed() {
		return backend.ErrClosed
	}
	if c.backend.opts.RequireAuth && c.currentSession() == nil {
		return &backend.Error{
			Status:  http.StatusUnauthorized,
			Code:    backend.ErrCodePermissionDenied,
			Message: "new row violates row-level security policy for table \"" + table + "\"",
		}
	}
	return c.backend.tables.Insert(ctx, table, row, dest)
}

func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.session = nil
	c.mu.Unlock()
	c.listeners.Clear()
	return nil
}
