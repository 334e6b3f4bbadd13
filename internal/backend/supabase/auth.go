package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/frahmantamala/funcionarios/internal/backend"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is what /token and /signup return when a session is issued.
// Signup without auto-confirm returns the bare user object instead.
type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	User         *backend.User `json:"user"`
}

func (t *tokenResponse) session(now int64) *backend.Session {
	if t.AccessToken == "" {
		return nil
	}
	expiresAt := t.ExpiresAt
	if expiresAt == 0 && t.ExpiresIn > 0 {
		expiresAt = now + t.ExpiresIn
	}
	return &backend.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
		ExpiresAt:    expiresAt,
		User:         t.User,
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*backend.AuthResponse, error) {
	var token tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &token)
	if err != nil {
		return nil, err
	}

	session := token.session(c.now().Unix())
	if session != nil {
		c.setSession(session)
		c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedIn, Session: session})
	}
	return &backend.AuthResponse{User: token.User, Session: session}, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.AuthResponse, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentials{Email: email, Password: password},
	}, &raw)
	if err != nil {
		return nil, err
	}

	var token tokenResponse
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		var user backend.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, err
		}
		if user.ID == "" {
			return &backend.AuthResponse{}, nil
		}
		return &backend.AuthResponse{User: &user}, nil
	}

	session := token.session(c.now().Unix())
	c.setSession(session)
	c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedIn, Session: session})
	return &backend.AuthResponse{User: token.User, Session: session}, nil
}

// SignOut revokes the session remotely. The local session is dropped and
// SIGNED_OUT emitted even when the remote call fails.
func (c *Client) SignOut(ctx context.Context) error {
	session := c.currentSession()
	if session == nil {
		return nil
	}

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  session.AccessToken,
	}, nil)

	c.setSession(nil)
	c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedOut})
	return err
}

// GetSession returns the in-memory session, refreshing it first when the
// access token has expired.
func (c *Client) GetSession(ctx context.Context) (*backend.Session, error) {
	if c.isClosed() {
		return nil, backend.ErrClosed
	}
	session := c.currentSession()
	if session == nil || !session.Expired(c.now()) {
		return session, nil
	}
	if session.RefreshToken == "" {
		c.setSession(nil)
		c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedOut})
		return nil, nil
	}

	var token tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": session.RefreshToken},
	}, &token)
	if err != nil {
		if be, ok := backend.AsError(err); ok && be.Status >= 400 && be.Status < 500 {
			c.setSession(nil)
			c.listeners.Emit(backend.AuthStateChange{Event: backend.EventSignedOut})
		}
		return nil, err
	}

	refreshed := token.session(c.now().Unix())
	if refreshed != nil && refreshed.User == nil {
		refreshed.User = session.User
	}
	c.setSession(refreshed)
	c.listeners.Emit(backend.AuthStateChange{Event: backend.EventTokenRefreshed, Session: refreshed})
	return refreshed, nil
}

// OnAuthStateChange registers callback and immediately delivers
// INITIAL_SESSION with the current session.
func (c *Client) OnAuthStateChange(callback backend.AuthStateCallback) backend.Unsubscribe {
	unsubscribe := c.listeners.Add(callback)
	callback(backend.AuthStateChange{Event: backend.EventInitialSession, Session: c.currentSession()})
	return unsubscribe
}
