// Package backendtest provides an in-memory backend.Client for tests.
package backendtest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/frahmantamala/funcionarios/internal/backend"
)

// Fake records calls and answers with the configured funcs. Successful auth
// calls update its session and emit the same events a real client would.
type Fake struct {
	SignInFunc     func(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	SignUpFunc     func(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	SignOutErr     error
	GetSessionFunc func(ctx context.Context) (*backend.Session, error)
	SelectFunc     func(ctx context.Context, table string, query backend.Query) (any, error)
	InsertFunc     func(ctx context.Context, table string, row any) (any, error)

	mu        sync.Mutex
	calls     map[string]int
	session   *backend.Session
	closed    bool
	listeners *backend.Listeners
}

var _ backend.Client = (*Fake)(nil)

func New() *Fake {
	return &Fake{calls: map[string]int{}, listeners: backend.NewListeners()}
}

func (f *Fake) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

// Calls reports how often method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *Fake) SetSession(s *backend.Session) {
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()
}

func (f *Fake) currentSession() *backend.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

// Emit pushes an auth-state change to subscribers.
func (f *Fake) Emit(change backend.AuthStateChange) {
	f.listeners.Emit(change)
}

func (f *Fake) Listeners() int {
	return f.listeners.Len()
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) SignInWithPassword(ctx context.Context, email, password string) (*backend.AuthResponse, error) {
	f.record("SignInWithPassword")
	if f.SignInFunc == nil {
		return nil, &backend.Error{Status: 400, Message: backend.MsgInvalidCredentials}
	}
	resp, err := f.SignInFunc(ctx, email, password)
	if err == nil && resp != nil && resp.Session != nil {
		f.SetSession(resp.Session)
		f.Emit(backend.AuthStateChange{Event: backend.EventSignedIn, Session: resp.Session})
	}
	return resp, err
}

func (f *Fake) SignUp(ctx context.Context, email, password string) (*backend.AuthResponse, error) {
	f.record("SignUp")
	if f.SignUpFunc == nil {
		return nil, &backend.Error{Status: 422, Message: backend.MsgUserRegistered}
	}
	resp, err := f.SignUpFunc(ctx, email, password)
	if err == nil && resp != nil && resp.Session != nil {
		f.SetSession(resp.Session)
		f.Emit(backend.AuthStateChange{Event: backend.EventSignedIn, Session: resp.Session})
	}
	return resp, err
}

func (f *Fake) SignOut(ctx context.Context) error {
	f.record("SignOut")
	f.SetSession(nil)
	f.Emit(backend.AuthStateChange{Event: backend.EventSignedOut})
	return f.SignOutErr
}

func (f *Fake) GetSession(ctx context.Context) (*backend.Session, error) {
	f.record("GetSession")
	if f.GetSessionFunc != nil {
		return f.GetSessionFunc(ctx)
	}
	return f.currentSession(), nil
}

func (f *Fake) OnAuthStateChange(callback backend.AuthStateCallback) backend.Unsubscribe {
	f.record("OnAuthStateChange")
	unsubscribe := f.listeners.Add(callback)
	callback(backend.AuthStateChange{Event: backend.EventInitialSession, Session: f.currentSession()})
	return unsubscribe
}

func (f *Fake) Select(ctx context.Context, table string, query backend.Query, dest any) error {
	f.record("Select")
	if f.SelectFunc == nil {
		return nil
	}
	value, err := f.SelectFunc(ctx, table, query)
	if err != nil {
		return err
	}
	return Decode(value, dest)
}

func (f *Fake) Insert(ctx context.Context, table string, row any, dest any) error {
	f.record("Insert")
	if f.InsertFunc == nil {
		return nil
	}
	value, err := f.InsertFunc(ctx, table, row)
	if err != nil {
		return err
	}
	return Decode(value, dest)
}

func (f *Fake) Close() error {
	f.record("Close")
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.listeners.Clear()
	return nil
}

// Decode copies value into dest through JSON, the way real clients do.
func Decode(value any, dest any) error {
	if dest == nil || value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Session builds a signed-in session for tests.
func Session(userID, email string) *backend.Session {
	user := &backend.User{ID: userID, Email: email}
	return &backend.Session{AccessToken: "token-" + userID, RefreshToken: "refresh-" + userID, TokenType: "bearer", User: user}
}
