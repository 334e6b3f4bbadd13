// Package backend describes the capability surface of the hosted
// backend-as-a-service (authentication plus relational tables) the
// application talks to. Implementations live in subpackages.
package backend

import (
	"context"
	"time"
)

const (
	TableFuncionarios = "funcionarios"
	TableProfiles     = "profiles"
)

type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	CreatedAt        time.Time      `json:"created_at"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
}

// Session is the backend-issued token pair. The application treats it as
// opaque and only checks for presence.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`
}

// Expired reports whether the access token is past its expiry, with a small
// margin so a token is not used right before it lapses.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt == 0 {
		return false
	}
	return now.Add(10 * time.Second).Unix() >= s.ExpiresAt
}

// AuthResponse is returned by sign-in and sign-up. Sign-up leaves Session nil
// when the account still needs e-mail confirmation.
type AuthResponse struct {
	User    *User
	Session *Session
}

type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

type AuthStateChange struct {
	Event   AuthEvent
	Session *Session
}

type AuthStateCallback func(AuthStateChange)

// Unsubscribe detaches an auth-state listener. Calling it more than once is safe.
type Unsubscribe func()

// Order sorts a select by one column.
type Order struct {
	Column    string
	Ascending bool
}

// Filter is an equality predicate (column = value).
type Filter struct {
	Column string
	Value  string
}

// Query describes a table read. Single asks for exactly one row; zero or many
// rows is reported as ErrCodeSingleRow.
type Query struct {
	Columns string
	Filters []Filter
	Order   *Order
	Single  bool
}

func Select(columns string) Query {
	return Query{Columns: columns}
}

func (q Query) Eq(column, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

func (q Query) OrderBy(column string, ascending bool) Query {
	q.Order = &Order{Column: column, Ascending: ascending}
	return q
}

func (q Query) One() Query {
	q.Single = true
	return q
}

type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error)
	SignUp(ctx context.Context, email, password string) (*AuthResponse, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(callback AuthStateCallback) Unsubscribe
}

// TableClient reads and writes rows. dest receives the JSON representation of
// the rows: a pointer to a slice for lists, a pointer to a struct for Single
// queries and inserts.
type TableClient interface {
	Select(ctx context.Context, table string, query Query, dest any) error
	Insert(ctx context.Context, table string, row any, dest any) error
}

// Client is one signed-in (or anonymous) connection to the backend. It keeps
// its own session, so every application context owns one.
type Client interface {
	AuthClient
	TableClient
	Close() error
}

// Factory hands out a fresh Client per application context.
type Factory interface {
	NewClient() Client
}

type FactoryFunc func() Client

func (f FactoryFunc) NewClient() Client {
	return f()
}

// ValidIdentifier reports whether name is safe to use as a table or column
// name: lowercase letters, digits and underscores, not starting with a digit.
func ValidIdentifier(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
