package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/session"
)

const (
	ViewHome  = "/"
	ViewLogin = "/login"
)

// Navigator moves the client between views.
type Navigator interface {
	Navigate(path string)
}

// BackendAPI is the slice of the backend the auth service talks to.
type BackendAPI interface {
	backend.AuthClient
	backend.TableClient
}

// Profile is a row of the profiles table, keyed by the auth user id.
type Profile struct {
	ID           string     `json:"id"`
	NomeCompleto *string    `json:"nome_completo"`
	AvatarURL    *string    `json:"avatar_url"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// Result describes a successful login or registration.
type Result struct {
	User                *backend.User `json:"user,omitempty"`
	PendingConfirmation bool          `json:"pending_confirmation,omitempty"`
	Message             string        `json:"message,omitempty"`
	RedirectTo          string        `json:"-"`
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Result, error)
	Register(ctx context.Context, dto RegisterDTO) (*Result, error)
	Logout(ctx context.Context) string
	CheckAuth(ctx context.Context)
	GetUserProfile(ctx context.Context) *Profile
	State() session.State
}
