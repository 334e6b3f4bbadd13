// Package app binds every per-client component into one application context
// and keeps those contexts in a registry keyed by client id.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/funcionarios/internal/auth"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/core/events"
	"github.com/frahmantamala/funcionarios/internal/funcionario"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/session"
)

// Context is everything one browser client owns: its backend connection,
// session, collection cache, notification queue and current view.
type Context struct {
	ID            string
	Session       *session.Store
	Auth          *auth.Service
	Funcionarios  *funcionario.Store
	Notifications *notification.Service
	Navigator     *Navigator

	client      backend.Client
	unsubscribe backend.Unsubscribe
	lastSeen    atomic.Int64
	closeOnce   sync.Once
}

// Deps are the shared pieces every Context is built from.
type Deps struct {
	Backend      backend.Factory
	Translator   *i18n.Translator
	Logger       *slog.Logger
	Bus          *events.EventBus
	Notification notification.Config
}

func newContext(id string, deps Deps, now time.Time) *Context {
	lg := deps.Logger.With("client_id", id)
	client := deps.Backend.NewClient()
	store := session.NewStore()
	nav := NewNavigator(auth.ViewLogin)

	c := &Context{
		ID:        id,
		Session:   store,
		Navigator: nav,
		client:    client,
		Notifications: notification.NewService(deps.Notification, deps.Translator, lg,
			notification.WithEventBus(deps.Bus, id)),
		Auth: auth.NewService(client, store, nav, deps.Translator, lg,
			auth.WithEventBus(deps.Bus, id)),
		Funcionarios: funcionario.NewStore(client, deps.Translator, lg,
			funcionario.WithEventBus(deps.Bus, id)),
	}
	c.touch(now)
	c.unsubscribe = c.Auth.InitAuthListener(context.Background())
	return c
}

func (c *Context) touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

// LastSeen is the time of the last request served for this client.
func (c *Context) LastSeen() time.Time {
	return time.Unix(0, c.lastSeen.Load())
}

// Close drops the auth listener, pending notifications and the backend
// connection. It is safe to call more than once.
func (c *Context) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		c.Notifications.Close()
		err = c.client.Close()
	})
	return err
}

type ctxKey struct{}

// WithContext binds c to ctx.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the application context bound to ctx, or nil.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(ctxKey{}).(*Context)
	return c
}

// AuthService resolves the auth service for handlers. It returns an untyped
// nil when no client is bound.
func AuthService(ctx context.Context) auth.ServiceAPI {
	if c := FromContext(ctx); c != nil {
		return c.Auth
	}
	return nil
}

func FuncionarioStore(ctx context.Context) funcionario.StoreAPI {
	if c := FromContext(ctx); c != nil {
		return c.Funcionarios
	}
	return nil
}

func NotificationService(ctx context.Context) *notification.Service {
	if c := FromContext(ctx); c != nil {
		return c.Notifications
	}
	return nil
}
