package app

import (
	"context"
	"sync"
	"time"

	"github.com/frahmantamala/funcionarios/internal/core/events"
	"github.com/google/uuid"
)

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

type RegistryConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Registry owns the application contexts of all connected clients.
type Registry struct {
	deps   Deps
	config RegistryConfig
	now    func() time.Time

	mu       sync.Mutex
	contexts map[string]*Context
	closed   bool
}

func NewRegistry(deps Deps, config RegistryConfig) *Registry {
	if config.IdleTTL <= 0 {
		config.IdleTTL = defaultIdleTTL
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = defaultSweepInterval
	}
	return &Registry{
		deps:     deps,
		config:   config,
		now:      time.Now,
		contexts: make(map[string]*Context),
	}
}

// Acquire returns the context for id, creating one when id is unknown or not
// a valid uuid. created reports whether a new context (and id) was issued.
func (r *Registry) Acquire(ctx context.Context, id string) (c *Context, created bool) {
	now := r.now()

	r.mu.Lock()
	if existing, ok := r.contexts[id]; ok && !r.closed {
		existing.touch(now)
		r.mu.Unlock()
		return existing, false
	}
	if _, err := uuid.Parse(id); err != nil || id == "" {
		id = uuid.NewString()
	}
	c = newContext(id, r.deps, now)
	if !r.closed {
		r.contexts[id] = c
	}
	r.mu.Unlock()

	r.deps.Logger.Debug("client context opened", "client_id", id)
	r.publish(ctx, events.NewClientOpenedEvent(id))
	return c, true
}

// Get returns a live context without creating one.
func (r *Registry) Get(id string) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contexts[id]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contexts)
}

// Sweep closes contexts idle for longer than IdleTTL and returns how many
// were removed.
func (r *Registry) Sweep(ctx context.Context) int {
	now := r.now()

	var expired []*Context
	r.mu.Lock()
	for id, c := range r.contexts {
		if now.Sub(c.LastSeen()) > r.config.IdleTTL {
			expired = append(expired, c)
			delete(r.contexts, id)
		}
	}
	r.mu.Unlock()

	for _, c := range expired {
		idle := now.Sub(c.LastSeen())
		if err := c.Close(); err != nil {
			r.deps.Logger.Warn("failed to close client context", "client_id", c.ID, "error", err)
		}
		r.deps.Logger.Info("client context expired", "client_id", c.ID, "idle", idle.String())
		r.publish(ctx, events.NewClientExpiredEvent(c.ID, idle))
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Close shuts every context down. Later Acquire calls still work but their
// contexts are not retained.
func (r *Registry) Close() {
	r.mu.Lock()
	contexts := r.contexts
	r.contexts = make(map[string]*Context)
	r.closed = true
	r.mu.Unlock()

	for _, c := range contexts {
		if err := c.Close(); err != nil {
			r.deps.Logger.Warn("failed to close client context", "client_id", c.ID, "error", err)
		}
	}
}

func (r *Registry) publish(ctx context.Context, event events.Event) {
	if r.deps.Bus == nil {
		return
	}
	if err := r.deps.Bus.Publish(ctx, event); err != nil {
		r.deps.Logger.Warn("failed to publish event", "type", event.EventType(), "error", err)
	}
}
