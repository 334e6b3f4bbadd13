package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/funcionarios/internal/core/events"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/google/uuid"
)

type Service struct {
	config     Config
	translator *i18n.Translator
	logger     *slog.Logger
	afterFunc  AfterFunc
	now        func() time.Time
	bus        *events.EventBus
	clientID   string

	mu     sync.Mutex
	items  []Notification
	timers map[string]Timer
	closed bool
}

type Option func(*Service)

func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Service) { s.afterFunc = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEventBus publishes notification.created for every new notification.
func WithEventBus(bus *events.EventBus, clientID string) Option {
	return func(s *Service) {
		s.bus = bus
		s.clientID = clientID
	}
}

func NewService(config Config, translator *i18n.Translator, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		config:     config,
		translator: translator,
		logger:     logger,
		afterFunc:  realAfterFunc,
		now:        time.Now,
		timers:     make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify appends a notification and schedules its removal.
func (s *Service) Notify(severity Severity, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return n
	}
	s.items = append(s.items, n)
	s.timers[n.ID] = s.afterFunc(s.config.ttl(severity), func() {
		s.expire(n.ID)
	})
	s.mu.Unlock()

	s.logger.Debug("notification", "type", string(severity), "message", message, "id", n.ID)
	if s.bus != nil {
		_ = s.bus.Publish(context.Background(), events.NewNotificationCreatedEvent(s.clientID, n.ID, string(severity), message))
	}
	return n
}

func (s *Service) expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
	s.remove(id)
}

// remove drops id from the list; callers hold s.mu.
func (s *Service) remove(id string) bool {
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Dismiss removes id ahead of its timer. Unknown ids are ignored.
func (s *Service) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	return s.remove(id)
}

// List returns the live notifications in insertion order.
func (s *Service) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.items...)
}

// Close stops pending timers and drops everything. Later notifications are
// discarded.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.items = nil
	s.closed = true
}

func (s *Service) Success(message string) Notification {
	return s.Notify(SeveritySuccess, message)
}

func (s *Service) Error(message string) Notification {
	return s.Notify(SeverityError, message)
}

func (s *Service) Info(message string) Notification {
	return s.Notify(SeverityInfo, message)
}

func (s *Service) Warning(message string) Notification {
	return s.Notify(SeverityWarning, message)
}

func (s *Service) CRUD() CRUDNotifier {
	return CRUDNotifier{s: s}
}

func (s *Service) Auth() AuthNotifier {
	return AuthNotifier{s: s}
}

func (s *Service) Validation() ValidationNotifier {
	return ValidationNotifier{s: s}
}

func (s *Service) Network() NetworkNotifier {
	return NetworkNotifier{s: s}
}
