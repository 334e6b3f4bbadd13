package funcionario

import (
	"context"
	"log/slog"
	"sync"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/core/events"
	"github.com/frahmantamala/funcionarios/internal/i18n"
)

// Store keeps one client's cached collection of funcionarios, newest first.
// The collection only changes through List (replace) and Create (prepend).
type Store struct {
	tables     backend.TableClient
	translator *i18n.Translator
	logger     *slog.Logger
	bus        *events.EventBus
	clientID   string

	mu      sync.RWMutex
	items   []Funcionario
	loaded  bool
	loading bool
	err     *string
}

type Option func(*Store)

// WithEventBus publishes funcionario.created after each successful Create.
func WithEventBus(bus *events.EventBus, clientID string) Option {
	return func(s *Store) {
		s.bus = bus
		s.clientID = clientID
	}
}

func NewStore(tables backend.TableClient, translator *i18n.Translator, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		tables:     tables,
		translator: translator,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) done() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(err *errors.AppError) *errors.AppError {
	s.SetError(err.Error())
	return err
}

// List reloads the collection from the backend, ordered by created_at
// descending, and replaces the cached copy.
func (s *Store) List(ctx context.Context) ([]Funcionario, error) {
	s.begin()
	defer s.done()

	var rows []Funcionario
	query := backend.Select("*").OrderBy("created_at", false)
	if err := s.tables.Select(ctx, backend.TableFuncionarios, query, &rows); err != nil {
		s.logger.Error("failed to load funcionarios", "error", err)
		return nil, s.fail(listError(s.translator, err))
	}
	if rows == nil {
		return nil, s.fail(errors.NewExternalError(s.translator.T(i18n.FuncListNoData), errors.ErrCodeNoData, 0, nil))
	}

	s.mu.Lock()
	s.items = rows
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("funcionarios loaded", "count", len(rows))
	return s.Funcionarios(), nil
}

// Create validates dto locally, inserts it and prepends the stored row.
func (s *Store) Create(ctx context.Context, dto CreateFuncionarioDTO) (*Funcionario, error) {
	s.begin()
	defer s.done()

	dto = dto.Normalize()
	if err := dto.Validate(s.translator); err != nil {
		return nil, s.fail(err)
	}

	var created *Funcionario
	if err := s.tables.Insert(ctx, backend.TableFuncionarios, dto.row(), &created); err != nil {
		s.logger.Error("failed to create funcionario", "error", err)
		return nil, s.fail(createError(s.translator, err))
	}
	if created == nil {
		return nil, s.fail(errors.NewExternalError(s.translator.T(i18n.FuncCreateNoData), errors.ErrCodeNoData, 0, nil))
	}

	s.mu.Lock()
	s.items = append([]Funcionario{*created}, s.items...)
	s.mu.Unlock()

	s.logger.Info("funcionario created", "id", created.ID, "cargo", created.Cargo)
	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewFuncionarioCreatedEvent(s.clientID, created.ID, created.Nome))
	}

	out := *created
	return &out, nil
}

// GetByID looks in the cached collection only.
func (s *Store) GetByID(id int64) (*Funcionario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].ID == id {
			f := s.items[i]
			return &f, true
		}
	}
	return nil, false
}

// Search filters the cached collection, keeping its order.
func (s *Store) Search(filters Filters) []Funcionario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Funcionario, 0, len(s.items))
	for i := range s.items {
		if filters.Matches(&s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Funcionarios() []Funcionario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Funcionario, len(s.items))
	copy(out, s.items)
	return out
}

// Loaded reports whether List has succeeded at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last failure message, or "" when there is none.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err == nil {
		return ""
	}
	return *s.err
}

func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		s.err = nil
		return
	}
	s.err = &msg
}

func (s *Store) ClearError() {
	s.SetError("")
}
