// Package local is a self-hosted stand-in for the hosted backend. Accounts
// are kept with gorm, rows are read and written through sqlx, passwords are
// bcrypt hashed and sessions are HS256 JWTs.
package local

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Options struct {
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BCryptCost         int
	MaxLoginAttempts   int
	LoginAttemptWindow time.Duration
	// AutoConfirm marks new accounts as confirmed and signs them in at once.
	AutoConfirm bool
	// RequireAuth rejects inserts from clients without a session.
	RequireAuth bool
}

// Backend holds the state shared by every per-client Client.
type Backend struct {
	users   *UserRepository
	tables  *Tables
	tokens  *TokenIssuer
	limiter *loginLimiter
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

func New(gormDB *gorm.DB, db *sqlx.DB, opts Options, logger *slog.Logger) *Backend {
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}
	return &Backend{
		users:   NewUserRepository(gormDB),
		tables:  NewTables(db),
		tokens:  NewTokenIssuer(opts.JWTSecret, opts.AccessTokenTTL, opts.RefreshTokenTTL),
		limiter: newLoginLimiter(opts.MaxLoginAttempts, opts.LoginAttemptWindow),
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// NewClient satisfies backend.Factory.
func (b *Backend) NewClient() backend.Client {
	return &Client{backend: b, listeners: backend.NewListeners()}
}

// AutoMigrate creates the accounts table. Table rows are migrated with goose.
func (b *Backend) AutoMigrate() error {
	return b.users.AutoMigrate()
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.tables.Ping(ctx)
}

// CreateUser registers an account directly, bypassing confirmation. Used by
// seeding.
func (b *Backend) CreateUser(ctx context.Context, email, password string, confirmed bool) (*backend.User, error) {
	return b.createUser(ctx, email, password, confirmed)
}

func (b *Backend) createUser(ctx context.Context, email, password string, confirmed bool) (*backend.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 6 {
		return nil, &backend.Error{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: backend.MsgWeakPassword}
	}

	existing, err := b.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &backend.Error{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: backend.MsgUserRegistered}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.opts.BCryptCost)
	if err != nil {
		return nil, err
	}

	now := b.now().UTC()
	record := &UserRecord{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if confirmed {
		record.EmailConfirmedAt = &now
	}
	if err := b.users.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := b.tables.Insert(ctx, backend.TableProfiles, map[string]any{"id": record.ID}, nil); err != nil {
		b.logger.Warn("failed to create profile row", "user_id", record.ID, "error", err)
	}
	return record.toUser(), nil
}

func (b *Backend) signIn(ctx context.Context, email, password string) (*backend.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := b.now()

	if !b.limiter.Allow(email, now) {
		return nil, &backend.Error{Status: http.StatusTooManyRequests, Code: "over_request_rate_limit", Message: backend.MsgTooManyRequests}
	}

	invalid := &backend.Error{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: backend.MsgInvalidCredentials}

	record, err := b.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if record == nil {
		b.limiter.Fail(email, now)
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		b.limiter.Fail(email, now)
		return nil, invalid
	}
	if record.EmailConfirmedAt == nil {
		return nil, &backend.Error{Status: http.StatusBadRequest, Code: "email_not_confirmed", Message: backend.MsgEmailNotConfirmed}
	}

	b.limiter.Reset(email)
	return b.tokens.Issue(record.toUser(), now)
}

// refresh trades a refresh token for a new session. The account must still
// exist.
func (b *Backend) refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	now := b.now()
	claims, err := b.tokens.Parse(refreshToken, tokenTypeRefresh, now)
	if err != nil {
		return nil, err
	}
	record, err := b.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrInvalidToken
	}
	return b.tokens.Issue(record.toUser(), now)
}
