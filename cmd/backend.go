package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/backend/local"
	"github.com/frahmantamala/funcionarios/internal/backend/supabase"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// backendDeps is what the configured backend mode provides to the commands.
type backendDeps struct {
	Factory backend.Factory
	Ping    func(ctx context.Context) error
	// Local is set only in local mode.
	Local *local.Backend
	DB    *sqlx.DB
}

func (d *backendDeps) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

func initBackend(cfg *internal.Config, logger *slog.Logger) (*backendDeps, error) {
	switch cfg.Backend.Mode {
	case internal.BackendModeLocal:
		db, err := initDB(cfg.Database)
		if err != nil {
			return nil, err
		}

		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open gorm session: %w", err)
		}

		b := local.New(gormDB, db, local.Options{
			JWTSecret:          cfg.Security.JWTSecret,
			AccessTokenTTL:     cfg.Security.AccessTokenDuration,
			RefreshTokenTTL:    cfg.Security.RefreshTokenDuration,
			BCryptCost:         cfg.Security.BCryptCost,
			MaxLoginAttempts:   cfg.Security.MaxLoginAttempts,
			LoginAttemptWindow: cfg.Security.LoginAttemptWindow,
			AutoConfirm:        cfg.Backend.AutoConfirm,
			RequireAuth:        cfg.Backend.RequireAuth,
		}, logger)

		return &backendDeps{Factory: b, Ping: b.Ping, Local: b, DB: db}, nil

	default:
		sbConfig := supabase.Config{
			URL:     cfg.Backend.URL,
			APIKey:  cfg.Backend.APIKey,
			Timeout: cfg.Backend.Timeout,
		}
		pinger := supabase.New(sbConfig, nil, logger)
		return &backendDeps{
			Factory: supabase.NewFactory(sbConfig, logger),
			Ping:    pinger.Ping,
		}, nil
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
