package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/klougaris/smartclinic/pkg/config"
	"github.com/klougaris/smartclinic/pkg/logger"
)

// DB represents the database connection shared by the stores.
type DB struct {
	*sql.DB
	config *config.DatabaseConfig
	logger *logger.Logger
}

// NewConnection creates a new database connection with a configured pool.
func NewConnection(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	connStr := buildConnectionString(cfg)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		config: cfg,
		logger: log,
	}

	log.Info("Database connection established")
	return db, nil
}

// buildConnectionString constructs the PostgreSQL connection string.
func buildConnectionString(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// Wrap adapts an already-open sql.DB. Tests use it to inject a mock
// driver; QueryTimeout falls back to its default without a config.
func Wrap(sqlDB *sql.DB, log *logger.Logger) *DB {
	return &DB{DB: sqlDB, logger: log}
}

// QueryTimeout returns the bounded per-call timeout for store operations.
func (db *DB) QueryTimeout() time.Duration {
	if db.config == nil || db.config.QueryTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(db.config.QueryTimeout) * time.Second
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// Health checks the database connection health.
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}
