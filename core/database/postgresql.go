package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pairtime-api/core/constants"
	"pairtime-api/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type IDatabase interface {
	ExecContext(ctx context.Context, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	Rebind(query string) string
	SQLx() *sqlx.DB
	Close() error
}

type Database struct {
	sqlx *sqlx.DB
}

type DatabaseConfig struct {
	Driver   string // postgres | sqlite3
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // disable, require, verify-ca, verify-full
	Path     string // sqlite3 file, ":memory:" for tests
}

func (c DatabaseConfig) dsn() string {
	if c.Driver == "sqlite3" {
		path := c.Path
		if path == "" {
			path = ":memory:"
		}
		return fmt.Sprintf("file:%s?_foreign_keys=on", path)
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = constants.DatabaseSSLMode
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

func InitDB(config DatabaseConfig) (*Database, error) {
	logger.Info("Initializing database...", "driver", config.Driver)

	driver := config.Driver
	if driver == "" {
		driver = "postgres"
	}

	sqlxDB, err := sqlx.Connect(driver, config.dsn())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := sqlxDB.DB
	if driver == "sqlite3" {
		// one writer; sqlite serializes anyway and :memory: must not be split across conns
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
		sqlDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)
	}

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database initialized successfully",
		"driver", driver,
		"host", config.Host,
		"database", config.DBName,
	)

	return &Database{sqlx: sqlxDB}, nil
}

func (d *Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.sqlx.ExecContext(ctx, query, args...)
	return err
}

func (d *Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, query, args...)
}

func (d *Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, query, args...)
}

func (d *Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.sqlx.QueryRowContext(ctx, query, args...)
}

func (d *Database) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return d.sqlx.NamedExecContext(ctx, query, arg)
}

// Rebind converts "?" placeholders to the bindvar style of the active driver.
func (d *Database) Rebind(query string) string {
	return d.sqlx.Rebind(query)
}

func (d *Database) SQLx() *sqlx.DB {
	return d.sqlx
}

func (d *Database) Close() error {
	return d.sqlx.Close()
}
