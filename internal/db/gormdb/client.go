// Package gormdb opens and migrates the relational catalog store via gorm.
package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/opsmap/internal/db"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds connection parameters for the relational store.
type Config struct {
	Driver string
	DSN    string
}

// Store wraps a migrated *gorm.DB.
type Store struct {
	db *gorm.DB
}

var _ db.Pinger = (*Store)(nil)

// Open connects using the configured driver and migrates the catalog tables.
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpPing, Err: err}
	}

	if cfg.Driver == DriverSQLite {
		// In-memory sqlite is per connection; pin the pool to one.
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, &db.Error{Op: db.OpPing, Err: err}
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &Store{db: gdb}
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Wrap adopts an already opened connection. Call Migrate before use.
func Wrap(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Migrate creates or updates the catalog tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(Models()...); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// DB exposes the underlying handle to repositories.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout) //nolint:wrapcheck // already a *db.Error
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
