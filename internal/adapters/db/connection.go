package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"click-collectible-service/internal/config"

	_ "github.com/lib/pq"
)

// Connection wraps the Postgres pool shared by the repositories.
type Connection struct {
	db *sql.DB
}

// NewConnection opens the collectible store's Postgres pool and verifies it
// with a bounded ping. Pool limits come from configuration.
func NewConnection(cfg *config.Config) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{db: db}, nil
}

// GetDB returns the underlying sql.DB pool
func (conn *Connection) GetDB() *sql.DB {
	return conn.db
}

// Close closes the pool
func (conn *Connection) Close() error {
	return conn.db.Close()
}

// ExecuteTransaction runs fn inside a transaction, rolling back on error or
// panic. Item writes rely on this to keep collection aggregates in step with
// the item rows they summarize.
func (conn *Connection) ExecuteTransaction(fn func(*sql.Tx) error) error {
	tx, err := conn.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
