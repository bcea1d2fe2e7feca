package database

import (
	"context"
	"fmt"
	"log"
	"time"
)

// PoolStats is a monitoring snapshot of the connection pool.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`

	NewConnsCount    int64 `json:"new_conns_count"`
	AcquireCount     int64 `json:"acquire_count"`
	AcquireDuration  time.Duration
	EmptyAcquireWait int64 `json:"empty_acquire_wait"`
}

// Stats returns a snapshot of pool statistics for the health endpoint.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	stat := db.Pool.Stat()
	return &PoolStats{
		TotalConns:       stat.TotalConns(),
		IdleConns:        stat.IdleConns(),
		AcquiredConns:    stat.AcquiredConns(),
		MaxConns:         stat.MaxConns(),
		NewConnsCount:    stat.NewConnsCount(),
		AcquireCount:     stat.AcquireCount(),
		AcquireDuration:  stat.AcquireDuration(),
		EmptyAcquireWait: stat.EmptyAcquireCount(),
	}, nil
}

// Ping verifies the database is reachable and responsive.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close shuts the pool down. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Println("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Println("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Println("[DATABASE] Database connection pool closed")
	return nil
}
