package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/erlab/resolver"
)

// PostgresSnapshot persists a resolver's cluster output as JSONB rows,
// giving a batch resolve a durable checkpoint independent of the
// deterministic core's in-memory cluster_map. It is a collaborator
// snapshot store, not a replacement for the core's own state.
type PostgresSnapshot struct {
	pool *pgxpool.Pool
}

// NewPostgresSnapshot connects to connStr and returns a snapshot store.
func NewPostgresSnapshot(ctx context.Context, connStr string) (*PostgresSnapshot, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("store: connect to postgres: %w", err)
	}
	return &PostgresSnapshot{pool: pool}, nil
}

// EnsureSchema creates the snapshot table if it does not already exist.
func (s *PostgresSnapshot) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resolver_cluster_snapshot (
			run_id      TEXT NOT NULL,
			cluster_id  BIGINT NOT NULL,
			data        JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, cluster_id)
		)
	`)
	return err
}

// Save writes one row per cluster under runID, overwriting any prior
// snapshot of the same cluster id within that run.
func (s *PostgresSnapshot) Save(ctx context.Context, runID string, clusters []resolver.ClusterData) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range clusters {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("store: marshal cluster %d: %w", c.ClusterID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO resolver_cluster_snapshot (run_id, cluster_id, data)
			VALUES ($1, $2, $3::jsonb)
			ON CONFLICT (run_id, cluster_id) DO UPDATE SET data = EXCLUDED.data, created_at = now()
		`, runID, c.ClusterID, payload)
		if err != nil {
			return fmt.Errorf("store: upsert cluster %d: %w", c.ClusterID, err)
		}
	}
	return tx.Commit(ctx)
}

// Load reads back every cluster snapshot stored under runID.
func (s *PostgresSnapshot) Load(ctx context.Context, runID string) ([]resolver.ClusterData, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT data FROM resolver_cluster_snapshot WHERE run_id = $1 ORDER BY cluster_id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resolver.ClusterData
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var c resolver.ClusterData
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close releases the underlying connection pool.
func (s *PostgresSnapshot) Close() {
	s.pool.Close()
}
