package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ytcurator/domain/model"
	"ytcurator/infrastructure/logger"
)

// EnsurePostgresSchema creates the cache_entries table if not exists
func EnsurePostgresSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS cache_entries (
        namespace TEXT NOT NULL,
        key TEXT NOT NULL,
        data JSONB NOT NULL,
        stored_at TIMESTAMPTZ NOT NULL,
        expires_at TIMESTAMPTZ NULL,
        PRIMARY KEY (namespace, key)
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create cache_entries table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_cache_entries_expires_at")
	}
	return nil
}

// PostgresBackend stores entries as JSONB rows keyed by (namespace, key)
type PostgresBackend struct{ db *sql.DB }

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) Find(ctx context.Context, namespace, key string) (*model.CacheEntry, error) {
	row := p.db.QueryRowContext(ctx, `SELECT data, stored_at, expires_at FROM cache_entries WHERE namespace=$1 AND key=$2`, namespace, key)
	var raw []byte
	var storedAt time.Time
	var exp sql.NullTime
	if err := row.Scan(&raw, &storedAt, &exp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	entry := &model.CacheEntry{Key: key, Data: raw, Timestamp: storedAt}
	if exp.Valid {
		entry.ExpiresAt = &exp.Time
	}
	return entry, nil
}

func (p *PostgresBackend) Upsert(ctx context.Context, namespace string, entry *model.CacheEntry) error {
	var exp sql.NullTime
	if entry.ExpiresAt != nil {
		exp = sql.NullTime{Time: *entry.ExpiresAt, Valid: true}
	}
	q := `INSERT INTO cache_entries(namespace, key, data, stored_at, expires_at)
          VALUES ($1,$2,$3,$4,$5)
          ON CONFLICT (namespace, key) DO UPDATE SET data=EXCLUDED.data, stored_at=EXCLUDED.stored_at, expires_at=EXCLUDED.expires_at`
	_, err := p.db.ExecContext(ctx, q, namespace, entry.Key, []byte(entry.Data), entry.Timestamp, exp)
	return err
}

func (p *PostgresBackend) Remove(ctx context.Context, namespace, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE namespace=$1 AND key=$2`, namespace, key)
	return err
}

func (p *PostgresBackend) RemoveAll(ctx context.Context, namespace string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE namespace=$1`, namespace)
	return err
}

func (p *PostgresBackend) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT DISTINCT namespace FROM cache_entries ORDER BY namespace`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

func (p *PostgresBackend) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresBackend) Close(context.Context) error {
	return p.db.Close()
}
