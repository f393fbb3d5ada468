package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/bloombot/pkg/log"
)

// KV is a key-value store with per-entry expiry, backed by sqlite so
// conversation state survives restarts. Expired entries are treated as
// absent on read and reclaimed by Sweep.
type KV struct {
	db  *sql.DB
	now func() time.Time
}

func NewKV(db *sql.DB) *KV {
	return &KV{db: db, now: time.Now}
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value, expires_at FROM kv WHERE key = ?`

	var value []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key: %w", err)
	}

	if expiresAt <= s.now().Unix() {
		// Lazy expiry: delete on read so a stale row never resurfaces.
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to delete expired key")
		}
		return nil, false, nil
	}

	return value, true, nil
}

func (s *KV) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	query := `INSERT INTO kv (key, value, expires_at, updated_at) VALUES (?, ?, ?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, key, value, now.Add(ttl).Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert key: %w", err)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Sweep removes all expired entries and returns how many were reclaimed.
func (s *KV) Sweep(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired keys: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count swept keys: %w", err)
	}
	return n, nil
}
