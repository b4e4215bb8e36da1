package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository keeps one row per owner in linkedin_sessions.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the owner's row; a re-upload replaces the previous cookies.
func (r *PostgresRepository) Save(ctx context.Context, s *Session) error {
	args, err := upsertArgs(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO linkedin_sessions (user_id, cookies, user_agent, platform, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET cookies = EXCLUDED.cookies, user_agent = EXCLUDED.user_agent, platform = EXCLUDED.platform,
			expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at
		RETURNING created_at`

	err = r.db.QueryRow(ctx, query, args...).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// upsertArgs orders the parameters for Save. The cookies go in as a JSON
// string: under QueryExecModeExec a []byte is sent as bytea hex, which the
// JSONB column rejects.
func upsertArgs(s *Session) ([]any, error) {
	cookies, err := json.Marshal(s.Cookies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cookies: %w", err)
	}
	return []any{s.OwnerID, string(cookies), s.UserAgent, s.Platform, s.ExpiresAt, s.UpdatedAt}, nil
}

// Load skips rows whose expires_at has passed.
func (r *PostgresRepository) Load(ctx context.Context, ownerID string) (*Session, error) {
	query := `
		SELECT cookies, COALESCE(user_agent, ''), COALESCE(platform, ''), created_at, updated_at, expires_at
		FROM linkedin_sessions
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > NOW())`

	s := &Session{OwnerID: ownerID}
	var cookies []byte
	err := r.db.QueryRow(ctx, query, ownerID).
		Scan(&cookies, &s.UserAgent, &s.Platform, &s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal(cookies, &s.Cookies); err != nil {
		return nil, fmt.Errorf("failed to decode cookies: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM linkedin_sessions WHERE user_id = $1", ownerID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM linkedin_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
