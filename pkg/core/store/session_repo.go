// Package store persists interpreted budget sessions keyed by session id.
// Hybrid vault: Postgres primary (jsonb upsert), file system fallback for
// local runs without a DATABASE_URL.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifepath_planner/pkg/core/validate"
	"lifepath_planner/pkg/models"
)

// Session is the persisted unit: the source draft for audit, the canonical
// model, and the validator's advisory findings.
type Session struct {
	SessionID string               `json:"session_id"`
	Draft     *models.DraftModel   `json:"draft,omitempty"`
	Model     *models.UnifiedModel `json:"model"`
	Warnings  []validate.Warning   `json:"warnings,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// SessionRepo stores sessions in the DB when a pool exists, otherwise under
// a local cache directory.
type SessionRepo struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewSessionRepo builds a repo over the global pool. With a nil pool, files
// go under .cache/budget/sessions (or dir when given).
func NewSessionRepo(pool *pgxpool.Pool, dir string) *SessionRepo {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "budget", "sessions")
	}
	if pool == nil {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Could not create session cache dir: %v\n", err)
		}
	}
	return &SessionRepo{pool: pool, fileDir: dir}
}

// Save upserts the session. Every write is a whole-session replacement.
//
// Schema assumption (managed by migrations elsewhere):
//
//	CREATE TABLE IF NOT EXISTS budget_sessions (
//	  session_id TEXT PRIMARY KEY,
//	  session_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);
func (r *SessionRepo) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if r.pool != nil {
		query := `
			INSERT INTO budget_sessions (session_id, session_json, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (session_id)
			DO UPDATE SET
				session_json = EXCLUDED.session_json,
				updated_at = EXCLUDED.updated_at;
		`
		if _, err := r.pool.Exec(ctx, query, s.SessionID, data, s.UpdatedAt); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	}

	path := r.sessionPath(s.SessionID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load retrieves a session by id.
func (r *SessionRepo) Load(ctx context.Context, sessionID string) (*Session, error) {
	var data []byte

	if r.pool != nil {
		query := `SELECT session_json FROM budget_sessions WHERE session_id = $1`
		err := r.pool.QueryRow(ctx, query, sessionID).Scan(&data)
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no session found for id %s", sessionID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(r.sessionPath(sessionID))
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session found for id %s", sessionID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read session file: %w", err)
		}
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) sessionPath(sessionID string) string {
	return filepath.Join(r.fileDir, sessionID+".json")
}
