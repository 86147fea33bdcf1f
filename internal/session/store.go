// Package session persists browser sessions. The browser holds only an
// opaque session ID cookie; the store maps that ID to the backend bearer
// token, so the credential survives restarts and is removed on logout or
// on the first rejected request.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations, and returns a
// ready store.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create stores a new session for the given bearer token and returns it
// with a fresh random ID.
func (s *Store) Create(ctx context.Context, token string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, created_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Token, sess.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	slog.InfoContext(ctx, "Session created", "session_id", sess.ID)
	return sess, nil
}

// Get looks up a session by ID. Unknown IDs return ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, created_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Token, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	slog.InfoContext(ctx, "Session deleted", "session_id", id)
	return nil
}
