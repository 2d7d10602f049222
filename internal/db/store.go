package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		createdAt REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS slots (
		sessionId TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updatedAt REAL NOT NULL,
		PRIMARY KEY (sessionId, key)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

const metaCurrentSession = "current_session"

// Store is the SQLite-backed SessionStore. Slots belong to one session; the
// current session survives restarts until a new one is started.
type Store struct {
	db      *sql.DB
	path    string
	session string
}

// DefaultDBPath returns the database path inside the given state directory.
func DefaultDBPath(stateDir string) string {
	if stateDir == "" {
		home, _ := os.UserHomeDir()
		stateDir = filepath.Join(home, ".minutes")
	}
	return filepath.Join(stateDir, "state.sqlite")
}

// Open opens (creating if needed) the store at path. If session is empty the
// current session recorded in the database is used, and one is created when
// none exists yet.
func Open(path, session string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, path: path}
	if session == "" {
		session, err = s.CurrentSession(context.Background())
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	if session == "" {
		session, err = s.NewSession(context.Background())
		if err != nil {
			db.Close()
			return nil, err
		}
	} else if err := s.ensureSession(context.Background(), session); err != nil {
		db.Close()
		return nil, err
	}
	s.session = session
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Session returns the session this store reads and writes.
func (s *Store) Session() string { return s.session }

// Put writes value under key for the current session.
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (sessionId, key, value, updatedAt)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(sessionId, key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
	`, s.session, key, value, unixNow())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Get reads key for the current session.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM slots WHERE sessionId = ? AND key = ?`, s.session, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Clear removes key for the current session. Clearing a missing key is a no-op.
func (s *Store) Clear(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM slots WHERE sessionId = ? AND key = ?`, s.session, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

// Reset removes every slot of the current session.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE sessionId = ?`, s.session); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// NewSession starts a fresh session, makes it current and switches this
// store to it.
func (s *Store) NewSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, createdAt) VALUES (?, ?)`, id, unixNow()); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaCurrentSession, id); err != nil {
		return "", fmt.Errorf("set current session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	s.session = id
	return id, nil
}

// CurrentSession returns the session id recorded as current, or "" if none.
func (s *Store) CurrentSession(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaCurrentSession).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query current session: %w", err)
	}
	return id, nil
}

// Info returns the current session and its slots ordered by key.
func (s *Store) Info(ctx context.Context) (*SessionInfo, error) {
	info := &SessionInfo{ID: s.session}

	var createdAt float64
	err := s.db.QueryRowContext(ctx, `SELECT createdAt FROM sessions WHERE id = ?`, s.session).Scan(&createdAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query session: %w", err)
	}
	if err == nil {
		info.CreatedAt = timeFromUnix(createdAt)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, updatedAt
		FROM slots
		WHERE sessionId = ?
		ORDER BY key ASC
	`, s.session)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sl Slot
		var updatedAt float64
		if err := rows.Scan(&sl.Key, &sl.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		sl.UpdatedAt = timeFromUnix(updatedAt)
		info.Slots = append(info.Slots, sl)
	}
	return info, rows.Err()
}

// ensureSession registers a pinned session id if it is not known yet.
func (s *Store) ensureSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, createdAt) VALUES (?, ?)`, id, unixNow()); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
