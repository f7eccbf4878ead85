package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abbasm/cashier-topup/internal/domain"
	_ "modernc.org/sqlite"
)

// schemaVersion is stamped into the database user_version pragma. Databases
// written by a newer build are rejected rather than silently reinterpreted.
const schemaVersion = 1

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}

	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		user_id INTEGER PRIMARY KEY,
		chat_id INTEGER NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		full_name TEXT,
		age INTEGER,
		successful_topups INTEGER NOT NULL DEFAULT 0,
		state TEXT NOT NULL,
		pending_method TEXT,
		pending_amount INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sessionColumns = `user_id, chat_id, username, full_name, age,
	successful_topups, state, pending_method, pending_amount, created_at, updated_at`

// GetSession retrieves a session by user ID.
func (s *SQLiteStore) GetSession(ctx context.Context, userID int64) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ?`, userID)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// UpsertSession creates or replaces a session record.
func (s *SQLiteStore) UpsertSession(ctx context.Context, session *domain.Session) error {
	query := `
	INSERT INTO sessions (` + sessionColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		chat_id = excluded.chat_id,
		username = excluded.username,
		full_name = excluded.full_name,
		age = excluded.age,
		successful_topups = excluded.successful_topups,
		state = excluded.state,
		pending_method = excluded.pending_method,
		pending_amount = excluded.pending_amount,
		updated_at = excluded.updated_at`

	var fullName, pendingMethod interface{}
	var age, pendingAmount interface{}
	if session.FullName != "" {
		fullName = session.FullName
	}
	if session.Age > 0 {
		age = session.Age
	}
	if session.Pending != nil {
		pendingMethod = string(session.Pending.Method)
		pendingAmount = session.Pending.Amount
	}

	_, err := s.db.ExecContext(ctx, query,
		session.UserID, session.ChatID, session.Username, fullName, age,
		session.SuccessfulTopups, string(session.State), pendingMethod, pendingAmount,
		session.CreatedAt.Unix(), session.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// LoadSessions returns every persisted session.
func (s *SQLiteStore) LoadSessions(ctx context.Context) ([]*domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var sess domain.Session
	var fullName, pendingMethod sql.NullString
	var age, pendingAmount sql.NullInt64
	var state string
	var createdAt, updatedAt int64

	err := row.Scan(
		&sess.UserID, &sess.ChatID, &sess.Username, &fullName, &age,
		&sess.SuccessfulTopups, &state, &pendingMethod, &pendingAmount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	parsed, err := domain.ParseState(state)
	if err != nil {
		return nil, fmt.Errorf("session %d: %w", sess.UserID, err)
	}
	sess.State = parsed

	sess.FullName = fullName.String
	sess.Age = int(age.Int64)
	if pendingMethod.Valid {
		sess.Pending = &domain.PendingClaim{
			Method: domain.Method(pendingMethod.String),
			Amount: pendingAmount.Int64,
		}
	}
	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.UpdatedAt = time.Unix(updatedAt, 0)

	return &sess, nil
}
