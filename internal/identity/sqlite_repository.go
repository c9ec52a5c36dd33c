package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	phone TEXT NOT NULL,
	country TEXT NOT NULL,
	password_hash BLOB NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}',
	email_confirmed INTEGER NOT NULL DEFAULT 0,
	token_version INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	last_login TEXT
);`

// SQLiteRepository stores users in a local SQLite file. The terminal wizard
// uses it when no Postgres database is configured.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. Use ":memory:" for a
// throwaway store.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, user User) error {
	meta, err := json.Marshal(user.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.FullName, user.Phone, user.Country, user.PasswordHash, string(meta),
		user.EmailConfirmed, user.TokenVersion, formatTime(user.CreatedAt), nullableTime(user.LastLogin))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrAlreadyRegistered
	}
	return err
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (User, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) UpdateTokenVersion(ctx context.Context, id string, version int) error {
	return r.exec(ctx, `UPDATE users SET token_version = ? WHERE id = ?`, version, id)
}

func (r *SQLiteRepository) MarkEmailConfirmed(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE users SET email_confirmed = ? WHERE id = ?`, true, id)
}

func (r *SQLiteRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, formatTime(at), id)
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, value any, id string) error {
	res, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *SQLiteRepository) scan(row *sql.Row) (User, error) {
	var (
		user      User
		meta      string
		createdAt string
		lastLogin sql.NullString
	)
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.Phone, &user.Country, &user.PasswordHash,
		&meta, &user.EmailConfirmed, &user.TokenVersion, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &user.Metadata); err != nil {
			return User{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return User{}, fmt.Errorf("decode created_at: %w", err)
	}
	if lastLogin.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastLogin.String)
		if err != nil {
			return User{}, fmt.Errorf("decode last_login: %w", err)
		}
		user.LastLogin = &t
	}
	return user, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
