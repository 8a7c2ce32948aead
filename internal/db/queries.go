package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a preference key has no value.
var ErrNotFound = errors.New("preference not found")

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Preference is one row of the preferences table.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

const getPreference = `SELECT value FROM preferences WHERE key = ?`

const setPreference = `INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

const deletePreference = `DELETE FROM preferences WHERE key = ?`

const listPreferences = `SELECT key, value, updated_at FROM preferences ORDER BY key`

// Queries runs the preference statements against a database.
type Queries struct {
	db    DBTX
	get   *sql.Stmt
	set   *sql.Stmt
	del   *sql.Stmt
	list  *sql.Stmt
	nowFn func() time.Time
}

// New returns Queries that run unprepared statements against db.
func New(db DBTX) *Queries {
	return &Queries{db: db, nowFn: time.Now}
}

// Prepare returns Queries backed by prepared statements. Close releases them.
func Prepare(ctx context.Context, db DBTX) (*Queries, error) {
	q := New(db)
	var err error
	if q.get, err = db.PrepareContext(ctx, getPreference); err != nil {
		return nil, fmt.Errorf("prepare GetPreference: %w", err)
	}
	if q.set, err = db.PrepareContext(ctx, setPreference); err != nil {
		q.Close()
		return nil, fmt.Errorf("prepare SetPreference: %w", err)
	}
	if q.del, err = db.PrepareContext(ctx, deletePreference); err != nil {
		q.Close()
		return nil, fmt.Errorf("prepare DeletePreference: %w", err)
	}
	if q.list, err = db.PrepareContext(ctx, listPreferences); err != nil {
		q.Close()
		return nil, fmt.Errorf("prepare ListPreferences: %w", err)
	}
	return q, nil
}

// Close releases prepared statements.
func (q *Queries) Close() error {
	var errs []error
	for _, stmt := range []*sql.Stmt{q.get, q.set, q.del, q.list} {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (q *Queries) queryRow(ctx context.Context, stmt *sql.Stmt, query string, args ...any) *sql.Row {
	if stmt != nil {
		return stmt.QueryRowContext(ctx, args...)
	}
	return q.db.QueryRowContext(ctx, query, args...)
}

func (q *Queries) exec(ctx context.Context, stmt *sql.Stmt, query string, args ...any) error {
	var err error
	if stmt != nil {
		_, err = stmt.ExecContext(ctx, args...)
	} else {
		_, err = q.db.ExecContext(ctx, query, args...)
	}
	return err
}

func (q *Queries) query(ctx context.Context, stmt *sql.Stmt, query string, args ...any) (*sql.Rows, error) {
	if stmt != nil {
		return stmt.QueryContext(ctx, args...)
	}
	return q.db.QueryContext(ctx, query, args...)
}

// GetPreference returns the value stored under key, or ErrNotFound.
func (q *Queries) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := q.queryRow(ctx, q.get, getPreference, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, nil
}

// SetPreference inserts or replaces the value stored under key.
func (q *Queries) SetPreference(ctx context.Context, key, value string) error {
	if err := q.exec(ctx, q.set, setPreference, key, value, q.nowFn().Unix()); err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

// DeletePreference removes key. Deleting a missing key is not an error.
func (q *Queries) DeletePreference(ctx context.Context, key string) error {
	if err := q.exec(ctx, q.del, deletePreference, key); err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	return nil
}

// ListPreferences returns every stored preference ordered by key.
func (q *Queries) ListPreferences(ctx context.Context) ([]Preference, error) {
	rows, err := q.query(ctx, q.list, listPreferences)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []Preference
	for rows.Next() {
		var p Preference
		var updated int64
		if err := rows.Scan(&p.Key, &p.Value, &updated); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.UpdatedAt = time.Unix(updated, 0)
		out = append(out, p)
	}
	return out, rows.Err()
}
