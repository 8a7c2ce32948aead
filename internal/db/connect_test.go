package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConnect(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db, err := Connect(ctx, dbPath)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"preferences", "goose_db_version"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestConnectTwiceIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		db, err := Connect(ctx, dbPath)
		if err != nil {
			t.Fatalf("Connect #%d failed: %v", i+1, err)
		}
		db.Close()
	}
}

func TestConnectCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "subdir", "test.db")

	db, err := Connect(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("directory was not created")
	}
}

func TestConnectEmptyPath(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	db, queries, err := ConnectWithQueries(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("ConnectWithQueries failed: %v", err)
	}
	defer db.Close()
	defer queries.Close()

	if _, err := queries.GetPreference(ctx, "theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	queries.nowFn = func() time.Time { return time.Unix(1700000000, 0) }
	if err := queries.SetPreference(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if err := queries.SetPreference(ctx, "theme", "light"); err != nil {
		t.Fatalf("SetPreference overwrite: %v", err)
	}
	if err := queries.SetPreference(ctx, "speed", "1.5"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}

	got, err := queries.GetPreference(ctx, "theme")
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	if got != "light" {
		t.Errorf("expected overwritten value 'light', got %q", got)
	}

	prefs, err := queries.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	if len(prefs) != 2 || prefs[0].Key != "speed" || prefs[1].Key != "theme" {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}
	if !prefs[1].UpdatedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("updated_at: got %v", prefs[1].UpdatedAt)
	}

	if err := queries.DeletePreference(ctx, "theme"); err != nil {
		t.Fatalf("DeletePreference: %v", err)
	}
	if err := queries.DeletePreference(ctx, "theme"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
	if _, err := queries.GetPreference(ctx, "theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUnpreparedQueries(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer db.Close()

	q := New(db)
	if err := q.SetPreference(ctx, "theme", "system"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if got, err := q.GetPreference(ctx, "theme"); err != nil || got != "system" {
		t.Fatalf("GetPreference = %q, %v", got, err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close on unprepared queries: %v", err)
	}
}
