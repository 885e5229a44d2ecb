package db

import (
	"testing"
)

func TestInitDBCreatesSchema(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	conn, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	for _, table := range []string{"runs", "run_steps"} {
		var name string
		row := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestInitDBIdempotent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	conn, err := InitDB()
	if err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	_ = conn.Close()

	conn2, err := InitDB()
	if err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
	_ = conn2.Close()
}

func TestEnsureRunColumnsUpgradesOldSchema(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	conn, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	// Simulate an old journal without the operator/host columns.
	if _, err := conn.Exec("DROP TABLE runs"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := conn.Exec("CREATE TABLE runs (id TEXT PRIMARY KEY, started_at TEXT NOT NULL, finished_at TEXT, status TEXT NOT NULL DEFAULT 'running')"); err != nil {
		t.Fatalf("create old schema: %v", err)
	}
	if err := ApplyMigrations(conn); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if _, err := conn.Exec("INSERT INTO runs (id, started_at, operator, host) VALUES ('x', datetime('now'), 'op', 'h')"); err != nil {
		t.Fatalf("expected upgraded columns to be writable: %v", err)
	}
}
