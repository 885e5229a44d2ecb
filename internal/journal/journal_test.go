package journal

import (
	"database/sql"
	"testing"

	"hostprep/internal/db"
)

func openTestRepo(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	conn, err := db.InitDB()
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepository(conn), conn
}

func TestStartAndFinishRun(t *testing.T) {
	r, _ := openTestRepo(t)

	id, err := r.StartRun("root", "Ubuntu 14.04.6 LTS")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty run id")
	}

	run, err := r.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run == nil {
		t.Fatalf("expected run to exist")
	}
	if run.Status != "running" {
		t.Fatalf("expected running, got: %q", run.Status)
	}
	if !run.Operator.Valid || run.Operator.String != "root" {
		t.Fatalf("expected operator root, got: %+v", run.Operator)
	}

	if err := r.FinishRun(id, "done"); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	run, err = r.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun after finish failed: %v", err)
	}
	if run.Status != "done" || !run.FinishedAt.Valid {
		t.Fatalf("expected finished run, got: %+v", run)
	}
}

func TestStepLifecycle(t *testing.T) {
	r, _ := openTestRepo(t)

	id, err := r.StartRun("", "")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	s1, err := r.StartStep(id, 1, "install python runtime", "apt-get install -y python2.7")
	if err != nil {
		t.Fatalf("StartStep failed: %v", err)
	}
	if err := r.FinishStep(s1, "done", 0); err != nil {
		t.Fatalf("FinishStep failed: %v", err)
	}
	s2, err := r.StartStep(id, 2, "install support packages", "apt-get install -y python-dev python-pip")
	if err != nil {
		t.Fatalf("StartStep failed: %v", err)
	}
	if err := r.FinishStep(s2, "failed", 100); err != nil {
		t.Fatalf("FinishStep failed: %v", err)
	}

	run, err := r.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if len(run.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(run.Steps))
	}
	if run.Steps[0].Position != 1 || run.Steps[1].Position != 2 {
		t.Fatalf("steps out of order: %+v", run.Steps)
	}
	if run.Steps[1].Status != "failed" {
		t.Fatalf("expected failed second step, got: %q", run.Steps[1].Status)
	}
	if !run.Steps[1].ExitCode.Valid || run.Steps[1].ExitCode.Int64 != 100 {
		t.Fatalf("expected exit code 100, got: %+v", run.Steps[1].ExitCode)
	}
}

func TestGetRunAbsent(t *testing.T) {
	r, _ := openTestRepo(t)
	run, err := r.GetRun("does-not-exist")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil for absent run")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	r, conn := openTestRepo(t)

	// Insert with explicit timestamps so ordering is deterministic.
	if _, err := conn.Exec("INSERT INTO runs (id, started_at, status) VALUES ('old', '2026-01-01 00:00:00', 'done')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := conn.Exec("INSERT INTO runs (id, started_at, status) VALUES ('new', '2026-02-01 00:00:00', 'failed')"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	runs, err := r.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "old" {
		t.Fatalf("expected newest first, got: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestFilterRuns(t *testing.T) {
	r, _ := openTestRepo(t)

	id1, _ := r.StartRun("root", "")
	s, _ := r.StartStep(id1, 1, "install mypy from source", "pip install git+https://github.com/JukkaL/mypy.git@master")
	_ = r.FinishStep(s, "done", 0)
	_ = r.FinishRun(id1, "done")

	id2, _ := r.StartRun("root", "")
	_ = r.FinishRun(id2, "failed")

	runs, err := r.FilterRuns("mypy")
	if err != nil {
		t.Fatalf("FilterRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id1 {
		t.Fatalf("expected only the mypy run, got: %+v", runs)
	}

	all, err := r.FilterRuns("")
	if err != nil {
		t.Fatalf("FilterRuns empty failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected empty query to match all, got %d", len(all))
	}
}

func TestFuzzyMatch(t *testing.T) {
	if !FuzzyMatch("install python runtime", "python") {
		t.Fatalf("substring should match")
	}
	if !FuzzyMatch("install python runtime", "ipr") {
		t.Fatalf("subsequence should match")
	}
	if FuzzyMatch("install", "zzz") {
		t.Fatalf("unrelated query should not match")
	}
}
