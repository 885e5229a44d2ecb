package journal

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository provides journal operations over the runs and run_steps tables.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// StartRun inserts a new run in the running state and returns its id.
func (r *Repository) StartRun(operator, host string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`INSERT INTO runs (id, started_at, status, operator, host)
			VALUES (?, datetime('now'), 'running', ?, ?)`, id, nullable(operator), nullable(host))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// StartStep inserts a step in the running state and returns its row id.
func (r *Repository) StartStep(runID string, position int, name, command string) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO run_steps (run_id, position, name, command, status, started_at)
			VALUES (?, ?, ?, ?, 'running', datetime('now'))`, runID, position, name, command)
	if err != nil {
		return 0, fmt.Errorf("insert step: %w", err)
	}
	return res.LastInsertId()
}

// FinishStep records a step's terminal status and exit code.
func (r *Repository) FinishStep(stepID int64, status string, exitCode int) error {
	_, err := r.db.Exec(`UPDATE run_steps SET status = ?, exit_code = ?, finished_at = datetime('now')
			WHERE id = ?`, status, exitCode, stepID)
	if err != nil {
		return fmt.Errorf("finish step: %w", err)
	}
	return nil
}

// FinishRun records a run's terminal status.
func (r *Repository) FinishRun(runID, status string) error {
	_, err := r.db.Exec(`UPDATE runs SET status = ?, finished_at = datetime('now')
			WHERE id = ?`, status, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun retrieves a run and its steps by id. Returns (nil, nil) if absent.
func (r *Repository) GetRun(id string) (*Run, error) {
	row := r.db.QueryRow("SELECT id, started_at, finished_at, status, operator, host FROM runs WHERE id = ?", id)
	var run Run
	if err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.Operator, &run.Host); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachSteps(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns all runs with their steps, newest first.
func (r *Repository) ListRuns() ([]Run, error) {
	rows, err := r.db.Query("SELECT id, started_at, finished_at, status, operator, host FROM runs ORDER BY started_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.Operator, &run.Host); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attachSteps(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// attachSteps loads steps for a run in position order.
func (r *Repository) attachSteps(run *Run) error {
	rows, err := r.db.Query(`SELECT id, run_id, position, name, command, status, exit_code, started_at, finished_at
			FROM run_steps WHERE run_id = ? ORDER BY position ASC`, run.ID)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var s StepRecord
		if err := rows.Scan(&s.ID, &s.RunID, &s.Position, &s.Name, &s.Command, &s.Status, &s.ExitCode, &s.StartedAt, &s.FinishedAt); err != nil {
			return err
		}
		run.Steps = append(run.Steps, s)
	}
	return rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
