package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/fatih/color"

	"hostprep/internal/executor"
	"hostprep/internal/guard"
)

// Run statuses recorded in the journal. A run starts as StatusRunning and
// ends as StatusDone or StatusFailed; there is no other transition.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// StepError reports the first failing step. ExitCode carries the child's
// own exit status so the process can propagate it.
type StepError struct {
	Step     string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed (exit %d): %v", e.Step, e.ExitCode, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Recorder persists run and step outcomes. A nil Recorder disables
// journaling (dry runs, --no-journal).
type Recorder interface {
	StartRun(operator, host string) (string, error)
	StartStep(runID string, position int, name, command string) (int64, error)
	FinishStep(stepID int64, status string, exitCode int) error
	FinishRun(runID, status string) error
}

// Applier executes a plan step by step, fail-fast, journaling as it goes.
type Applier struct {
	Runner   executor.Runner
	Recorder Recorder // optional
	Stdout   io.Writer
	Stderr   io.Writer

	// Force bypasses the destructive-command guard.
	Force bool
	// Operator and Host annotate the journaled run.
	Operator string
	Host     string
}

var (
	stepHeader = color.New(color.FgCyan)
	stepFailed = color.New(color.FgRed)
)

// Apply runs every step of p in order and stops at the first failure,
// leaving the host in whatever state the failed step produced. The returned
// error is a *StepError for step failures.
func (a *Applier) Apply(ctx context.Context, p Plan) error {
	runID, err := a.startRun()
	if err != nil {
		return err
	}

	for i, s := range p.Steps {
		_, _ = stepHeader.Fprintf(a.Stdout, "-> %s\n", s.Name)
		if err := a.applyStep(ctx, runID, i+1, s); err != nil {
			_ = a.finishRun(runID, StatusFailed)
			_, _ = stepFailed.Fprintf(a.Stderr, "hostprep: %v\n", err)
			return err
		}
	}

	return a.finishRun(runID, StatusDone)
}

func (a *Applier) applyStep(ctx context.Context, runID string, position int, s Step) error {
	stepID, err := a.startStep(runID, position, s)
	if err != nil {
		return err
	}

	if !a.Force {
		if err := guard.CheckAllowed(s.Command); err != nil {
			err = fmt.Errorf("refusing to run %q: %w (use --force to override)", s.Command, err)
			_ = a.finishStep(stepID, StatusFailed, 1)
			return &StepError{Step: s.Name, ExitCode: 1, Err: err}
		}
	}

	if err := a.Runner.Execute(ctx, s.Command, s.Env, a.Stdout, a.Stderr); err != nil {
		code := exitCodeOf(err)
		_ = a.finishStep(stepID, StatusFailed, code)
		return &StepError{Step: s.Name, ExitCode: code, Err: err}
	}
	return a.finishStep(stepID, StatusDone, 0)
}

// exitCodeOf extracts the child's exit code from a wrapped execution error,
// falling back to 1 when none is available (signals, spawn failures).
func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}

func (a *Applier) startRun() (string, error) {
	if a.Recorder == nil {
		return "", nil
	}
	return a.Recorder.StartRun(a.Operator, a.Host)
}

func (a *Applier) startStep(runID string, position int, s Step) (int64, error) {
	if a.Recorder == nil {
		return 0, nil
	}
	return a.Recorder.StartStep(runID, position, s.Name, s.Command)
}

func (a *Applier) finishStep(stepID int64, status string, exitCode int) error {
	if a.Recorder == nil {
		return nil
	}
	return a.Recorder.FinishStep(stepID, status, exitCode)
}

func (a *Applier) finishRun(runID, status string) error {
	if a.Recorder == nil {
		return nil
	}
	return a.Recorder.FinishRun(runID, status)
}
