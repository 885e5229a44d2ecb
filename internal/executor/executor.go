// Package executor provides command execution functionality.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Executor runs shell commands through `bash -c`.
type Executor struct {
	DryRun  bool
	Verbose bool
	Shell   string // optional override (e.g., "sh")
}

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without running real shell commands.
type Runner interface {
	Execute(ctx context.Context, command string, env []string, stdout io.Writer, stderr io.Writer) error
}

// New returns a Runner backed by the real Executor implementation.
func New(dry, verbose bool) Runner {
	return &Executor{DryRun: dry, Verbose: verbose}
}

// sanitizeCommand normalizes common unicode characters that often get
// inserted by editors (e.g., smart quotes, NBSP, zero-width spaces) and
// converts them to their ASCII equivalents where sensible.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201C", "\"", // left double quote
		"\u201D", "\"", // right double quote
		"\u00A0", " ", // NO-BREAK SPACE
		"\u200B", "", // zero width space
		"\u200E", "", // left-to-right mark
		"\u200F", "", // right-to-left mark
	)
	rp := r.Replace(s)
	// Drop embedded NULs; keep tabs and printable characters.
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, rp)
}

func validateAndSanitize(command string) (string, error) {
	command = sanitizeCommand(command)
	if strings.Contains(command, "\n") {
		return "", fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	if strings.IndexFunc(command, func(r rune) bool { return r == 0 || (r < 32 && r != '\t') || r == 0x7f }) != -1 {
		return "", fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return command, nil
}

// Execute runs the provided command string via the shell (`bash -c` unless
// overridden), with env appended to the ambient environment for that child
// process only. Output is streamed to the provided writers while a copy is
// retained for error context. The child's exit status is preserved in the
// wrapped error so callers can propagate it.
func (e *Executor) Execute(ctx context.Context, command string, env []string, stdout io.Writer, stderr io.Writer) error {
	command, err := validateAndSanitize(command)
	if err != nil {
		return err
	}

	if e.DryRun {
		if e.Verbose {
			_, _ = fmt.Fprintf(stdout, "dry-run: %s\n", command)
		}
		return nil
	}

	shell := e.Shell
	if shell == "" {
		shell = "bash"
	}
	if _, err := exec.LookPath(shell); err != nil {
		return fmt.Errorf("shell not found in PATH: %s", shell)
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var bout, berr bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &bout)
	cmd.Stderr = io.MultiWriter(stderr, &berr)

	if err := cmd.Run(); err != nil {
		return commandError(err, &bout, &berr, command)
	}
	return nil
}

// commandError wraps a failed execution with trailing output for context.
// The original error is wrapped so *exec.ExitError (and its exit code)
// stays reachable via errors.As.
func commandError(err error, bout, berr *bytes.Buffer, command string) error {
	outStr := tail(bout.String())
	errStr := tail(berr.String())
	if outStr != "" || errStr != "" {
		return fmt.Errorf("command failed: %w (command=%q stdout=%q stderr=%q)", err, command, outStr, errStr)
	}
	return fmt.Errorf("command failed: %w (command=%q)", err, command)
}

// tail returns at most the last few lines of s, trimmed. Package installs
// can produce very long transcripts; only the end is useful in an error.
func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, "\n")
}

// ValidateCommand checks for characters that will cause command execution
// to fail (newlines and control characters) and returns an error describing
// the problem if one is found.
func ValidateCommand(s string) error {
	if strings.Contains(s, "\n") {
		return fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	if strings.IndexFunc(s, func(r rune) bool { return r == 0 || (r < 32 && r != '\t') || r == 0x7f }) != -1 {
		return fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return nil
}
