package plan

import (
	"strings"
	"testing"
)

func TestDefaultShape(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if p.TargetID != "ubuntu" || p.TargetVersionID != "14.04" {
		t.Fatalf("unexpected target: %s %s", p.TargetID, p.TargetVersionID)
	}
	if len(p.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(p.Steps))
	}

	if p.Steps[0].Command != "apt-get install -y python2.7" {
		t.Fatalf("unexpected runtime step: %q", p.Steps[0].Command)
	}
	if p.Steps[1].Command != "apt-get install -y python-dev python-pip" {
		t.Fatalf("unexpected support step: %q", p.Steps[1].Command)
	}
	if !strings.HasPrefix(p.Steps[2].Command, "pip install git+") {
		t.Fatalf("unexpected source install step: %q", p.Steps[2].Command)
	}
}

func TestDefaultAptStepsNoninteractive(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	for _, s := range p.Steps[:2] {
		found := false
		for _, kv := range s.Env {
			if kv == "DEBIAN_FRONTEND=noninteractive" {
				found = true
			}
		}
		if !found {
			t.Fatalf("step %q missing noninteractive env", s.Name)
		}
	}
}

func TestDefaultPythonPathScopedToSourceStep(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	want := "PYTHONPATH=" + PythonPath()
	last := p.Steps[len(p.Steps)-1]
	found := false
	for _, kv := range last.Env {
		if kv == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q on source install step, got env: %v", want, last.Env)
	}
	// and on no other step
	for _, s := range p.Steps[:len(p.Steps)-1] {
		for _, kv := range s.Env {
			if strings.HasPrefix(kv, "PYTHONPATH=") {
				t.Fatalf("PYTHONPATH leaked onto step %q", s.Name)
			}
		}
	}
}

func TestValidateStepsRejectsMultilineCommand(t *testing.T) {
	steps := []Step{
		{Name: "ok", Command: "apt-get install -y python2.7"},
		{Name: "bad", Command: "echo a\necho b"},
	}
	err := validateSteps(steps)
	if err == nil {
		t.Fatalf("expected error for multiline command")
	}
	if !strings.Contains(err.Error(), `step "bad"`) {
		t.Fatalf("expected failing step named, got: %v", err)
	}
}

func TestDescribeNumbersSteps(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	lines := p.Describe()
	if len(lines) != len(p.Steps) {
		t.Fatalf("expected %d lines, got %d", len(p.Steps), len(lines))
	}
	if !strings.HasPrefix(lines[0], "1. ") {
		t.Fatalf("expected numbered first line, got: %q", lines[0])
	}
	if !strings.Contains(lines[2], "PYTHONPATH=") {
		t.Fatalf("expected env shown on source step, got: %q", lines[2])
	}
}
