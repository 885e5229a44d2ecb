// Package plan defines the fixed provisioning sequence and applies it.
package plan

import (
	"fmt"

	"github.com/kballard/go-shellquote"

	"hostprep/internal/executor"
	"hostprep/internal/pkgname"
)

// Step is a single shell command in the provisioning sequence. Env holds
// KEY=VALUE pairs made visible only to this step's child process; the
// process-wide environment is never mutated.
type Step struct {
	Name    string
	Command string
	Env     []string
}

// Plan is an ordered provisioning sequence targeting one OS release.
type Plan struct {
	TargetID        string // os-release ID, e.g. "ubuntu"
	TargetVersionID string // os-release VERSION_ID, e.g. "14.04"
	Steps           []Step
}

const (
	runtimePackage = "python2.7"

	// site-packages path handed to the pip step so the freshly installed
	// interpreter's modules resolve during the source install.
	pythonPath = "/usr/lib/python2.7/site-packages"

	// mypy installed straight from its upstream repository; no release
	// tarball existed for it on trusty.
	mypySource = "git+https://github.com/JukkaL/mypy.git@master"
)

var supportPackages = []string{"python-dev", "python-pip"}

// Default returns the built-in plan: install the Python runtime, install
// the two supporting packages, then install mypy from source with
// PYTHONPATH scoped to that one invocation. Package names are validated
// before any command string is assembled.
func Default() (Plan, error) {
	if err := pkgname.Validate(runtimePackage); err != nil {
		return Plan{}, err
	}
	if err := pkgname.ValidateAll(supportPackages); err != nil {
		return Plan{}, err
	}

	aptEnv := []string{"DEBIAN_FRONTEND=noninteractive"}
	steps := []Step{
		{
			Name:    "install python runtime",
			Command: aptInstall(runtimePackage),
			Env:     aptEnv,
		},
		{
			Name:    "install support packages",
			Command: aptInstall(supportPackages...),
			Env:     aptEnv,
		},
		{
			Name:    "install mypy from source",
			Command: shellquote.Join("pip", "install", mypySource),
			Env:     []string{"PYTHONPATH=" + pythonPath},
		},
	}
	if err := validateSteps(steps); err != nil {
		return Plan{}, err
	}
	return Plan{TargetID: "ubuntu", TargetVersionID: "14.04", Steps: steps}, nil
}

// validateSteps rejects assembled commands the executor would refuse to run,
// so a malformed plan fails at construction rather than mid-sequence.
func validateSteps(steps []Step) error {
	for _, s := range steps {
		if err := executor.ValidateCommand(s.Command); err != nil {
			return fmt.Errorf("step %q: %w", s.Name, err)
		}
	}
	return nil
}

func aptInstall(pkgs ...string) string {
	args := append([]string{"apt-get", "install", "-y"}, pkgs...)
	return shellquote.Join(args...)
}

// PythonPath returns the search-path value supplied to the source install
// step. Exposed so inspection can check the current environment against it.
func PythonPath() string {
	return pythonPath
}

// Describe returns the plan as numbered human-readable lines, one per step,
// including the env scoped to each.
func (p Plan) Describe() []string {
	out := make([]string, 0, len(p.Steps))
	for i, s := range p.Steps {
		line := fmt.Sprintf("%d. %s: %s", i+1, s.Name, s.Command)
		if len(s.Env) > 0 {
			line += fmt.Sprintf(" (env: %s)", shellquote.Join(s.Env...))
		}
		out = append(out, line)
	}
	return out
}
