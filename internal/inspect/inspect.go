// Package inspect reports what the provisioning plan has (or has not)
// left on the host.
package inspect

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"hostprep/internal/osrelease"
	"hostprep/internal/plan"
)

// Binary is the resolution result for one expected executable.
type Binary struct {
	Name      string
	Path      string
	Installed bool
}

// Status describes host state relative to the plan.
type Status struct {
	Binaries      []Binary
	PythonPathSet bool // plan's site-packages dir present in PYTHONPATH
	Host          osrelease.Info
	TargetMatch   bool
}

// expectedBinaries are the executables the plan leaves behind on success.
var expectedBinaries = []string{"python2.7", "pip", "mypy"}

// GetStatus inspects PATH, PYTHONPATH and os-release against the plan.
func GetStatus(p plan.Plan) (*Status, error) {
	st := &Status{}
	for _, name := range expectedBinaries {
		b := Binary{Name: name}
		if lp, err := exec.LookPath(name); err == nil {
			b.Path = lp
			b.Installed = true
		}
		st.Binaries = append(st.Binaries, b)
	}

	st.PythonPathSet = ContainsPath(os.Getenv("PYTHONPATH"), plan.PythonPath())

	host, err := osrelease.Detect()
	if err != nil {
		return nil, err
	}
	st.Host = host
	st.TargetMatch = host.Matches(p.TargetID, p.TargetVersionID)
	return st, nil
}

// ContainsPath checks if the given directory is in the search-path list.
func ContainsPath(pathEnv, dir string) bool {
	if pathEnv == "" || dir == "" {
		return false
	}
	dirClean := filepath.Clean(strings.TrimSpace(dir))
	for _, p := range filepath.SplitList(pathEnv) {
		if filepath.Clean(strings.TrimSpace(p)) == dirClean {
			return true
		}
	}
	return false
}
