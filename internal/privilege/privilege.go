// Package privilege gates provisioning on superuser identity.
package privilege

import (
	"errors"
	"os"
)

// ErrNotRoot is returned when the effective user is not the superuser.
// Callers map it to exit code 1 before any installation step runs.
var ErrNotRoot = errors.New("hostprep must be run as root (try: sudo hostprep)")

// euid is a seam so tests can simulate privileged and unprivileged callers.
var euid = os.Geteuid

// Check returns ErrNotRoot unless the process runs with effective uid 0.
func Check() error {
	if euid() != 0 {
		return ErrNotRoot
	}
	return nil
}
