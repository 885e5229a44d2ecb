// Package osrelease reads host OS identification from /etc/os-release.
package osrelease

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Info holds the fields hostprep cares about from os-release.
type Info struct {
	ID         string // e.g. "ubuntu"
	VersionID  string // e.g. "14.04"
	PrettyName string // e.g. "Ubuntu 14.04.6 LTS"
}

// osReleasePath is a seam so tests can point at a fixture file.
var osReleasePath = "/etc/os-release"

// Detect reads the host os-release file. A missing file yields a zero Info
// and no error; detection is best-effort and never blocks provisioning.
func Detect() (Info, error) {
	f, err := os.Open(osReleasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, nil
		}
		return Info{}, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads os-release KEY=VALUE lines from r. Values may be quoted;
// comment and blank lines are ignored.
func Parse(r io.Reader) (Info, error) {
	var info Info
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			info.ID = value
		case "VERSION_ID":
			info.VersionID = value
		case "PRETTY_NAME":
			info.PrettyName = value
		}
	}
	if err := s.Err(); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Matches reports whether the host matches the given distro id and version.
func (i Info) Matches(id, versionID string) bool {
	return strings.EqualFold(i.ID, id) && i.VersionID == versionID
}

// String returns a short human-readable description of the host.
func (i Info) String() string {
	if i.PrettyName != "" {
		return i.PrettyName
	}
	if i.ID == "" {
		return "unknown"
	}
	if i.VersionID == "" {
		return i.ID
	}
	return i.ID + " " + i.VersionID
}
