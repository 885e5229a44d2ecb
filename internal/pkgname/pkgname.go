// Package pkgname validates Debian package names used in the plan.
package pkgname

import (
	"fmt"
	"strings"
)

// Validate checks whether name is a well-formed Debian package name:
// at least two characters, starting with an alphanumeric, consisting of
// lowercase letters, digits and the separators '+', '-', '.'.
// Policy reference: Debian Policy Manual §5.6.1.
func Validate(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("invalid package name: name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("invalid package name %q: must be at least two characters", name)
	}
	if !isAlnum(rune(name[0])) {
		return fmt.Errorf("invalid package name %q: must start with a lowercase letter or digit", name)
	}
	for _, r := range name {
		if isAlnum(r) {
			continue
		}
		switch r {
		case '+', '-', '.':
			continue
		}
		return fmt.Errorf("invalid package name %q: illegal character %q", name, r)
	}
	return nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// ValidateAll validates every name and returns the first failure.
func ValidateAll(names []string) error {
	for _, n := range names {
		if err := Validate(n); err != nil {
			return err
		}
	}
	return nil
}
