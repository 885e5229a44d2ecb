// Package interactive provides prompt utilities.
package interactive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm prompts the user with msg on stdout and expects y/n on stdin.
// Returns true for yes.
func Confirm(msg string) bool {
	return ConfirmReader(msg, os.Stdin, os.Stdout)
}

// ConfirmReader prompts on w and reads the answer from r, so callers can
// route the prompt through their own output stream.
func ConfirmReader(msg string, r io.Reader, w io.Writer) bool {
	fmt.Fprintf(w, "%s [y/N]: ", msg)
	br := bufio.NewReader(r)
	line, _ := br.ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}
