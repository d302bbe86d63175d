package cmd

import (
	"errors"
	"fmt"
	"strings"
)

const dbLockHint = "→ another acscan process (serve or watch) holds the history database; stop it or pass --no-save"

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// scanExit is returned by scan to signal a specific exit code.
// grep convention: 0=found, 1=not found, 2=error.
type scanExit struct{ code int }

func (e scanExit) Error() string {
	switch e.code {
	case 0:
		return ""
	case 1:
		return "no match"
	default:
		return fmt.Sprintf("scan error (exit %d)", e.code)
	}
}

// ExitCode extracts the exit code from a scanExit error.
// Returns -1 if the error is not a scanExit.
func ExitCode(err error) int {
	var se scanExit
	if errors.As(err, &se) {
		return se.code
	}
	return -1
}
