package cmd

import (
	"fmt"
	"os"
)

// isTerminal reports whether f is connected to a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// stdinHasData returns true if stdin is a pipe or redirected file, i.e.
// reading it will not block on a user at a terminal.
func stdinHasData() bool {
	return !isTerminal(os.Stdin)
}

// resolveColor determines whether to use color output based on flags and TTY status.
// colorFlag is the --color value: "auto", "always", or "never".
// noColorFlag is the --no-color boolean flag. NO_COLOR in the environment
// disables "auto" color.
func resolveColor(colorFlag string, noColorFlag bool) (bool, error) {
	if noColorFlag {
		return false, nil
	}
	switch colorFlag {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --color %q (want auto, always or never)", colorFlag)
}
