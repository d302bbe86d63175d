// acscan finds every occurrence of a fixed set of literal patterns in text,
// in one pass per line, and keeps a browsable history of scans.
package main

import (
	"fmt"
	"os"

	"github.com/corey/acscan/cmd/acscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "acscan: %v\n", err)
		os.Exit(1)
	}
}
