// Command corspolicy validates, explains, and exercises CORS policy
// configuration documents.
//
// Usage:
//
//	corspolicy validate cors.yaml
//	corspolicy explain --output json cors.toml
//	corspolicy check --origin https://app.example.com --method PUT cors.json
//	corspolicy version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// errReported signals that diagnostics have already been written out.
var errReported = errors.New("corspolicy: errors reported")
