package main

import (
	"fmt"
	"io"

	"github.com/jub0bs/corspolicy/cfgerrors"
	"github.com/spf13/cobra"
)

const validateExample = `# Validate a YAML document
corspolicy validate cors.yaml

# Validate a document read from standard input
cat cors.json | corspolicy validate --format json -`

func newValidateCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "validate FILE",
		Short:   "Report the configuration errors of a policy document",
		Example: validateExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := gf.loadPolicy(cmd, path); err != nil {
				if !reportConfigErrors(cmd.ErrOrStderr(), path, err) {
					return err
				}
				return errReported
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			return nil
		},
	}
}

// reportConfigErrors writes one line per configuration error in err's tree
// and reports whether err consisted of configuration errors only.
func reportConfigErrors(w io.Writer, path string, err error) bool {
	var lines []string
	for err := range cfgerrors.All(err) {
		switch err.(type) {
		case *cfgerrors.ConfigShapeError, *cfgerrors.PolicyConflict:
			lines = append(lines, err.Error())
		default:
			return false
		}
	}
	for _, line := range lines {
		fmt.Fprintf(w, "%s: %s\n", path, line)
	}
	return true
}
