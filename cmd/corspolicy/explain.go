package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jub0bs/corspolicy"
	"github.com/jub0bs/corspolicy/loader"
	"github.com/spf13/cobra"
)

const explainExample = `# Summarize a compiled policy
corspolicy explain cors.toml

# Print the canonical form of a policy as YAML
corspolicy explain --output yaml cors.json`

func newExplainCmd(gf *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "explain FILE",
		Short:   "Describe the policy that a document compiles to",
		Example: explainExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := gf.loadPolicy(cmd, args[0])
			if err != nil {
				if reportConfigErrors(cmd.ErrOrStderr(), args[0], err) {
					return errReported
				}
				return err
			}
			if output != "" {
				f, err := loader.ParseFormat(output)
				if err != nil {
					return err
				}
				data, err := loader.Encode(p.Document(), f)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			explain(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "print the canonical document in this format (json, yaml, or toml) instead of a summary")
	return cmd
}

func explain(w io.Writer, p *corspolicy.Policy) {
	cfg := p.Config()
	fmt.Fprintf(w, "origins:           %s\n", describe(cfg.Origins.Kind, cfg.Origins.Origins))
	fmt.Fprintf(w, "methods:           %s\n", describe(cfg.Methods.Kind, cfg.Methods.Methods))
	fmt.Fprintf(w, "request headers:   %s\n", describe(cfg.Headers.Kind, cfg.Headers.Names))
	fmt.Fprintf(w, "exposed headers:   %s\n", describe(cfg.ExposedHeaders.Kind, cfg.ExposedHeaders.Names))
	fmt.Fprintf(w, "credentials:       %t\n", p.Credentials())
	if secs, ok := p.MaxAge(); ok {
		fmt.Fprintf(w, "max age:           %ds\n", secs)
	} else {
		fmt.Fprintln(w, "max age:           browser default")
	}
	fmt.Fprintf(w, "private network:   %t\n", p.PrivateNetwork())
	fmt.Fprintf(w, "vary origin:       %t\n", p.VaryOrigin())
	for _, t := range p.Transforms() {
		fmt.Fprintf(w, "transform:         %s\n", t)
	}
}

func describe(kind corspolicy.RuleKind, elems []string) string {
	if len(elems) == 0 {
		return kind.String()
	}
	return kind.String() + " [" + strings.Join(elems, ", ") + "]"
}
