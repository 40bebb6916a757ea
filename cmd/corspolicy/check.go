package main

import (
	"fmt"
	"io"

	"github.com/jub0bs/corspolicy"
	"github.com/jub0bs/corspolicy/internal/headers"
	"github.com/spf13/cobra"
)

const checkExample = `# How is a simple cross-origin request from some origin treated?
corspolicy check --origin https://app.example.com cors.yaml

# How is a CORS-preflight request treated?
corspolicy check --origin https://app.example.com --method PUT --header Content-Type,X-Foo cors.yaml`

type checkFlags struct {
	origin         string
	method         string
	headers        []string
	privateNetwork bool
}

func newCheckCmd(gf *globalFlags) *cobra.Command {
	var cf checkFlags
	cmd := &cobra.Command{
		Use:     "check FILE",
		Short:   "Show the CORS response headers a policy yields for a request",
		Example: checkExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := gf.loadPolicy(cmd, args[0])
			if err != nil {
				if reportConfigErrors(cmd.ErrOrStderr(), args[0], err) {
					return errReported
				}
				return err
			}
			check(cmd.OutOrStdout(), p, &cf)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&cf.origin, "origin", "", "value of the request's "+headers.Origin+" header")
	fs.StringVar(&cf.method, "method", "", "value of the "+headers.ACRM+" header; implies a preflight request")
	fs.StringSliceVar(&cf.headers, "header", nil, "names listed in the "+headers.ACRH+" header")
	fs.BoolVar(&cf.privateNetwork, "private-network", false, "whether the preflight request carries "+headers.ACRPN+": true")
	cmd.MarkFlagRequired("origin")
	return cmd
}

func check(w io.Writer, p *corspolicy.Policy, cf *checkFlags) {
	od := p.Origin(cf.origin)
	fmt.Fprintf(w, "origin: %s\n", od.Outcome)
	if od.Vary {
		writeHeader(w, headers.Vary, headers.Origin)
	}
	if od.Outcome == corspolicy.Denied {
		return
	}
	writeHeader(w, headers.ACAO, od.Value)
	if od.Credentials {
		writeHeader(w, headers.ACAC, headers.ValueTrue)
	}
	if cf.method == "" {
		writeHeader(w, headers.ACEH, p.ExposeHeadersValue())
		return
	}
	pd := p.Preflight(cf.method, cf.headers)
	if !pd.Allowed {
		fmt.Fprintln(w, "preflight: denied")
		return
	}
	fmt.Fprintln(w, "preflight: allowed")
	writeHeader(w, headers.ACAM, pd.Methods)
	writeHeader(w, headers.ACAH, pd.Headers)
	writeHeader(w, headers.ACMA, pd.MaxAge)
	if cf.privateNetwork && pd.PrivateNetwork {
		writeHeader(w, headers.ACAPN, headers.ValueTrue)
	}
}

// writeHeader writes a header line unless value is empty.
func writeHeader(w io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", name, value)
}
