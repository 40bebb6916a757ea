package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jub0bs/corspolicy"
	"github.com/jub0bs/corspolicy/loader"
	"github.com/spf13/cobra"
)

const (
	flagFormat    = "format"
	flagLenient   = "lenient"
	flagEnvPrefix = "env-prefix"
	flagVerbose   = "verbose"
)

// globalFlags holds the persistent flags shared by all subcommands.
type globalFlags struct {
	format    string
	lenient   bool
	envPrefix string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var gf globalFlags
	root := &cobra.Command{
		Use:           "corspolicy",
		Short:         "corspolicy validates and explains CORS policy documents",
		Long:          "corspolicy loads CORS policy documents (JSON, YAML, or TOML), reports configuration errors, and shows how the compiled policy treats requests.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&gf.format, flagFormat, "f", "", "document format (json, yaml, or toml); inferred from the file extension by default")
	pf.BoolVar(&gf.lenient, flagLenient, false, "ignore unknown keys instead of rejecting them")
	pf.StringVar(&gf.envPrefix, flagEnvPrefix, "", "prefix of environment variables that override document keys (e.g. CORS_)")
	pf.BoolVarP(&gf.verbose, flagVerbose, "v", false, "enable debug logging")

	root.AddCommand(
		newValidateCmd(&gf),
		newExplainCmd(&gf),
		newCheckCmd(&gf),
		newVersionCmd(),
	)
	return root
}

func (gf *globalFlags) loader(stderr io.Writer) *loader.Loader {
	level := slog.LevelInfo
	if gf.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	mode := loader.Strict
	if gf.lenient {
		mode = loader.Lenient
	}
	return loader.New(
		loader.WithMode(mode),
		loader.WithLogger(logger),
		loader.WithEnvPrefix(gf.envPrefix),
	)
}

// loadPolicy compiles the document at path; "-" designates standard input,
// in which case the format flag is required.
func (gf *globalFlags) loadPolicy(cmd *cobra.Command, path string) (*corspolicy.Policy, error) {
	l := gf.loader(cmd.ErrOrStderr())
	if gf.format == "" {
		if path == "-" {
			return nil, fmt.Errorf("--%s is required when reading from standard input", flagFormat)
		}
		return l.LoadFile(path)
	}
	f, err := loader.ParseFormat(gf.format)
	if err != nil {
		return nil, err
	}
	var data []byte
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.Parse(data, f)
}
