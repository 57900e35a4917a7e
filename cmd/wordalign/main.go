// The wordalign command aligns the words of two sentences from the
// command line. Without an embedding provider configured it falls back
// to the lexical provider, so it works offline out of the box.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nimyab/word-aligner/internal/config"
)

// Version is stamped by the build.
var Version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliOptions struct {
	configFile string
	method     string
	provider   string
	model      string
	baseURL    string
	jsonOutput bool
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "wordalign",
		Short:         "Word-level alignment between a sentence pair",
		Long:          "wordalign computes word-to-word correspondences between a source and a target sentence\nusing one of several matching policies over a token similarity matrix.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default wordalign.yaml in . or $HOME)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newAlignCommand(opts))
	root.AddCommand(newMethodsCommand())
	root.AddCommand(newVersionCommand())

	return root
}

// loadCLIConfig resolves the effective configuration: defaults, then
// the viper-located config file, then WORDALIGN_* environment, then
// flags. The CLI default provider stays lexical so a bare invocation
// never needs credentials or a network.
func loadCLIConfig(opts *cliOptions) (*config.Config, error) {
	path, err := findConfigFile(opts.configFile)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// CLI runs are one-shot; the server-side surfaces stay off.
	cfg.Observability.Metrics.Enabled = false
	cfg.Observability.Tracing.Enabled = false
	if opts.verbose {
		cfg.Observability.Logging.Level = "debug"
	} else {
		cfg.Observability.Logging.Level = "error"
	}

	if opts.provider != "" {
		cfg.Embedding.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.Embedding.Model = opts.model
	}
	if opts.baseURL != "" {
		cfg.Embedding.BaseURL = opts.baseURL
	}
	if opts.method != "" {
		cfg.Align.DefaultMethod = opts.method
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wordalign version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wordalign %s\n", Version)
		},
	}
}
