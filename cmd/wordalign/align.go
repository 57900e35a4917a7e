package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nimyab/word-aligner/internal/align"
	"github.com/nimyab/word-aligner/internal/di"
	"github.com/nimyab/word-aligner/internal/matching"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func newAlignCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align <source sentence> <target sentence>",
		Short: "Align the words of two sentences",
		Example: `  wordalign align "the cat sat" "кот сидел"
  wordalign align --method inter "the cat sat" "кот сидел"
  wordalign align --json "the cat" "le chat" | jq .a`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig(opts)
			if err != nil {
				return err
			}

			container, err := di.Build(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = container.Cleanup(cmd.Context()) }()

			result, err := container.Coordinator.Align(cmd.Context(), args[0], args[1], opts.method)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSONResult(cmd.OutOrStdout(), args[0], args[1], result)
			}
			writePrettyResult(cmd.OutOrStdout(), container.Provider.Name(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "matching method: fwd, rev, inter, itermax, mwmf")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "similarity backend: openai, ollama, lexical, mock")
	cmd.Flags().StringVar(&opts.model, "model", "", "embedding model name")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "embedding API base URL")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "emit the wire-format JSON instead of the table")

	return cmd
}

func newMethodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the supported matching methods",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, m := range matching.Methods() {
				marker := " "
				if m == matching.MethodMaxWeight {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-8s %s\n", marker, bold(m.String()), m.Description())
			}
			fmt.Fprintf(out, "\n%s\n", gray("* default"))
		},
	}
}

// findConfigFile locates the config file through viper: an explicit
// --config path must exist, otherwise wordalign.yaml is searched in
// the working directory and the home directory, and missing is fine.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	v := viper.New()
	v.SetConfigName("wordalign")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "wordalign"))
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

// jsonRecord mirrors the HTTP wire format so CLI output can be piped
// into the same tooling.
type jsonRecord struct {
	SourceWord string `json:"sw"`
	TargetWord string `json:"tw"`
	SourceSpan [2]int `json:"si"`
	TargetSpan [2]int `json:"ti"`
}

type jsonResult struct {
	Alignments []jsonRecord `json:"a"`
	SourceText string       `json:"st"`
	TargetText string       `json:"tt"`
	Method     string       `json:"method"`
}

func writeJSONResult(w io.Writer, sourceText, targetText string, result *align.Result) error {
	out := jsonResult{
		Alignments: make([]jsonRecord, len(result.Records)),
		SourceText: sourceText,
		TargetText: targetText,
		Method:     string(result.Method),
	}
	for i, rec := range result.Records {
		out.Alignments[i] = jsonRecord{
			SourceWord: rec.SourceWord,
			TargetWord: rec.TargetWord,
			SourceSpan: rec.SourceSpan,
			TargetSpan: rec.TargetSpan,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func writePrettyResult(w io.Writer, provider string, result *align.Result) {
	fmt.Fprintf(w, "%s %s  %s %s\n\n",
		gray("method:"), yellow(string(result.Method)),
		gray("provider:"), yellow(provider))

	width := 0
	for _, rec := range result.Records {
		if n := len(rec.SourceWord); n > width {
			width = n
		}
	}
	for _, rec := range result.Records {
		// Pad before coloring; the escape codes would break %-*s.
		pad := strings.Repeat(" ", width-len(rec.SourceWord))
		fmt.Fprintf(w, "  %s%s %s %s  %s\n",
			cyan(rec.SourceWord), pad, gray("->"), green(rec.TargetWord),
			gray(fmt.Sprintf("[%d:%d] -> [%d:%d]",
				rec.SourceSpan[0], rec.SourceSpan[1], rec.TargetSpan[0], rec.TargetSpan[1])))
	}

	fmt.Fprintf(w, "\n%s\n", gray(fmt.Sprintf("%d pairs from %d source and %d target words",
		len(result.Records), len(result.SourceTokens), len(result.TargetTokens))))
}
