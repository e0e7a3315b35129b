// Command extract runs the extraction pipeline on a local file without the
// server/worker machinery.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/internal/pipeline"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

var (
	flagEncoding string
	flagMethod   string
	flagOutput   string
	flagOptions  []string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:          "extract FILE",
	Short:        "Extract text from any document",
	Long:         "Extract text from a document (PDF, DOCX, images via OCR, ...) and write it out in the requested character encoding.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runExtract,
}

func init() {
	rootCmd.Flags().StringVarP(&flagEncoding, "encoding", "e", textenc.DefaultEncoding,
		"Encoding of the output")
	rootCmd.Flags().StringVarP(&flagMethod, "method", "m", "",
		"Method of extraction for formats that support several")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "-",
		"Write raw text to this file instead of stdout")
	rootCmd.Flags().StringArrayVarP(&flagOptions, "option", "O", nil,
		"Arbitrary extractor option of the form KEY=VALUE (repeatable)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.RegisterFlagCompletionFunc("encoding", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return textenc.Names(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Encoding names are validated here at the CLI boundary; the pipeline
	// itself only checks at the encode stage.
	if _, err := textenc.Lookup(flagEncoding); err != nil {
		return err
	}

	opts := extractor.Options{}
	if flagMethod != "" {
		opts["method"] = flagMethod
	}
	for _, raw := range flagOptions {
		key, val, ok := strings.Cut(strings.TrimSpace(raw), "=")
		if !ok || key == "" {
			return fmt.Errorf("malformed option %q, expected KEY=VALUE", raw)
		}
		if _, dup := opts[key]; dup {
			return fmt.Errorf("duplicate specification of option %q", key)
		}
		opts[key] = val
	}

	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	log, err := logger.NewLogger(
		logger.WithLevel(level),
		logger.WithEncoding("console"),
		logger.WithOutputPaths([]string{"stderr"}),
		logger.WithErrorPaths([]string{"stderr"}),
	)
	if err != nil {
		return err
	}
	defer log.Sync()

	out, err := pipeline.New(log).Process(cmd.Context(), args[0], flagEncoding, opts)
	if err != nil {
		return err
	}

	if flagOutput == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(flagOutput, out, 0644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
