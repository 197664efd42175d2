package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dendro/internal/convert"
	"github.com/roach88/dendro/internal/store"
)

// ConvertOptions holds flags for the flat and decadal commands.
type ConvertOptions struct {
	*RootOptions
	Output   string
	Database string

	// IDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.RunIDGenerator
}

// NewFlatCommand creates the flat command (decadal -> flat).
func NewFlatCommand(rootOpts *RootOptions) *cobra.Command {
	return newConvertCommand(rootOpts, convert.ToFlat, &cobra.Command{
		Use:   "flat <file>...",
		Short: "Convert decadal files to one record per year",
		Long: `Convert decadal ring-width files (up to ten values per line) into flat
files with one value per line.

Each output defaults to the input with its extension replaced by .txt.
Output is appended, so converting the same file twice doubles its records.
A missing input is reported and skipped; the remaining files still convert.

Example:
  dendro flat mn008.rwl mn009.rwl
  dendro flat -o all.txt mn008.rwl`,
	})
}

// NewDecadalCommand creates the decadal command (flat -> decadal).
func NewDecadalCommand(rootOpts *RootOptions) *cobra.Command {
	return newConvertCommand(rootOpts, convert.ToDecadal, &cobra.Command{
		Use:   "decadal <file>...",
		Short: "Convert flat files to one record per decade",
		Long: `Convert flat ring-width files (one value per line) into decadal files.

Each output defaults to the input with its extension replaced by .rwl.
Output is appended. A missing input is reported and skipped.

Example:
  dendro decadal mn008.txt
  dendro decadal --db archive.db mn008.txt mn009.txt`,
	})
}

func newConvertCommand(rootOpts *RootOptions, d convert.Direction, cmd *cobra.Command) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd.Args = cobra.MinimumNArgs(1)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runConvert(opts, d, args, cmd)
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (only with a single input)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")

	return cmd
}

func runConvert(opts *ConvertOptions, d convert.Direction, inputs []string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Output != "" && len(inputs) > 1 {
		return fail(formatter, ExitCommandError, ErrCodeInvalidArgs, "--output needs exactly one input file", nil)
	}

	runner := &convert.Runner{IDs: opts.IDs}
	if opts.Database != "" {
		st, closeStore, err := openStore(opts.Database)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to open database", err)
		}
		defer closeStore()
		runner.Store = st
	}

	var (
		results []convert.Result
		failed  int
	)
	for _, in := range inputs {
		if info, err := os.Stat(in); err != nil || info.IsDir() {
			failed++
			reason := "not a regular file"
			if err != nil {
				reason = err.Error()
			}
			fmt.Fprintf(formatter.GetErrWriter(), "Skipping %s: %s\n", in, reason)
			continue
		}

		out := opts.Output
		if out == "" {
			out = convert.DefaultOutput(in, d)
		}

		res, err := runner.Run(commandContext(cmd), convert.Job{Input: in, Output: out, Direction: d})
		results = append(results, res)
		if err != nil {
			failed++
			code := ErrorCode(err)
			if errors.Is(err, os.ErrPermission) {
				code = ErrCodeWriteFailed
			}
			fmt.Fprintf(formatter.GetErrWriter(), "Error [%s]: %s: %v\n", code, in, err)
			continue
		}
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "Output: %s (%d records)\n", res.Output, res.Stats.Records)
		}
	}

	if failed > 0 {
		msg := fmt.Sprintf("%d of %d file(s) failed", failed, len(inputs))
		_ = formatter.PartialFailure(ErrCodeBatchFailure, msg, results)
		return NewExitError(ExitFailure, msg)
	}
	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	return nil
}
