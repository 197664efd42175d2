package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/dendro/internal/convert"
	"github.com/roach88/dendro/internal/manifest"
	"github.com/roach88/dendro/internal/store"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Database string

	// IDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.RunIDGenerator
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Run the jobs listed in a YAML or CUE manifest",
		Long: `Run every job of a manifest in order. Manifests are YAML (.yaml, .yml)
or CUE (.cue) and are checked against the same schema:

  name: minnesota
  db: archive.db          # optional
  adjust: decade-end      # optional: decade-end | count
  jobs:
    - input: mn008.rwl
      direction: flat     # flat | decadal | import
    - input: mn009.txt
      output: out/mn009.rwl
      direction: decadal

Paths are relative to the manifest. A failed job is reported and the
batch continues. --db overrides the manifest's db.

Example:
  dendro batch jobs.yaml
  dendro batch --db archive.db jobs.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides manifest)")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := manifest.Load(path)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrorCode(err), "failed to load manifest", err)
	}
	formatter.VerboseLog("Loaded manifest %s with %d job(s)", m.Name, len(m.Jobs))

	runner := &convert.Runner{IDs: opts.IDs}
	dbPath := m.DB
	if opts.Database != "" {
		dbPath = opts.Database
	}
	if dbPath != "" {
		st, closeStore, err := openStore(dbPath)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to open database", err)
		}
		defer closeStore()
		runner.Store = st
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := runner.Batch(ctx, m)
	if err != nil {
		if ctx.Err() != nil {
			return fail(formatter, ExitFailure, ErrCodeGeneric, "batch interrupted", ctx.Err())
		}
		if formatter.Format != "json" {
			printResults(formatter, results)
		}
		msg := fmt.Sprintf("batch %s: %d of %d job(s) failed", m.Name, countFailures(results, len(m.Jobs)), len(m.Jobs))
		_ = formatter.PartialFailure(ErrCodeBatchFailure, msg, results)
		return WrapExitError(ExitFailure, msg, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	printResults(formatter, results)
	return nil
}

func printResults(f *OutputFormatter, results []convert.Result) {
	for _, res := range results {
		status := "ok"
		if res.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(f.Writer, "%-6s %-7s %s", status, res.Direction, res.Input)
		switch {
		case res.Error != "":
			fmt.Fprintf(f.Writer, ": %s", res.Error)
		case res.Output != "":
			fmt.Fprintf(f.Writer, " -> %s (%d records)", res.Output, res.Stats.Records)
		default:
			fmt.Fprintf(f.Writer, " (%d series, %d new)", res.Series, res.Inserted)
		}
		fmt.Fprintln(f.Writer)
	}
}

// countFailures counts jobs that did not succeed, including jobs that never
// produced a result.
func countFailures(results []convert.Result, jobs int) int {
	ok := 0
	for _, res := range results {
		if res.Error == "" {
			ok++
		}
	}
	return jobs - ok
}
