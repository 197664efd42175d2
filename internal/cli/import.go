package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dendro/internal/convert"
	"github.com/roach88/dendro/internal/series"
	"github.com/roach88/dendro/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Adjust   string

	// IDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.RunIDGenerator
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Archive decadal files as series in a database",
		Long: `Parse decadal ring-width files and store every series in a SQLite
archive, keyed by content id. Re-importing an unchanged series links it to
the new run without storing it twice.

Example:
  dendro import --db archive.db mn008.rwl mn009.rwl
  dendro import --db archive.db --adjust count legacy.rwl`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Adjust, "adjust", "decade-end", "partial-decade rule (decade-end|count)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, inputs []string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	adjust, err := series.ParseStartAdjust(opts.Adjust)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInvalidArgs, "invalid --adjust", err)
	}

	st, closeStore, err := openStore(opts.Database)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer closeStore()

	runner := &convert.Runner{
		Store:       st,
		ReadOptions: []series.Option{series.WithStartAdjust(adjust)},
		IDs:         opts.IDs,
	}

	var (
		results []convert.Result
		failed  int
	)
	for _, in := range inputs {
		res, err := runner.Run(commandContext(cmd), convert.Job{Input: in, Direction: convert.Import})
		if res.RunID != "" {
			results = append(results, res)
		}
		if err != nil {
			failed++
			fmt.Fprintf(formatter.GetErrWriter(), "Error [%s]: %s: %v\n", ErrorCode(err), in, err)
			continue
		}
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "Imported %s: %d series (%d new), run %s\n",
				in, res.Series, res.Inserted, res.RunID)
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
