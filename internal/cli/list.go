package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dendro/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	RunID    string
	Widths   bool
}

// ListedSeries is a stored series as the list command prints it.
type ListedSeries struct {
	store.SeriesRecord
	Widths []int `json:"widths,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, or the series of one run",
		Long: `List the runs recorded in a SQLite archive in the order they ran.
With --run, list the series that run imported, in file order; --widths
adds each series' ring widths as stored.

Example:
  dendro list --db archive.db
  dendro list --db archive.db --run 0192f0c4-... --widths`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "list the series of this run")
	cmd.Flags().BoolVar(&opts.Widths, "widths", false, "include ring widths (with --run)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, closeStore, err := openStore(opts.Database)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer closeStore()

	if opts.RunID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(runs)
		}
		for _, run := range runs {
			fmt.Fprintf(formatter.Writer, "%4d  %s  %-7s %-6s %s", run.Seq, run.ID, run.Kind, run.Status, run.Input)
			if run.Output != "" {
				fmt.Fprintf(formatter.Writer, " -> %s", run.Output)
			}
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "%d run(s)\n", len(runs))
		return nil
	}

	if _, err := st.ReadRun(ctx, opts.RunID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(formatter, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run %q not found", opts.RunID), nil)
		}
		return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to read run", err)
	}

	records, err := st.ListSeries(ctx, opts.RunID)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to list series", err)
	}

	listed := make([]ListedSeries, 0, len(records))
	for _, rec := range records {
		item := ListedSeries{SeriesRecord: rec}
		if opts.Widths {
			loaded, err := st.LoadSeries(ctx, rec.ID)
			if err != nil {
				return fail(formatter, ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to load series %s", rec.ID), err)
			}
			item.Widths = loaded.Widths()
		}
		listed = append(listed, item)
	}

	if formatter.Format == "json" {
		return formatter.Success(listed)
	}
	for _, item := range listed {
		fmt.Fprintf(formatter.Writer, "%4d  %-8s %5d %4d rings  %-11s %s\n",
			item.Seq, item.CoreID, item.StartYear, item.RingCount, item.Scale, item.ID)
		if opts.Widths {
			fmt.Fprintf(formatter.Writer, "  %s\n", joinInts(item.Widths))
		}
	}
	fmt.Fprintf(formatter.Writer, "%d series\n", len(listed))
	return nil
}
