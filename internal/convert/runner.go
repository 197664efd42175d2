package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/dendro/internal/codec"
	"github.com/roach88/dendro/internal/manifest"
	"github.com/roach88/dendro/internal/series"
	"github.com/roach88/dendro/internal/store"
)

// Job is one unit of work for a Runner.
type Job struct {
	Input     string
	Output    string // ignored for Import
	Direction Direction
}

// Result describes one finished job, successful or not.
type Result struct {
	RunID     string      `json:"run_id"`
	Input     string      `json:"input"`
	Output    string      `json:"output,omitempty"`
	Direction string      `json:"direction"`
	Stats     codec.Stats `json:"stats"`

	// Series and Inserted are set by Import: series parsed, and series new
	// to the store.
	Series   int `json:"series,omitempty"`
	Inserted int `json:"inserted,omitempty"`

	Error string `json:"error,omitempty"`
}

// Runner executes jobs and records them.
type Runner struct {
	// Store is optional. When set, every run is recorded and Import writes
	// its series.
	Store *store.Store

	// ReadOptions configure the series reader for Import.
	ReadOptions []series.Option

	// IDs overrides the run id source (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.RunIDGenerator
}

func (r *Runner) ids() store.RunIDGenerator {
	if r.IDs == nil {
		return store.UUIDv7Generator{}
	}
	return r.IDs
}

// Run executes job. A failed job still returns a Result carrying the run id
// and the error text, and is recorded with StatusFailed.
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:     r.ids().Generate(),
		Input:     job.Input,
		Direction: job.Direction.String(),
	}

	var (
		parsed []series.Series
		jobErr error
	)
	switch job.Direction {
	case ToFlat, ToDecadal:
		res.Output = job.Output
		res.Stats, jobErr = File(job.Input, job.Output, job.Direction)
	case Import:
		parsed, jobErr = series.ReadFile(job.Input, r.ReadOptions...)
		res.Series = len(parsed)
		res.Stats.Records = len(parsed)
	default:
		jobErr = fmt.Errorf("unknown direction %s", job.Direction)
	}
	if jobErr != nil {
		res.Error = jobErr.Error()
	}

	if r.Store != nil {
		if err := r.record(ctx, &res, job.Direction, parsed, jobErr); err != nil {
			return res, err
		}
	}

	if jobErr != nil {
		slog.Error("job failed", "run_id", res.RunID, "input", job.Input, "error", jobErr)
		return res, jobErr
	}
	if job.Direction == Import {
		slog.Info("import complete", "run_id", res.RunID, "input", job.Input,
			"series", res.Series, "inserted", res.Inserted)
	}
	return res, nil
}

func (r *Runner) record(ctx context.Context, res *Result, d Direction, parsed []series.Series, jobErr error) error {
	run := store.Run{
		ID:      res.RunID,
		Kind:    d.kind(),
		Input:   res.Input,
		Output:  res.Output,
		Lines:   res.Stats.Lines,
		Skipped: res.Stats.Skipped,
		Records: res.Stats.Records,
		Status:  store.StatusOK,
	}
	if jobErr != nil {
		run.Status = store.StatusFailed
		run.Error = jobErr.Error()
	}
	if err := r.Store.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("record run %s: %w", res.RunID, err)
	}

	if jobErr != nil || d != Import {
		return nil
	}
	inserted, err := r.Store.WriteSeries(ctx, res.RunID, parsed)
	if err != nil {
		return fmt.Errorf("record series of run %s: %w", res.RunID, err)
	}
	res.Inserted = inserted
	return nil
}

// Batch runs every job of m in order. A failed job does not stop the
// batch; its error is joined into the returned error. Cancelling ctx stops
// before the next job.
//
// m.Adjust, when set, is appended to the runner's ReadOptions for this
// batch.
func (r *Runner) Batch(ctx context.Context, m *manifest.Manifest) ([]Result, error) {
	runner := *r
	if m.Adjust != "" {
		adjust, err := series.ParseStartAdjust(m.Adjust)
		if err != nil {
			return nil, fmt.Errorf("batch %s: %w", m.Name, err)
		}
		runner.ReadOptions = append(append([]series.Option{}, r.ReadOptions...), series.WithStartAdjust(adjust))
	}

	slog.Info("batch starting", "name", m.Name, "jobs", len(m.Jobs))

	var (
		results = make([]Result, 0, len(m.Jobs))
		errs    []error
	)
	for i, mj := range m.Jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		d, err := ParseDirection(mj.Direction)
		if err != nil {
			errs = append(errs, fmt.Errorf("job %d: %w", i+1, err))
			continue
		}

		res, err := runner.Run(ctx, Job{Input: mj.Input, Output: mj.Output, Direction: d})
		if res.RunID != "" {
			results = append(results, res)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s): %w", i+1, mj.Input, err))
		}
	}

	failed := len(errs)
	slog.Info("batch complete", "name", m.Name, "ok", len(results)-countFailed(results), "failed", failed)
	return results, errors.Join(errs...)
}

func countFailed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Error != "" {
			n++
		}
	}
	return n
}
