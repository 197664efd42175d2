package store

import (
	"context"
	"fmt"

	"github.com/roach88/dendro/internal/series"
)

// WriteRun inserts a run record. Seq is assigned by the store as one past
// the highest existing seq; the value on run is ignored. Duplicate IDs are
// silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, kind, input_path, output_path, lines, skipped, records, status, error)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Kind,
		run.Input,
		run.Output,
		run.Lines,
		run.Skipped,
		run.Records,
		run.Status,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteSeries stores every series and links it to runID, in one
// transaction. The run must already exist.
//
// A series whose content ID is already stored keeps its existing rows;
// only the link is added. Returns the number of series newly stored.
func (s *Store) WriteSeries(ctx context.Context, runID string, all []series.Series) (inserted int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write series: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for i, sr := range all {
		id, err := sr.ContentID()
		if err != nil {
			return 0, fmt.Errorf("write series: %w", err)
		}

		decadesJSON, err := series.MarshalCanonical(sr.Decades())
		if err != nil {
			return 0, fmt.Errorf("write series %s: decades: %w", id, err)
		}
		extJSON, err := series.MarshalCanonical(sr.ExtendedIDs())
		if err != nil {
			return 0, fmt.Errorf("write series %s: extended ids: %w", id, err)
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO series
			(id, core_id, start_year, sentinel, scale, decades, extended_ids, ring_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`,
			id,
			sr.CoreID(),
			sr.StartYear(),
			sr.Sentinel(),
			sr.Scale().String(),
			string(decadesJSON),
			string(extJSON),
			sr.Len(),
		)
		if err != nil {
			return 0, fmt.Errorf("write series %s: insert: %w", id, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("write series %s: rows affected: %w", id, err)
		}

		if rowsAffected > 0 {
			inserted++
			for idx, width := range sr.Widths() {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO rings (series_id, idx, year, width)
					VALUES (?, ?, ?, ?)
				`, id, idx, sr.YearOf(idx), width); err != nil {
					return 0, fmt.Errorf("write series %s: ring %d: %w", id, idx, err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO run_series (run_id, series_id, seq)
			VALUES (?, ?, ?)
			ON CONFLICT(run_id, series_id) DO NOTHING
		`, runID, id, i+1); err != nil {
			return 0, fmt.Errorf("write series %s: link run: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write series: commit: %w", err)
	}
	return inserted, nil
}
