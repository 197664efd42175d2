package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/dendro/internal/series"
)

const runColumns = `id, seq, kind, input_path, output_path, lines, skipped, records, status, error`

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	var run Run
	if err := row.Scan(
		&run.ID, &run.Seq, &run.Kind, &run.Input, &run.Output,
		&run.Lines, &run.Skipped, &run.Records, &run.Status, &run.Error,
	); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns every run in seq order.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Seq, &run.Kind, &run.Input, &run.Output,
			&run.Lines, &run.Skipped, &run.Records, &run.Status, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListSeries returns the series linked to a run, in the order they appeared
// in the input file.
// Returns an empty slice (not nil) if the run has no series.
func (s *Store) ListSeries(ctx context.Context, runID string) ([]SeriesRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, rs.seq, s.core_id, s.start_year, s.sentinel, s.scale,
		       s.decades, s.extended_ids, s.ring_count
		FROM run_series rs
		JOIN series s ON s.id = rs.series_id
		WHERE rs.run_id = ?
		ORDER BY rs.seq ASC, s.id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	records := []SeriesRecord{}
	for rows.Next() {
		rec, err := scanSeriesRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return records, nil
}

// LoadSeries rebuilds a stored series, widths included.
// Returns sql.ErrNoRows if not found.
func (s *Store) LoadSeries(ctx context.Context, id string) (series.Series, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, 0, core_id, start_year, sentinel, scale, decades, extended_ids, ring_count
		FROM series
		WHERE id = ?
	`, id)

	rec, err := scanSeriesRecord(row)
	if err != nil {
		return series.Series{}, err
	}

	widths, err := s.ReadWidths(ctx, id)
	if err != nil {
		return series.Series{}, err
	}
	if len(widths) != rec.RingCount {
		return series.Series{}, fmt.Errorf("series %s: have %d rings, expected %d", id, len(widths), rec.RingCount)
	}

	return series.New(rec.CoreID, widths, rec.Decades, rec.ExtendedIDs, rec.Sentinel)
}

// ReadWidths returns the ring widths of a stored series in ring order.
// Returns an empty slice (not nil) if the series has no rings.
func (s *Store) ReadWidths(ctx context.Context, seriesID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT width FROM rings
		WHERE series_id = ?
		ORDER BY idx ASC
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("query rings: %w", err)
	}
	defer rows.Close()

	widths := []int{}
	for rows.Next() {
		var w int
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan ring: %w", err)
		}
		widths = append(widths, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rings: %w", err)
	}
	return widths, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

var (
	_ scanner = (*sql.Row)(nil)
	_ scanner = (*sql.Rows)(nil)
)

func scanSeriesRecord(row scanner) (SeriesRecord, error) {
	var (
		rec                  SeriesRecord
		decadesJSON, extJSON string
	)
	if err := row.Scan(
		&rec.ID, &rec.Seq, &rec.CoreID, &rec.StartYear, &rec.Sentinel, &rec.Scale,
		&decadesJSON, &extJSON, &rec.RingCount,
	); err != nil {
		return SeriesRecord{}, err
	}

	if err := json.Unmarshal([]byte(decadesJSON), &rec.Decades); err != nil {
		return SeriesRecord{}, fmt.Errorf("unmarshal decades of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(extJSON), &rec.ExtendedIDs); err != nil {
		return SeriesRecord{}, fmt.Errorf("unmarshal extended ids of %s: %w", rec.ID, err)
	}
	return rec, nil
}
