// Package store provides the SQLite archive for dendro runs and series.
//
// Tables:
//   - runs: one row per processed file with its line/record counts
//   - series: parsed series keyed by content ID (see series.ContentID)
//   - rings: the raw widths of each series with their calendar years
//   - run_series: which run produced which series
//
// Ordering uses seq integers, never timestamps, and every list query ends
// in ORDER BY seq ASC, id ASC COLLATE BINARY so repeated reads agree.
//
// Re-importing an identical series is a no-op for series and rings; the new
// run is still linked to it.
package store
