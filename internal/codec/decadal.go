package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/dendro/internal/record"
)

// ToDecadal converts flat records read from r into decadal records written
// to w.
//
// Consecutive records sharing decade, core id and site id are packed into
// one line whose year column is the first year of the group. A group that
// breaks early (core or site change mid-decade) yields a short record.
//
// Mid-stream flushes that would produce an all-blank line are suppressed;
// the final flush is always written, even when nothing was accumulated.
func ToDecadal(r io.Reader, w io.Writer) (Stats, error) {
	var (
		stats Stats
		acc   accumulator
	)

	for line, err := range record.Lines(r) {
		if err != nil {
			return stats, err
		}
		stats.Lines++

		if !record.IsRecord(line.Text) {
			stats.Skipped++
			continue
		}

		rec, err := parseFlat(line)
		if err != nil {
			return stats, err
		}

		if out, ok := acc.add(rec); ok {
			if err := writeDecadal(w, out); err != nil {
				return stats, err
			}
			stats.Records++
		}
	}

	if err := writeDecadal(w, acc.line()); err != nil {
		return stats, err
	}
	stats.Records++

	return stats, nil
}

// flatRecord is one parsed flat line.
type flatRecord struct {
	coreID  string
	year    int
	element string
	siteID  string
}

func parseFlat(line record.Line) (flatRecord, error) {
	text := line.Text
	year, err := record.ParseYear(text, line.No)
	if err != nil {
		return flatRecord{}, err
	}

	rec := flatRecord{coreID: record.CoreID(text), year: year}
	rest := record.TrimRight(text[record.DataStart:])
	switch {
	case len(rest) == record.ElementWidth:
		rec.element = rest
	case len(rest) > record.ElementWidth:
		rec.element = record.RightJustify(strings.TrimSpace(text[record.DataStart:record.FlatDataEnd]), record.ElementWidth)
		rec.siteID = record.Tail(text, record.FlatDataEnd)
	default:
		rec.siteID = record.ErrorMarker
	}
	return rec, nil
}

// accumulator is the pending decade record of one ToDecadal call.
type accumulator struct {
	start  int
	coreID string
	siteID string
	data   strings.Builder
}

// add folds rec into the pending record. When rec starts a new group the
// previous one is returned for writing; ok is false if there is nothing to
// write.
func (a *accumulator) add(rec flatRecord) (out string, ok bool) {
	if a.data.Len() == 0 {
		a.reset(rec)
	} else if !a.matches(rec) {
		out = a.line()
		ok = !record.IsBlank(out)
		a.reset(rec)
	}
	a.data.WriteString(rec.element)
	return out, ok
}

func (a *accumulator) matches(rec flatRecord) bool {
	return record.DecadeOf(rec.year) == record.DecadeOf(a.start) &&
		rec.coreID == a.coreID &&
		rec.siteID == a.siteID
}

func (a *accumulator) reset(rec flatRecord) {
	a.start = rec.year
	a.coreID = rec.coreID
	a.siteID = rec.siteID
	a.data.Reset()
}

// line renders the pending record without its terminator.
func (a *accumulator) line() string {
	return fmt.Sprintf("%s%4d%s%s", record.LeftJustify(a.coreID, record.CoreIDEnd), a.start, a.data.String(), a.siteID)
}

func writeDecadal(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("write decadal record: %w", err)
	}
	return nil
}
