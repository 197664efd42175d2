package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/dendro/internal/record"
)

// decadalDataWidth is the longest remainder that still carries no site id.
const decadalDataWidth = record.DecadalDataEnd - record.DataStart

// Stats summarizes one transform.
type Stats struct {
	Lines   int `json:"lines"`   // input lines read
	Skipped int `json:"skipped"` // lines too short to be records
	Records int `json:"records"` // output lines written
}

// ToFlat converts decadal records read from r into flat records written to w.
//
// A measurement block whose length is not a multiple of the element width
// is replaced by a single record.ErrorMarker element so the record stays
// visible in the output without aborting the file.
func ToFlat(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	for line, err := range record.Lines(r) {
		if err != nil {
			return stats, err
		}
		stats.Lines++

		if !record.IsRecord(line.Text) {
			stats.Skipped++
			continue
		}

		lines, err := expandDecadal(line)
		if err != nil {
			return stats, err
		}
		for _, out := range lines {
			if _, err := io.WriteString(w, out); err != nil {
				return stats, fmt.Errorf("write flat record: %w", err)
			}
			stats.Records++
		}
	}

	return stats, nil
}

// expandDecadal turns one decadal line into its flat lines.
func expandDecadal(line record.Line) ([]string, error) {
	text := line.Text
	coreID := record.CoreID(text)
	year, err := record.ParseYear(text, line.No)
	if err != nil {
		return nil, err
	}

	var data, siteID string
	if rest := record.TrimRight(text[record.DataStart:]); len(rest) <= decadalDataWidth {
		data = rest
	} else {
		siteID = record.Tail(text, record.DecadalDataEnd)
		data = text[record.DataStart:record.DecadalDataEnd]
	}

	if len(data)%record.ElementWidth != 0 {
		data = record.ErrorMarker
	}

	elements := record.Elements(data)
	out := make([]string, 0, len(elements))
	for _, element := range elements {
		out = append(out, flatLine(coreID, year, element, siteID))
		year++
	}
	return out, nil
}

func flatLine(coreID string, year int, element, siteID string) string {
	element = record.RightJustify(strings.TrimLeft(element, " \t"), record.ElementWidth)
	return fmt.Sprintf("%s%4d%s%s\n", record.LeftJustify(coreID, record.CoreIDEnd), year, element, siteID)
}
