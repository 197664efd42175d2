package series

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roach88/dendro/internal/record"
)

// StartAdjust selects how the start year of a partial leading decade is
// inferred. Two archives in the wild disagree, so the rule is explicit.
type StartAdjust int

const (
	// AlignDecadeEnd places the present widths at the end of the decade:
	// year + (10 - count).
	AlignDecadeEnd StartAdjust = iota
	// AdvanceByCount advances the year by the number of widths present:
	// year + count.
	AdvanceByCount
)

func (a StartAdjust) String() string {
	switch a {
	case AlignDecadeEnd:
		return "decade-end"
	case AdvanceByCount:
		return "count"
	default:
		return fmt.Sprintf("StartAdjust(%d)", int(a))
	}
}

// ParseStartAdjust is the inverse of StartAdjust.String. An empty string
// selects the default.
func ParseStartAdjust(s string) (StartAdjust, error) {
	switch s {
	case "", "decade-end":
		return AlignDecadeEnd, nil
	case "count":
		return AdvanceByCount, nil
	default:
		return 0, fmt.Errorf("unknown start adjustment %q (want decade-end or count)", s)
	}
}

func (a StartAdjust) apply(year, count int) int {
	if a == AdvanceByCount {
		return year + count
	}
	return year + (record.MaxElements - count)
}

// Option configures Read.
type Option func(*readConfig)

type readConfig struct {
	adjust StartAdjust
}

// WithStartAdjust sets the partial-decade rule. Default AlignDecadeEnd.
func WithStartAdjust(a StartAdjust) Option {
	return func(c *readConfig) { c.adjust = a }
}

// ReadFile parses the decadal file at path.
func ReadFile(path string, opts ...Option) ([]Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open decadal file: %w", err)
	}
	defer f.Close()

	out, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Read parses a whole decadal stream into one Series per distinct core id,
// in first-seen order. Lines sharing a core id accumulate into the same
// series regardless of where they appear.
//
// Blank lines and lines shorter than record.MinRecordWidth are skipped.
// A non-numeric year or ring width is a *record.FormatError.
func Read(r io.Reader, opts ...Option) ([]Series, error) {
	cfg := readConfig{adjust: AlignDecadeEnd}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		order    []string
		builders = make(map[string]*builder)
	)

	for line, err := range record.Lines(r) {
		if err != nil {
			return nil, err
		}
		text := record.TrimRight(line.Text)
		if text == "" || !record.IsRecord(text) {
			continue
		}

		dl, err := parseDecadal(record.Pad(text, record.ReaderWidth), line.No, cfg.adjust)
		if err != nil {
			return nil, err
		}

		b, ok := builders[dl.coreID]
		if !ok {
			b = &builder{coreID: dl.coreID}
			builders[dl.coreID] = b
			order = append(order, dl.coreID)
		}
		b.add(dl)
	}

	out := make([]Series, 0, len(order))
	for _, id := range order {
		s, err := builders[id].finalize()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// decadalLine is one parsed line of a decadal file.
type decadalLine struct {
	coreID      string
	year        int
	widths      []int
	extID       string
	sentinel    int
	hasSentinel bool
}

func parseDecadal(text string, lineNo int, adjust StartAdjust) (decadalLine, error) {
	year, err := record.ParseYear(text, lineNo)
	if err != nil {
		return decadalLine{}, err
	}

	dl := decadalLine{
		coreID: record.CoreID(text),
		year:   year,
		extID:  strings.TrimSpace(text[record.DecadalDataEnd:]),
	}

	for i, field := range record.Elements(text[record.DataStart:record.DecadalDataEnd]) {
		if record.IsBlank(field) {
			continue
		}
		w, err := record.ParseWidth(field, lineNo, i)
		if err != nil {
			return decadalLine{}, err
		}
		dl.widths = append(dl.widths, w)
	}

	if n := len(dl.widths); n > 0 && IsSentinel(dl.widths[n-1]) {
		dl.sentinel = dl.widths[n-1]
		dl.hasSentinel = true
		dl.widths = dl.widths[:n-1]
	}

	if dl.year%10 == 0 && !dl.hasSentinel && len(dl.widths) < record.MaxElements {
		dl.year = adjust.apply(dl.year, len(dl.widths))
	}
	return dl, nil
}

// builder accumulates the lines of one core id.
type builder struct {
	coreID      string
	decades     []int
	widths      []int
	extIDs      []string
	sentinel    int
	hasSentinel bool
}

// add appends a line. The latest line's sentinel state replaces the
// previous one, including a line without a sentinel.
func (b *builder) add(dl decadalLine) {
	b.decades = append(b.decades, dl.year)
	b.widths = append(b.widths, dl.widths...)
	b.extIDs = append(b.extIDs, dl.extID)
	b.sentinel = dl.sentinel
	b.hasSentinel = dl.hasSentinel
}

func (b *builder) finalize() (Series, error) {
	sentinel := b.sentinel
	if !b.hasSentinel {
		sentinel = DefaultSentinel
	}
	return New(b.coreID, b.widths, b.decades, b.extIDs, sentinel)
}
