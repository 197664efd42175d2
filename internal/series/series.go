package series

import (
	"fmt"
	"slices"
	"strings"
)

// Sentinel values that terminate a decadal measurement sequence.
const (
	SentinelHundredths  = 999
	SentinelThousandths = -9999

	// DefaultSentinel applies when a series never carried a sentinel.
	DefaultSentinel = SentinelThousandths
)

// IsSentinel reports whether v is one of the two sentinel values.
func IsSentinel(v int) bool {
	return v == SentinelHundredths || v == SentinelThousandths
}

// Scale is the unit of the raw integer ring widths of a series.
type Scale int

const (
	// Thousandths means widths are in 0.001 mm.
	Thousandths Scale = iota
	// Hundredths means widths are in 0.01 mm.
	Hundredths
)

// ScaleForSentinel resolves the unit selected by a sentinel value.
// Anything other than 999 is read as thousandths.
func ScaleForSentinel(sentinel int) Scale {
	if sentinel == SentinelHundredths {
		return Hundredths
	}
	return Thousandths
}

// Multiplier converts one raw width to millimeters.
func (s Scale) Multiplier() float64 {
	if s == Hundredths {
		return 0.01
	}
	return 0.001
}

func (s Scale) String() string {
	switch s {
	case Hundredths:
		return "hundredths"
	case Thousandths:
		return "thousandths"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// ParseScale is the inverse of Scale.String.
func ParseScale(s string) (Scale, error) {
	switch s {
	case "hundredths":
		return Hundredths, nil
	case "thousandths":
		return Thousandths, nil
	default:
		return 0, fmt.Errorf("unknown scale %q", s)
	}
}

// Series is one core's ring-width series. Widths are raw integers in the
// unit given by Scale; width i belongs to calendar year StartYear()+i.
//
// A Series is immutable: accessors return copies.
type Series struct {
	coreID   string
	widths   []int
	decades  []int
	extIDs   []string
	sentinel int
	scale    Scale
}

// New builds a Series from already-validated parts. The start year is
// decades[0]; decades must not be empty.
func New(coreID string, widths, decades []int, extIDs []string, sentinel int) (Series, error) {
	if len(decades) == 0 {
		return Series{}, fmt.Errorf("series %q: at least one decade is required", coreID)
	}
	if !IsSentinel(sentinel) {
		return Series{}, fmt.Errorf("series %q: invalid sentinel %d", coreID, sentinel)
	}
	return Series{
		coreID:   coreID,
		widths:   slices.Clone(widths),
		decades:  slices.Clone(decades),
		extIDs:   slices.Clone(extIDs),
		sentinel: sentinel,
		scale:    ScaleForSentinel(sentinel),
	}, nil
}

// CoreID returns the 8-byte padded core id, the grouping key.
func (s Series) CoreID() string { return s.coreID }

// Name returns the core id without padding.
func (s Series) Name() string { return strings.TrimSpace(s.coreID) }

// StartYear is the calendar year of the first width.
func (s Series) StartYear() int {
	if len(s.decades) == 0 {
		return 0
	}
	return s.decades[0]
}

// EndYear is the calendar year of the last width, StartYear()-1 when empty.
func (s Series) EndYear() int { return s.StartYear() + len(s.widths) - 1 }

// Len is the number of widths.
func (s Series) Len() int { return len(s.widths) }

// YearOf returns the calendar year of width i.
func (s Series) YearOf(i int) int { return s.StartYear() + i }

// Widths returns the raw widths.
func (s Series) Widths() []int { return slices.Clone(s.widths) }

// Decades returns the year column of every source line, after start
// adjustment, in file order.
func (s Series) Decades() []int { return slices.Clone(s.decades) }

// ExtendedIDs returns one extended id per source line.
func (s Series) ExtendedIDs() []string { return slices.Clone(s.extIDs) }

// Sentinel is the governing sentinel value.
func (s Series) Sentinel() int { return s.sentinel }

// Scale is the unit of Widths.
func (s Series) Scale() Scale { return s.scale }

// Millimeters returns the widths converted with Scale.
func (s Series) Millimeters() []float64 {
	m := s.scale.Multiplier()
	out := make([]float64, len(s.widths))
	for i, w := range s.widths {
		out[i] = float64(w) * m
	}
	return out
}
