package convert

import (
	"fmt"

	"github.com/roach88/dendro/internal/manifest"
	"github.com/roach88/dendro/internal/store"
)

// Direction selects what a job does with its input.
type Direction int

const (
	// ToFlat converts a decadal file to one record per year.
	ToFlat Direction = iota
	// ToDecadal converts a flat file to one record per decade.
	ToDecadal
	// Import parses a decadal file into series without writing a file.
	Import
)

func (d Direction) String() string {
	switch d {
	case ToFlat:
		return manifest.DirectionFlat
	case ToDecadal:
		return manifest.DirectionDecadal
	case Import:
		return manifest.DirectionImport
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "flat", "decadal" or "import".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case manifest.DirectionFlat:
		return ToFlat, nil
	case manifest.DirectionDecadal:
		return ToDecadal, nil
	case manifest.DirectionImport:
		return Import, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want flat, decadal or import)", s)
	}
}

// kind maps a direction to the run kind recorded in the store.
func (d Direction) kind() string {
	switch d {
	case ToFlat:
		return store.KindToFlat
	case ToDecadal:
		return store.KindToDecadal
	default:
		return store.KindImport
	}
}

// DefaultOutput swaps the extension of input for the one d writes.
// Import has no output and returns "".
func DefaultOutput(input string, d Direction) string {
	return manifest.DefaultOutput(input, d.String())
}
