package record

import (
	"strings"
	"unicode"
)

// Column offsets, 0-based and half-open.
const (
	CoreIDStart = 0
	CoreIDEnd   = 8
	YearStart   = 8
	YearEnd     = 12
	DataStart   = 12

	// ElementWidth is the width of one measurement element.
	ElementWidth = 6

	// FlatDataEnd ends the single flat element; the site id follows.
	FlatDataEnd = DataStart + ElementWidth

	// DecadalDataEnd ends the ten-element decadal block; the site id follows.
	DecadalDataEnd = DataStart + MaxElements*ElementWidth

	// MaxElements is the number of elements a decadal record can carry.
	MaxElements = 10

	// MinRecordWidth is the shortest line that is still a record.
	MinRecordWidth = FlatDataEnd

	// ReaderWidth is the working width lines are padded to before series
	// parsing so every column slice is in range.
	ReaderWidth = 81
)

// ErrorMarker replaces a measurement block that cannot be split into
// 6-byte elements.
const ErrorMarker = "  #Err"

// IsRecord reports whether line is long enough to be a record. line must
// already have its terminator stripped, as Lines yields it, so a 17-byte
// line followed by a newline is not a record.
func IsRecord(line string) bool {
	return len(line) >= MinRecordWidth
}

// Pad right-pads line with spaces to at least width bytes.
func Pad(line string, width int) string {
	if len(line) >= width {
		return line
	}
	return line + strings.Repeat(" ", width-len(line))
}

// Field returns line[start:end], padding line first when it is too short.
func Field(line string, start, end int) string {
	return Pad(line, end)[start:end]
}

// Tail returns everything from start on with trailing whitespace removed.
// Returns "" when line ends before start.
func Tail(line string, start int) string {
	if len(line) <= start {
		return ""
	}
	return TrimRight(line[start:])
}

// TrimRight removes trailing whitespace.
func TrimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// CoreID returns the 8-byte core id column.
func CoreID(line string) string {
	return Field(line, CoreIDStart, CoreIDEnd)
}

// LeftJustify pads s with spaces on the right up to width. Longer values
// are returned unchanged.
func LeftJustify(s string, width int) string {
	return Pad(s, width)
}

// RightJustify pads s with spaces on the left up to width. Longer values
// are returned unchanged.
func RightJustify(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DecadeOf returns the decade a year belongs to, flooring toward negative
// infinity so that -5 falls in decade -10.
func DecadeOf(year int) int {
	d := year / 10
	if year%10 != 0 && year < 0 {
		d--
	}
	return d * 10
}

// Elements splits data into consecutive ElementWidth slices. A trailing
// partial slice is dropped, so callers check len(data)%ElementWidth first.
func Elements(data string) []string {
	n := len(data) / ElementWidth
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, data[i*ElementWidth:(i+1)*ElementWidth])
	}
	return out
}
