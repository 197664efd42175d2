package record

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single input line. Real archives stay well under
// 100 bytes per line.
const maxLineBytes = 1 << 20

// ParseYear parses the [8,12) year/decade column.
func ParseYear(line string, lineNo int) (int, error) {
	raw := Field(line, YearStart, YearEnd)
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &FormatError{
			Code:  ErrCodeBadYear,
			Line:  lineNo,
			Field: "year",
			Value: raw,
			Err:   err,
		}
	}
	return year, nil
}

// ParseWidth parses one ring-width element. The caller has already
// discarded blank elements.
func ParseWidth(element string, lineNo, index int) (int, error) {
	w, err := strconv.Atoi(strings.TrimSpace(element))
	if err != nil {
		return 0, &FormatError{
			Code:  ErrCodeBadRingWidth,
			Line:  lineNo,
			Field: fmt.Sprintf("ring[%d]", index),
			Value: element,
			Err:   err,
		}
	}
	return w, nil
}

// Line is one input line with its terminator removed.
type Line struct {
	No   int
	Text string
}

// Lines yields the lines of r. "\n" and "\r\n" terminators are stripped.
// A read failure is yielded once as a non-nil error and ends iteration.
func Lines(r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
		n := 0
		for sc.Scan() {
			n++
			text := strings.TrimSuffix(sc.Text(), "\r")
			if !yield(Line{No: n, Text: text}, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Line{No: n + 1}, fmt.Errorf("read line %d: %w", n+1, err))
		}
	}
}
