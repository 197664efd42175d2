package convert

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/dendro/internal/codec"
)

// File converts the file at in and appends the result to out, creating out
// if needed. Only ToFlat and ToDecadal have a file form.
//
// The input is opened first so a missing input never creates an empty
// output file.
func File(in, out string, d Direction) (stats codec.Stats, err error) {
	var transform func(io.Reader, io.Writer) (codec.Stats, error)
	switch d {
	case ToFlat:
		transform = codec.ToFlat
	case ToDecadal:
		transform = codec.ToDecadal
	default:
		return stats, fmt.Errorf("direction %s does not write a file", d)
	}

	src, err := os.Open(in)
	if err != nil {
		return stats, fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return stats, fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	// Records converted before a failure stay in the output.
	bw := bufio.NewWriter(dst)
	defer func() {
		if flushErr := bw.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("flush output: %w", flushErr)
		}
	}()

	stats, err = transform(src, bw)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", in, err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}

	if stats.Skipped > 0 {
		slog.Debug("skipped short lines", "input", in, "skipped", stats.Skipped)
	}
	slog.Info("conversion complete",
		"input", in,
		"output", out,
		"direction", d.String(),
		"records", stats.Records,
	)
	return stats, nil
}
