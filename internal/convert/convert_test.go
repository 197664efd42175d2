package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dendro/internal/codec"
	"github.com/roach88/dendro/internal/manifest"
	"github.com/roach88/dendro/internal/record"
	"github.com/roach88/dendro/internal/store"
)

const decadalInput = "MN008   1950    12    34    56\n" +
	"short\n" +
	"MN009   1960   100   200\n"

const flatOutput = "MN008   1950    12\n" +
	"MN008   1951    34\n" +
	"MN008   1952    56\n" +
	"MN009   1960   100\n" +
	"MN009   1961   200\n"

const decadalOutput = "MN008   1950    12    34    56\n" +
	"MN009   1960   100   200\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "dendro.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{ToFlat, ToDecadal, Import} {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
	assert.Equal(t, "Direction(9)", Direction(9).String())
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "a/mn008.txt", DefaultOutput("a/mn008.rwl", ToFlat))
	assert.Equal(t, "a/mn008.rwl", DefaultOutput("a/mn008.txt", ToDecadal))
	assert.Empty(t, DefaultOutput("a/mn008.rwl", Import))
}

func TestFile_ToFlat(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.rwl", decadalInput)
	out := filepath.Join(dir, "mn.txt")

	stats, err := File(in, out, ToFlat)
	require.NoError(t, err)
	assert.Equal(t, codec.Stats{Lines: 3, Skipped: 1, Records: 5}, stats)
	assert.Equal(t, flatOutput, readFile(t, out))
}

func TestFile_ToDecadal(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.txt", flatOutput)
	out := filepath.Join(dir, "mn.rwl")

	stats, err := File(in, out, ToDecadal)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, decadalOutput, readFile(t, out))
}

func TestFile_Appends(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.rwl", decadalInput)
	out := filepath.Join(dir, "mn.txt")

	_, err := File(in, out, ToFlat)
	require.NoError(t, err)
	_, err = File(in, out, ToFlat)
	require.NoError(t, err)

	assert.Equal(t, flatOutput+flatOutput, readFile(t, out))
}

func TestFile_MissingInputCreatesNoOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "mn.txt")

	_, err := File(filepath.Join(dir, "absent.rwl"), out, ToFlat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFile_BadOutputDir(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.rwl", decadalInput)

	_, err := File(in, filepath.Join(dir, "missing", "mn.txt"), ToFlat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open output")
}

func TestFile_BadYear(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "bad.rwl", "MN008   19x0    12    34\n")

	_, err := File(in, filepath.Join(dir, "bad.txt"), ToFlat)
	require.Error(t, err)
	assert.True(t, record.IsCode(err, record.ErrCodeBadYear))
	assert.Contains(t, err.Error(), in)
}

func TestFile_KeepsRecordsWrittenBeforeFailure(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "partial.rwl", "MN008   1950   100   200\nMN008   19x0   100\n")
	out := filepath.Join(dir, "partial.txt")

	stats, err := File(in, out, ToFlat)
	require.Error(t, err)
	assert.True(t, record.IsCode(err, record.ErrCodeBadYear))
	assert.Equal(t, 2, stats.Records)

	assert.Equal(t, "MN008   1950   100\nMN008   1951   200\n", readFile(t, out))
}

func TestFile_ToDecadalKeepsFlushedGroups(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "partial.txt", "MN008   1950    12\n"+
		"MN009   1960    34\n"+
		"MN009   19x1    56\n")
	out := filepath.Join(dir, "partial.rwl")

	_, err := File(in, out, ToDecadal)
	require.Error(t, err)

	// The MN008 group was complete when the bad year arrived; the pending
	// MN009 group was not.
	assert.Equal(t, "MN008   1950    12\n", readFile(t, out))
}

func TestFile_ImportHasNoFileForm(t *testing.T) {
	_, err := File("in.rwl", "out", Import)
	assert.Error(t, err)
}

func TestRunner_RecordsConversion(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.rwl", decadalInput)
	out := filepath.Join(dir, "mn.txt")
	st := openTestStore(t)
	ctx := context.Background()

	r := &Runner{Store: st, IDs: store.NewFixedGenerator("run-1")}
	res, err := r.Run(ctx, Job{Input: in, Output: out, Direction: ToFlat})
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 5, res.Stats.Records)

	run, err := st.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.KindToFlat, run.Kind)
	assert.Equal(t, store.StatusOK, run.Status)
	assert.Equal(t, in, run.Input)
	assert.Equal(t, out, run.Output)
	assert.Equal(t, 3, run.Lines)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 5, run.Records)
}

func TestRunner_ImportWritesSeries(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.rwl", decadalInput)
	st := openTestStore(t)
	ctx := context.Background()

	r := &Runner{Store: st, IDs: store.NewFixedGenerator("run-1", "run-2")}
	res, err := r.Run(ctx, Job{Input: in, Direction: Import})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Series)
	assert.Equal(t, 2, res.Inserted)
	assert.Empty(t, res.Output)

	records, err := st.ListSeries(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "MN008   ", records[0].CoreID)
	// Three values in 1950 align to the end of the decade.
	assert.Equal(t, 1957, records[0].StartYear)

	// Importing the same file again stores nothing new.
	res, err = r.Run(ctx, Job{Input: in, Direction: Import})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
}

func TestRunner_FailedRunIsRecorded(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "bad.rwl", "MN008   1950    12    xx    56\n")
	st := openTestStore(t)
	ctx := context.Background()

	r := &Runner{Store: st, IDs: store.NewFixedGenerator("run-1")}
	res, err := r.Run(ctx, Job{Input: in, Direction: Import})
	require.Error(t, err)
	assert.True(t, record.IsCode(err, record.ErrCodeBadRingWidth))
	assert.NotEmpty(t, res.Error)

	run, err := st.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.StatusFailed, run.Status)
	assert.Contains(t, run.Error, "BAD_RING_WIDTH")

	records, err := st.ListSeries(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunner_WithoutStore(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.rwl", decadalInput)

	r := &Runner{}
	res, err := r.Run(context.Background(), Job{Input: in, Direction: Import})
	require.NoError(t, err)
	assert.Len(t, res.RunID, 36)
	assert.Equal(t, 2, res.Series)
	assert.Zero(t, res.Inserted)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{IDs: store.NewFixedGenerator()}
	_, err := r.Run(ctx, Job{Input: "x.rwl", Direction: Import})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatch_ContinuesPastFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.rwl", decadalInput)
	flat := writeFile(t, dir, "good.txt", flatOutput)
	st := openTestStore(t)
	ctx := context.Background()

	m := &manifest.Manifest{
		Name: "test",
		Jobs: []manifest.Job{
			{Input: good, Output: filepath.Join(dir, "out.txt"), Direction: manifest.DirectionFlat},
			{Input: filepath.Join(dir, "absent.rwl"), Output: filepath.Join(dir, "absent.txt"), Direction: manifest.DirectionFlat},
			{Input: flat, Output: filepath.Join(dir, "out.rwl"), Direction: manifest.DirectionDecadal},
			{Input: good, Direction: manifest.DirectionImport},
		},
	}

	r := &Runner{Store: st, IDs: store.NewFixedGenerator("r1", "r2", "r3", "r4")}
	results, err := r.Batch(ctx, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job 2")
	assert.NotContains(t, err.Error(), "job 3")

	require.Len(t, results, 4)
	assert.Empty(t, results[0].Error)
	assert.NotEmpty(t, results[1].Error)
	assert.Empty(t, results[2].Error)
	assert.Equal(t, 2, results[3].Inserted)

	assert.Equal(t, flatOutput, readFile(t, filepath.Join(dir, "out.txt")))
	assert.Equal(t, decadalOutput, readFile(t, filepath.Join(dir, "out.rwl")))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, store.StatusFailed, runs[1].Status)
}

func TestBatch_AdjustFromManifest(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "mn.rwl", decadalInput)
	st := openTestStore(t)
	ctx := context.Background()

	m := &manifest.Manifest{
		Name:   "count",
		Adjust: "count",
		Jobs:   []manifest.Job{{Input: in, Direction: manifest.DirectionImport}},
	}

	r := &Runner{Store: st, IDs: store.NewFixedGenerator("r1")}
	_, err := r.Batch(ctx, m)
	require.NoError(t, err)
	assert.Empty(t, r.ReadOptions, "batch options must not leak into the runner")

	records, err := st.ListSeries(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1953, records[0].StartYear)
}

func TestBatch_BadAdjust(t *testing.T) {
	r := &Runner{}
	_, err := r.Batch(context.Background(), &manifest.Manifest{Name: "x", Adjust: "nearest"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "nearest"))
}
