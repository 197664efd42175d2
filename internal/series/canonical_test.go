package series

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJSON(t *testing.T) {
	s, err := New("MN008   ", []int{1, 2}, []int{1950}, []string{""}, 999)
	require.NoError(t, err)

	data, err := s.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"core_id":"MN008   ","decades":[1950],"extended_ids":[""],"scale":"hundredths","sentinel":999,"start_year":1950,"widths":[1,2]}`,
		string(data))
}

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"html_not_escaped", "<a&b>", `"<a&b>"`},
		{"control_chars", "a\tb\x01", `"a\tb\u0001"`},
		{"quote_backslash", `"\`, `"\"\\"`},
		{"negative_int", -9999, "-9999"},
		{"empty_ints", []int{}, "[]"},
		{"nil_ints", []int(nil), "[]"},
		{"bool", true, "true"},
		{"nested", map[string]any{"b": []any{1, "x"}, "a": map[string]any{}}, `{"a":{},"b":[1,"x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.ErrorContains(t, err, "floats are forbidden")

	_, err = MarshalCanonical(nil)
	assert.ErrorContains(t, err, "null is forbidden")

	_, err = MarshalCanonical(map[string]any{"k": struct{}{}})
	assert.ErrorContains(t, err, `object["k"]`)
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	// Only control characters below U+0020 are escaped; U+2028 and U+2029
	// are written as raw UTF-8.
	got, err := MarshalCanonical("a\u2028b\u2029c\u001f")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\\u001f\"", string(got))
}

func TestCompareUTF16(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 but after it in UTF-16.
	assert.Positive(t, compareUTF16("｡", "\U0001F600"))
	assert.Zero(t, compareUTF16("a", "a"))
	assert.Negative(t, compareUTF16("a", "b"))
}

func TestContentIDStable(t *testing.T) {
	input := decadalRow("MN008", 1953, 1, 2, 3, 999) + "\n"

	first := read(t, input)
	second := read(t, input)
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	id1, err := first[0].ContentID()
	require.NoError(t, err)
	id2, err := second[0].ContentID()
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)

	other := read(t, strings.Replace(input, "     3", "     4", 1))
	id3, err := other[0].ContentID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}
