// Package series parses decadal (Tucson RWL) files into per-core ring-width
// series.
//
// Unlike the codecs, which stream line by line, Read consumes the whole file
// and groups every line by its 8-byte core id. A line's trailing 999 or
// -9999 is a sentinel, not a width: 999 means the widths are hundredths of a
// millimeter, -9999 thousandths. A series that never carried a sentinel is
// read as thousandths.
//
// A line whose year is a multiple of ten but that holds fewer than ten
// widths and no sentinel is a partial leading decade. Its start year is
// shifted by the StartAdjust rule so that calendar years line up with the
// widths actually present.
package series
