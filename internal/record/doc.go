// Package record defines the fixed-width column contract shared by the
// decadal (Tucson RWL) and flat tree-ring encodings.
//
// Decadal layout:
//
//	Core ID  Decade  Measurement(s)  [Site ID]
//	[0,8)    [8,12)  [12,72)         [72,...)
//
// Flat layout:
//
//	Core ID  Year    Measurement     [Site ID]
//	[0,8)    [8,12)  [12,18)         [18,...)
//
// Every measurement element is a 6-byte right-justified field. Lines shorter
// than MinRecordWidth cannot hold a core id, a year and one element, so they
// are not records and callers drop them without error.
//
// This package has no knowledge of either transform; it only slices, pads,
// justifies and parses columns.
package record
