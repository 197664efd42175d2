// Package codec implements the two streaming transforms between the decadal
// (Tucson RWL) and flat tree-ring encodings.
//
// ToFlat expands each packed decadal record into one line per measurement.
// ToDecadal groups consecutive flat lines into packed decade records; a
// group breaks when the decade, the core id or the site id changes.
//
// Both transforms work on raw lines and never interpret measurement values,
// so error markers and unusual widths pass through untouched. Only the year
// column is parsed; a non-numeric year is a *record.FormatError and stops
// the transform. Lines shorter than record.MinRecordWidth are skipped.
//
// Neither transform truncates or seeks its sink. Callers that want append
// semantics open the destination in append mode.
package codec
