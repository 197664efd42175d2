// Package manifest loads batch manifests. YAML and CUE files decode into
// the same Manifest and are both checked against the #Manifest definition
// in schema.cue.
package manifest
