// Package convert runs the codecs and the series reader against files.
//
// File converts one file in one direction. Runner adds run bookkeeping:
// every job gets a run id, and when a store is configured the run is
// recorded there and imported series are archived under it. Batch runs a
// manifest's jobs in order and keeps going past a failed job.
package convert
