// Package instrument measures the blob store with perfmetrics.
//
// A Recorder owns the process-wide StoreMetrics. WrapBlobRepository puts a
// scope guard around every repository call, and an ImportTrace times the
// phases of one batch import before merging into the Recorder. A Reporter
// exports what was recorded since its previous flush.
//
// The measuring code is compiled only with the
// enable_execution_duration_record build tag. Without it the package keeps
// the same API, the repository is returned unwrapped and every snapshot is
// zero.
package instrument
