// Package perfmetrics provides building blocks for per-operation performance
// counters: recorders that accumulate elapsed monotonic time between
// checkpoints, accumulators for sizes, start markers and a scope guard that
// finalizes one operation's time and size when it ends.
//
// Every symbol except Enabled is compiled only with the
// enable_execution_duration_record build tag:
//
//	go build -tags=enable_execution_duration_record ./...
//
// Without the tag the package declares nothing else, so code that references
// Counter, Guard or the recorder constructors must itself be behind the tag.
//
// Bindings are made with field selectors. A selector naming a field that does
// not exist, or a field of the wrong type, fails to compile:
//
//	var recordWrite = perfmetrics.TimeOnlyRecorder(
//		func(m *Metrics) *time.Time { return &m.checkpoint },
//		func(m *Metrics) *perfmetrics.Counter { return &m.WriteTime },
//	)
//
// cmd/perfgen generates such bindings and the matching methods from struct
// tags.
//
// Nothing in this package is safe for concurrent use. A value that owns
// counters must be confined to one goroutine or guarded by its owner.
package perfmetrics
