//go:build !enable_execution_duration_record

package perfmetrics

// Enabled reports whether execution duration recording is compiled in.
const Enabled = false
