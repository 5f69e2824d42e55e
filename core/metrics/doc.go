// Package metrics defines the sink interface used by the balance engine to
// report fertiliser applications and scheduler outcomes. Concrete sinks
// register themselves by name; NewBalanceSink combines the configured ones.
package metrics
