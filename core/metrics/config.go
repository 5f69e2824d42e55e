package metrics

import "github.com/kilianp07/nbalance/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Textfile, when set, receives the gathered metrics after a batch run in
	// the Prometheus text exposition format.
	Textfile string `json:"textfile"`
}
