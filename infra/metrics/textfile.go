package metrics

import "github.com/prometheus/client_golang/prometheus"

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for pickup by a node exporter textfile collector.
// A nil gatherer uses the default registry.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
