package metrics

import (
	"github.com/kilianp07/nbalance/core/factory"
	coremetrics "github.com/kilianp07/nbalance/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterBalanceSink("prometheus", func(conf map[string]any) (coremetrics.BalanceSink, error) {
		var c PromConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPromSinkWithConfig(prometheus.DefaultRegisterer, c)
	})
}
