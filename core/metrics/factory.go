package metrics

import "github.com/kilianp07/nbalance/core/factory"

var sinkRegistry = factory.NewRegistry[BalanceSink]()

func init() {
	_ = RegisterBalanceSink("nop", func(map[string]any) (BalanceSink, error) {
		return NopSink{}, nil
	})
}

// RegisterBalanceSink adds a sink factory identified by name.
func RegisterBalanceSink(name string, f factory.Factory[BalanceSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewBalanceSink creates a BalanceSink from the provided configuration.
func NewBalanceSink(cfgs []factory.ModuleConfig) (BalanceSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]BalanceSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
