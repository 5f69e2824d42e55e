// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation. The balance metrics sinks are selected this way.
//
// Example usage:
//
//	reg := factory.NewRegistry[metrics.BalanceSink]()
//	reg.Register("prometheus", func(conf map[string]any) (metrics.BalanceSink, error) {
//	    var c struct{ Namespace string `json:"namespace"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newSink(c.Namespace)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "prometheus", Conf: map[string]any{"namespace": "nbalance"}})
package factory
