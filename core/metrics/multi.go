package metrics

import "errors"

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []BalanceSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...BalanceSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordApplication forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordApplication(ev ApplicationEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordApplication(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRequirement forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordRequirement(ev RequirementEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordRequirement(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
