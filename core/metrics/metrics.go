package metrics

import "time"

// Source tells where a fertiliser application came from.
type Source string

const (
	// SourceExisting marks applications recorded before the run.
	SourceExisting Source = "existing"
	// SourceScheduled marks applications planned by the scheduler.
	SourceScheduled Source = "scheduled"
)

// ApplicationEvent describes one fertiliser application folded into a balance.
type ApplicationEvent struct {
	RunID     string
	Crop      string
	Source    Source
	Date      time.Time
	AmountKg  float64 // kg N/ha of product
	LostKg    float64 // kg N/ha lost to inefficiency
	Reapplied bool    // false when the trajectory already reflected it
}

// RequirementEvent summarises the scheduler outcome of a run.
type RequirementEvent struct {
	RunID        string
	Crop         string
	RequiredKg   float64
	AppliedKg    float64
	UnmetKg      float64
	Applications int
	Time         time.Time
}

// BalanceSink records balance runs for observability purposes.
type BalanceSink interface {
	RecordApplication(ev ApplicationEvent) error
	RecordRequirement(ev RequirementEvent) error
}

// NopSink implements BalanceSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordApplication(ApplicationEvent) error { return nil }
func (NopSink) RecordRequirement(RequirementEvent) error { return nil }
