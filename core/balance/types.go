package balance

import (
	"math"
	"time"

	"github.com/kilianp07/nbalance/core/metrics"
	"github.com/kilianp07/nbalance/core/model"
	"github.com/kilianp07/nbalance/core/series"
)

// Trajectory is the state threaded through the stages.
type Trajectory struct {
	SoilN series.Series // kg N/ha in soil
	Fert  series.Series // kg N/ha of product applied
	LostN series.Series // N lost to inefficiency
}

// Drivers are the read-only daily inputs of a run.
type Drivers struct {
	Uptake  series.Series
	Residue series.Series
	SOM     series.Series
	// CropN is the standing crop N, accumulated over the crop.
	CropN series.Series
}

// Application is one fertiliser event.
type Application struct {
	Date      time.Time      `json:"date"`
	Amount    float64        `json:"amount"`    // product applied
	Available float64        `json:"available"` // amount * efficiency
	Lost      float64        `json:"lost"`
	Source    metrics.Source `json:"source"`
	// Reapplied is false for recorded applications already reflected in the
	// test-corrected trajectory.
	Reapplied bool `json:"reapplied"`
}

// Requirement summarises what the scheduler computed and planned.
type Requirement struct {
	WindowStart    time.Time     `json:"window_start"`
	WindowEnd      time.Time     `json:"window_end"`
	CropDemand     float64       `json:"crop_demand"`
	Mineralisation float64       `json:"mineralisation"`
	FertToDate     float64       `json:"fert_to_date"`
	SoilNAtStart   float64       `json:"soil_n_at_start"`
	Total          float64       `json:"total"`           // product N required
	PerApplication float64       `json:"per_application"` // size of one split
	Applied        float64       `json:"applied"`
	Applications   []Application `json:"applications"`
}

// Unmet is the part of the requirement no trigger crossing called for.
func (r Requirement) Unmet() float64 {
	return math.Max(0, r.Total-r.Applied)
}

// Inputs gathers everything one run needs.
type Inputs struct {
	Dates    []time.Time
	InitialN float64
	Drivers  Drivers
	// Tests holds measured soil N, present only on sampled days.
	Tests series.Series
	// Applied holds fertiliser recorded before the run, pre-efficiency.
	Applied series.Series
	Config  model.Config
}

// Result is the outcome of Engine.Run.
type Result struct {
	RunID       string
	Dates       []time.Time
	Trajectory  Trajectory
	Existing    []Application
	Requirement Requirement
}
