package balance

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/nbalance/core/logger"
	"github.com/kilianp07/nbalance/core/metrics"
	"github.com/kilianp07/nbalance/core/series"
)

// Engine runs the balance stages for one simulation at a time. It holds no
// per-run state and can be shared between goroutines as long as the logger
// and sink can.
type Engine struct {
	log  logger.Logger
	sink metrics.BalanceSink
	now  func() time.Time
}

// NewEngine returns an Engine. Nil arguments fall back to no-op
// implementations.
func NewEngine(log logger.Logger, sink metrics.BalanceSink) *Engine {
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{log: log, sink: sink, now: time.Now}
}

// Run computes the soil N trajectory for in and schedules the fertiliser the
// current crop still needs. The input series are not modified.
func (e *Engine) Run(in Inputs) (Result, error) {
	cfg := in.Config
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	res := Result{RunID: uuid.NewString(), Dates: in.Dates}
	crop := cfg.Current.Name

	soilN, err := Initial(in.Dates, in.InitialN, in.Drivers.Uptake, in.Drivers.Residue, in.Drivers.SOM)
	if err != nil {
		return Result{}, fmt.Errorf("initial balance: %w", err)
	}
	e.log.Debugw("initial balance", map[string]any{
		"run_id": res.RunID,
		"crop":   crop,
		"days":   len(in.Dates),
		"start":  in.Dates[0].Format(time.DateOnly),
	})

	if soilN, err = TestCorrection(in.Tests, soilN); err != nil {
		return Result{}, err
	}
	e.log.Debugw("test correction", map[string]any{"run_id": res.RunID, "tests": len(in.Tests)})

	tr := Trajectory{
		SoilN: soilN,
		Fert:  series.NewZeroed(in.Dates),
		LostN: series.NewZeroed(in.Dates),
	}
	if tr, res.Existing, err = ApplyExistingFertiliser(tr, in.Applied, in.Tests, cfg); err != nil {
		return Result{}, err
	}
	for _, app := range res.Existing {
		e.recordApplication(res.RunID, crop, app)
	}

	if tr, res.Requirement, err = DetermineFertRequirements(tr, in.Drivers, in.Tests, cfg); err != nil {
		return Result{}, fmt.Errorf("fertiliser requirement: %w", err)
	}
	for _, app := range res.Requirement.Applications {
		e.recordApplication(res.RunID, crop, app)
	}
	res.Trajectory = tr

	req := res.Requirement
	e.log.Debugw("fertiliser requirement", map[string]any{
		"run_id":          res.RunID,
		"window_start":    req.WindowStart.Format(time.DateOnly),
		"window_end":      req.WindowEnd.Format(time.DateOnly),
		"crop_demand":     req.CropDemand,
		"mineralisation":  req.Mineralisation,
		"required":        req.Total,
		"per_application": req.PerApplication,
		"applications":    len(req.Applications),
	})
	if unmet := req.Unmet(); unmet > 0 {
		e.log.Warnf("run %s: %.1f kg N/ha required but soil N never fell below trigger %.1f for the remaining splits",
			res.RunID, unmet, cfg.Field.Trigger)
	}
	if err := e.sink.RecordRequirement(metrics.RequirementEvent{
		RunID:        res.RunID,
		Crop:         crop,
		RequiredKg:   req.Total,
		AppliedKg:    req.Applied,
		UnmetKg:      req.Unmet(),
		Applications: len(req.Applications),
		Time:         e.now(),
	}); err != nil {
		e.log.Errorf("record requirement: %v", err)
	}
	return res, nil
}

func (e *Engine) recordApplication(runID, crop string, app Application) {
	err := e.sink.RecordApplication(metrics.ApplicationEvent{
		RunID:     runID,
		Crop:      crop,
		Source:    app.Source,
		Date:      app.Date,
		AmountKg:  app.Amount,
		LostKg:    app.Lost,
		Reapplied: app.Reapplied,
	})
	if err != nil {
		e.log.Errorf("record application: %v", err)
	}
}
