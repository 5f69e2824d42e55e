package balance

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/nbalance/core/metrics"
	"github.com/kilianp07/nbalance/core/model"
	"github.com/kilianp07/nbalance/core/series"
)

// scheduleStart returns the first day the scheduler may plan for: the day
// after the latest of establishment, the last test and the last recorded
// application.
func scheduleStart(fert, tests series.Series, cfg model.Config) time.Time {
	start := series.Day(cfg.Current.EstablishDate)
	if last, ok := tests.Last(); ok && last.After(start) {
		start = last
	}
	for _, key := range fert.Dates() {
		if d := series.Day(key); fert[key] > 0 && d.After(start) {
			start = d
		}
	}
	return start.AddDate(0, 0, 1)
}

// DetermineFertRequirements works out how much fertiliser the current crop
// still needs to reach harvest with soil N at the trigger, then splits it
// into equal applications placed on the days soil N falls below the trigger.
//
// The requirement is
//
//	max(0, (demand + trigger - soilN[start] - mineralisation - fertToDate) / efficiency)
//
// where demand is the standing crop N gained between the window start and
// harvest. Each application is ceil(requirement/splits). Once the applied
// total reaches the requirement no further application is made, even if soil
// N dips again. With zero splits nothing is scheduled.
func DetermineFertRequirements(tr Trajectory, drv Drivers, tests series.Series, cfg model.Config) (Trajectory, Requirement, error) {
	start := scheduleStart(tr.Fert, tests, cfg)
	harvest := series.Day(cfg.Current.HarvestDate)
	req := Requirement{WindowStart: start, WindowEnd: harvest}
	window := series.DateSeries(start, harvest)
	if len(window) == 0 {
		return tr, req, nil
	}

	residue, err := drv.Residue.Values(window)
	if err != nil {
		return tr, req, fmt.Errorf("residue mineralisation: %w", err)
	}
	som, err := drv.SOM.Values(window)
	if err != nil {
		return tr, req, fmt.Errorf("som mineralisation: %w", err)
	}
	fert, err := tr.Fert.Values(window)
	if err != nil {
		return tr, req, fmt.Errorf("fertiliser: %w", err)
	}
	req.Mineralisation = floats.Sum(residue) + floats.Sum(som)
	req.FertToDate = floats.Sum(fert)

	cropEnd, err := drv.CropN.At(harvest)
	if err != nil {
		return tr, req, fmt.Errorf("crop N: %w", err)
	}
	cropStart, err := drv.CropN.At(start)
	if err != nil {
		return tr, req, fmt.Errorf("crop N: %w", err)
	}
	req.CropDemand = cropEnd - cropStart
	if req.SoilNAtStart, err = tr.SoilN.At(start); err != nil {
		return tr, req, fmt.Errorf("soil N: %w", err)
	}

	trigger := cfg.Field.Trigger
	eff := cfg.Field.Efficiency
	req.Total = math.Max(0, (req.CropDemand+trigger-req.SoilNAtStart-req.Mineralisation-req.FertToDate)/eff)
	if cfg.Field.Splits <= 0 {
		return tr, req, nil
	}
	req.PerApplication = math.Ceil(req.Total / float64(cfg.Field.Splits))

	for _, d := range window {
		if req.Applied >= req.Total {
			break
		}
		soil, err := tr.SoilN.At(d)
		if err != nil {
			return tr, req, fmt.Errorf("soil N: %w", err)
		}
		if soil >= trigger {
			continue
		}
		app := Application{
			Date:      d,
			Amount:    req.PerApplication,
			Available: req.PerApplication * eff,
			Lost:      req.PerApplication * (1 - eff),
			Source:    metrics.SourceScheduled,
			Reapplied: true,
		}
		if _, err := AddFertiliser(tr.SoilN, app.Available, d, cfg); err != nil {
			return tr, req, err
		}
		if err := tr.Fert.Add(d, app.Amount); err != nil {
			return tr, req, fmt.Errorf("fertiliser: %w", err)
		}
		if err := tr.LostN.Set(d, app.Lost); err != nil {
			return tr, req, fmt.Errorf("lost N: %w", err)
		}
		req.Applied += app.Amount
		req.Applications = append(req.Applications, app)
	}
	return tr, req, nil
}
