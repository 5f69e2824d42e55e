package balance

import (
	"fmt"
	"time"

	"github.com/kilianp07/nbalance/core/metrics"
	"github.com/kilianp07/nbalance/core/model"
	"github.com/kilianp07/nbalance/core/series"
)

// AddFertiliser raises soilN by available on every day from date through the
// harvest of the following crop, so late applications carry into the next
// crop. Days before date are left untouched.
func AddFertiliser(soilN series.Series, available float64, date time.Time, cfg model.Config) (series.Series, error) {
	for _, d := range series.DateSeries(date, cfg.Following.HarvestDate) {
		if err := soilN.Add(d, available); err != nil {
			return nil, fmt.Errorf("add fertiliser on %s: %w", series.Day(date).Format(time.DateOnly), err)
		}
	}
	return soilN, nil
}

// ApplyExistingFertiliser folds applications recorded before the run into
// the trajectory. Applications after the day following the last test (or
// establishment when there is no test) are added to soil N at field
// efficiency; earlier ones are assumed to be reflected in the corrected
// trajectory already. Every recorded application is booked in Fert and LostN.
func ApplyExistingFertiliser(tr Trajectory, applied, tests series.Series, cfg model.Config) (Trajectory, []Application, error) {
	cutoff := cfg.Current.EstablishDate
	if last, ok := tests.Last(); ok {
		cutoff = last
	}
	cutoff = series.Day(cutoff).AddDate(0, 0, 1)
	eff := cfg.Field.Efficiency

	var apps []Application
	for _, key := range applied.Dates() {
		amount := applied[key]
		d := series.Day(key)
		if amount == 0 {
			continue
		}
		app := Application{
			Date:      d,
			Amount:    amount,
			Available: amount * eff,
			Lost:      existingLoss(cfg, amount),
			Source:    metrics.SourceExisting,
			Reapplied: d.After(cutoff),
		}
		if app.Reapplied {
			if _, err := AddFertiliser(tr.SoilN, app.Available, d, cfg); err != nil {
				return tr, nil, err
			}
		}
		if err := tr.Fert.Add(d, amount); err != nil {
			return tr, nil, fmt.Errorf("existing fertiliser: %w", err)
		}
		if err := tr.LostN.Set(d, app.Lost); err != nil {
			return tr, nil, fmt.Errorf("existing fertiliser loss: %w", err)
		}
		apps = append(apps, app)
	}
	return tr, apps, nil
}

func existingLoss(cfg model.Config, amount float64) float64 {
	if cfg.LossAccounting == model.LossRate {
		return 1 - cfg.Field.Efficiency
	}
	return amount * (1 - cfg.Field.Efficiency)
}
