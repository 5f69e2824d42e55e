package balance

import (
	"time"

	"github.com/kilianp07/nbalance/core/model"
	"github.com/kilianp07/nbalance/core/series"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func d(i int) time.Time { return base.AddDate(0, 0, i) }

func days(n int) []time.Time { return series.DateSeries(d(0), d(n-1)) }

func constant(dates []time.Time, v float64) series.Series {
	s := series.NewZeroed(dates)
	for k := range s {
		s[k] = v
	}
	return s
}

// ramp returns a series starting at 0 on from and growing by step per day.
func ramp(dates []time.Time, from int, step float64) series.Series {
	s := series.NewZeroed(dates)
	for i, day := range dates {
		if i > from {
			s[day] = float64(i-from) * step
		}
	}
	return s
}

func testConfig(harvest int, trigger, eff float64, splits int) model.Config {
	cfg := model.Config{
		Current:   model.CropPeriod{Name: "wheat", EstablishDate: d(0), HarvestDate: d(harvest)},
		Following: model.CropPeriod{Name: "fallow", EstablishDate: d(harvest), HarvestDate: d(harvest)},
		Field:     model.FieldParams{Trigger: trigger, Efficiency: eff, Splits: splits},
	}
	cfg.SetDefaults()
	return cfg
}

func zeroDrivers(dates []time.Time) Drivers {
	return Drivers{
		Uptake:  series.NewZeroed(dates),
		Residue: series.NewZeroed(dates),
		SOM:     series.NewZeroed(dates),
		CropN:   series.NewZeroed(dates),
	}
}

func freshTrajectory(dates []time.Time, soilN series.Series) Trajectory {
	return Trajectory{SoilN: soilN, Fert: series.NewZeroed(dates), LostN: series.NewZeroed(dates)}
}
