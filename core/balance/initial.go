package balance

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/nbalance/core/series"
)

// ErrNoDates is returned when a run has an empty date sequence.
var ErrNoDates = errors.New("empty simulation date sequence")

// Initial builds the baseline soil N trajectory from initialN and the daily
// uptake, residue and soil organic matter mineralisation. The first date holds
// initialN; each later date carries the previous day forward plus
// mineralisation minus uptake. Values are not clamped: a negative balance
// signals a crop N deficit.
func Initial(dates []time.Time, initialN float64, uptake, residue, som series.Series) (series.Series, error) {
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	soilN := series.NewZeroed(dates)
	prev := initialN
	soilN[series.Day(dates[0])] = initialN
	for _, d := range dates[1:] {
		res, err := residue.At(d)
		if err != nil {
			return nil, fmt.Errorf("residue mineralisation: %w", err)
		}
		om, err := som.At(d)
		if err != nil {
			return nil, fmt.Errorf("som mineralisation: %w", err)
		}
		up, err := uptake.At(d)
		if err != nil {
			return nil, fmt.Errorf("uptake: %w", err)
		}
		prev = prev + res + om - up
		soilN[series.Day(d)] = prev
	}
	return soilN, nil
}
