package balance

import (
	"fmt"

	"github.com/kilianp07/nbalance/core/series"
)

// TestCorrection shifts soilN so that it matches every measured value in
// tests. Each correction applies from its test date through the last day of
// soilN; earlier days are never touched. Test dates are processed in
// chronological order so later corrections are computed against the
// trajectory already shifted by earlier ones.
func TestCorrection(tests, soilN series.Series) (series.Series, error) {
	if len(tests) == 0 {
		return soilN, nil
	}
	last, ok := soilN.Last()
	if !ok {
		return nil, fmt.Errorf("soil N: %w", series.ErrMissingDate)
	}
	for _, d := range tests.Dates() {
		current, err := soilN.At(d)
		if err != nil {
			return nil, fmt.Errorf("test correction: %w", err)
		}
		correction := tests[d] - current
		for _, c := range series.DateSeries(d, last) {
			if err := soilN.Add(c, correction); err != nil {
				return nil, fmt.Errorf("test correction: %w", err)
			}
		}
	}
	return soilN, nil
}

