package balance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/nbalance/core/series"
)

func TestTestCorrectionMatchesMeasurements(t *testing.T) {
	dates := days(10)
	soilN := ramp(dates, 0, -1) // 0, -1, -2, ...
	for k := range soilN {
		soilN[k] += 50
	}
	tests := series.Series{d(6): 45, d(2): 40}

	got, err := TestCorrection(tests, soilN)
	require.NoError(t, err)

	for day, v := range tests {
		assert.Equal(t, v, got[day], "test date %s", day)
	}
	assert.Equal(t, 50.0, got[d(0)])
	assert.Equal(t, 49.0, got[d(1)], "history before the first test is untouched")
	assert.Equal(t, 39.0, got[d(3)])
	assert.Equal(t, 44.0, got[d(7)])
	assert.Equal(t, 42.0, got[d(9)])
}

func TestTestCorrectionEmpty(t *testing.T) {
	dates := days(3)
	soilN := constant(dates, 12)
	got, err := TestCorrection(nil, soilN)
	require.NoError(t, err)
	assert.Equal(t, soilN, got)
}

func TestTestCorrectionMissingDate(t *testing.T) {
	dates := days(3)
	_, err := TestCorrection(series.Series{d(8): 10}, constant(dates, 1))
	if !errors.Is(err, series.ErrMissingDate) {
		t.Fatalf("expected ErrMissingDate, got %v", err)
	}
}
