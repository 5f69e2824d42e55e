package series

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrMissingDate is returned when a lookup hits a day the series does not hold.
var ErrMissingDate = errors.New("date not in series")

// Series holds one value per day.
type Series map[time.Time]float64

// Day aligns t to the start of its day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateSeries returns every day from start to end inclusive. It returns nil
// when end is before start.
func DateSeries(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// NewZeroed returns a fresh series holding zero for every date.
func NewZeroed(dates []time.Time) Series {
	s := make(Series, len(dates))
	for _, d := range dates {
		s[Day(d)] = 0
	}
	return s
}

// FromValues builds a series pairing dates with values by position.
func FromValues(dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("%d dates for %d values", len(dates), len(values))
	}
	s := make(Series, len(dates))
	for i, d := range dates {
		s[Day(d)] = values[i]
	}
	return s, nil
}

// At returns the value held for d.
func (s Series) At(d time.Time) (float64, error) {
	v, ok := s[Day(d)]
	if !ok {
		return 0, fmt.Errorf("%s: %w", Day(d).Format(time.DateOnly), ErrMissingDate)
	}
	return v, nil
}

// Set replaces the value held for d. The day must already exist.
func (s Series) Set(d time.Time, v float64) error {
	d = Day(d)
	if _, ok := s[d]; !ok {
		return fmt.Errorf("%s: %w", d.Format(time.DateOnly), ErrMissingDate)
	}
	s[d] = v
	return nil
}

// Add accumulates v onto the value held for d. The day must already exist.
func (s Series) Add(d time.Time, v float64) error {
	d = Day(d)
	cur, ok := s[d]
	if !ok {
		return fmt.Errorf("%s: %w", d.Format(time.DateOnly), ErrMissingDate)
	}
	s[d] = cur + v
	return nil
}

// Dates returns the days held by the series in chronological order.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Last returns the latest calendar day of the series, aligned with Day. ok is
// false for an empty series.
func (s Series) Last() (last time.Time, ok bool) {
	for k := range s {
		if d := Day(k); !ok || d.After(last) {
			last, ok = d, true
		}
	}
	return last, ok
}

// Values returns the values for dates in order.
func (s Series) Values(dates []time.Time) ([]float64, error) {
	out := make([]float64, len(dates))
	for i, d := range dates {
		v, err := s.At(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Clone returns an independent copy.
func (s Series) Clone() Series {
	cp := make(Series, len(s))
	for d, v := range s {
		cp[d] = v
	}
	return cp
}
