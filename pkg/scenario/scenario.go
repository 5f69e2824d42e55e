// Package scenario reads balance scenario files: the simulation range, crop
// periods, daily drivers, soil tests and recorded fertiliser of one run, plus
// optional expectations used by the QA suite.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/nbalance/core/balance"
	"github.com/kilianp07/nbalance/core/model"
	"github.com/kilianp07/nbalance/core/series"
)

// ErrSeriesLength is returned when daily values run past the scenario end.
var ErrSeriesLength = errors.New("daily values exceed scenario range")

// DailyDef describes a daily driver. Values start on From (default: the
// scenario start); days in [From, To] without a value take Constant, days
// outside are zero. Cumulative turns daily increments into a running total,
// which is how standing crop N is usually supplied.
type DailyDef struct {
	From       time.Time `yaml:"from"`
	To         time.Time `yaml:"to"`
	Constant   float64   `yaml:"constant"`
	Values     []float64 `yaml:"values"`
	Cumulative bool      `yaml:"cumulative"`
}

// Period is a crop period in a scenario file.
type Period struct {
	Name      string    `yaml:"name"`
	Establish time.Time `yaml:"establish"`
	Harvest   time.Time `yaml:"harvest"`
}

func (p Period) toModel() model.CropPeriod {
	return model.CropPeriod{Name: p.Name, EstablishDate: p.Establish, HarvestDate: p.Harvest}
}

// Expected lists optional assertions on the run result.
type Expected struct {
	Applications *int               `yaml:"applications,omitempty"`
	Required     *float64           `yaml:"required,omitempty"`
	Unmet        *float64           `yaml:"unmet,omitempty"`
	SoilN        map[string]float64 `yaml:"soil_n,omitempty"`
	Fert         map[string]float64 `yaml:"fert,omitempty"`
}

// Scenario is one balance run.
type Scenario struct {
	Name           string               `yaml:"name"`
	Description    string               `yaml:"description,omitempty"`
	Start          time.Time            `yaml:"start"`
	End            time.Time            `yaml:"end"`
	InitialN       float64              `yaml:"initial_n"`
	Current        Period               `yaml:"current"`
	Following      Period               `yaml:"following"`
	Field          *model.FieldParams   `yaml:"field,omitempty"`
	LossAccounting model.LossAccounting `yaml:"loss_accounting,omitempty"`
	Uptake         DailyDef             `yaml:"uptake"`
	Residue        DailyDef             `yaml:"residue"`
	SOM            DailyDef             `yaml:"som"`
	CropN          DailyDef             `yaml:"crop_n"`
	Tests          map[string]float64   `yaml:"tests,omitempty"`
	Applied        map[string]float64   `yaml:"applied,omitempty"`
	Expected       Expected             `yaml:"expected,omitempty"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	sc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Decode reads a scenario from r.
func Decode(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, err
	}
	if sc.Start.IsZero() || sc.End.IsZero() {
		return nil, errors.New("scenario needs start and end dates")
	}
	return &sc, nil
}

// Inputs converts the scenario into engine inputs. defaults supplies the
// field policy and loss accounting when the scenario does not set them.
func (s *Scenario) Inputs(defaults model.FieldParams, loss model.LossAccounting) (balance.Inputs, error) {
	dates := series.DateSeries(s.Start, s.End)
	if len(dates) == 0 {
		return balance.Inputs{}, fmt.Errorf("scenario %q: end before start", s.Name)
	}
	cfg := model.Config{
		Current:        s.Current.toModel(),
		Following:      s.Following.toModel(),
		Field:          defaults,
		LossAccounting: loss,
	}
	if s.Field != nil {
		cfg.Field = *s.Field
	}
	if s.LossAccounting != "" {
		cfg.LossAccounting = s.LossAccounting
	}

	in := balance.Inputs{Dates: dates, InitialN: s.InitialN, Config: cfg}
	var err error
	if in.Drivers.Uptake, err = s.Uptake.build(dates); err != nil {
		return in, fmt.Errorf("uptake: %w", err)
	}
	if in.Drivers.Residue, err = s.Residue.build(dates); err != nil {
		return in, fmt.Errorf("residue: %w", err)
	}
	if in.Drivers.SOM, err = s.SOM.build(dates); err != nil {
		return in, fmt.Errorf("som: %w", err)
	}
	if in.Drivers.CropN, err = s.CropN.build(dates); err != nil {
		return in, fmt.Errorf("crop_n: %w", err)
	}
	if in.Tests, err = sparse(s.Tests); err != nil {
		return in, fmt.Errorf("tests: %w", err)
	}
	if in.Applied, err = sparse(s.Applied); err != nil {
		return in, fmt.Errorf("applied: %w", err)
	}
	return in, nil
}

func (d DailyDef) build(dates []time.Time) (series.Series, error) {
	s := series.NewZeroed(dates)
	first, last := dates[0], dates[len(dates)-1]
	from, to := first, last
	if !d.From.IsZero() {
		from = series.Day(d.From)
	}
	if !d.To.IsZero() {
		to = series.Day(d.To)
	}
	for _, day := range series.DateSeries(from, to) {
		if _, ok := s[day]; ok {
			s[day] = d.Constant
		}
	}
	for i, v := range d.Values {
		day := from.AddDate(0, 0, i)
		if err := s.Set(day, v); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, ErrSeriesLength)
		}
	}
	if d.Cumulative {
		total := 0.0
		for _, day := range dates {
			total += s[day]
			s[day] = total
		}
	}
	return s, nil
}

func sparse(m map[string]float64) (series.Series, error) {
	s := make(series.Series, len(m))
	for k, v := range m {
		d, err := time.Parse(time.DateOnly, k)
		if err != nil {
			return nil, err
		}
		s[series.Day(d)] = v
	}
	return s, nil
}

const tolerance = 1e-6

// Check compares the result against the scenario expectations and returns
// one message per mismatch.
func (s *Scenario) Check(res balance.Result) []string {
	var out []string
	exp := s.Expected
	req := res.Requirement
	if exp.Applications != nil && *exp.Applications != len(req.Applications) {
		out = append(out, fmt.Sprintf("applications: want %d got %d", *exp.Applications, len(req.Applications)))
	}
	if exp.Required != nil && math.Abs(*exp.Required-req.Total) > tolerance {
		out = append(out, fmt.Sprintf("required: want %.3f got %.3f", *exp.Required, req.Total))
	}
	if exp.Unmet != nil && math.Abs(*exp.Unmet-req.Unmet()) > tolerance {
		out = append(out, fmt.Sprintf("unmet: want %.3f got %.3f", *exp.Unmet, req.Unmet()))
	}
	out = append(out, compare("soil_n", exp.SoilN, res.Trajectory.SoilN)...)
	out = append(out, compare("fert", exp.Fert, res.Trajectory.Fert)...)
	return out
}

func compare(name string, want map[string]float64, got series.Series) []string {
	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		d, err := time.Parse(time.DateOnly, k)
		if err != nil {
			out = append(out, fmt.Sprintf("%s %s: %v", name, k, err))
			continue
		}
		v, err := got.At(d)
		if err != nil {
			out = append(out, fmt.Sprintf("%s %s: %v", name, k, err))
			continue
		}
		if math.Abs(v-want[k]) > tolerance {
			out = append(out, fmt.Sprintf("%s %s: want %.3f got %.3f", name, k, want[k], v))
		}
	}
	return out
}
