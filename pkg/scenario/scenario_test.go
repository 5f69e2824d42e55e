package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/nbalance/core/balance"
	"github.com/kilianp07/nbalance/core/model"
	"github.com/kilianp07/nbalance/core/series"
)

const sample = `name: wheat
start: 2024-03-01
end: 2024-03-10
initial_n: 50
current:
  name: wheat
  establish: 2024-03-01
  harvest: 2024-03-10
field:
  trigger: 100
  efficiency: 0.8
  splits: 2
uptake:
  from: 2024-03-03
  constant: 10
residue:
  values: [1, 2, 3]
crop_n:
  from: 2024-03-03
  constant: 10
  cumulative: true
tests:
  2024-03-05: 42
applied:
  2024-03-02: 30
expected:
  applications: 2
  soil_n:
    2024-03-05: 42
`

func day(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

func TestDecodeAndInputs(t *testing.T) {
	sc, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, "wheat", sc.Name)
	assert.Equal(t, day(1), sc.Start.UTC())

	in, err := sc.Inputs(model.FieldParams{Trigger: 1, Efficiency: 1}, model.LossAbsolute)
	require.NoError(t, err)
	require.Len(t, in.Dates, 10)
	assert.Equal(t, 100.0, in.Config.Field.Trigger, "scenario field overrides defaults")
	assert.Equal(t, model.LossAbsolute, in.Config.LossAccounting)

	assert.Equal(t, 0.0, in.Drivers.Uptake[day(2)])
	assert.Equal(t, 10.0, in.Drivers.Uptake[day(3)])
	assert.Equal(t, 10.0, in.Drivers.Uptake[day(10)])
	assert.Equal(t, 3.0, in.Drivers.Residue[day(3)])
	assert.Equal(t, 0.0, in.Drivers.Residue[day(4)])
	assert.Len(t, in.Drivers.SOM, 10)
	assert.Equal(t, 0.0, in.Drivers.CropN[day(2)])
	assert.Equal(t, 80.0, in.Drivers.CropN[day(10)])

	assert.Equal(t, series.Series{day(5): 42}, in.Tests)
	assert.Equal(t, series.Series{day(2): 30}, in.Applied)
}

func TestInputsUseDefaults(t *testing.T) {
	sc := &Scenario{Start: day(1), End: day(3), Current: Period{Establish: day(1), Harvest: day(3)}}
	in, err := sc.Inputs(model.FieldParams{Trigger: 20, Efficiency: 0.5, Splits: 1}, model.LossRate)
	require.NoError(t, err)
	assert.Equal(t, 20.0, in.Config.Field.Trigger)
	assert.Equal(t, model.LossRate, in.Config.LossAccounting)
	assert.Empty(t, in.Tests)
}

func TestInputsErrors(t *testing.T) {
	sc := &Scenario{Start: day(1), End: day(3), Uptake: DailyDef{Values: []float64{1, 2, 3, 4}}}
	_, err := sc.Inputs(model.FieldParams{Efficiency: 1}, model.LossAbsolute)
	assert.True(t, errors.Is(err, ErrSeriesLength), "got %v", err)

	sc = &Scenario{Start: day(1), End: day(3), Tests: map[string]float64{"March 2": 1}}
	_, err = sc.Inputs(model.FieldParams{Efficiency: 1}, model.LossAbsolute)
	assert.Error(t, err)

	sc = &Scenario{Start: day(3), End: day(1)}
	_, err = sc.Inputs(model.FieldParams{Efficiency: 1}, model.LossAbsolute)
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("start: 2024-03-01\nend: 2024-03-02\nsplits: 3\n"))
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("name: nodates\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	sc, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, sc.Expected.Applications)
	assert.Equal(t, 2, *sc.Expected.Applications)

	_, err = Load(path + ".missing")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	sc, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	res := balance.Result{
		Trajectory: balance.Trajectory{
			SoilN: series.Series{day(5): 42},
			Fert:  series.Series{},
		},
		Requirement: balance.Requirement{Applications: make([]balance.Application, 2)},
	}
	assert.Empty(t, sc.Check(res))

	res.Trajectory.SoilN[day(5)] = 40
	res.Requirement.Applications = nil
	msgs := sc.Check(res)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "applications")
	assert.Contains(t, msgs[1], "soil_n 2024-03-05")
}
