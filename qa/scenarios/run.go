package scenarios

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/nbalance/core/balance"
	"github.com/kilianp07/nbalance/core/model"
	"github.com/kilianp07/nbalance/infra/logger"
	"github.com/kilianp07/nbalance/infra/metrics"
	"github.com/kilianp07/nbalance/pkg/scenario"
)

// defaultField is used by scenarios that do not carry their own policy.
var defaultField = model.FieldParams{Trigger: 50, Efficiency: 1, Splits: 1}

// RunScenario runs sc through the engine and fails t on any broken
// expectation or a structural check.
func RunScenario(t *testing.T, sc *scenario.Scenario) balance.Result {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	in, err := sc.Inputs(defaultField, model.LossAbsolute)
	if err != nil {
		t.Fatalf("inputs: %v", err)
	}
	res, err := balance.NewEngine(logger.NopLogger{}, sink).Run(in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, msg := range sc.Check(res) {
		t.Errorf("%s: %s", sc.Name, msg)
	}

	req := res.Requirement
	for _, app := range req.Applications {
		if app.Date.Before(req.WindowStart) || app.Date.After(req.WindowEnd) {
			t.Errorf("application on %s outside window", app.Date)
		}
	}
	for _, d := range in.Dates {
		if res.Trajectory.Fert[d] < 0 {
			t.Errorf("negative fertiliser on %s", d)
		}
	}
	n, err := testutil.GatherAndCount(reg, "fertiliser_requirement_kg_per_ha")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Errorf("expected one requirement series, got %d", n)
	}
	return res
}
