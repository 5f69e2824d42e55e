package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/kilianp07/nbalance/core/balance"
	"github.com/kilianp07/nbalance/core/series"
)

func sampleResult() balance.Result {
	dates := series.DateSeries(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	soil, _ := series.FromValues(dates, []float64{50, 115.6, 105.6})
	fert, _ := series.FromValues(dates, []float64{0, 82, 0})
	lost, _ := series.FromValues(dates, []float64{0, 16.4, 0})
	return balance.Result{
		RunID:      "run-1",
		Dates:      dates,
		Trajectory: balance.Trajectory{SoilN: soil, Fert: fert, LostN: lost},
		Requirement: balance.Requirement{
			Total:          162.5,
			PerApplication: 82,
			Applied:        82,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(recs))
	}
	if recs[2][0] != "2024-03-02" || recs[2][1] != "115.6" || recs[2][2] != "82" || recs[2][3] != "16.4" {
		t.Fatalf("unexpected row %v", recs[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, "wheat", sampleResult()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Name != "wheat" || doc.RunID != "run-1" || len(doc.Days) != 3 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Requirement.Total != 162.5 || doc.Days[1].Fert != 82 {
		t.Fatalf("unexpected values %+v", doc)
	}
}

func TestRowsAlignsDates(t *testing.T) {
	res := sampleResult()
	est := time.FixedZone("EST", -5*3600)
	res.Dates = []time.Time{time.Date(2024, 3, 2, 0, 0, 0, 0, est)}
	rows := Rows(res)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].Date != "2024-03-02" || rows[0].SoilN != 115.6 || rows[0].Fert != 82 {
		t.Fatalf("unexpected row %+v", rows[0])
	}
}
