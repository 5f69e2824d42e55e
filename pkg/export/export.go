package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/nbalance/core/balance"
	"github.com/kilianp07/nbalance/core/series"
)

// Day is one row of an exported balance.
type Day struct {
	Date  string  `json:"date"`
	SoilN float64 `json:"soil_n"`
	Fert  float64 `json:"fert"`
	LostN float64 `json:"lost_n"`
}

// Document is the JSON form of a balance result.
type Document struct {
	Name        string                `json:"name,omitempty"`
	RunID       string                `json:"run_id"`
	Requirement balance.Requirement   `json:"requirement"`
	Existing    []balance.Application `json:"existing,omitempty"`
	Days        []Day                 `json:"days"`
}

// Rows flattens the result trajectory in date order.
func Rows(res balance.Result) []Day {
	tr := res.Trajectory
	rows := make([]Day, 0, len(res.Dates))
	for _, d := range res.Dates {
		d = series.Day(d)
		rows = append(rows, Day{
			Date:  d.Format(time.DateOnly),
			SoilN: tr.SoilN[d],
			Fert:  tr.Fert[d],
			LostN: tr.LostN[d],
		})
	}
	return rows
}

// WriteJSON writes the balance result to w in JSON format.
func WriteJSON(w io.Writer, name string, res balance.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{
		Name:        name,
		RunID:       res.RunID,
		Requirement: res.Requirement,
		Existing:    res.Existing,
		Days:        Rows(res),
	})
}

// WriteCSV writes the daily balance to w in CSV format.
func WriteCSV(w io.Writer, res balance.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "soil_n", "fert", "lost_n"}); err != nil {
		return err
	}
	for _, r := range Rows(res) {
		rec := []string{
			r.Date,
			strconv.FormatFloat(r.SoilN, 'f', -1, 64),
			strconv.FormatFloat(r.Fert, 'f', -1, 64),
			strconv.FormatFloat(r.LostN, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
