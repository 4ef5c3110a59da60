package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	jsonpool "github.com/scourdata/scour/pkg/json"
	"github.com/scourdata/scour/pkg/table"
)

// StageReport records what one stage execution changed.
type StageReport struct {
	Stage      string        `json:"stage"`
	Duration   time.Duration `json:"duration_ns"`
	RowsBefore int           `json:"rows_before"`
	RowsAfter  int           `json:"rows_after"`
	Details    interface{}   `json:"details,omitempty"`
}

// Report accumulates the statistics of one cleaning run.
type Report struct {
	RunID          string        `json:"run_id"`
	StartedAt      time.Time     `json:"started_at"`
	InitialRows    int           `json:"initial_rows"`
	InitialColumns int           `json:"initial_columns"`
	Stages         []StageReport `json:"stages"`
	FinalRows      int           `json:"final_rows"`
	FinalColumns   int           `json:"final_columns"`
}

func newReport(tbl *table.Table) *Report {
	return &Report{
		RunID:          uuid.NewString(),
		StartedAt:      time.Now().UTC(),
		InitialRows:    tbl.NumRows(),
		InitialColumns: tbl.NumCols(),
	}
}

func (r *Report) addStage(s StageReport) {
	r.Stages = append(r.Stages, s)
}

func (r *Report) finish(tbl *table.Table) {
	r.FinalRows = tbl.NumRows()
	r.FinalColumns = tbl.NumCols()
}

// WriteJSON serializes the report to w.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := jsonpool.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteFile writes the report as JSON to path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return r.WriteJSON(f)
}
