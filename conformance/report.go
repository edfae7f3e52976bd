package conformance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/natefinch/atomic"
)

// Report is the machine-readable summary of a run.
type Report struct {
	RunID     string    `json:"run_id"`
	Module    string    `json:"module"`
	Kernels   string    `json:"kernels,omitempty"`
	CPU       string    `json:"cpu,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Timing    Timing    `json:"timing"`
	Results   []Result  `json:"results"`
}

// Timing summarises case durations in seconds over executed cases.
type Timing struct {
	Total  float64 `json:"total"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// NewReport tallies results.
func NewReport(module string, results []Result) Report {
	rep := Report{
		RunID:     uuid.NewString(),
		Module:    module,
		Timestamp: time.Now().UTC(),
		Results:   results,
	}

	var durations stats.Float64Data
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			rep.Passed++
		case StatusFail:
			rep.Failed++
		case StatusSkip:
			rep.Skipped++
			continue
		}
		durations = append(durations, r.Duration.Seconds())
	}

	// stats reports an error for empty input; the zero Timing stands.
	if len(durations) > 0 {
		rep.Timing.Total, _ = stats.Sum(durations)
		rep.Timing.Median, _ = stats.Median(durations)
		rep.Timing.Max, _ = stats.Max(durations)
	}
	return rep
}

// WriteReport writes rep as indented JSON to path, replacing any existing
// file atomically.
func WriteReport(path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("conformance: encode report: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(append(data, '\n'))); err != nil {
		return fmt.Errorf("conformance: write report %s: %w", path, err)
	}
	return nil
}
