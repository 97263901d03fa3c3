// Package testutil provides shared test infrastructure for the scheduling simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ and sim/workload/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase represents a single hand-verified scheduling scenario.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Processes []GoldenProcess `json:"processes"`
	Metrics   GoldenMetrics   `json:"metrics"`
}

// GoldenProcess is one process of a scenario with its expected outcome.
type GoldenProcess struct {
	ID       int    `json:"id"`
	Tier     string `json:"tier"`
	Priority int    `json:"priority"`
	Arrival  int64  `json:"arrival"`
	Burst    int64  `json:"burst"`

	// Expected outcome
	FinalTier  string `json:"final_tier"`
	Completion int64  `json:"completion"`
	Turnaround int64  `json:"turnaround"`
	Waiting    int64  `json:"waiting"`
}

// GoldenMetrics represents the expected run-level metrics of a scenario.
type GoldenMetrics struct {
	AvgTurnaround float64 `json:"avg_turnaround"`
	AvgWaiting    float64 `json:"avg_waiting"`
	Promotions    int     `json:"promotions"`
	Truncations   int     `json:"truncations"`
	IdleTime      int64   `json:"idle_time"`
}

// RepoRoot returns the repository root, resolved relative to this source file.
func RepoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to the repo root
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
}

// TestdataPath joins elems under the repo root testdata/ directory.
func TestdataPath(t *testing.T, elems ...string) string {
	t.Helper()
	return filepath.Join(append([]string{RepoRoot(t), "testdata"}, elems...)...)
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(TestdataPath(t, "goldendataset.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
