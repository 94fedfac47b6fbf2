package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const metadataFile = "metadata.json"

var ErrRunNotFound = errors.New("run not found")

// Store keeps one directory per run holding a JSON summary. Trajectories
// are never written.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunSummary struct {
	ID         string           `json:"id"`
	Model      string           `json:"model"`
	Timestamp  time.Time        `json:"timestamp"`
	Seed       int64            `json:"seed"`
	Dt         float64          `json:"dt"`
	Duration   float64          `json:"duration"`
	Integrator string           `json:"integrator"`
	Params     map[string]Float `json:"params,omitempty"`
	Metrics    map[string]Float `json:"metrics"`

	StepsTaken     int    `json:"steps_taken"`
	InitialEnergy  Float  `json:"initial_energy"`
	FinalEnergy    Float  `json:"final_energy"`
	EnergyDrift    Float  `json:"energy_drift"`
	DominantPeriod Float  `json:"dominant_period,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Save assigns the run an ID and timestamp, writes its summary and
// returns the ID. Nothing is left on disk when the write fails.
func (s *Store) Save(summary RunSummary) (string, error) {
	now := s.now().UTC()
	summary.Timestamp = now
	summary.ID = fmt.Sprintf("%s_%s_%s", summary.Model, summary.Integrator, now.Format("20060102T150405.000000000"))

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", summary.ID, err)
	}

	runDir := filepath.Join(s.baseDir, summary.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), append(data, '\n'), 0644); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return summary.ID, nil
}

// List returns every readable summary, oldest first. Unreadable entries
// are skipped.
func (s *Store) List() ([]RunSummary, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunSummary{}, nil
		}
		return nil, err
	}

	runs := make([]RunSummary, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunSummary, error) {
	if runID == "" || strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		return nil, fmt.Errorf("%w: invalid id %q", ErrRunNotFound, runID)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunSummary
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}

	return &meta, nil
}
