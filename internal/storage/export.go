package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/molsim/internal/experiment"
)

type ExportData struct {
	Species    string              `json:"species"`
	Phase      string              `json:"phase"`
	Thermostat string              `json:"thermostat"`
	Seed       int64               `json:"seed"`
	Ticks      int                 `json:"ticks"`
	Samples    []experiment.Sample `json:"samples"`
	Metrics    map[string]float64  `json:"metrics"`
}

func exportData(meta RunMetadata, samples []experiment.Sample) ExportData {
	return ExportData{
		Species:    meta.Species,
		Phase:      meta.Phase,
		Thermostat: meta.Thermostat,
		Seed:       meta.Seed,
		Ticks:      meta.Ticks,
		Samples:    samples,
		Metrics:    meta.Metrics,
	}
}

// ExportJSON writes a stored run as a single indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(*meta, samples))
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
