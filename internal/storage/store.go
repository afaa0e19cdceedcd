package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/experiment"
)

var sampleHeader = []string{
	"tick", "time", "temperature_k", "set_point_k", "pressure_atm",
	"height_pm", "molecules", "exploded", "total_energy",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Species    string             `json:"species"`
	Phase      string             `json:"phase"`
	Thermostat string             `json:"thermostat"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Ticks      int                `json:"ticks"`
	Exploded   bool               `json:"exploded"`
	Molecules  int                `json:"molecules"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Species, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Species:    cfg.Species,
		Phase:      cfg.Phase,
		Thermostat: cfg.Thermostat,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Ticks:      result.Final.Tick,
		Exploded:   result.Final.Exploded,
		Molecules:  result.Final.Molecules,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(sampleHeader); err != nil {
		return "", err
	}
	for _, smp := range result.Samples {
		if err := w.Write(formatSample(smp)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func formatSample(smp experiment.Sample) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		strconv.Itoa(smp.Tick),
		f(smp.Time),
		f(smp.TemperatureK),
		f(smp.SetPointK),
		f(smp.PressureAtm),
		f(smp.HeightPM),
		strconv.Itoa(smp.Molecules),
		strconv.FormatBool(smp.Exploded),
		f(smp.TotalEnergy),
	}
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples reads a run's samples back. Rows that fail to parse are
// skipped.
func (s *Store) LoadSamples(runID string) ([]experiment.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []experiment.Sample{}, nil
	}

	samples := make([]experiment.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		smp, err := parseSample(record)
		if err != nil {
			continue
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseSample(record []string) (experiment.Sample, error) {
	if len(record) != len(sampleHeader) {
		return experiment.Sample{}, fmt.Errorf("expected %d fields, got %d", len(sampleHeader), len(record))
	}

	var (
		smp  experiment.Sample
		err  error
		errs []error
	)
	parse := func(s string) float64 {
		v, e := strconv.ParseFloat(s, 64)
		if e != nil {
			errs = append(errs, e)
		}
		return v
	}

	smp.Tick, err = strconv.Atoi(record[0])
	if err != nil {
		return smp, err
	}
	smp.Time = parse(record[1])
	smp.TemperatureK = parse(record[2])
	smp.SetPointK = parse(record[3])
	smp.PressureAtm = parse(record[4])
	smp.HeightPM = parse(record[5])
	if smp.Molecules, err = strconv.Atoi(record[6]); err != nil {
		return smp, err
	}
	if smp.Exploded, err = strconv.ParseBool(record[7]); err != nil {
		return smp, err
	}
	smp.TotalEnergy = parse(record[8])

	if len(errs) > 0 {
		return smp, errs[0]
	}
	return smp, nil
}
