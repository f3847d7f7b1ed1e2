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

	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/field"
	"gonum.org/v1/gonum/mat"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved potential. Method is "poisson" or "multipole".
type RunMetadata struct {
	ID        string             `json:"id"`
	Method    string             `json:"method"`
	Timestamp time.Time          `json:"timestamp"`
	System    binary.System      `json:"system"`
	Grid      binary.Grid        `json:"grid"`
	Terms     int                `json:"terms"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is what gets persisted: the potential, its field and the axes they share.
type Run struct {
	Method    string
	System    binary.System
	Grid      binary.Grid
	Terms     int
	Potential *mat.Dense
	Field     field.Vector
	Metrics   map[string]float64
}

func (s *Store) Save(run Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Method, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Method:    run.Method,
		Timestamp: now,
		System:    run.System,
		Grid:      run.Grid,
		Terms:     run.Terms,
		Metrics:   run.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeMatrix(filepath.Join(runDir, "potential.csv"), run.Potential); err != nil {
		return "", err
	}
	if run.Field.Gx != nil {
		if err := writeField(filepath.Join(runDir, "field.csv"), run); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMatrix(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows, cols := m.Dims()
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeField(path string, run Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "phi", "gx", "gy"}); err != nil {
		return err
	}

	axis := run.Grid.Axis()
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
	for i, y := range axis {
		for j, x := range axis {
			row := []string{
				format(x), format(y),
				format(run.Potential.At(i, j)),
				format(run.Field.Gx.At(i, j)),
				format(run.Field.Gy.At(i, j)),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

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

// LoadPotential reads the potential grid of a run back.
func (s *Store) LoadPotential(runID string) (*mat.Dense, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "potential.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s: empty potential", runID)
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, record := range records {
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: potential[%d][%d]: %w", runID, i, j, err)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(rows, cols, data), nil
}
