package storage

import (
	"encoding/json"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

type ExportData struct {
	RunMetadata
	X         []float64   `json:"x"`
	Y         []float64   `json:"y"`
	Potential [][]float64 `json:"potential"`
}

// ExportJSON writes a saved run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	phi, err := s.LoadPotential(runID)
	if err != nil {
		return err
	}

	axis := meta.Grid.Axis()
	data := ExportData{
		RunMetadata: *meta,
		X:           axis,
		Y:           axis,
		Potential:   rowsOf(phi),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON into a new file at path.
func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}

func rowsOf(m *mat.Dense) [][]float64 {
	rows, _ := m.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
