package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run       RunMetadata    `json:"run"`
	Times     []float64      `json:"times"`
	Positions [][][3]float64 `json:"positions"`
}

// ExportJSON writes the run's metadata and samples to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	track, err := s.LoadTrack(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:       *meta,
		Times:     track.Times,
		Positions: make([][][3]float64, len(track.Positions)),
	}
	for i, frame := range track.Positions {
		data.Positions[i] = make([][3]float64, len(frame))
		for id, p := range frame {
			data.Positions[i][id] = [3]float64{p.X, p.Y, p.Z}
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile writes the JSON export to path.
func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
