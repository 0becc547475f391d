package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/orbit"
)

const (
	metadataFile  = "metadata.json"
	positionsFile = "positions.csv"
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

type BodyInfo struct {
	ID      int    `json:"id"`
	Kind    string `json:"kind"`
	Texture string `json:"texture"`
	Parent  int    `json:"parent"`
	Depth   int    `json:"depth"`
}

type RunMetadata struct {
	ID        string     `json:"id"`
	Scene     string     `json:"scene"`
	Timestamp time.Time  `json:"timestamp"`
	Start     float64    `json:"start"`
	Dt        float64    `json:"dt"`
	Duration  float64    `json:"duration"`
	Samples   int        `json:"samples"`
	Bodies    []BodyInfo `json:"bodies"`
}

// Save writes a sampled track for the scene at scenePath and returns the run ID.
func (s *Store) Save(scenePath string, tree *body.Tree, track *analysis.Track) (string, error) {
	if track.Len() == 0 {
		return "", fmt.Errorf("storage: empty track")
	}

	name := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	if name == "" || name == "." {
		name = "scene"
	}
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scenePath,
		Timestamp: time.Now(),
		Start:     track.Times[0],
		Dt:        track.Dt,
		Duration:  track.Times[track.Len()-1] - track.Times[0],
		Samples:   track.Len(),
	}
	tree.Walk(func(id body.ID, b body.Body) bool {
		meta.Bodies = append(meta.Bodies, BodyInfo{
			ID: int(id), Kind: b.Kind.String(), Texture: b.Texture, Parent: int(b.Parent), Depth: b.Depth,
		})
		return true
	})
	sort.Slice(meta.Bodies, func(i, j int) bool { return meta.Bodies[i].ID < meta.Bodies[j].ID })

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writePositions(filepath.Join(runDir, positionsFile), track); err != nil {
		return "", err
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

func writePositions(path string, track *analysis.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for id := 0; id < track.Bodies(); id++ {
		header = append(header, fmt.Sprintf("b%d_x", id), fmt.Sprintf("b%d_y", id), fmt.Sprintf("b%d_z", id))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range track.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, p := range track.Positions[i] {
			row = append(row,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Z, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrack reads the sampled positions of a run.
func (s *Store) LoadTrack(runID string) (*analysis.Track, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, positionsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	track := &analysis.Track{Dt: meta.Dt}
	if len(records) < 2 {
		return track, nil
	}

	for i, record := range records[1:] {
		if (len(record)-1)%3 != 0 {
			return nil, fmt.Errorf("storage: %s row %d has %d columns", positionsFile, i+2, len(record))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s row %d: %w", positionsFile, i+2, err)
			}
			vals[j] = v
		}

		pos := make([]orbit.Vec3, (len(vals)-1)/3)
		for id := range pos {
			pos[id] = orbit.Vec3{X: vals[1+id*3], Y: vals[2+id*3], Z: vals[3+id*3]}
		}
		track.Times = append(track.Times, vals[0])
		track.Positions = append(track.Positions, pos)
	}
	return track, nil
}
