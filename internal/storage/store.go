// Package storage archives render runs on disk. Each run gets its own
// directory under the base path holding a metadata.json, the scene
// config that produced it, and a numbered PNG frame sequence.
package storage

import (
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/hyperview/internal/config"
	"github.com/san-kum/hyperview/internal/render"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Mode      string             `json:"mode"`
	Dimension int                `json:"dimension"`
	Timestamp time.Time          `json:"timestamp"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Quality   string             `json:"quality"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run accumulates frames for one render session. Finish writes the
// metadata once all frames are on disk.
type Run struct {
	store  *Store
	meta   RunMetadata
	dir    string
	gamma  float64
	frames int
	err    error
}

// Begin creates the run directory and snapshots the scene config into it.
func (s *Store) Begin(cfg *config.Config) (*Run, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Mode, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}
	if err := config.Save(filepath.Join(runDir, "scene.yaml"), cfg); err != nil {
		return nil, err
	}

	return &Run{
		store: s,
		dir:   runDir,
		gamma: cfg.Gamma,
		meta: RunMetadata{
			ID:        runID,
			Mode:      cfg.Mode,
			Dimension: cfg.Dimension,
			Timestamp: time.Now(),
			Width:     cfg.Width,
			Height:    cfg.Height,
			Quality:   cfg.Quality,
			Metrics:   map[string]float64{},
		},
	}, nil
}

func (r *Run) ID() string  { return r.meta.ID }
func (r *Run) Dir() string { return r.dir }

// AddFrame writes the frame as frame_NNNN.png. The first error sticks
// and is reported by Finish.
func (r *Run) AddFrame(frame *render.Frame) {
	if r.err != nil {
		return
	}
	path := filepath.Join(r.dir, fmt.Sprintf("frame_%04d.png", r.frames))
	f, err := os.Create(path)
	if err != nil {
		r.err = err
		return
	}
	if err := frame.WritePNG(f, r.gamma); err != nil {
		f.Close()
		r.err = err
		return
	}
	if err := f.Close(); err != nil {
		r.err = err
		return
	}
	r.frames++
}

// SetMetric records a summary value for the metadata.
func (r *Run) SetMetric(name string, value float64) {
	r.meta.Metrics[name] = value
}

// Finish writes metadata.json and returns the run ID.
func (r *Run) Finish() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.meta.Frames = r.frames

	metaFile, err := os.Create(filepath.Join(r.dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.meta); err != nil {
		return "", err
	}
	return r.meta.ID, nil
}

// List returns the metadata of every completed run. Directories without
// a readable metadata.json are skipped.
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadScene reads back the config snapshot of a run.
func (s *Store) LoadScene(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, "scene.yaml"))
}

// FramePath returns the on-disk path of a frame without decoding it.
func (s *Store) FramePath(runID string, index int) string {
	return filepath.Join(s.baseDir, runID, fmt.Sprintf("frame_%04d.png", index))
}

// FrameSize decodes only the PNG header of a stored frame.
func (s *Store) FrameSize(runID string, index int) (int, int, error) {
	f, err := os.Open(s.FramePath(runID, index))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
