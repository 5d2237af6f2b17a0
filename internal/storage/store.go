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

	"github.com/google/uuid"
	"github.com/san-kum/kinesim/internal/config"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	configFile   = "config.yaml"
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

// Layout records how many points of each kind a frame row holds.
type Layout struct {
	Nodes  int  `json:"nodes"`
	Joints int  `json:"joints"`
	Feet   int  `json:"feet"`
	Body   bool `json:"body"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Frames    int                `json:"frames"`
	Skipped   int                `json:"skipped"`
	Layout    Layout             `json:"layout"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newRunID(scene string) string {
	return fmt.Sprintf("%s_%s", scene, uuid.NewString()[:8])
}

// Save writes metadata, the recorded frames and the config that produced
// them into a new run directory and returns its ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := newRunID(cfg.Scene)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	layout := layoutOf(result.Frames)
	meta := RunMetadata{
		ID:        runID,
		Scene:     cfg.Scene,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Ticks:     result.TicksRun,
		Frames:    len(result.Frames),
		Skipped:   result.Skipped,
		Layout:    layout,
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), layout, result.Frames); err != nil {
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

func layoutOf(frames []dynamo.Frame) Layout {
	if len(frames) == 0 {
		return Layout{}
	}
	f := frames[0]
	return Layout{Nodes: len(f.Nodes), Joints: len(f.Joints), Feet: len(f.Feet), Body: f.Body != nil}
}

func (l Layout) header() []string {
	h := []string{"tick", "target_x", "target_y"}
	h = appendPointColumns(h, "n", l.Nodes)
	h = appendPointColumns(h, "j", l.Joints)
	h = appendPointColumns(h, "f", l.Feet)
	if l.Body {
		h = append(h, "body_x", "body_y", "body_angle", "body_vx", "body_vy", "body_omega", "body_energy", "body_contacts")
	}
	return h
}

func appendPointColumns(h []string, prefix string, n int) []string {
	for i := 0; i < n; i++ {
		h = append(h, fmt.Sprintf("%s%d_x", prefix, i), fmt.Sprintf("%s%d_y", prefix, i))
	}
	return h
}

func writeFrames(path string, layout Layout, frames []dynamo.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(layout.header()); err != nil {
		return err
	}

	for i := range frames {
		f := &frames[i]
		if len(f.Nodes) != layout.Nodes || len(f.Joints) != layout.Joints ||
			len(f.Feet) != layout.Feet || (f.Body != nil) != layout.Body {
			return fmt.Errorf("frame %d: shape differs from first frame", f.Tick)
		}

		row := []string{strconv.Itoa(f.Tick)}
		row = appendPoints(row, f.Target)
		row = appendPoints(row, f.Nodes...)
		row = appendPoints(row, f.Joints...)
		row = appendPoints(row, f.Feet...)
		if b := f.Body; b != nil {
			row = appendPoints(row, b.Pos)
			row = append(row, formatFloat(b.Angle))
			row = appendPoints(row, b.Vel)
			row = append(row, formatFloat(b.AngVel), formatFloat(b.Energy), strconv.Itoa(b.Contacts))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func appendPoints(row []string, pts ...dynamo.Vec) []string {
	for _, p := range pts {
		row = append(row, formatFloat(p.X), formatFloat(p.Y))
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// FramesPath is the CSV a run's frames live in.
func (s *Store) FramesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}

// LoadConfig returns the configuration a run was produced with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadFrames rebuilds the recorded frames of a run. Values carry the six
// decimals they were written with.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(meta.Layout.header())

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []dynamo.Frame{}, nil
	}

	frames := make([]dynamo.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		f, err := parseFrame(meta.Layout, record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", runID, i+1, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

type rowReader struct {
	record []string
	pos    int
	err    error
}

func (r *rowReader) float() float64 {
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(r.record[r.pos], 64)
	r.err = err
	r.pos++
	return v
}

func (r *rowReader) integer() int {
	if r.err != nil {
		return 0
	}
	v, err := strconv.Atoi(r.record[r.pos])
	r.err = err
	r.pos++
	return v
}

func (r *rowReader) vec() dynamo.Vec {
	x := r.float()
	return dynamo.V(x, r.float())
}

func (r *rowReader) vecs(n int) []dynamo.Vec {
	if n == 0 {
		return nil
	}
	out := make([]dynamo.Vec, n)
	for i := range out {
		out[i] = r.vec()
	}
	return out
}

func parseFrame(l Layout, record []string) (dynamo.Frame, error) {
	r := &rowReader{record: record}
	f := dynamo.Frame{
		Tick:   r.integer(),
		Target: r.vec(),
	}
	f.Nodes = r.vecs(l.Nodes)
	f.Joints = r.vecs(l.Joints)
	f.Feet = r.vecs(l.Feet)
	if l.Body {
		b := &dynamo.BodyState{}
		b.Pos = r.vec()
		b.Angle = r.float()
		b.Vel = r.vec()
		b.AngVel = r.float()
		b.Energy = r.float()
		b.Contacts = r.integer()
		f.Body = b
	}
	return f, r.err
}
