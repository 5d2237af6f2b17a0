package storage

import (
	"encoding/json"
	"io"
	"os"
)

type exportPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type exportBody struct {
	Pos    exportPoint `json:"pos"`
	Angle  float64     `json:"angle"`
	Vel    exportPoint `json:"vel"`
	AngVel float64     `json:"ang_vel"`
	Energy float64     `json:"energy"`
}

type exportFrame struct {
	Tick   int           `json:"tick"`
	Target exportPoint   `json:"target"`
	Nodes  []exportPoint `json:"nodes,omitempty"`
	Joints []exportPoint `json:"joints,omitempty"`
	Feet   []exportPoint `json:"feet,omitempty"`
	Body   *exportBody   `json:"body,omitempty"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []exportFrame `json:"frames"`
}

// ExportJSON writes a run's metadata and frames as one JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Frames: make([]exportFrame, len(frames))}
	for i, f := range frames {
		ef := exportFrame{
			Tick:   f.Tick,
			Target: exportPoint{f.Target.X, f.Target.Y},
		}
		for _, p := range f.Nodes {
			ef.Nodes = append(ef.Nodes, exportPoint{p.X, p.Y})
		}
		for _, p := range f.Joints {
			ef.Joints = append(ef.Joints, exportPoint{p.X, p.Y})
		}
		for _, p := range f.Feet {
			ef.Feet = append(ef.Feet, exportPoint{p.X, p.Y})
		}
		if b := f.Body; b != nil {
			ef.Body = &exportBody{
				Pos:    exportPoint{b.Pos.X, b.Pos.Y},
				Angle:  b.Angle,
				Vel:    exportPoint{b.Vel.X, b.Vel.Y},
				AngVel: b.AngVel,
				Energy: b.Energy,
			}
		}
		data.Frames[i] = ef
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON into a file at path.
func (s *Store) ExportJSONFile(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(runID, file)
}

