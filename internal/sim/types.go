package sim

import "github.com/san-kum/kinesim/internal/dynamo"

// Config controls a run. RecordEvery keeps every n-th frame in the result;
// zero or one keeps them all.
type Config struct {
	Ticks       int
	RecordEvery int
}

type Result struct {
	Frames   []dynamo.Frame
	Metrics  map[string]float64
	TicksRun int
	Skipped  int
}

// Last returns the final recorded frame, or nil for an empty result.
func (r *Result) Last() *dynamo.Frame {
	if len(r.Frames) == 0 {
		return nil
	}
	return &r.Frames[len(r.Frames)-1]
}

// FootReporter is implemented by suppliers that also animate feet.
type FootReporter interface {
	FootPositions() []dynamo.Vec
}
