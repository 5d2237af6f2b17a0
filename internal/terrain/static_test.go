package terrain

import (
	"math"
	"testing"

	"github.com/san-kum/kinesim/internal/dynamo"
)

func TestFlat(t *testing.T) {
	s := NewFlat(500).Sample(-123)
	if s.Height != 500 || s.Slope != 0 {
		t.Errorf("unexpected sample %+v", s)
	}
}

func TestPolylineSample(t *testing.T) {
	p := DemoPolyline(550)
	tests := []struct {
		x      float64
		height float64
	}{
		{-50, 550},
		{100, 500},
		{200, 450},
		{600, 550},
		{960, 534},
		{1000, 518},
		{5000, 486},
	}
	for _, tt := range tests {
		s := p.Sample(tt.x)
		if math.Abs(s.Height-tt.height) > 1e-9 {
			t.Errorf("x=%v: height %v, want %v", tt.x, s.Height, tt.height)
		}
	}
	if s := p.Sample(100); math.Abs(s.Slope-math.Atan2(-100, 200)) > 1e-12 {
		t.Errorf("ramp slope %v", s.Slope)
	}
}

func TestPolylineRejectsBadInput(t *testing.T) {
	if _, err := NewPolyline([]dynamo.Vec{{X: 0, Y: 0}}); err == nil {
		t.Error("expected error for single point")
	}
	if _, err := NewPolyline([]dynamo.Vec{{X: 10, Y: 0}, {X: 0, Y: 0}}); err == nil {
		t.Error("expected error for decreasing x")
	}
}
