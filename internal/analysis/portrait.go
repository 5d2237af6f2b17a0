package analysis

import (
	"strings"

	"github.com/san-kum/kinesim/internal/dynamo"
)

// Portrait is a set of screen-space points to be plotted, such as the path
// a node traced over a run.
type Portrait struct {
	Points []dynamo.Vec
}

// NodePath collects the positions of one chain node. Negative indices
// count from the tail.
func NodePath(frames []dynamo.Frame, node int) *Portrait {
	p := &Portrait{Points: make([]dynamo.Vec, 0, len(frames))}
	for _, f := range frames {
		i := node
		if i < 0 {
			i += len(f.Nodes)
		}
		if i >= 0 && i < len(f.Nodes) {
			p.Points = append(p.Points, f.Nodes[i])
		}
	}
	return p
}

// TargetPath collects the target of every frame.
func TargetPath(frames []dynamo.Frame) *Portrait {
	p := &Portrait{Points: make([]dynamo.Vec, 0, len(frames))}
	for _, f := range frames {
		p.Points = append(p.Points, f.Target)
	}
	return p
}

// ToASCII plots the portrait on a width x height grid. Rows follow screen
// order, so larger y is drawn lower.
func (p *Portrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := int((pt.Y - minY) / rangeY * float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
