package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.Width) * scale * 2)   // 2 sub-pixels per char
	height := int(float64(canvas.Height) * scale * 4) // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// bounds maps world points into a width x height picture with 10% padding.
// World y already grows downward, matching SVG.
type bounds struct {
	minX, minY, rangeX, rangeY float64
	width, height              int
}

func newBounds(points []dynamo.Vec, width, height int) bounds {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX:   minX - rangeX*0.1,
		minY:   minY - rangeY*0.1,
		rangeX: rangeX * 1.2,
		rangeY: rangeY * 1.2,
		width:  width,
		height: height,
	}
}

func (b bounds) project(p dynamo.Vec) (float64, float64) {
	return (p.X - b.minX) / b.rangeX * float64(b.width), (p.Y - b.minY) / b.rangeY * float64(b.height)
}

func (b bounds) path(sb *strings.Builder, points []dynamo.Vec, stroke string, closed bool) {
	if len(points) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range points {
		x, y := b.project(p)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	if closed {
		sb.WriteString(" Z")
	}
	sb.WriteString("\"/>\n")
}

// TrajectoryToSVG draws a single polyline scaled to fit the picture.
func TrajectoryToSVG(points []dynamo.Vec, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	b := newBounds(points, width, height)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	b.path(&sb, points, strokeColor, false)
	sb.WriteString("</svg>")
	return sb.String()
}

// FramesToSVG draws the target trajectory of a run together with the pose
// in its last frame: chain, leg joints, feet and body outline.
func FramesToSVG(frames []dynamo.Frame, width, height int) string {
	if len(frames) == 0 {
		return ""
	}
	last := frames[len(frames)-1]

	trail := make([]dynamo.Vec, len(frames))
	for i, f := range frames {
		trail[i] = f.Target
	}
	all := append([]dynamo.Vec(nil), trail...)
	all = append(all, last.Nodes...)
	all = append(all, last.Joints...)
	all = append(all, last.Feet...)
	if last.Body != nil {
		all = append(all, last.Body.Corners[:]...)
	}
	b := newBounds(all, width, height)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	b.path(&sb, trail, "#555555", false)
	b.path(&sb, last.Nodes, "#00d7ff", false)
	b.path(&sb, last.Joints, "#ffaf00", false)
	if last.Body != nil {
		b.path(&sb, last.Body.Corners[:], "#ff5f87", true)
	}

	dots := append(append([]dynamo.Vec(nil), last.Joints...), last.Feet...)
	for _, p := range dots {
		x, y := b.project(p)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"#ffffff\"/>\n", x, y)
	}
	tx, ty := b.project(last.Target)
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"none\" stroke=\"#ff4444\"/>\n", tx, ty)

	sb.WriteString("</svg>")
	return sb.String()
}
