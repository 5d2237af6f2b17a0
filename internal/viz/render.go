package viz

import (
	"github.com/san-kum/kinesim/internal/dynamo"
)

// DrawTerrain traces the ground profile across the whole canvas width.
func DrawTerrain(c *Canvas, vp Viewport, t dynamo.Terrain) {
	if t == nil {
		return
	}
	var px, py int
	for sx := 0; sx < vp.W; sx++ {
		_, sy := vp.ToCanvas(dynamo.V(0, t.Sample(vp.WorldX(sx)).Height))
		if sx > 0 {
			c.DrawLine(px, py, sx, sy)
		}
		px, py = sx, sy
	}
}

// DrawFrame renders everything a frame carries: the target, chain nodes,
// leg joints, feet and the body outline.
func DrawFrame(c *Canvas, vp Viewport, f *dynamo.Frame) {
	if f == nil {
		return
	}

	tx, ty := vp.ToCanvas(f.Target)
	c.DrawLine(tx-2, ty, tx+2, ty)
	c.DrawLine(tx, ty-2, tx, ty+2)

	if len(f.Nodes) > 0 {
		c.DrawPolyline(vp, f.Nodes)
		hx, hy := vp.ToCanvas(f.Nodes[0])
		c.DrawCircle(hx, hy, 2)
	}

	if len(f.Joints) > 0 {
		c.DrawPolyline(vp, f.Joints)
		for _, j := range f.Joints {
			x, y := vp.ToCanvas(j)
			c.DrawDot(x, y, 1)
		}
	}

	for _, p := range f.Feet {
		x, y := vp.ToCanvas(p)
		c.DrawDot(x, y, 1)
	}

	if b := f.Body; b != nil {
		corners := append(b.Corners[:], b.Corners[0])
		c.DrawPolyline(vp, corners)
		x, y := vp.ToCanvas(b.Pos)
		c.Set(x, y)
	}
}
