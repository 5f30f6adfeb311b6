package raster

import "math"

// AddLineValue marks pixel (x,y) as a line pixel of path segment pathIndex.
// A pixel already marked by a different segment becomes a crossing (Line = 2).
// Positions outside the surface are ignored.
func (s *Surface) AddLineValue(x, y, pathIndex int) {
	if !s.In(x, y) {
		return
	}
	p := &s.pixels[y*s.Width+x]
	switch p.Line {
	case 2:
		return
	case 1:
		if p.PathIndex != pathIndex {
			p.Line = 2
		}
		return
	}
	if !s.hasLines {
		s.LineMinX, s.LineMaxX = x, x
		s.LineMinY, s.LineMaxY = y, y
		s.hasLines = true
	} else {
		s.LineMinX, s.LineMaxX = min(s.LineMinX, x), max(s.LineMaxX, x)
		s.LineMinY, s.LineMaxY = min(s.LineMinY, y), max(s.LineMaxY, y)
	}
	p.Line = 1
	p.PathIndex = pathIndex
}

// DrawLine marks the pixels of a line from (x0,y0) to (x1,y1), both end points
// included. The axis with the larger extent drives the loop. If any end point
// is outside of the surface, the line is skipped.
func (s *Surface) DrawLine(x0, y0, x1, y1, pathIndex int) {
	if !s.In(x0, y0) || !s.In(x1, y1) {
		return
	}
	switch {
	case x0 == x1:
		for y := min(y0, y1); y <= max(y0, y1); y++ {
			s.AddLineValue(x0, y, pathIndex)
		}
		return
	case y0 == y1:
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			s.AddLineValue(x, y0, pathIndex)
		}
		return
	}
	steep := abs(y1-y0) >= abs(x1-x0)
	// The starting point decides the rounding of the minor axis.
	switch {
	case x0 < x1 && y0 < y1:
		s.walk(x0, y0, x1, y1, steep, pathIndex)
	case x0 < x1:
		if steep {
			s.walk(x1, y1, x0, y0, steep, pathIndex)
		} else {
			s.walk(x0, y0, x1, y1, steep, pathIndex)
		}
	default:
		if steep {
			s.walk(x0, y0, x1, y1, steep, pathIndex)
		} else {
			s.walk(x1, y1, x0, y0, steep, pathIndex)
		}
	}
}

// walk steps along the driving axis from (xs,ys) to (xe,ye), truncating the
// minor axis offset.
func (s *Surface) walk(xs, ys, xe, ye int, steep bool, pathIndex int) {
	dx, dy := xe-xs, ye-ys
	sx, sy := sign(dx), sign(dy)
	dx, dy = abs(dx), abs(dy)
	if steep {
		for t := 0; t <= dy; t++ {
			s.AddLineValue(xs+sx*(t*dx/dy), ys+sy*t, pathIndex)
		}
		return
	}
	for t := 0; t <= dx; t++ {
		s.AddLineValue(xs+sx*t, ys+sy*(t*dy/dx), pathIndex)
	}
}

// DrawCurve marks the pixels of a quadratic Bézier curve from (x0,y0) to
// (x1,y1) with control point (cx,cy). The curve is approximated by chords,
// evaluated from both ends towards the middle of the curve. Longer curves get
// finer steps, with at most 25 chords from each end.
func (s *Surface) DrawCurve(x0, y0, x1, y1, cx, cy float32, pathIndex int) {
	if x0 == x1 && y0 == y1 {
		return
	}
	d := max(abs32(x0-x1), abs32(y0-y1))
	step := 25
	if f := 50 / float64(d); f < 25 {
		step = max(int(f), 1)
	}
	dx0, dy0 := cx-x0, cy-y0
	dx1, dy1 := cx-x1, cy-y1
	px0, py0 := x0, y0
	px1, py1 := x1, y1
	for i := step; i < 50; i += step {
		t := float32(i) / 100
		u := float32(100-i) / 100
		// points on the tangents, from the beginning and from the end
		b0x, b0y := dx0*t+x0, dy0*t+y0
		b1x, b1y := dx1*t+x1, dy1*t+y1
		e0x, e0y := dx0*u+x0, dy0*u+y0
		e1x, e1y := dx1*u+x1, dy1*u+y1
		nx0, ny0 := (e1x-b0x)*t+b0x, (e1y-b0y)*t+b0y
		nx1, ny1 := (e0x-b1x)*t+b1x, (e0y-b1y)*t+b1y
		s.DrawLine(int(nx0), int(ny0), int(px0), int(py0), pathIndex)
		s.DrawLine(int(nx1), int(ny1), int(px1), int(py1), pathIndex)
		px0, py0, px1, py1 = nx0, ny0, nx1, ny1
	}
	mx := (dx0*0.5 + x0 + dx1*0.5 + x1) / 2
	my := (dy0*0.5 + y0 + dy1*0.5 + y1) / 2
	s.DrawLine(int(mx), int(my), int(px0), int(py0), pathIndex)
	s.DrawLine(int(mx), int(my), int(px1), int(py1), pathIndex)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}
