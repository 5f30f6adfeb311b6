package raster

import (
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Fill classifies every pixel within the bounding box of the line pixels as
// either inner or outer, starting from the border of the bounding box.
//
// Regions are grown along rows and columns only. Line pixels adjacent to
// outer regions seed inner regions, line pixels adjacent to inner regions
// seed new outer regions (holes). This is repeated until a full cycle does not
// change any classification. For self-intersecting outlines the region which
// reaches an ambiguous pixel first wins.
//
// Fill returns true if any pixel changed its classification. Filling a filled
// surface again changes nothing.
func (s *Surface) Fill() bool {
	if !s.hasLines {
		return false
	}
	changed := s.enlargeOuterAreaFirst()
	found := true
	for cycle := 1; ; cycle++ {
		for s.enlargeOuterArea() {
			found, changed = true, true
		}
		if found {
			if !s.findNewInnerAreas() {
				break
			}
			changed = true
			found = false
			for s.enlargeInnerArea() {
				found = true
			}
			if found {
				found = s.findNewOuterAreas()
			}
		}
		if !found {
			tracer().Debugf("surface %d × %d filled after %d cycles", s.Width, s.Height, cycle)
			break
		}
		found = false
	}
	return changed
}

// outerBox returns the bounding box of the line pixels, widened by 1 pixel
// where the surface allows. The upper bounds are exclusive.
func (s *Surface) outerBox() (x0, y0, x1, y1 int) {
	x0, x1, y0, y1 = s.LineMinX, s.LineMaxX, s.LineMinY, s.LineMaxY
	if x0 > 0 {
		x0--
	}
	if y0 > 0 {
		y0--
	}
	if x1 < s.Width-1 {
		x1++
	}
	if y1 < s.Height-1 {
		y1++
	}
	return
}

// enlargeOuterAreaFirst seeds the outer region: starting at each of the four
// edges of the outer box, pixels are marked outer until a line pixel is hit.
func (s *Surface) enlargeOuterAreaFirst() bool {
	x0, y0, x1, y1 := s.outerBox()
	seeded := false
	mark := func(p *PixelState) bool {
		if p.Line > 0 {
			return false
		}
		if !p.Outer {
			p.Outer, seeded = true, true
		}
		return true
	}
	for y := y0; y < y1; y++ { // left to right
		for x := x0; x < x1 && mark(s.At(x, y)); x++ {
			if x > x0 {
				s.At(x-1, y).CompletedX = true
			}
		}
	}
	for x := x0; x < x1; x++ { // top to bottom
		for y := y0; y < y1 && mark(s.At(x, y)); y++ {
			if y > y0 {
				s.At(x, y-1).CompletedY = true
			}
		}
	}
	for y := y0; y < y1; y++ { // right to left
		for x := x1 - 1; x >= x0 && mark(s.At(x, y)); x-- {
			if x < x1-1 {
				s.At(x+1, y).CompletedX = true
			}
		}
	}
	for x := x0; x < x1; x++ { // bottom to top
		for y := y1 - 1; y >= y0 && mark(s.At(x, y)); y-- {
			if y < y1-1 {
				s.At(x, y+1).CompletedY = true
			}
		}
	}
	return seeded
}

// enlargeOuterArea extends outer pixels along their columns, then along
// their rows, until a line pixel or an outer pixel is hit.
func (s *Surface) enlargeOuterArea() bool {
	x0, y0, x1, y1 := s.outerBox()
	increased := false
	spread := func(p *PixelState, setCompleted func(*PixelState)) bool {
		if p.Line > 0 || p.Outer {
			return false
		}
		setCompleted(p)
		p.Outer, increased = true, true
		return true
	}
	completeY := func(p *PixelState) { p.CompletedY = true }
	completeX := func(p *PixelState) { p.CompletedX = true }
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := s.At(x, y)
			if p.CompletedY || !p.Outer {
				continue
			}
			p.CompletedY = true
			for yy := y + 1; yy < y1 && spread(s.At(x, yy), completeY); yy++ {
			}
			for yy := y - 1; yy >= y0 && spread(s.At(x, yy), completeY); yy-- {
			}
		}
	}
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			p := s.At(x, y)
			if p.CompletedX || !p.Outer {
				continue
			}
			p.CompletedX = true
			for xx := x + 1; xx < x1 && spread(s.At(xx, y), completeX); xx++ {
			}
			for xx := x - 1; xx >= x0 && spread(s.At(xx, y), completeX); xx-- {
			}
		}
	}
	return increased
}

// enlargeInnerArea extends inner pixels along their columns, then along
// their rows, within the interior of the line bounding box.
func (s *Surface) enlargeInnerArea() bool {
	increased := false
	spread := func(p *PixelState, setCompleted func(*PixelState)) bool {
		if p.Line > 0 || p.Inner {
			return false
		}
		setCompleted(p)
		p.Inner, increased = true, true
		return true
	}
	completeY := func(p *PixelState) { p.CompletedY = true }
	completeX := func(p *PixelState) { p.CompletedX = true }
	for y := s.LineMinY + 1; y < s.LineMaxY; y++ {
		for x := s.LineMinX + 1; x < s.LineMaxX; x++ {
			p := s.At(x, y)
			if p.CompletedY || !p.Inner {
				continue
			}
			p.CompletedY = true
			for yy := y + 1; yy < s.LineMaxY && spread(s.At(x, yy), completeY); yy++ {
			}
			for yy := y - 1; yy > s.LineMinY && spread(s.At(x, yy), completeY); yy-- {
			}
		}
	}
	for y := s.LineMinY + 1; y < s.LineMaxY; y++ {
		for x := s.LineMinX + 1; x < s.LineMaxX; x++ {
			p := s.At(x, y)
			if p.CompletedX || !p.Inner {
				continue
			}
			p.CompletedX = true
			for xx := x + 1; xx < s.LineMaxX && spread(s.At(xx, y), completeX); xx++ {
			}
			for xx := x - 1; xx > s.LineMinX && spread(s.At(xx, y), completeX); xx-- {
			}
		}
	}
	return increased
}

// inLineBox is true if (x,y) is within the line bounding box, upper bounds
// exclusive.
func (s *Surface) inLineBox(x, y int) bool {
	return x >= s.LineMinX && y >= s.LineMinY && x < s.LineMaxX && y < s.LineMaxY
}

// neighbours calls f for the 8 neighbours of (x,y), column by column.
// Iteration stops as soon as f returns false.
func neighbours(x, y int, f func(nx, ny int) bool) {
	for dx := -1; dx < 2; dx++ {
		for dy := -1; dy < 2; dy++ {
			if (dx != 0 || dy != 0) && !f(x+dx, y+dy) {
				return
			}
		}
	}
}

// findNewInnerAreas looks for line pixels not yet completed which are adjacent
// to the outer region. Their unclassified neighbours (within the line box)
// are seeded as inner pixels. Crossing pixels next to them start a secondary
// search for inner pixels on the far side of the crossing.
func (s *Surface) findNewInnerAreas() bool {
	found := false
	for y := s.LineMinY; y < s.LineMaxY; y++ {
		for x := s.LineMinX; x < s.LineMaxX; x++ {
			p := s.At(x, y)
			if p.Line == 0 || p.LineCompleted {
				continue
			}
			outer, inner := false, false
			neighbours(x, y, func(nx, ny int) bool {
				if s.In(nx, ny) {
					n := s.At(nx, ny)
					outer = outer || n.Outer
					inner = inner || n.Inner
				}
				return !outer
			})
			if outer {
				p.LineCompleted = true
				neighbours(x, y, func(nx, ny int) bool {
					if !s.In(nx, ny) || !s.inLineBox(nx, ny) {
						return true
					}
					n := s.At(nx, ny)
					if n.Line > 0 {
						if n.Line > 1 && !n.LineCompleted {
							n.LineCompleted = true
							if s.findNewInnerAreasSecondary(nx, ny, 1) {
								found = true
							}
						}
					} else if !n.Outer && !n.Inner {
						n.Inner, found = true, true
					}
					return true
				})
			} else if inner {
				p.LineCompleted = true
			}
		}
	}
	return found
}

type probe struct {
	x, y  int
	depth int
}

// findNewInnerAreasSecondary explores the neighbourhood of a crossing pixel.
// Line pixels are followed up to the given depth, unclassified pixels within
// the line box become inner pixels. Probes at the border of the surface are
// not explored.
func (s *Surface) findNewInnerAreasSecondary(x, y, depth int) bool {
	found := false
	stack := arraystack.New()
	stack.Push(probe{x: x, y: y, depth: depth})
	for !stack.Empty() {
		v, _ := stack.Pop()
		pr := v.(probe)
		if pr.x <= 0 || pr.y <= 0 || pr.x >= s.Width-1 || pr.y >= s.Height-1 {
			continue
		}
		neighbours(pr.x, pr.y, func(nx, ny int) bool {
			n := s.At(nx, ny)
			if n.Line > 0 {
				if pr.depth > 0 {
					stack.Push(probe{x: nx, y: ny, depth: pr.depth - 1})
				}
			} else if !n.Outer && !n.Inner && s.inLineBox(nx, ny) {
				n.Inner, found = true, true
			}
			return true
		})
	}
	return found
}

// findNewOuterAreas looks for line pixels not yet completed which are adjacent
// to the inner region, keeping a margin of 2 pixels to the line box. Their
// unclassified neighbours are seeded as outer pixels.
func (s *Surface) findNewOuterAreas() bool {
	found := false
	for y := s.LineMinY + 2; y < s.LineMaxY-2; y++ {
		for x := s.LineMinX + 2; x < s.LineMaxX-2; x++ {
			p := s.At(x, y)
			if p.Line == 0 || p.LineCompleted {
				continue
			}
			inner := false
			neighbours(x, y, func(nx, ny int) bool {
				inner = s.At(nx, ny).Inner
				return !inner
			})
			if !inner {
				continue
			}
			p.LineCompleted = true
			neighbours(x, y, func(nx, ny int) bool {
				n := s.At(nx, ny)
				if n.Line == 0 && !n.Outer && !n.Inner {
					n.Outer, found = true, true
				}
				return true
			})
		}
	}
	return found
}
