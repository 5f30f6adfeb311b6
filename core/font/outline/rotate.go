package outline

import "math"

const fullCircle = 2 * math.Pi

// FixAngle normalizes an angle (in radians) into [0, 2π). Non-finite angles
// yield 0.
func FixAngle(angle float32) float32 {
	a := float64(angle)
	if math.IsInf(a, 0) || math.IsNaN(a) {
		return 0
	}
	a = math.Mod(a, fullCircle)
	if a < 0 {
		a += fullCircle
	}
	if r := float32(a); float64(r) < fullCircle {
		return r
	}
	return 0 // rounded up to a full circle
}

// CalculateAngle returns the clockwise angle between the positive y-axis and
// the vector (x,y), in [0, 2π).
func CalculateAngle(x, y float32) float32 {
	if x == 0 {
		if y >= 0 {
			return 0
		}
		return math.Pi
	}
	if y == 0 {
		if x >= 0 {
			return math.Pi / 2
		}
		return math.Pi + math.Pi/2
	}
	t := math.Atan(float64(x) / float64(y))
	switch {
	case x > 0 && y > 0: // first quadrant, t in (0, π/2)
		return float32(t)
	case y < 0: // second and third quadrant, for x < 0 as well as x > 0
		return float32(math.Pi + t)
	}
	// x < 0, y > 0: t is negative
	return float32(fullCircle + t)
}

// RotateByAngleZero rotates point (x,y) clockwise about the origin. Angles
// ≤ 0 leave the point unchanged.
func RotateByAngleZero(x, y, angle float32) (float32, float32) {
	if angle <= 0 {
		return x, y
	}
	a := float64(FixAngle(angle + CalculateAngle(x, y)))
	d := math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y))
	return float32(math.Sin(a) * d), float32(math.Cos(a) * d)
}

// RotateByAngle rotates point (x,y) clockwise about (originX,originY).
// Angles ≤ 0 leave the point unchanged.
func RotateByAngle(originX, originY, x, y, angle float32) (float32, float32) {
	if angle <= 0 {
		return x, y
	}
	rx, ry := RotateByAngleZero(x-originX, y-originY, angle)
	return rx + originX, ry + originY
}

// Rotate returns a copy of the outline with every point rotated clockwise
// about the origin. The bounds of the copy are re-calculated from its
// segments.
func (o *Outline) Rotate(angle float32) *Outline {
	if angle <= 0 {
		return o
	}
	t := &Outline{Glyph: o.Glyph, Contours: make([]Path, len(o.Contours))}
	for i, p := range o.Contours {
		q := make(Path, len(p))
		for j, c := range p {
			q[j] = c
			q[j].X0, q[j].Y0 = RotateByAngleZero(c.X0, c.Y0, angle)
			q[j].X1, q[j].Y1 = RotateByAngleZero(c.X1, c.Y1, angle)
			if c.IsCurve {
				q[j].CX, q[j].CY = RotateByAngleZero(c.CX, c.CY, angle)
			}
		}
		t.Contours[i] = q
	}
	t.Bounds = t.extentBounds()
	return t
}
