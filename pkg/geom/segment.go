package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment2D is a directed chord on the image plane, used for the major
// axis of a sketched profile and for the live spine chord.
type Segment2D struct {
	P0, P1 mgl64.Vec2
}

// Mid returns the midpoint of the segment.
func (s Segment2D) Mid() mgl64.Vec2 {
	return s.P0.Add(s.P1).Mul(0.5)
}

// HalfLength returns half the segment length.
func (s Segment2D) HalfLength() float64 {
	return s.P1.Sub(s.P0).Len() / 2
}

// Dir returns the unit direction from P0 to P1. A zero-length segment
// yields the zero vector.
func (s Segment2D) Dir() mgl64.Vec2 {
	d := s.P1.Sub(s.P0)
	l := d.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return d.Mul(1 / l)
}

// Translate moves both endpoints by v.
func (s *Segment2D) Translate(v mgl64.Vec2) {
	s.P0 = s.P0.Add(v)
	s.P1 = s.P1.Add(v)
}

// Rotate rotates the segment about its midpoint by angle radians
// (counter-clockwise). Length and midpoint are preserved.
func (s *Segment2D) Rotate(angle float64) {
	m := s.Mid()
	s.P0 = rotateAbout(s.P0, m, angle)
	s.P1 = rotateAbout(s.P1, m, angle)
}

func rotateAbout(p, c mgl64.Vec2, angle float64) mgl64.Vec2 {
	sin, cos := math.Sincos(angle)
	d := p.Sub(c)
	return mgl64.Vec2{
		c.X() + d.X()*cos - d.Y()*sin,
		c.Y() + d.X()*sin + d.Y()*cos,
	}
}

// cross2 is the scalar z-component of the 2D cross product a x b.
func cross2(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
