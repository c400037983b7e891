// Package geom provides the geometric value types shared by the
// modeller: 2D ellipses and segments sketched over the image, and the
// 3D circles recovered from them by back-projection.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis endpoint indices into Ellipse2D.Points.
const (
	MajorP0 = 0 // first major-axis endpoint (first click)
	MajorP1 = 1 // second major-axis endpoint (second click)
	MinorP0 = 2 // minor-axis endpoint on the clicked side (spine anchor)
	MinorP1 = 3 // mirrored minor-axis endpoint
)

// Ellipse2D is a sketched profile ellipse. It keeps two representations
// in sync: the parametric form (center, semi-axes, the four axis
// endpoints) and the algebraic conic coefficients, which are derived on
// demand by Conic.
type Ellipse2D struct {
	Center    mgl64.Vec2
	SemiMajor float64
	SemiMinor float64
	// Points holds the four axis endpoints, indexed by MajorP0..MinorP1.
	Points [4]mgl64.Vec2
}

// UpdateMajorAxis fixes the major axis from its two endpoints. The minor
// axis collapses to the center until UpdateMinorAxis is called.
func (e *Ellipse2D) UpdateMajorAxis(p0, p1 mgl64.Vec2) {
	e.Center = p0.Add(p1).Mul(0.5)
	e.SemiMajor = p1.Sub(p0).Len() / 2
	e.SemiMinor = 0
	e.Points[MajorP0] = p0
	e.Points[MajorP1] = p1
	e.Points[MinorP0] = e.Center
	e.Points[MinorP1] = e.Center
}

// UpdateMinorAxis fixes the minor axis from one endpoint; the other is
// its mirror through the center. The given point becomes the spine
// anchor (Points[MinorP0]).
func (e *Ellipse2D) UpdateMinorAxis(p mgl64.Vec2) {
	e.SemiMinor = p.Sub(e.Center).Len()
	e.Points[MinorP0] = p
	e.Points[MinorP1] = e.Center.Mul(2).Sub(p)
}

// MajorAxis returns the major axis as a segment from MajorP0 to MajorP1.
func (e *Ellipse2D) MajorAxis() Segment2D {
	return Segment2D{P0: e.Points[MajorP0], P1: e.Points[MajorP1]}
}

// MinorAxis returns the minor axis as a segment from the spine anchor to
// its mirror.
func (e *Ellipse2D) MinorAxis() Segment2D {
	return Segment2D{P0: e.Points[MinorP0], P1: e.Points[MinorP1]}
}

// Angle returns the rotation of the major axis in radians.
func (e *Ellipse2D) Angle() float64 {
	d := e.Points[MajorP1].Sub(e.Points[MajorP0])
	return math.Atan2(d.Y(), d.X())
}

// Translate moves the ellipse by v.
func (e *Ellipse2D) Translate(v mgl64.Vec2) {
	e.Center = e.Center.Add(v)
	for i := range e.Points {
		e.Points[i] = e.Points[i].Add(v)
	}
}

// Rotate rotates the ellipse about its center by angle radians.
func (e *Ellipse2D) Rotate(angle float64) {
	for i := range e.Points {
		e.Points[i] = rotateAbout(e.Points[i], e.Center, angle)
	}
}

// ApplySnappedMajor replaces the major axis with a snapped chord. The
// minor axis is carried along rigidly so the spine anchor keeps its
// relation to the chord center; the semi-minor length is preserved.
func (e *Ellipse2D) ApplySnappedMajor(seg Segment2D) {
	shift := seg.Mid().Sub(e.Center)
	e.Points[MinorP0] = e.Points[MinorP0].Add(shift)
	e.Points[MinorP1] = e.Points[MinorP1].Add(shift)
	e.Points[MajorP0] = seg.P0
	e.Points[MajorP1] = seg.P1
	e.Center = seg.Mid()
	e.SemiMajor = seg.HalfLength()
}

// Transformed returns a copy of the ellipse with every defining point
// mapped through f. The mapping must be a similarity (uniform scale,
// rotation, translation, optional mirror) for the result to remain a
// valid ellipse, which holds for the device/projected conversions.
func (e *Ellipse2D) Transformed(f func(mgl64.Vec2) mgl64.Vec2) Ellipse2D {
	var out Ellipse2D
	out.UpdateMajorAxis(f(e.Points[MajorP0]), f(e.Points[MajorP1]))
	out.UpdateMinorAxis(f(e.Points[MinorP0]))
	return out
}

// Conic derives the algebraic coefficients [A B C D E F] of
// Ax² + Bxy + Cy² + Dx + Ey + F = 0 from the parametric form.
func (e *Ellipse2D) Conic() [6]float64 {
	a, b := e.SemiMajor, e.SemiMinor
	sin, cos := math.Sincos(e.Angle())
	x0, y0 := e.Center.X(), e.Center.Y()

	A := a*a*sin*sin + b*b*cos*cos
	B := 2 * (b*b - a*a) * sin * cos
	C := a*a*cos*cos + b*b*sin*sin
	D := -2*A*x0 - B*y0
	E := -B*x0 - 2*C*y0
	F := A*x0*x0 + B*x0*y0 + C*y0*y0 - a*a*b*b
	return [6]float64{A, B, C, D, E, F}
}

// Degenerate reports whether the ellipse cannot support a back-projection
// (either axis has collapsed).
func (e *Ellipse2D) Degenerate() bool {
	const eps = 1e-12
	return e.SemiMajor < eps || e.SemiMinor < eps
}
