package raster

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/geom"
)

// Snapper probe length tuning, as a fraction of the chord length.
const (
	DefaultFraction = 0.35
	FractionStep    = 0.05
	MinFraction     = 0.1
	MaxFraction     = 1.0
)

// Snapper pulls sketched chords onto image evidence. Each endpoint is
// probed along the chord direction, inward and outward, over a distance
// proportional to the chord length; mask boundaries or gradient maxima
// found along the probes replace the endpoints.
type Snapper struct {
	ref      *Reference
	frame    Frame
	fraction float64
}

// NewSnapper returns a snapper over the given evidence. The frame maps
// the chord's device coordinates onto the reference raster.
func NewSnapper(ref *Reference, frame Frame) *Snapper {
	return &Snapper{ref: ref, frame: frame, fraction: DefaultFraction}
}

// Fraction returns the current probe-length fraction.
func (s *Snapper) Fraction() float64 {
	return s.fraction
}

// IncrementFraction lengthens the probes by one step, saturating at the
// maximum.
func (s *Snapper) IncrementFraction() {
	s.fraction += FractionStep
	if s.fraction > MaxFraction {
		s.fraction = MaxFraction
	}
}

// DecrementFraction shortens the probes by one step, saturating at the
// minimum.
func (s *Snapper) DecrementFraction() {
	s.fraction -= FractionStep
	if s.fraction < MinFraction {
		s.fraction = MinFraction
	}
}

// SnapSegment snaps the chord to the reference. Both endpoints snapped
// moves both; a one-sided hit mirrors the missing endpoint through the
// original chord center; no hit returns the chord unchanged. Snapped
// endpoints always lie inside the raster.
func (s *Snapper) SnapSegment(seg geom.Segment2D) geom.Segment2D {
	dir := seg.Dir()
	if dir.Len() == 0 || s.ref == nil {
		return seg
	}
	probeLen := seg.HalfLength() * 2 * s.fraction
	mid := seg.Mid()

	p0, ok0 := s.snapEndpoint(seg.P0, dir.Mul(probeLen))
	p1, ok1 := s.snapEndpoint(seg.P1, dir.Mul(-probeLen))

	switch {
	case ok0 && ok1:
		return geom.Segment2D{P0: p0, P1: p1}
	case ok0:
		return geom.Segment2D{P0: p0, P1: s.clamp(mid.Mul(2).Sub(p0))}
	case ok1:
		return geom.Segment2D{P0: s.clamp(mid.Mul(2).Sub(p1)), P1: p1}
	default:
		return seg
	}
}

// snapEndpoint probes from pt towards the chord interior (inward) and
// away from it (outward). With a mask, a boundary crossing wins and an
// inward crossing beats an outward one; with gradients only, the
// stronger of the two qualifying maxima wins.
func (s *Snapper) snapEndpoint(pt, inward mgl64.Vec2) (mgl64.Vec2, bool) {
	inHit, inOK := s.castProbe(pt, pt.Add(inward))
	outHit, outOK := s.castProbe(pt, pt.Sub(inward))

	if s.ref.HasMask() {
		switch {
		case inOK:
			return s.frame.ToDevice(inHit), true
		case outOK:
			return s.frame.ToDevice(outHit), true
		}
		return pt, false
	}

	switch {
	case inOK && outOK:
		g := s.ref.Gradient
		if g.At(inHit.X, inHit.Y) >= g.At(outHit.X, outHit.Y) {
			return s.frame.ToDevice(inHit), true
		}
		return s.frame.ToDevice(outHit), true
	case inOK:
		return s.frame.ToDevice(inHit), true
	case outOK:
		return s.frame.ToDevice(outHit), true
	}
	return pt, false
}

// castProbe clips the probe to the raster and runs the evidence cast
// along it.
func (s *Snapper) castProbe(from, to mgl64.Vec2) (Pixel, bool) {
	cf, ct, ok := s.frame.Bounds().ClipSegment(from, to)
	if !ok {
		return Pixel{}, false
	}
	a, b := s.frame.ToPixel(cf), s.frame.ToPixel(ct)
	if s.ref.HasMask() {
		return castMask(s.ref.Mask, a, b)
	}
	return castGradient(s.ref.Gradient, a, b)
}

func (s *Snapper) clamp(d mgl64.Vec2) mgl64.Vec2 {
	return s.frame.ToDevice(s.frame.Bounds().Clamp(s.frame.ToPixel(d)))
}
