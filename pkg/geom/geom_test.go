package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEllipse(cx, cy, smj, smn, angle float64) Ellipse2D {
	var e Ellipse2D
	c := mgl64.Vec2{cx, cy}
	dir := mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
	e.UpdateMajorAxis(c.Sub(dir.Mul(smj)), c.Add(dir.Mul(smj)))
	perp := mgl64.Vec2{-dir.Y(), dir.X()}
	e.UpdateMinorAxis(c.Add(perp.Mul(smn)))
	return e
}

func TestEllipseAxisUpdates(t *testing.T) {
	var e Ellipse2D
	e.UpdateMajorAxis(mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0})
	assert.Equal(t, mgl64.Vec2{50, 0}, e.Center)
	assert.Equal(t, 50.0, e.SemiMajor)
	assert.True(t, e.Degenerate(), "minor axis not set yet")

	e.UpdateMinorAxis(mgl64.Vec2{50, 30})
	assert.Equal(t, 30.0, e.SemiMinor)
	assert.Equal(t, mgl64.Vec2{50, -30}, e.Points[MinorP1], "minor endpoint mirrors through the center")
	assert.False(t, e.Degenerate())
}

func TestEllipseConicContainsEndpoints(t *testing.T) {
	e := buildEllipse(12, -7, 40, 15, 0.6)
	k := e.Conic()
	for i, p := range e.Points {
		x, y := p.X(), p.Y()
		v := k[0]*x*x + k[1]*x*y + k[2]*y*y + k[3]*x + k[4]*y + k[5]
		// Scale by the constant term for a meaningful tolerance.
		assert.InDelta(t, 0, v/math.Abs(k[5]), 1e-9, "endpoint %d on conic", i)
	}
}

func TestEllipseConicRoundTrip(t *testing.T) {
	want := buildEllipse(-30, 55, 80, 22, -1.1)
	got, err := EllipseFromConic(want.Conic())
	require.NoError(t, err)
	assert.InDelta(t, want.Center.X(), got.Center.X(), 1e-8)
	assert.InDelta(t, want.Center.Y(), got.Center.Y(), 1e-8)
	assert.InDelta(t, want.SemiMajor, got.SemiMajor, 1e-8)
	assert.InDelta(t, want.SemiMinor, got.SemiMinor, 1e-8)
}

func TestFitConicRecoversEllipse(t *testing.T) {
	src := buildEllipse(5, 9, 33, 14, 0.3)
	a, b := src.SemiMajor, src.SemiMinor
	sin, cos := math.Sincos(src.Angle())
	var pts []mgl64.Vec2
	for i := 0; i < 12; i++ {
		th := float64(i) / 12 * 2 * math.Pi
		lx, ly := a*math.Cos(th), b*math.Sin(th)
		pts = append(pts, mgl64.Vec2{
			src.Center.X() + lx*cos - ly*sin,
			src.Center.Y() + lx*sin + ly*cos,
		})
	}

	k, err := FitConic(pts)
	require.NoError(t, err)
	got, err := EllipseFromConic(k)
	require.NoError(t, err)
	assert.InDelta(t, src.SemiMajor, got.SemiMajor, 1e-6)
	assert.InDelta(t, src.SemiMinor, got.SemiMinor, 1e-6)
}

func TestApplySnappedMajorKeepsMinorRelation(t *testing.T) {
	e := buildEllipse(50, 50, 40, 10, 0)
	anchorOffset := e.Points[MinorP0].Sub(e.Center)

	e.ApplySnappedMajor(Segment2D{P0: mgl64.Vec2{15, 52}, P1: mgl64.Vec2{95, 52}})
	assert.Equal(t, mgl64.Vec2{55, 52}, e.Center)
	assert.Equal(t, 40.0, e.SemiMajor)
	assert.Equal(t, 10.0, e.SemiMinor, "semi-minor preserved")
	assert.Equal(t, anchorOffset, e.Points[MinorP0].Sub(e.Center), "anchor carried rigidly")
}

func TestSegmentRotateAboutMidpoint(t *testing.T) {
	s := Segment2D{P0: mgl64.Vec2{0, 0}, P1: mgl64.Vec2{10, 0}}
	s.Rotate(math.Pi / 2)
	assert.InDelta(t, 5, s.P0.X(), 1e-12)
	assert.InDelta(t, -5, s.P0.Y(), 1e-12)
	assert.InDelta(t, 5, s.P1.X(), 1e-12)
	assert.InDelta(t, 5, s.P1.Y(), 1e-12)
	assert.InDelta(t, 5.0, s.HalfLength(), 1e-12)
}

func TestCircleValid(t *testing.T) {
	good := Circle3D{Normal: mgl64.Vec3{0, 0, 1}, Radius: 5}
	assert.True(t, good.Valid())

	zeroRadius := Circle3D{Normal: mgl64.Vec3{0, 0, 1}}
	assert.False(t, zeroRadius.Valid())

	unnormalized := Circle3D{Normal: mgl64.Vec3{0, 0, 2}, Radius: 5}
	assert.False(t, unnormalized.Valid())

	nanRadius := Circle3D{Normal: mgl64.Vec3{0, 0, 1}, Radius: math.NaN()}
	assert.False(t, nanRadius.Valid())
}

func TestCircleBasisOrthonormal(t *testing.T) {
	c := Circle3D{Normal: mgl64.Vec3{0.2, -0.5, 1}.Normalize(), Radius: 3}
	u, v := c.Basis()
	assert.InDelta(t, 1, u.Len(), 1e-12)
	assert.InDelta(t, 1, v.Len(), 1e-12)
	assert.InDelta(t, 0, u.Dot(v), 1e-12)
	assert.InDelta(t, 0, u.Dot(c.Normal), 1e-12)

	p := c.Point(1.2)
	assert.InDelta(t, c.Radius, p.Sub(c.Center).Len(), 1e-12)
	assert.InDelta(t, 0, p.Sub(c.Center).Dot(c.Normal), 1e-12)
}
