// Package estimate solves the back-projection problem: recovering the
// 3D circles whose perspective image is a sketched 2D ellipse.
//
// A single ellipse is the image of a one-parameter family of circles
// lying on the viewing cone, and for any fixed scale the inverse is
// still two-fold ambiguous (two circle orientations cut the cone in the
// same conic). Each estimator operation collapses the family with one
// auxiliary constraint and returns both remaining algebraic solutions;
// disambiguation between the two is the caller's job (see select.go).
package estimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/ardael/gencyl/pkg/camera"
	"github.com/ardael/gencyl/pkg/geom"
)

// Estimator back-projects device-coordinate ellipses through a fixed
// pinhole camera.
type Estimator struct {
	cam *camera.Projection
}

// New returns an estimator for the given camera.
func New(cam *camera.Projection) *Estimator {
	return &Estimator{cam: cam}
}

// coneFrame is the eigen-decomposition of the viewing cone through an
// ellipse, normalized to the signature lambda1 >= lambda2 > 0 > lambda3.
// In the eigenframe the cone is l1·X² + l2·Y² + l3·Z² = 0 and the two
// circular-section orientations are (±g, 0, h).
type coneFrame struct {
	l1, l2, l3 float64
	v1, v2, v3 mgl64.Vec3
	g, h       float64 // sin/cos of the section tilt angle
}

// coneOf builds the viewing-cone quadric of the ellipse and
// eigen-decomposes it. ok is false for degenerate input (collapsed
// ellipse, wrong conic signature, or failed factorization).
func (e *Estimator) coneOf(ell *geom.Ellipse2D) (coneFrame, bool) {
	var f coneFrame
	if ell.Degenerate() {
		return f, false
	}

	// Conic coefficients on the image plane at the near distance.
	proj := ell.Transformed(e.cam.DeviceToProjected)
	c := geom.ConicMatrix(proj.Conic())
	n := e.cam.Near

	// A point (x,y,z) is on the cone when the ray through it meets the
	// ellipse on the plane z = -near; substituting the homogeneous map
	// (x,y,z) -> (n·x, n·y, -z) into the conic conjugates its matrix by
	// diag(n, n, -1).
	s := [3]float64{n, n, -1}
	m := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			m.SetSym(i, j, s[i]*c.At(i, j)*s[j])
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(m, true) {
		return f, false
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	col := func(j int) mgl64.Vec3 {
		return mgl64.Vec3{vecs.At(0, j), vecs.At(1, j), vecs.At(2, j)}
	}

	// The quadric is defined up to sign; normalize to two positive and
	// one negative eigenvalue.
	neg := 0
	for _, v := range vals {
		if v < 0 {
			neg++
		}
	}
	sign := 1.0
	if neg == 2 {
		sign = -1.0
	} else if neg != 1 {
		return f, false
	}

	var pos []int
	negIdx := -1
	for i, v := range vals {
		if sign*v > 0 {
			pos = append(pos, i)
		} else if sign*v < 0 {
			negIdx = i
		}
	}
	if len(pos) != 2 || negIdx < 0 {
		return f, false
	}
	// Order the positive pair so lambda1 >= lambda2.
	i1, i2 := pos[0], pos[1]
	if sign*vals[i1] < sign*vals[i2] {
		i1, i2 = i2, i1
	}

	f.l1, f.v1 = sign*vals[i1], col(i1)
	f.l2, f.v2 = sign*vals[i2], col(i2)
	f.l3, f.v3 = sign*vals[negIdx], col(negIdx)

	span := f.l1 - f.l3
	if span <= 0 {
		return f, false
	}
	f.g = math.Sqrt(math.Max(0, (f.l1-f.l2)/span))
	f.h = math.Sqrt(math.Max(0, (f.l2-f.l3)/span))
	if f.h == 0 {
		return f, false
	}
	return f, true
}

// candidate assembles the circle for one branch (s = ±1) of the two-fold
// family, with the free scale c3 along the cone axis.
func (f coneFrame) candidate(s, c3 float64) geom.Circle3D {
	fromEigen := func(x, y, z float64) mgl64.Vec3 {
		return f.v1.Mul(x).Add(f.v2.Mul(y)).Add(f.v3.Mul(z))
	}
	c1 := f.l3 / f.l1 * (s * f.g / f.h) * c3
	c := geom.Circle3D{
		Center: fromEigen(c1, 0, c3),
		Normal: fromEigen(s*f.g, 0, f.h).Normalize(),
		Radius: math.Sqrt(-f.l3/f.l1) * math.Abs(c3) / f.h,
	}
	// Canonical orientation: the normal faces the camera at the origin.
	if c.Normal.Dot(c.Center) > 0 {
		c.FlipNormal()
	}
	return c
}

// axisZ returns the world z-component of the unit-scale center direction
// for branch s: the center is c3 times this vector.
func (f coneFrame) axisZ(s float64) float64 {
	c1 := f.l3 / f.l1 * (s * f.g / f.h)
	return f.v1.Z()*c1 + f.v3.Z()
}

// FixedDepth returns the circles whose image is the ellipse and whose
// center lies at the given depth (negative, in front of the camera).
// Zero, one, or two circles are returned; zero means no estimate is
// available and the caller must leave existing geometry untouched.
func (e *Estimator) FixedDepth(ell *geom.Ellipse2D, depth float64) []geom.Circle3D {
	f, ok := e.coneOf(ell)
	if !ok {
		return nil
	}
	var out []geom.Circle3D
	for _, s := range []float64{1, -1} {
		mz := f.axisZ(s)
		if math.Abs(mz) < 1e-15 {
			continue
		}
		out = append(out, f.candidate(s, depth/mz))
	}
	return out
}

// FixedRadius returns the circles whose image is the ellipse and whose
// radius equals r. The depth sign is chosen so the circle lies in front
// of the camera.
func (e *Estimator) FixedRadius(ell *geom.Ellipse2D, r float64) []geom.Circle3D {
	if r <= 0 {
		return nil
	}
	f, ok := e.coneOf(ell)
	if !ok {
		return nil
	}
	c3mag := r * f.h / math.Sqrt(-f.l3/f.l1)
	var out []geom.Circle3D
	for _, s := range []float64{1, -1} {
		mz := f.axisZ(s)
		if math.Abs(mz) < 1e-15 {
			continue
		}
		c3 := c3mag
		if mz > 0 {
			c3 = -c3mag
		}
		out = append(out, f.candidate(s, c3))
	}
	return out
}

// Unit returns the unit-radius circles for the ellipse, used for
// direction-only probing.
func (e *Estimator) Unit(ell *geom.Ellipse2D) []geom.Circle3D {
	return e.FixedRadius(ell, 1)
}

// Orthographic ignores perspective foreshortening entirely: center and
// radius are scaled from the major-axis midpoint and half-length by the
// ratio of the target depth to the near distance. Cheap single-solution
// approximation of the exact cone intersection.
func (e *Estimator) Orthographic(ell *geom.Ellipse2D, depth float64) []geom.Circle3D {
	if ell.Degenerate() {
		return nil
	}
	proj := ell.Transformed(e.cam.DeviceToProjected)
	s := -depth / e.cam.Near
	mid := proj.MajorAxis().Mid()
	return []geom.Circle3D{{
		Center: mgl64.Vec3{mid.X() * s, mid.Y() * s, depth},
		Normal: mgl64.Vec3{0, 0, 1},
		Radius: proj.MajorAxis().HalfLength() * s,
	}}
}

// Orthogonal back-projects the ellipse at the given depth and then
// constrains the circle's plane to be orthogonal to refDir, so a
// component's first cross-section starts perpendicular to the initial
// sketch axis. clickDev (the minor-axis click, device coordinates)
// disambiguates orientation within the two-fold family via the same
// rule as SelectFirst.
func (e *Estimator) Orthogonal(ell *geom.Ellipse2D, depth float64, refDir mgl64.Vec3, clickDev mgl64.Vec2, cam Camera) []geom.Circle3D {
	if refDir.Len() == 0 {
		return nil
	}
	cands := e.FixedDepth(ell, depth)
	if len(cands) == 0 {
		return nil
	}
	idx := SelectFirst(cands, clickDev, cam)
	c := cands[idx]
	n := refDir.Normalize()
	// Keep the orientation of the visually selected candidate.
	if n.Dot(c.Normal) < 0 {
		n = n.Mul(-1)
	}
	c.Normal = n
	return []geom.Circle3D{c}
}
