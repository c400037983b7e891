package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// ConicMatrix returns the symmetric 3x3 matrix form of algebraic conic
// coefficients [A B C D E F].
func ConicMatrix(k [6]float64) mgl64.Mat3 {
	var m mgl64.Mat3
	m.Set(0, 0, k[0])
	m.Set(0, 1, k[1]/2)
	m.Set(1, 0, k[1]/2)
	m.Set(1, 1, k[2])
	m.Set(0, 2, k[3]/2)
	m.Set(2, 0, k[3]/2)
	m.Set(1, 2, k[4]/2)
	m.Set(2, 1, k[4]/2)
	m.Set(2, 2, k[5])
	return m
}

// ConicFromDual converts a dual conic matrix to point-conic coefficients
// by taking the adjugate (the inverse up to scale).
func ConicFromDual(d mgl64.Mat3) [6]float64 {
	adj := adjugate3(d)
	return [6]float64{
		adj.At(0, 0),
		adj.At(0, 1) + adj.At(1, 0),
		adj.At(1, 1),
		adj.At(0, 2) + adj.At(2, 0),
		adj.At(1, 2) + adj.At(2, 1),
		adj.At(2, 2),
	}
}

func adjugate3(m mgl64.Mat3) mgl64.Mat3 {
	cof := func(r0, r1, c0, c1 int) float64 {
		return m.At(r0, c0)*m.At(r1, c1) - m.At(r0, c1)*m.At(r1, c0)
	}
	var a mgl64.Mat3
	a.Set(0, 0, cof(1, 2, 1, 2))
	a.Set(0, 1, -cof(0, 2, 1, 2))
	a.Set(0, 2, cof(0, 1, 1, 2))
	a.Set(1, 0, -cof(1, 2, 0, 2))
	a.Set(1, 1, cof(0, 2, 0, 2))
	a.Set(1, 2, -cof(0, 1, 0, 2))
	a.Set(2, 0, cof(1, 2, 0, 1))
	a.Set(2, 1, -cof(0, 2, 0, 1))
	a.Set(2, 2, cof(0, 1, 0, 1))
	return a
}

// FitConic fits algebraic conic coefficients to a set of plane points by
// taking the null space of the design matrix (smallest right singular
// vector). At least six points are required; for points sampled exactly
// from a conic the residual is zero to rounding.
func FitConic(pts []mgl64.Vec2) ([6]float64, error) {
	var k [6]float64
	if len(pts) < 6 {
		return k, fmt.Errorf("conic fit needs at least 6 points, got %d", len(pts))
	}
	a := mat.NewDense(len(pts), 6, nil)
	for i, p := range pts {
		x, y := p.X(), p.Y()
		a.SetRow(i, []float64{x * x, x * y, y * y, x, y, 1})
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return k, fmt.Errorf("conic fit: SVD factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)
	_, cols := v.Dims()
	for i := 0; i < 6; i++ {
		k[i] = v.At(i, cols-1)
	}
	return k, nil
}

// EllipseFromConic recovers the parametric ellipse from algebraic
// coefficients. It fails if the conic is not a real ellipse.
func EllipseFromConic(k [6]float64) (Ellipse2D, error) {
	var e Ellipse2D
	A, B, C, D, E, F := k[0], k[1], k[2], k[3], k[4], k[5]

	det := 4*A*C - B*B
	if det <= 0 {
		return e, fmt.Errorf("conic is not an ellipse (discriminant %g)", det)
	}
	// Center solves the gradient system [2A B; B 2C] c = -[D; E].
	x0 := (B*E - 2*C*D) / det
	y0 := (B*D - 2*A*E) / det
	// Constant term of the conic translated to its center.
	fc := F + (D*x0+E*y0)/2

	// Eigen-decomposition of the 2x2 quadratic part.
	tr := A + C
	disc := math.Sqrt((A-C)*(A-C) + B*B)
	mu1 := (tr + disc) / 2
	mu2 := (tr - disc) / 2
	if mu1*fc >= 0 || mu2*fc >= 0 {
		return e, fmt.Errorf("conic has no real ellipse points")
	}

	// mu2 <= mu1, so mu2 yields the larger (major) semi-axis.
	a := math.Sqrt(-fc / mu2)
	b := math.Sqrt(-fc / mu1)

	// Major-axis direction: eigenvector of mu2.
	var dir mgl64.Vec2
	if math.Abs(B) > 1e-15 {
		dir = mgl64.Vec2{B / 2, mu2 - A}.Normalize()
	} else if A <= C {
		dir = mgl64.Vec2{1, 0}
	} else {
		dir = mgl64.Vec2{0, 1}
	}

	c := mgl64.Vec2{x0, y0}
	e.UpdateMajorAxis(c.Sub(dir.Mul(a)), c.Add(dir.Mul(a)))
	perp := mgl64.Vec2{-dir.Y(), dir.X()}
	e.UpdateMinorAxis(c.Add(perp.Mul(b)))
	return e, nil
}
