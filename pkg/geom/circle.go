package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Circle3D is a planar circle in camera space: the cross-section
// primitive of a generalized cylinder. Normal is unit length once the
// circle is finalized.
type Circle3D struct {
	Center mgl64.Vec3
	Normal mgl64.Vec3
	Radius float64
}

// Valid reports whether the circle is a usable cross-section.
func (c Circle3D) Valid() bool {
	return c.Radius > 0 && math.Abs(c.Normal.Len()-1) < 1e-9
}

// Basis returns two orthonormal vectors spanning the circle's plane.
// The first axis is chosen deterministically from the normal.
func (c Circle3D) Basis() (u, v mgl64.Vec3) {
	n := c.Normal
	// Pick the world axis least aligned with the normal as the seed.
	seed := mgl64.Vec3{1, 0, 0}
	if math.Abs(n.X()) > math.Abs(n.Y()) {
		seed = mgl64.Vec3{0, 1, 0}
	}
	u = seed.Sub(n.Mul(seed.Dot(n))).Normalize()
	v = n.Cross(u)
	return u, v
}

// Point returns the point on the circle at parameter angle theta,
// measured in the plane basis returned by Basis.
func (c Circle3D) Point(theta float64) mgl64.Vec3 {
	u, v := c.Basis()
	sin, cos := math.Sincos(theta)
	return c.Center.Add(u.Mul(c.Radius * cos)).Add(v.Mul(c.Radius * sin))
}

// DualQuadric returns the 4x4 symmetric dual quadric of the circle. A
// plane p (as a homogeneous row [m d]) is tangent to the circle exactly
// when pᵀ Q* p = 0, with Q* = [[ccᵀ − r²(I − nnᵀ), c], [cᵀ, 1]].
// Projecting Q* by a 3x4 camera matrix P gives the dual conic of the
// circle's image, P Q* Pᵀ.
func (c Circle3D) DualQuadric() mgl64.Mat4 {
	n := c.Normal
	ct := c.Center
	r2 := c.Radius * c.Radius

	var q mgl64.Mat4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ident := 0.0
			if i == j {
				ident = 1.0
			}
			q.Set(i, j, ct[i]*ct[j]-r2*(ident-n[i]*n[j]))
		}
		q.Set(i, 3, ct[i])
		q.Set(3, i, ct[i])
	}
	q.Set(3, 3, 1)
	return q
}

// FlipNormal reverses the circle's orientation in place.
func (c *Circle3D) FlipNormal() {
	c.Normal = c.Normal.Mul(-1)
}
