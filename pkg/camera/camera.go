// Package camera models the pinhole camera the sketches are interpreted
// through. It defines the three coordinate spaces of the modeller and
// the conversions between them:
//
//   - device: raw pointer pixels, origin bottom-left, y up;
//   - projected: metric coordinates on the image plane at the near
//     distance, origin on the optical axis;
//   - world: camera-frame 3D coordinates at arbitrary depth, the camera
//     at the origin looking down -Z.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Projection holds the pinhole intrinsics. Immutable for the session.
type Projection struct {
	Width  int     // viewport width in pixels
	Height int     // viewport height in pixels
	FOVY   float64 // vertical field of view, degrees
	Near   float64 // near plane distance (positive)
	Far    float64 // far plane distance (positive)
}

// New returns projection parameters for the session. The values are
// immutable for the session's lifetime.
func New(width, height int, fovy, near, far float64) *Projection {
	return &Projection{Width: width, Height: height, FOVY: fovy, Near: near, Far: far}
}

// Aspect returns the viewport aspect ratio.
func (p *Projection) Aspect() float64 {
	return float64(p.Width) / float64(p.Height)
}

// HalfHeight returns half the image plane height at the near distance.
func (p *Projection) HalfHeight() float64 {
	return p.Near * math.Tan(mgl64.DegToRad(p.FOVY)/2)
}

// HalfWidth returns half the image plane width at the near distance.
func (p *Projection) HalfWidth() float64 {
	return p.HalfHeight() * p.Aspect()
}

// MidDepth returns the default sketching depth, halfway between the
// near and far planes (negative, in front of the camera).
func (p *Projection) MidDepth() float64 {
	return -(p.Near + p.Far) / 2
}

// DeviceToProjected maps device pixels to the image plane at the near
// distance.
func (p *Projection) DeviceToProjected(d mgl64.Vec2) mgl64.Vec2 {
	x := (2*d.X()/float64(p.Width) - 1) * p.HalfWidth()
	y := (2*d.Y()/float64(p.Height) - 1) * p.HalfHeight()
	return mgl64.Vec2{x, y}
}

// ProjectedToDevice is the inverse of DeviceToProjected.
func (p *Projection) ProjectedToDevice(pr mgl64.Vec2) mgl64.Vec2 {
	x := (pr.X()/p.HalfWidth() + 1) / 2 * float64(p.Width)
	y := (pr.Y()/p.HalfHeight() + 1) / 2 * float64(p.Height)
	return mgl64.Vec2{x, y}
}

// ProjectedToWorld lifts an image plane point to the given depth along
// its viewing ray. depth must be negative (in front of the camera).
func (p *Projection) ProjectedToWorld(pr mgl64.Vec2, depth float64) mgl64.Vec3 {
	s := -depth / p.Near
	return mgl64.Vec3{pr.X() * s, pr.Y() * s, depth}
}

// WorldToProjected drops a camera-frame point onto the image plane at
// the near distance.
func (p *Projection) WorldToProjected(w mgl64.Vec3) mgl64.Vec2 {
	s := -p.Near / w.Z()
	return mgl64.Vec2{w.X() * s, w.Y() * s}
}

// DeviceToWorld composes DeviceToProjected and ProjectedToWorld.
func (p *Projection) DeviceToWorld(d mgl64.Vec2, depth float64) mgl64.Vec3 {
	return p.ProjectedToWorld(p.DeviceToProjected(d), depth)
}

// WorldToDevice composes WorldToProjected and ProjectedToDevice.
func (p *Projection) WorldToDevice(w mgl64.Vec3) mgl64.Vec2 {
	return p.ProjectedToDevice(p.WorldToProjected(w))
}

// Matrix returns the perspective projection matrix.
func (p *Projection) Matrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(p.FOVY), p.Aspect(), p.Near, p.Far)
}

// WindowMatrix returns the viewport mapping from normalized device
// coordinates to device pixels.
func (p *Projection) WindowMatrix() mgl64.Mat4 {
	w, h := float64(p.Width), float64(p.Height)
	m := mgl64.Ident4()
	m.Set(0, 0, w/2)
	m.Set(0, 3, w/2)
	m.Set(1, 1, h/2)
	m.Set(1, 3, h/2)
	m.Set(2, 2, 0.5)
	m.Set(2, 3, 0.5)
	return m
}

// ProjectToDevice runs a camera-frame point through the given projection
// and window matrices, the path the rendering collaborator uses. With
// the matrices from Matrix and WindowMatrix it agrees with
// WorldToDevice for points between the near and far planes.
func ProjectToDevice(w mgl64.Vec3, proj, window mgl64.Mat4) mgl64.Vec2 {
	clip := proj.Mul4x1(w.Vec4(1))
	if clip.W() == 0 {
		return mgl64.Vec2{}
	}
	ndc := clip.Mul(1 / clip.W())
	win := window.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), ndc.Z(), 1})
	return mgl64.Vec2{win.X(), win.Y()}
}
