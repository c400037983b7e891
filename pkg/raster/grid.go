// Package raster holds the image-side of the modeller: binary masks and
// gradient maps derived from the reference photograph, and the snapper
// that pulls sketched chords onto image evidence.
//
// Raster pixels are y-down with the origin at the top-left, as decoded
// images are. Device coordinates are y-up; Frame converts between the
// two.
package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pixel is an integer raster coordinate, y down.
type Pixel struct {
	X, Y int
}

// Rect is an inclusive pixel rectangle.
type Rect struct {
	Min, Max Pixel
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Pixel) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Clamp moves p to the nearest pixel inside the rectangle.
func (r Rect) Clamp(p Pixel) Pixel {
	if p.X < r.Min.X {
		p.X = r.Min.X
	}
	if p.X > r.Max.X {
		p.X = r.Max.X
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	}
	if p.Y > r.Max.Y {
		p.Y = r.Max.Y
	}
	return p
}

// ClipSegment clips the segment a-b to the rectangle (Liang-Barsky in
// continuous pixel coordinates). ok is false when the segment lies
// entirely outside.
func (r Rect) ClipSegment(a, b mgl64.Vec2) (ca, cb mgl64.Vec2, ok bool) {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	t0, t1 := 0.0, 1.0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if !clip(-dx, a.X()-float64(r.Min.X)) ||
		!clip(dx, float64(r.Max.X)-a.X()) ||
		!clip(-dy, a.Y()-float64(r.Min.Y)) ||
		!clip(dy, float64(r.Max.Y)-a.Y()) {
		return a, b, false
	}
	ca = mgl64.Vec2{a.X() + t0*dx, a.Y() + t0*dy}
	cb = mgl64.Vec2{a.X() + t1*dx, a.Y() + t1*dy}
	return ca, cb, true
}

// Frame converts between device coordinates (y up, origin bottom-left)
// and raster pixels (y down, origin top-left) for a viewport of the
// given size.
type Frame struct {
	Width, Height int
}

// ToPixel rounds a device point to its raster pixel.
func (f Frame) ToPixel(d mgl64.Vec2) Pixel {
	return Pixel{
		X: int(math.Round(d.X())),
		Y: f.Height - 1 - int(math.Round(d.Y())),
	}
}

// ToDevice returns the device coordinates of a pixel center.
func (f Frame) ToDevice(p Pixel) mgl64.Vec2 {
	return mgl64.Vec2{float64(p.X), float64(f.Height - 1 - p.Y)}
}

// Bounds returns the frame's pixel rectangle.
func (f Frame) Bounds() Rect {
	return Rect{Max: Pixel{X: f.Width - 1, Y: f.Height - 1}}
}

// Mask is a binary foreground/background image.
type Mask struct {
	Width, Height int
	bits          []bool
}

// NewMask returns an all-background mask of the given size.
func NewMask(w, h int) *Mask {
	return &Mask{Width: w, Height: h, bits: make([]bool, w*h)}
}

// At reports whether the pixel is foreground. Out-of-range pixels are
// background.
func (m *Mask) At(x, y int) bool {
	if !m.Bounds().Contains(Pixel{X: x, Y: y}) {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Set marks a pixel foreground or background.
func (m *Mask) Set(x, y int, fg bool) {
	if !m.Bounds().Contains(Pixel{X: x, Y: y}) {
		return
	}
	m.bits[y*m.Width+x] = fg
}

// Bounds returns the mask's pixel rectangle.
func (m *Mask) Bounds() Rect {
	return Rect{Max: Pixel{X: m.Width - 1, Y: m.Height - 1}}
}

// GradientMap stores per-pixel gradient magnitudes.
type GradientMap struct {
	Width, Height int
	mag           []float64
}

// NewGradientMap returns a zero gradient map of the given size.
func NewGradientMap(w, h int) *GradientMap {
	return &GradientMap{Width: w, Height: h, mag: make([]float64, w*h)}
}

// At returns the gradient magnitude at the pixel, zero out of range.
func (g *GradientMap) At(x, y int) float64 {
	if !g.Bounds().Contains(Pixel{X: x, Y: y}) {
		return 0
	}
	return g.mag[y*g.Width+x]
}

// Set stores a gradient magnitude.
func (g *GradientMap) Set(x, y int, v float64) {
	if !g.Bounds().Contains(Pixel{X: x, Y: y}) {
		return
	}
	g.mag[y*g.Width+x] = v
}

// Bounds returns the map's pixel rectangle.
func (g *GradientMap) Bounds() Rect {
	return Rect{Max: Pixel{X: g.Width - 1, Y: g.Height - 1}}
}
