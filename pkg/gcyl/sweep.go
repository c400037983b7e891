package gcyl

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/geom"
)

// propagateFrames assigns each section an in-plane reference axis by
// projecting the previous section's axis onto the new plane. This keeps
// corresponding ring samples aligned between neighbouring sections so
// the sweep does not twist at spine bends.
func propagateFrames(sections []CrossSection) []mgl64.Vec3 {
	frames := make([]mgl64.Vec3, len(sections))
	for i, s := range sections {
		n := s.Circle.Normal
		if i == 0 {
			frames[0], _ = s.Circle.Basis()
			continue
		}
		u := frames[i-1].Sub(n.Mul(frames[i-1].Dot(n)))
		if u.Len() < 1e-9 {
			// Previous axis is parallel to this normal; reseed.
			u, _ = s.Circle.Basis()
		} else {
			u = u.Normalize()
		}
		frames[i] = u
	}
	return frames
}

// ring samples the circle at the given resolution, starting at the
// reference axis.
func ring(c geom.Circle3D, u mgl64.Vec3, segments int) []v3.Vec {
	v := c.Normal.Cross(u)
	pts := make([]v3.Vec, segments)
	for j := 0; j < segments; j++ {
		theta := 2 * math.Pi * float64(j) / float64(segments)
		sin, cos := math.Sincos(theta)
		p := c.Center.Add(u.Mul(c.Radius * cos)).Add(v.Mul(c.Radius * sin))
		pts[j] = v3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()}
	}
	return pts
}

// sweep triangulates the surface over the sections: quads between
// consecutive rings plus triangle fans capping both ends. A single
// section yields a flat disc.
func sweep(sections []CrossSection, frames []mgl64.Vec3, segments int) []sdf.Triangle3 {
	if len(sections) == 0 {
		return nil
	}

	rings := make([][]v3.Vec, len(sections))
	for i, s := range sections {
		rings[i] = ring(s.Circle, frames[i], segments)
	}

	var tris []sdf.Triangle3

	// Start cap, wound to face backwards along the spine.
	c0 := sections[0].Circle.Center
	start := v3.Vec{X: c0.X(), Y: c0.Y(), Z: c0.Z()}
	for j := 0; j < segments; j++ {
		k := (j + 1) % segments
		tris = append(tris, sdf.Triangle3{start, rings[0][k], rings[0][j]})
	}

	// Side quads.
	for i := 0; i+1 < len(rings); i++ {
		a, b := rings[i], rings[i+1]
		for j := 0; j < segments; j++ {
			k := (j + 1) % segments
			tris = append(tris,
				sdf.Triangle3{a[j], b[j], b[k]},
				sdf.Triangle3{a[j], b[k], a[k]},
			)
		}
	}

	// End cap, facing forwards.
	cl := sections[len(sections)-1].Circle.Center
	end := v3.Vec{X: cl.X(), Y: cl.Y(), Z: cl.Z()}
	last := rings[len(rings)-1]
	for j := 0; j < segments; j++ {
		k := (j + 1) % segments
		tris = append(tris, sdf.Triangle3{end, last[j], last[k]})
	}

	return tris
}
