// Package gcyl builds generalized cylinders: swept surfaces defined by
// an ordered sequence of circular cross-sections along a piecewise
// linear spine. Sections are appended, previewed, and undone as the
// user sketches; the surface mesh is regenerated deterministically from
// the sections alone.
package gcyl

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/geom"
)

// DefaultSegments is the ring sampling resolution of the swept surface.
const DefaultSegments = 32

// CrossSection is one circular slice of a generalized cylinder. Index is
// the section's position along the spine, assigned at append time.
type CrossSection struct {
	Index  int
	Circle geom.Circle3D
}

// GeneralizedCylinder is one modelled component: an ordered list of
// cross-sections and the triangle mesh swept over them.
type GeneralizedCylinder struct {
	ID       int
	Segments int
	Sections []CrossSection

	frames []mgl64.Vec3    // per-section in-plane reference axis
	tris   []sdf.Triangle3 // swept surface, kept in step with Sections
}

// New returns an empty component with the given identifier.
func New(id int) *GeneralizedCylinder {
	return &GeneralizedCylinder{ID: id, Segments: DefaultSegments}
}

// AddPlanarSection appends a cross-section. The section normal is
// flipped if needed so consecutive sections keep a consistent
// orientation along the spine.
func (g *GeneralizedCylinder) AddPlanarSection(c geom.Circle3D) {
	if n := len(g.Sections); n > 0 {
		prev := g.Sections[n-1].Circle
		if prev.Normal.Dot(c.Normal) < 0 {
			c.FlipNormal()
		}
	}
	g.Sections = append(g.Sections, CrossSection{Index: len(g.Sections), Circle: c})
	g.Recalculate()
}

// UpdateLastSection replaces the most recent cross-section, used while
// the next section is being dragged. No-op on an empty component.
func (g *GeneralizedCylinder) UpdateLastSection(c geom.Circle3D) {
	n := len(g.Sections)
	if n == 0 {
		return
	}
	if n > 1 {
		prev := g.Sections[n-2].Circle
		if prev.Normal.Dot(c.Normal) < 0 {
			c.FlipNormal()
		}
	}
	g.Sections[n-1].Circle = c
	g.Recalculate()
}

// DeleteLastSection removes the most recent cross-section. A component
// must keep at least one section; deleting the last one fails.
func (g *GeneralizedCylinder) DeleteLastSection() error {
	if len(g.Sections) <= 1 {
		return fmt.Errorf("component %d: cannot delete the only cross-section", g.ID)
	}
	g.Sections = g.Sections[:len(g.Sections)-1]
	g.Recalculate()
	return nil
}

// LastSection returns the most recent cross-section. ok is false on an
// empty component.
func (g *GeneralizedCylinder) LastSection() (CrossSection, bool) {
	if len(g.Sections) == 0 {
		return CrossSection{}, false
	}
	return g.Sections[len(g.Sections)-1], true
}

// Spine returns the section centers in order.
func (g *GeneralizedCylinder) Spine() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(g.Sections))
	for i, s := range g.Sections {
		out[i] = s.Circle.Center
	}
	return out
}

// Recalculate rebuilds the reference frames and the swept surface from
// the current sections. The rebuild depends only on the sections, so a
// delete followed by recalculation restores the earlier surface
// exactly.
func (g *GeneralizedCylinder) Recalculate() {
	g.frames = propagateFrames(g.Sections)
	g.tris = sweep(g.Sections, g.frames, g.segments())
}

// Triangles returns the swept surface triangles.
func (g *GeneralizedCylinder) Triangles() []sdf.Triangle3 {
	return g.tris
}

func (g *GeneralizedCylinder) segments() int {
	if g.Segments < 3 {
		return DefaultSegments
	}
	return g.Segments
}
