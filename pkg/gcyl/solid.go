package gcyl

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// solidMeshCells controls marching cubes tessellation resolution for
// watertight solid export.
const solidMeshCells = 200

// Solid models the component as an SDF: the union of conical spans
// between consecutive cross-sections. Unlike the swept surface mesh the
// result is watertight regardless of bend angles, at the cost of
// approximating each span's skew by a right cone along the spine chord.
// At least two sections are required.
func (g *GeneralizedCylinder) Solid() (sdf.SDF3, error) {
	if len(g.Sections) < 2 {
		return nil, fmt.Errorf("component %d: solid needs at least 2 cross-sections, got %d",
			g.ID, len(g.Sections))
	}

	var spans []sdf.SDF3
	for i := 0; i+1 < len(g.Sections); i++ {
		a, b := g.Sections[i].Circle, g.Sections[i+1].Circle
		axis := b.Center.Sub(a.Center)
		length := axis.Len()
		if length < 1e-9 {
			continue
		}
		cone, err := sdf.Cone3D(length, a.Radius, b.Radius, 0)
		if err != nil {
			return nil, fmt.Errorf("component %d span %d: %w", g.ID, i, err)
		}

		// Cone3D runs along +Z centered at the origin; rotate +Z onto
		// the chord direction and move to the span midpoint.
		d := axis.Mul(1 / length)
		polar := math.Acos(d.Z())
		azimuth := math.Atan2(d.Y(), d.X())
		m := sdf.RotateZ(azimuth).Mul(sdf.RotateY(polar))
		mid := a.Center.Add(axis.Mul(0.5))
		m = sdf.Translate3d(v3.Vec{X: mid.X(), Y: mid.Y(), Z: mid.Z()}).Mul(m)
		spans = append(spans, sdf.Transform3D(cone, m))
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("component %d: all spans degenerate", g.ID)
	}
	return sdf.Union3D(spans...), nil
}

// SaveSTL writes the swept surface mesh as an STL file.
func (g *GeneralizedCylinder) SaveSTL(path string) error {
	if len(g.tris) == 0 {
		return fmt.Errorf("component %d: no surface to export", g.ID)
	}
	return render.SaveSTL(path, triPointers(g.tris))
}

// triPointers adapts the value-slice surface to render.SaveSTL, which
// takes triangle pointers.
func triPointers(tris []sdf.Triangle3) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, len(tris))
	for i := range tris {
		out[i] = &tris[i]
	}
	return out
}

// SaveSolidSTL tessellates the SDF solid with marching cubes and writes
// it as an STL file.
func (g *GeneralizedCylinder) SaveSolidSTL(path string) error {
	s, err := g.Solid()
	if err != nil {
		return err
	}
	renderer := render.NewMarchingCubesUniform(solidMeshCells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return fmt.Errorf("component %d: tessellation produced no triangles", g.ID)
	}
	return render.SaveSTL(path, triangles)
}
