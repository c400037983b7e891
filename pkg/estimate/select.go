package estimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/camera"
	"github.com/ardael/gencyl/pkg/geom"
)

// Camera supplies the matrices used to reproject candidate circles for
// disambiguation. Satisfied by *camera.Projection; a renderer can
// substitute its own matrices.
type Camera interface {
	Matrix() mgl64.Mat4
	WindowMatrix() mgl64.Mat4
}

// SelectFirst picks between the two candidates of a component's first
// cross-section using the minor-axis click position. The candidate
// whose reprojected normal tip points away from the clicked side is the
// one facing the viewer the way the sketch implies.
//
// The rule: project the first candidate's center and normal tip to
// device coordinates; if the tip direction and the center-to-click
// direction oppose each other the first candidate wins, otherwise the
// second. With a single candidate it is returned unconditionally.
func SelectFirst(cands []geom.Circle3D, clickDev mgl64.Vec2, cam Camera) int {
	if len(cands) < 2 {
		return 0
	}
	proj, window := cam.Matrix(), cam.WindowMatrix()
	c := cands[0]
	ctr := camera.ProjectToDevice(c.Center, proj, window)
	tip := camera.ProjectToDevice(c.Center.Add(c.Normal), proj, window)

	vec1 := tip.Sub(ctr)
	vec2 := ctr.Sub(clickDev)
	if vec1.Dot(vec2) < 0 {
		return 0
	}
	return 1
}

// SelectParallel picks the candidate whose plane is most parallel to the
// previous cross-section, keeping the spine from kinking between
// consecutive sections.
func SelectParallel(cands []geom.Circle3D, prev geom.Circle3D) int {
	best, bestDot := 0, -1.0
	for i, c := range cands {
		if d := math.Abs(prev.Normal.Dot(c.Normal)); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best
}
