package session

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/geom"
)

// dynamicProfile derives the live profile from the last committed one
// and the pointer position. Under the straight-planar constraint the
// profile only translates; otherwise it bends with the sketched path:
// the profile rotates by the angle between its spine direction and the
// pointer vector, folded into [0, pi/2] with the turn sign from the 2D
// cross product, then translates so the spine anchor lands on the
// pointer.
func dynamicProfile(last geom.Ellipse2D, mouse mgl64.Vec2, constraint SpineConstraint) geom.Ellipse2D {
	dyn := last
	vec1 := mouse.Sub(last.Points[geom.MinorP0])

	if constraint == StraightPlanar {
		dyn.Translate(vec1)
		return dyn
	}

	vec2 := last.Points[geom.MinorP1].Sub(last.Points[geom.MinorP0])
	if vec1.Len() > 0 && vec2.Len() > 0 {
		vec2 = vec2.Normalize()
		cos := vec1.Dot(vec2) / vec1.Len()
		cos = math.Max(-1, math.Min(1, cos))
		angle := math.Acos(cos)

		sign := 1.0
		if angle > math.Pi/2 {
			angle = math.Pi - angle
			sign = -1
		}
		if turn := cross2(vec2, vec1); turn > 0 {
			dyn.Rotate(sign * angle)
		} else if turn < 0 {
			dyn.Rotate(-sign * angle)
		}
	}
	dyn.Translate(mouse.Sub(dyn.Points[geom.MinorP0]))
	return dyn
}

func cross2(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
