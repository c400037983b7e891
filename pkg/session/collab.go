package session

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/gcyl"
	"github.com/ardael/gencyl/pkg/geom"
)

// Renderer is the 3D rendering collaborator. It supplies the matrices
// candidate circles are reprojected with and receives component
// surfaces by id; the session never holds rendering state beyond the
// id. Matrix and WindowMatrix satisfy estimate.Camera.
type Renderer interface {
	Matrix() mgl64.Mat4
	WindowMatrix() mgl64.Mat4
	DisplayComponent(id int, mesh *gcyl.Mesh, hint RenderingType)
	RemoveComponent(id int)
}

// Overlay is the 2D guide-drawing collaborator. Write-only: the session
// pushes transient sketch guides and never reads anything back.
type Overlay interface {
	InitializeMajorAxisDrawing(p mgl64.Vec2)
	UpdateOpenEndpoint(p mgl64.Vec2)
	InitializeMinorAxisDrawing(p mgl64.Vec2)
	UpdateBaseEllipse(e geom.Ellipse2D)
	InitializeSpineDrawing(e geom.Ellipse2D)
	SpinePointCandidate(p mgl64.Vec2)
	AddSpinePoint(p mgl64.Vec2)
	UpdateDynamicEllipse(e geom.Ellipse2D)
	Reset()
}

// NopRenderer is a Renderer that draws nothing, projecting through the
// embedded camera. Used headless and in tests.
type NopRenderer struct {
	Cam interface {
		Matrix() mgl64.Mat4
		WindowMatrix() mgl64.Mat4
	}
}

func (n NopRenderer) Matrix() mgl64.Mat4                              { return n.Cam.Matrix() }
func (n NopRenderer) WindowMatrix() mgl64.Mat4                        { return n.Cam.WindowMatrix() }
func (n NopRenderer) DisplayComponent(int, *gcyl.Mesh, RenderingType) {}
func (n NopRenderer) RemoveComponent(int)                             {}

// NopOverlay is an Overlay that draws nothing.
type NopOverlay struct{}

func (NopOverlay) InitializeMajorAxisDrawing(mgl64.Vec2) {}
func (NopOverlay) UpdateOpenEndpoint(mgl64.Vec2)         {}
func (NopOverlay) InitializeMinorAxisDrawing(mgl64.Vec2) {}
func (NopOverlay) UpdateBaseEllipse(geom.Ellipse2D)      {}
func (NopOverlay) InitializeSpineDrawing(geom.Ellipse2D) {}
func (NopOverlay) SpinePointCandidate(mgl64.Vec2)        {}
func (NopOverlay) AddSpinePoint(mgl64.Vec2)              {}
func (NopOverlay) UpdateDynamicEllipse(geom.Ellipse2D)   {}
func (NopOverlay) Reset()                                {}
