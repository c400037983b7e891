// Package session implements the interactive modelling core: a four
// state machine that turns pointer events into ellipse sketches, back
// projected cross-sections, and finished generalized cylinder
// components.
//
// The session is strictly synchronous and single-threaded: every
// pointer event is fully processed before the entry point returns, and
// a multi-threaded host must serialize calls itself.
package session

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/camera"
	"github.com/ardael/gencyl/pkg/estimate"
	"github.com/ardael/gencyl/pkg/gcyl"
	"github.com/ardael/gencyl/pkg/geom"
	"github.com/ardael/gencyl/pkg/raster"
	"github.com/ardael/gencyl/pkg/solver"
)

// Session drives one modelling session over a fixed camera and an
// optional reference raster.
type Session struct {
	cfg      Config
	cam      *camera.Projection
	est      *estimate.Estimator
	model    *solver.ModelSolver
	renderer Renderer
	overlay  Overlay
	snapper  *raster.Snapper

	mode       Mode
	leftClick  bool
	rightClick bool
	mouse      mgl64.Vec2
	vertices   []mgl64.Vec2

	ellipse     geom.Ellipse2D // base ellipse under construction
	lastProfile geom.Ellipse2D // most recently committed profile
	dynProfile  geom.Ellipse2D // live preview profile
	lastCircle  geom.Circle3D
	current     *gcyl.GeneralizedCylinder

	diags []error
}

// New returns a session. ref may be nil when no reference raster is
// available; chord snapping is then disabled.
func New(cam *camera.Projection, cfg Config, r Renderer, o Overlay, ref *raster.Reference) *Session {
	s := &Session{
		cfg:      cfg,
		cam:      cam,
		est:      estimate.New(cam),
		model:    solver.New(),
		renderer: r,
		overlay:  o,
	}
	if ref != nil {
		s.snapper = raster.NewSnapper(ref, ref.Frame())
	}
	return s
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// Vertices returns the in-progress clicked points.
func (s *Session) Vertices() []mgl64.Vec2 { return s.vertices }

// Diagnostics returns the recoverable errors absorbed so far.
func (s *Session) Diagnostics() []error { return s.diags }

// GetModelSolver returns the finished-component collection.
func (s *Session) GetModelSolver() *solver.ModelSolver { return s.model }

// SetRenderingType changes the presentation hint passed to the
// rendering collaborator.
func (s *Session) SetRenderingType(rt RenderingType) { s.cfg.Rendering = rt }

// OnLeftClick feeds a left click in device coordinates.
func (s *Session) OnLeftClick(x, y float64) {
	s.leftClick = true
	s.mouse = mgl64.Vec2{x, y}
	s.vertices = append(s.vertices, s.mouse)
	s.modelUpdate()
}

// OnRightClick feeds a right click in device coordinates. Right clicks
// only matter in Mode3, where they finish the component.
func (s *Session) OnRightClick(x, y float64) {
	if s.mode != Mode3 {
		return
	}
	s.rightClick = true
	s.mouse = mgl64.Vec2{x, y}
	s.vertices = append(s.vertices, s.mouse)
	s.modelUpdate()
}

// OnMouseMove feeds a pointer move in device coordinates.
func (s *Session) OnMouseMove(x, y float64) {
	if s.mode == Mode0 {
		return
	}
	s.mouse = mgl64.Vec2{x, y}
	s.modelUpdate()
}

// IncrementScaleFactor lengthens the snapper probes by one step.
func (s *Session) IncrementScaleFactor() {
	if s.snapper != nil {
		s.snapper.IncrementFraction()
	}
}

// DecrementScaleFactor shortens the snapper probes by one step.
func (s *Session) DecrementScaleFactor() {
	if s.snapper != nil {
		s.snapper.DecrementFraction()
	}
}

// DeleteLastSection undoes the most recent cross-section of the
// component being modelled.
func (s *Session) DeleteLastSection() error {
	// Undo is scoped to the component in progress; a finished component
	// is immutable.
	if s.mode != Mode3 || s.current == nil {
		return fmt.Errorf("no component being modelled")
	}
	if err := s.current.DeleteLastSection(); err != nil {
		return err
	}
	if last, ok := s.current.LastSection(); ok {
		s.lastCircle = last.Circle
	}
	s.renderer.DisplayComponent(s.current.ID, s.current.Mesh(), s.cfg.Rendering)
	return nil
}

// SaveModel exports the current component's surface as STL. The error
// is logged as well as returned, so callers on the interactive path may
// ignore it.
func (s *Session) SaveModel(path string) error {
	if s.current == nil || len(s.current.Sections) == 0 {
		err := fmt.Errorf("save model: no valid component")
		log.Printf("ERROR: %v", err)
		return err
	}
	if err := s.current.SaveSTL(path); err != nil {
		log.Printf("ERROR: save model: %v", err)
		return err
	}
	return nil
}

// SaveModelSolid exports the current component as a watertight solid.
func (s *Session) SaveModelSolid(path string) error {
	if s.current == nil {
		err := fmt.Errorf("save model: no valid component")
		log.Printf("ERROR: %v", err)
		return err
	}
	if err := s.current.SaveSolidSTL(path); err != nil {
		log.Printf("ERROR: save model: %v", err)
		return err
	}
	return nil
}

// DeleteModel removes every finished component.
func (s *Session) DeleteModel() {
	for _, c := range s.model.Components() {
		s.renderer.RemoveComponent(c.ID)
	}
	s.model.DeleteAllComponents()
}

// DeleteSelectedComponents removes the given finished components.
func (s *Session) DeleteSelectedComponents(ids []int) {
	for _, id := range ids {
		s.model.SelectComponent(id)
	}
	for _, id := range ids {
		s.renderer.RemoveComponent(id)
	}
	s.model.DeleteSelectedComponents()
}

// modelUpdate advances the state machine for the current pointer event.
func (s *Session) modelUpdate() {
	if s.cfg.ComponentType != ComponentGeneralizedCylinder {
		return
	}

	switch s.mode {
	case Mode0:
		if s.leftClick {
			s.leftClick = false
			s.overlay.InitializeMajorAxisDrawing(s.mouse)
			s.mode = Mode1
		}

	case Mode1:
		if s.leftClick {
			// Second click: the major axis is determined.
			s.leftClick = false
			s.ellipse.UpdateMajorAxis(s.vertices[0], s.vertices[1])
			s.overlay.InitializeMinorAxisDrawing(s.mouse)
			s.mode = Mode2
		} else {
			s.overlay.UpdateOpenEndpoint(s.mouse)
		}

	case Mode2:
		s.calculateEllipse()
		if s.leftClick {
			// Third click: the base ellipse is determined.
			s.leftClick = false
			if err := s.initializeSpineDrawing(); err != nil {
				s.diag(err)
				return
			}
			s.overlay.InitializeSpineDrawing(s.ellipse)
			s.mode = Mode3
		}

	case Mode3:
		if s.cfg.SpineMode == Continuous {
			s.spineUpdateContinuous()
		} else {
			s.spineUpdatePiecewise()
		}
	}
}

// calculateEllipse updates the base ellipse's minor axis from the
// pointer's projection onto the minor-axis guide segment. Projections
// outside the guide are rejected and the previous minor axis kept.
func (s *Session) calculateEllipse() {
	maj := s.ellipse.MajorAxis()
	dir := maj.Dir()
	perp := mgl64.Vec2{-dir.Y(), dir.X()}
	pt0 := s.ellipse.Center.Sub(perp.Mul(s.ellipse.SemiMajor))
	pt1 := s.ellipse.Center.Add(perp.Mul(s.ellipse.SemiMajor))

	vec1 := s.mouse.Sub(pt0)
	vec2 := pt1.Sub(pt0)
	// Accept-on-range so a 0/0 NaN ratio from a collapsed major axis is
	// rejected along with out-of-range projections.
	ratio := vec1.Dot(vec2) / vec2.Dot(vec2)
	if ratio >= 0 && ratio <= 1 {
		proj := pt0.Add(perp.Mul(2 * ratio * s.ellipse.SemiMajor))
		s.ellipse.UpdateMinorAxis(proj)
		s.overlay.UpdateBaseEllipse(s.ellipse)
	}
}

// initializeSpineDrawing back-projects the base ellipse into the first
// cross-section and opens a new component around it. On a degenerate
// estimate the transition is abandoned and the session stays in Mode2.
func (s *Session) initializeSpineDrawing() error {
	// Replace the raw click with its projection on the guide line.
	if len(s.vertices) >= 3 {
		s.vertices[2] = s.ellipse.Points[geom.MinorP0]
	}

	circle, err := s.firstCircle()
	if err != nil {
		return err
	}

	s.lastCircle = circle
	s.current = gcyl.New(s.model.TakeComponentID())
	s.current.Segments = s.cfg.Segments
	s.current.AddPlanarSection(circle)
	s.renderer.DisplayComponent(s.current.ID, s.current.Mesh(), s.cfg.Rendering)

	s.lastProfile = s.ellipse
	return nil
}

// firstCircle resolves the component's first cross-section under the
// configured estimation policy.
func (s *Session) firstCircle() (geom.Circle3D, error) {
	depth := s.cam.MidDepth()
	click := s.ellipse.Points[geom.MinorP0]

	var cands []geom.Circle3D
	switch s.cfg.Policy {
	case PolicyOrthographic:
		cands = s.est.Orthographic(&s.ellipse, depth)
	case PolicyOrthogonality:
		w0 := s.cam.DeviceToWorld(s.ellipse.Points[geom.MinorP0], depth)
		w1 := s.cam.DeviceToWorld(s.ellipse.Points[geom.MinorP1], depth)
		cands = s.est.Orthogonal(&s.ellipse, depth, w1.Sub(w0), click, s.renderer)
	default:
		cands = s.est.FixedDepth(&s.ellipse, depth)
	}
	if len(cands) == 0 {
		return geom.Circle3D{}, fmt.Errorf("degenerate base ellipse: no back-projection")
	}
	circle := cands[estimate.SelectFirst(cands, click, s.renderer)]
	if !circle.Valid() {
		return geom.Circle3D{}, fmt.Errorf("degenerate base ellipse: unusable cross-section")
	}
	return circle, nil
}

// spineUpdatePiecewise handles Mode3 events in piecewise-linear mode:
// motion previews the dynamic profile, a left click commits it as the
// next section, a right click commits the final section and finishes
// the component.
func (s *Session) spineUpdatePiecewise() {
	s.generateDynamicProfile()

	switch {
	case s.rightClick:
		s.rightClick = false
		if err := s.commitSection(s.dynProfile); err != nil {
			s.diag(err)
			return
		}
		s.overlay.AddSpinePoint(s.mouse)
		s.lastProfile = s.dynProfile
		s.finishComponent()

	case s.leftClick:
		s.leftClick = false
		if err := s.commitSection(s.dynProfile); err != nil {
			s.diag(err)
			return
		}
		s.overlay.AddSpinePoint(s.mouse)
		s.lastProfile = s.dynProfile

	default:
		s.overlay.SpinePointCandidate(s.mouse)
		s.overlay.UpdateDynamicEllipse(s.dynProfile)
	}
}

// spineUpdateContinuous handles Mode3 events in continuous mode: motion
// auto-commits a section once the pointer has travelled past the
// threshold; a left click commits the final section and finishes.
func (s *Session) spineUpdateContinuous() {
	if s.leftClick {
		s.leftClick = false
		s.generateDynamicProfile()
		if err := s.commitSection(s.dynProfile); err != nil {
			s.diag(err)
			return
		}
		s.lastProfile = s.dynProfile
		s.finishComponent()
		return
	}

	travel := s.mouse.Sub(s.lastProfile.Points[geom.MinorP0])
	if travel.Dot(travel) > s.cfg.ContinuousThresholdSq {
		s.generateDynamicProfile()
		if err := s.commitSection(s.dynProfile); err != nil {
			s.diag(err)
			return
		}
		s.overlay.AddSpinePoint(s.mouse)
		s.lastProfile = s.dynProfile
	}
}

// generateDynamicProfile runs the tracker kinematics and, when a
// reference raster exists, snaps the resulting chord onto image
// evidence.
func (s *Session) generateDynamicProfile() {
	s.dynProfile = dynamicProfile(s.lastProfile, s.mouse, s.cfg.SpineConstraint)
	if s.snapper != nil {
		snapped := s.snapper.SnapSegment(s.dynProfile.MajorAxis())
		s.dynProfile.ApplySnappedMajor(snapped)
	}
}

// commitSection back-projects the given profile and appends it to the
// component. Interior sections are disambiguated for spine continuity
// rather than viewer-side intent.
func (s *Session) commitSection(profile geom.Ellipse2D) error {
	depth := s.cam.MidDepth()
	var cands []geom.Circle3D
	if s.cfg.Policy == PolicyOrthographic {
		cands = s.est.Orthographic(&profile, depth)
	} else {
		cands = s.est.FixedDepth(&profile, depth)
	}
	if len(cands) == 0 {
		return fmt.Errorf("degenerate profile: no back-projection, section not added")
	}

	circle := cands[estimate.SelectParallel(cands, s.lastCircle)]
	if !circle.Valid() {
		return fmt.Errorf("degenerate profile: unusable cross-section, section not added")
	}
	s.lastCircle = circle
	s.current.AddPlanarSection(s.lastCircle)
	s.renderer.DisplayComponent(s.current.ID, s.current.Mesh(), s.cfg.Rendering)
	return nil
}

// finishComponent hands the component to the collection and resets the
// 2D drawing interface.
func (s *Session) finishComponent() {
	s.model.AddComponent(s.current)
	s.reset2DDrawingInterface()
}

func (s *Session) reset2DDrawingInterface() {
	s.mode = Mode0
	s.leftClick = false
	s.rightClick = false
	s.vertices = s.vertices[:0]
	s.overlay.Reset()
}

// diag records a recoverable interaction error. Nothing on the
// interactive path is fatal; the prior valid state stays intact.
func (s *Session) diag(err error) {
	log.Printf("modelling: %v", err)
	s.diags = append(s.diags, err)
}
