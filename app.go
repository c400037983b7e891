package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ardael/gencyl/pkg/camera"
	"github.com/ardael/gencyl/pkg/engine"
	"github.com/ardael/gencyl/pkg/gcyl"
	"github.com/ardael/gencyl/pkg/geom"
	"github.com/ardael/gencyl/pkg/raster"
	"github.com/ardael/gencyl/pkg/session"
)

// colorPalette is a default palette used to assign distinct colors to components.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx      context.Context
	engine   *engine.Engine
	sess     *session.Session
	renderer *appRenderer
	overlay  *appOverlay
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices    []float32 `json:"vertices"`
	Normals     []float32 `json:"normals"`
	Indices     []uint32  `json:"indices"`
	ComponentID int       `json:"componentId"`
	Color       string    `json:"color"`
}

// GuideCommand is one 2D overlay drawing instruction for the frontend.
type GuideCommand struct {
	Op     string    `json:"op"`
	Points []float64 `json:"points"`
}

// UpdateResult is returned after every pointer event binding.
type UpdateResult struct {
	Mode        string         `json:"mode"`
	Meshes      []MeshData     `json:"meshes"`
	Guides      []GuideCommand `json:"guides"`
	Diagnostics []string       `json:"diagnostics"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the script evaluation result returned to the frontend.
type EvalResult struct {
	Summary *engine.Summary `json:"summary"`
	Errors  []EvalErrorData `json:"errors"`
}

// NewApp creates a new App with a script engine. The interactive session
// starts on the first StartSession call.
func NewApp() *App {
	return &App{engine: engine.NewEngine()}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// StartSession creates a fresh modelling session for the given viewport.
// referencePath may be empty; when set, the image guides chord snapping.
func (a *App) StartSession(width, height int, fovy, near, far float64, referencePath string) string {
	cam := camera.New(width, height, fovy, near, far)

	var ref *raster.Reference
	if referencePath != "" {
		var err error
		ref, err = raster.LoadReference(referencePath)
		if err != nil {
			log.Printf("StartSession: reference image: %v", err)
			return err.Error()
		}
	}

	a.renderer = &appRenderer{cam: cam, meshes: make(map[int]*gcyl.Mesh)}
	a.overlay = &appOverlay{}
	a.sess = session.New(cam, session.DefaultConfig(), a.renderer, a.overlay, ref)
	return ""
}

// OnLeftClick forwards a left click in device coordinates.
func (a *App) OnLeftClick(x, y float64) UpdateResult {
	if a.sess == nil {
		return UpdateResult{Mode: session.Mode0.String()}
	}
	a.sess.OnLeftClick(x, y)
	return a.update()
}

// OnRightClick forwards a right click in device coordinates.
func (a *App) OnRightClick(x, y float64) UpdateResult {
	if a.sess == nil {
		return UpdateResult{Mode: session.Mode0.String()}
	}
	a.sess.OnRightClick(x, y)
	return a.update()
}

// OnMouseMove forwards pointer motion in device coordinates.
func (a *App) OnMouseMove(x, y float64) UpdateResult {
	if a.sess == nil {
		return UpdateResult{Mode: session.Mode0.String()}
	}
	a.sess.OnMouseMove(x, y)
	return a.update()
}

// Undo removes the most recent cross-section of the component in progress.
func (a *App) Undo() UpdateResult {
	if a.sess == nil {
		return UpdateResult{Mode: session.Mode0.String()}
	}
	if err := a.sess.DeleteLastSection(); err != nil {
		log.Printf("Undo: %v", err)
	}
	return a.update()
}

// ProbeUp lengthens the snapping probes.
func (a *App) ProbeUp() {
	if a.sess != nil {
		a.sess.IncrementScaleFactor()
	}
}

// ProbeDown shortens the snapping probes.
func (a *App) ProbeDown() {
	if a.sess != nil {
		a.sess.DecrementScaleFactor()
	}
}

// SetRenderingType changes the mesh presentation hint passed to the
// frontend. Returns an empty string on success, the error message
// otherwise.
func (a *App) SetRenderingType(kind string) string {
	if a.sess == nil {
		return "no active session"
	}
	switch kind {
	case "triangle-strip":
		a.sess.SetRenderingType(session.RenderTriangleStrip)
	case "wireframe":
		a.sess.SetRenderingType(session.RenderWireframe)
	case "points":
		a.sess.SetRenderingType(session.RenderPoints)
	default:
		return fmt.Sprintf("unknown rendering type %q", kind)
	}
	return ""
}

// DeleteModel clears all finished components.
func (a *App) DeleteModel() UpdateResult {
	if a.sess == nil {
		return UpdateResult{Mode: session.Mode0.String()}
	}
	a.sess.DeleteModel()
	return a.update()
}

// SaveSTL exports the current model surface to path.
// Returns an empty string on success, the error message otherwise.
func (a *App) SaveSTL(path string) string {
	if a.sess == nil {
		return "no active session"
	}
	if err := a.sess.SaveModel(path); err != nil {
		return err.Error()
	}
	return ""
}

// SaveSolidSTL exports a marching-cubes solid of the model to path.
func (a *App) SaveSolidSTL(path string) string {
	if a.sess == nil {
		return "no active session"
	}
	if err := a.sess.SaveModelSolid(path); err != nil {
		return err.Error()
	}
	return ""
}

// Evaluate replays Lisp script source and returns its summary.
// This is the binding called by the frontend script editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	summary, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if len(evalErrs) == 0 {
		result.Summary = summary
	}
	return result
}

// update snapshots the session for the frontend and drains the overlay.
func (a *App) update() UpdateResult {
	result := UpdateResult{
		Mode:   a.sess.Mode().String(),
		Meshes: a.renderer.snapshot(),
		Guides: a.overlay.drain(),
	}
	for _, d := range a.sess.Diagnostics() {
		result.Diagnostics = append(result.Diagnostics, d.Error())
	}
	return result
}

// appRenderer retains the latest mesh per component id for the frontend.
type appRenderer struct {
	cam    *camera.Projection
	meshes map[int]*gcyl.Mesh
}

func (r *appRenderer) Matrix() mgl64.Mat4       { return r.cam.Matrix() }
func (r *appRenderer) WindowMatrix() mgl64.Mat4 { return r.cam.WindowMatrix() }

func (r *appRenderer) DisplayComponent(id int, mesh *gcyl.Mesh, _ session.RenderingType) {
	r.meshes[id] = mesh
}

func (r *appRenderer) RemoveComponent(id int) {
	delete(r.meshes, id)
}

func (r *appRenderer) snapshot() []MeshData {
	ids := make([]int, 0, len(r.meshes))
	for id := range r.meshes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]MeshData, 0, len(ids))
	for i, id := range ids {
		m := r.meshes[id]
		out = append(out, MeshData{
			Vertices:    m.Vertices,
			Normals:     m.Normals,
			Indices:     m.Indices,
			ComponentID: id,
			Color:       colorPalette[i%len(colorPalette)],
		})
	}
	return out
}

// appOverlay buffers guide commands until the next frontend update.
type appOverlay struct {
	pending []GuideCommand
}

func (o *appOverlay) push(op string, pts ...float64) {
	o.pending = append(o.pending, GuideCommand{Op: op, Points: pts})
}

func (o *appOverlay) drain() []GuideCommand {
	out := o.pending
	o.pending = nil
	return out
}

func (o *appOverlay) InitializeMajorAxisDrawing(p mgl64.Vec2) {
	o.push("major_start", p.X(), p.Y())
}

func (o *appOverlay) UpdateOpenEndpoint(p mgl64.Vec2) {
	o.push("major_end", p.X(), p.Y())
}

func (o *appOverlay) InitializeMinorAxisDrawing(p mgl64.Vec2) {
	o.push("minor_start", p.X(), p.Y())
}

func (o *appOverlay) UpdateBaseEllipse(e geom.Ellipse2D) {
	o.push("base_ellipse", ellipsePoints(e)...)
}

func (o *appOverlay) InitializeSpineDrawing(e geom.Ellipse2D) {
	o.push("spine_start", ellipsePoints(e)...)
}

func (o *appOverlay) SpinePointCandidate(p mgl64.Vec2) {
	o.push("spine_candidate", p.X(), p.Y())
}

func (o *appOverlay) AddSpinePoint(p mgl64.Vec2) {
	o.push("spine_point", p.X(), p.Y())
}

func (o *appOverlay) UpdateDynamicEllipse(e geom.Ellipse2D) {
	o.push("dynamic_ellipse", ellipsePoints(e)...)
}

func (o *appOverlay) Reset() {
	o.push("reset")
}

func ellipsePoints(e geom.Ellipse2D) []float64 {
	pts := make([]float64, 0, 2*len(e.Points))
	for _, p := range e.Points {
		pts = append(pts, p.X(), p.Y())
	}
	return pts
}
