package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Bindings before a session exists
// ---------------------------------------------------------------------------

func TestBindingsWithoutSession(t *testing.T) {
	app := NewApp()

	r := app.OnLeftClick(10, 10)
	if r.Mode != "mode_0" {
		t.Errorf("expected mode_0 without a session, got %s", r.Mode)
	}
	r = app.OnRightClick(10, 10)
	if r.Mode != "mode_0" {
		t.Errorf("expected mode_0 without a session, got %s", r.Mode)
	}
	r = app.OnMouseMove(10, 10)
	if r.Mode != "mode_0" {
		t.Errorf("expected mode_0 without a session, got %s", r.Mode)
	}

	// These must not panic.
	app.ProbeUp()
	app.ProbeDown()
	app.Undo()
	app.DeleteModel()

	if msg := app.SaveSTL("out.stl"); msg == "" {
		t.Error("expected an error message saving without a session")
	}
}

func TestStartSessionBadReference(t *testing.T) {
	app := NewApp()
	msg := app.StartSession(800, 600, 45, 1, 1000, "does/not/exist.png")
	if msg == "" {
		t.Fatal("expected an error message for a missing reference image")
	}
}

// ---------------------------------------------------------------------------
// Interaction edge cases
// ---------------------------------------------------------------------------

func TestRightClickBeforeSpineIgnored(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	r := app.OnRightClick(10, 10)
	if r.Mode != "mode_0" {
		t.Errorf("right click in mode_0 should be ignored, got %s", r.Mode)
	}

	app.OnLeftClick(0, 0)
	r = app.OnRightClick(10, 10)
	if r.Mode != "mode_1" {
		t.Errorf("right click in mode_1 should be ignored, got %s", r.Mode)
	}
}

func TestOutOfRangeMinorClickDiagnosed(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	app.OnLeftClick(0, 0)
	app.OnLeftClick(100, 0)

	// Pointer beyond the guide segment: the minor axis never updates and
	// the click cannot back-project.
	app.OnMouseMove(50, -60)
	r := app.OnLeftClick(50, -60)
	if r.Mode != "mode_2" {
		t.Errorf("expected the session to stay in mode_2, got %s", r.Mode)
	}
	if len(r.Diagnostics) == 0 {
		t.Error("expected a diagnostic for the failed back-projection")
	}

	// A valid click recovers.
	r = app.OnLeftClick(50, 30)
	if r.Mode != "mode_3" {
		t.Errorf("expected mode_3 after a valid minor-axis click, got %s", r.Mode)
	}
}

func TestUndoBeforeSectionsKeepsState(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	app.OnLeftClick(0, 0)
	r := app.Undo()
	if r.Mode != "mode_1" {
		t.Errorf("undo with nothing to remove should keep mode_1, got %s", r.Mode)
	}
}

func TestUndoRemovesLastSection(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	app.OnLeftClick(0, 0)
	app.OnLeftClick(100, 0)
	app.OnLeftClick(50, 30)
	app.OnLeftClick(60, 90)
	app.OnMouseMove(60, 150)
	r := app.OnRightClick(60, 150)
	if len(r.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(r.Meshes))
	}
	before := len(r.Meshes[0].Indices)

	// Finished components are not undoable; a component in progress is.
	app.OnLeftClick(200, 200)
	app.OnLeftClick(300, 200)
	app.OnLeftClick(250, 230)
	r = app.OnLeftClick(260, 290)
	if r.Mode != "mode_3" {
		t.Fatalf("expected mode_3, got %s", r.Mode)
	}
	r = app.Undo()
	if r.Mode != "mode_3" {
		t.Errorf("undo should not change the mode, got %s", r.Mode)
	}
	if len(r.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(r.Meshes))
	}
	if len(r.Meshes[0].Indices) != before {
		t.Error("the finished component must be untouched by undo")
	}
}

func TestDeleteModelRemovesMeshes(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	app.OnLeftClick(0, 0)
	app.OnLeftClick(100, 0)
	app.OnLeftClick(50, 30)
	r := app.OnRightClick(60, 90)
	if len(r.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(r.Meshes))
	}

	r = app.DeleteModel()
	if len(r.Meshes) != 0 {
		t.Errorf("expected no meshes after delete, got %d", len(r.Meshes))
	}
}

func TestSetRenderingTypeBinding(t *testing.T) {
	app := NewApp()

	if msg := app.SetRenderingType("wireframe"); msg == "" {
		t.Error("expected an error message without a session")
	}

	app.StartSession(800, 600, 45, 1, 1000, "")
	for _, kind := range []string{"wireframe", "triangle-strip", "points"} {
		if msg := app.SetRenderingType(kind); msg != "" {
			t.Errorf("SetRenderingType(%q): %s", kind, msg)
		}
	}
	if msg := app.SetRenderingType("shaded"); msg == "" {
		t.Error("expected an error message for an unknown rendering type")
	}
}

func TestSaveSTLWithoutComponent(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	if msg := app.SaveSTL(t.TempDir() + "/out.stl"); msg == "" {
		t.Error("expected an error message with nothing to save")
	}
}

func TestSaveSTLWritesComponent(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	app.OnLeftClick(0, 0)
	app.OnLeftClick(100, 0)
	app.OnLeftClick(50, 30)
	app.OnLeftClick(60, 90)
	app.OnRightClick(60, 150)

	path := t.TempDir() + "/trunk.stl"
	if msg := app.SaveSTL(path); msg != "" {
		t.Fatalf("SaveSTL: %s", msg)
	}
}

func TestTwoComponentsGetDistinctColors(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")

	sketch := func(ox, oy float64) {
		app.OnLeftClick(ox, oy)
		app.OnLeftClick(ox+100, oy)
		app.OnLeftClick(ox+50, oy+30)
		app.OnRightClick(ox+60, oy+90)
	}
	sketch(0, 0)
	r := app.OnMouseMove(0, 0)
	if len(r.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(r.Meshes))
	}
	sketch(300, 300)
	r = app.OnMouseMove(0, 0)
	if len(r.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(r.Meshes))
	}
	if r.Meshes[0].Color == r.Meshes[1].Color {
		t.Error("expected distinct palette colors for the two components")
	}
	if r.Meshes[0].ComponentID >= r.Meshes[1].ComponentID {
		t.Error("meshes should be ordered by component id")
	}
}

// ---------------------------------------------------------------------------
// Script binding edge cases
// ---------------------------------------------------------------------------

func TestEvaluateConfigAfterEvent(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(left-click 0 0)\n(config :segments 8)")

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for config after the first event")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "before the first pointer event") {
			found = true
		}
	}
	if !found {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestEvaluateDoesNotTouchInteractiveSession(t *testing.T) {
	app := NewApp()
	app.StartSession(800, 600, 45, 1, 1000, "")
	app.OnLeftClick(0, 0)

	// Script replays run in their own session.
	app.Evaluate("(left-click 5 5)")

	r := app.OnMouseMove(10, 10)
	if r.Mode != "mode_1" {
		t.Errorf("interactive session must be unaffected by script replay, got %s", r.Mode)
	}
}
