package engine

import (
	"strings"
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(config :segments 16)`,
			expect: `(config "__kw_segments" 16)`,
		},
		{
			name:   "multiple keywords",
			input:  `(viewport :width 800 :height 600)`,
			expect: `(viewport "__kw_width" 800 "__kw_height" 600)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(left-click 10 20)`,
			expect: `(left_click 10 20)`,
		},
		{
			name:   "keyword value with hyphen",
			input:  `(config :spine-mode :piecewise-linear)`,
			expect: `(config "__kw_spine-mode" "__kw_piecewise-linear")`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(mouse-move 50 -60)`,
			expect: `(mouse_move 50 -60)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "path string preserved",
			input:  `(load-reference "photos/tree-trunk.png")`,
			expect: `(load_reference "photos/tree-trunk.png")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Keyword argument parsing tests
// ---------------------------------------------------------------------------

func TestParseArgsSeparatesKeywords(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpInt{Val: 10},
		&zygo.SexpStr{S: kwPrefix + "width"},
		&zygo.SexpInt{Val: 800},
		&zygo.SexpStr{S: "plain"},
	}
	pa := parseArgs(args)

	if len(pa.positional) != 2 {
		t.Fatalf("expected 2 positional args, got %d", len(pa.positional))
	}
	v, ok := pa.kw["width"]
	if !ok {
		t.Fatal("expected keyword 'width'")
	}
	f, err := toFloat64(v)
	if err != nil || f != 800 {
		t.Errorf("expected width=800, got %v (err %v)", f, err)
	}
}

func TestToKeywordString(t *testing.T) {
	s, err := toKeywordString(&zygo.SexpStr{S: kwPrefix + "continuous"})
	if err != nil || s != "continuous" {
		t.Errorf("keyword: got %q (err %v)", s, err)
	}
	s, err = toKeywordString(&zygo.SexpStr{S: "plain"})
	if err != nil || s != "plain" {
		t.Errorf("plain string: got %q (err %v)", s, err)
	}
	if _, err = toKeywordString(&zygo.SexpInt{Val: 3}); err == nil {
		t.Error("expected error for non-string sexp")
	}
}

// ---------------------------------------------------------------------------
// Configuration builtin tests
// ---------------------------------------------------------------------------

func TestViewportShapesSession(t *testing.T) {
	eng := NewEngine()

	// A narrower frustum still back-projects the scenario; the point is
	// that viewport values are picked up before the session starts.
	source := `
(viewport :width 400 :height 300 :fovy 60)
(left-click 0 0)
(left-click 100 0)
(left-click 50 30)
(right-click 60 90)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(s.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(s.Components))
	}
}

func TestConfigInvalidPolicy(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate(`(config :policy :bogus)`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil summary on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for invalid policy")
	}
	found := false
	for _, e := range evalErrs {
		if strings.Contains(e.Message, "invalid policy") {
			found = true
		}
	}
	if !found {
		t.Errorf("unexpected error set: %v", evalErrs)
	}
}

func TestConfigStraightPlanarConstraint(t *testing.T) {
	eng := NewEngine()

	source := `
(config :constraint :straight-planar)
(left-click 0 0)
(left-click 100 0)
(left-click 50 30)
(left-click 60 90)
(right-click 60 150)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(s.Components) != 1 || s.Components[0].Sections != 3 {
		t.Fatalf("unexpected components: %+v", s.Components)
	}
}

func TestLoadReferenceMissingFile(t *testing.T) {
	eng := NewEngine()

	// The path is only resolved on the first pointer event.
	source := `
(load-reference "does/not/exist.png")
(left-click 0 0)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil summary when the reference image is missing")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for missing reference image")
	}
}

// ---------------------------------------------------------------------------
// Command builtin tests
// ---------------------------------------------------------------------------

func TestRenderingBuiltin(t *testing.T) {
	eng := NewEngine()

	// Accepted both before the session starts and mid-script.
	source := `
(rendering :wireframe)
(left-click 0 0)
(left-click 100 0)
(rendering :points)
(left-click 50 30)
(right-click 60 90)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(s.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(s.Components))
	}
}

func TestRenderingBuiltinRejectsUnknownMode(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate(`(rendering :shaded)`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil summary on eval error")
	}
	found := false
	for _, e := range evalErrs {
		if strings.Contains(e.Message, "invalid mode") {
			found = true
		}
	}
	if !found {
		t.Errorf("unexpected error set: %v", evalErrs)
	}
}

func TestProbeBuiltinsWithoutRaster(t *testing.T) {
	eng := NewEngine()

	// No reference image loaded: probe adjustments are accepted no-ops.
	source := `
(probe-up)
(probe-down)
(left-click 0 0)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s.Mode != "mode_1" {
		t.Errorf("expected mode_1 after one click, got %s", s.Mode)
	}
}

func TestDeleteModelClearsComponents(t *testing.T) {
	eng := NewEngine()

	source := `
(left-click 0 0)
(left-click 100 0)
(left-click 50 30)
(right-click 60 90)
(delete-model)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(s.Components) != 0 {
		t.Errorf("expected no components after delete-model, got %d", len(s.Components))
	}
}

func TestSaveStlWithoutComponentFails(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate(`(save-stl "out.stl")`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil summary on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error when there is nothing to save")
	}
}

func TestSaveStlWritesFile(t *testing.T) {
	eng := NewEngine()
	out := t.TempDir() + "/trunk.stl"

	source := `
(left-click 0 0)
(left-click 100 0)
(left-click 50 30)
(left-click 60 90)
(right-click 60 150)
(save-stl "` + out + `")
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(s.Saved) != 1 || s.Saved[0] != out {
		t.Errorf("expected saved path %q, got %v", out, s.Saved)
	}
}

// ---------------------------------------------------------------------------
// Variable reference test
// ---------------------------------------------------------------------------

func TestVariableReference(t *testing.T) {
	eng := NewEngine()

	source := `
(def x 50)
(def y 30)
(left-click 0 0)
(left-click 100 0)
(mouse-move x y)
(left-click x y)
(right-click 60 90)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(s.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(s.Components))
	}
}

// ---------------------------------------------------------------------------
// Plain arithmetic still works (regression)
// ---------------------------------------------------------------------------

func TestArithmeticStillWorks(t *testing.T) {
	eng := NewEngine()
	s, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil summary")
	}
}
