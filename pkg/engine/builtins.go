package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/ardael/gencyl/pkg/camera"
	"github.com/ardael/gencyl/pkg/raster"
	"github.com/ardael/gencyl/pkg/session"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms gencyl script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: left-click -> left_click
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_continuous) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// renderingTypeOf maps a rendering keyword to its session hint.
func renderingTypeOf(kw string) (session.RenderingType, error) {
	switch kw {
	case "triangle-strip":
		return session.RenderTriangleStrip, nil
	case "wireframe":
		return session.RenderWireframe, nil
	case "points":
		return session.RenderPoints, nil
	}
	return 0, fmt.Errorf("rendering: invalid mode %q", kw)
}

// ---------------------------------------------------------------------------
// Script state
// ---------------------------------------------------------------------------

// scriptState accumulates configuration builtin calls and lazily
// instantiates the session on the first pointer event. Configuration
// builtins fail once the session exists, keeping replays deterministic.
type scriptState struct {
	width, height   int
	fovy, near, far float64
	cfg             session.Config
	refPath         string

	sess  *session.Session
	saved []string
}

func newScriptState() *scriptState {
	return &scriptState{
		width:  800,
		height: 600,
		fovy:   45,
		near:   1,
		far:    1000,
		cfg:    session.DefaultConfig(),
	}
}

func (st *scriptState) ensureSession() (*session.Session, error) {
	if st.sess != nil {
		return st.sess, nil
	}
	cam := camera.New(st.width, st.height, st.fovy, st.near, st.far)
	var ref *raster.Reference
	if st.refPath != "" {
		var err error
		ref, err = raster.LoadReference(st.refPath)
		if err != nil {
			return nil, err
		}
	}
	st.sess = session.New(cam, st.cfg, session.NopRenderer{Cam: cam}, session.NopOverlay{}, ref)
	return st.sess, nil
}

func (st *scriptState) requireUnstarted(builtin string) error {
	if st.sess != nil {
		return fmt.Errorf("%s must appear before the first pointer event", builtin)
	}
	return nil
}

func (st *scriptState) summarize() *Summary {
	s := &Summary{Mode: session.Mode0.String(), Saved: st.saved}
	if st.sess == nil {
		return s
	}
	s.Mode = st.sess.Mode().String()
	for _, c := range st.sess.GetModelSolver().Components() {
		s.Components = append(s.Components, ComponentSummary{ID: c.ID, Sections: len(c.Sections)})
	}
	for _, d := range st.sess.Diagnostics() {
		s.Diagnostics = append(s.Diagnostics, d.Error())
	}
	return s
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the gencyl script builtins into a zygomys
// environment. The builtins drive the script state's modelling session.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens become recognizable string
// literals and kebab-case calls like (left-click ...) resolve.
func registerBuiltins(env *zygo.Zlisp, st *scriptState) {

	// -----------------------------------------------------------------------
	// (viewport :width 800 :height 600 :fovy 45 :near 1 :far 1000)
	// -----------------------------------------------------------------------
	env.AddFunction("viewport", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := st.requireUnstarted("viewport"); err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs(args)
		set := func(key string, dst *float64) error {
			if v, ok := pa.kw[key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return fmt.Errorf("viewport: %s: %w", key, err)
				}
				*dst = f
			}
			return nil
		}
		var w, h = float64(st.width), float64(st.height)
		for _, bind := range []struct {
			key string
			dst *float64
		}{{"width", &w}, {"height", &h}, {"fovy", &st.fovy}, {"near", &st.near}, {"far", &st.far}} {
			if err := set(bind.key, bind.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		st.width, st.height = int(w), int(h)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (load-reference "photos/trunk.png")
	// -----------------------------------------------------------------------
	env.AddFunction("load_reference", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := st.requireUnstarted("load-reference"); err != nil {
			return zygo.SexpNull, err
		}
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("load-reference requires a path argument")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-reference: %w", err)
		}
		st.refPath = path
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (config :spine-mode :continuous :policy :orthographic
	//         :constraint :straight-planar :segments 16)
	// -----------------------------------------------------------------------
	env.AddFunction("config", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := st.requireUnstarted("config"); err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs(args)

		if v, ok := pa.kw["spine-mode"]; ok {
			kw, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("config: spine-mode: %w", err)
			}
			switch kw {
			case "piecewise-linear":
				st.cfg.SpineMode = session.PiecewiseLinear
			case "continuous":
				st.cfg.SpineMode = session.Continuous
			default:
				return zygo.SexpNull, fmt.Errorf("config: invalid spine-mode %q", kw)
			}
		}
		if v, ok := pa.kw["policy"]; ok {
			kw, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("config: policy: %w", err)
			}
			switch kw {
			case "fixed-depth":
				st.cfg.Policy = session.PolicyFixedDepth
			case "orthogonality":
				st.cfg.Policy = session.PolicyOrthogonality
			case "orthographic":
				st.cfg.Policy = session.PolicyOrthographic
			default:
				return zygo.SexpNull, fmt.Errorf("config: invalid policy %q", kw)
			}
		}
		if v, ok := pa.kw["constraint"]; ok {
			kw, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("config: constraint: %w", err)
			}
			switch kw {
			case "none":
				st.cfg.SpineConstraint = session.ConstraintNone
			case "straight-planar":
				st.cfg.SpineConstraint = session.StraightPlanar
			default:
				return zygo.SexpNull, fmt.Errorf("config: invalid constraint %q", kw)
			}
		}
		if v, ok := pa.kw["segments"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("config: segments: %w", err)
			}
			st.cfg.Segments = int(f)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (rendering :wireframe)
	// -----------------------------------------------------------------------
	env.AddFunction("rendering", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("rendering requires a mode argument")
		}
		kw, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rendering: %w", err)
		}
		rt, err := renderingTypeOf(kw)
		if err != nil {
			return zygo.SexpNull, err
		}
		// Unlike the config builtins this may change mid-script; the hint
		// only shapes presentation, not geometry.
		if st.sess != nil {
			st.sess.SetRenderingType(rt)
		} else {
			st.cfg.Rendering = rt
		}
		return zygo.SexpNull, nil
	})

	// Pointer events: (left-click x y), (right-click x y), (mouse-move x y).
	pointer := func(builtin string, dispatch func(s *session.Session, x, y float64)) {
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires x and y", strings.ReplaceAll(builtin, "_", "-"))
			}
			x, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: x: %w", builtin, err)
			}
			y, err := toFloat64(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: y: %w", builtin, err)
			}
			s, err := st.ensureSession()
			if err != nil {
				return zygo.SexpNull, err
			}
			dispatch(s, x, y)
			return zygo.SexpNull, nil
		})
	}
	pointer("left_click", func(s *session.Session, x, y float64) { s.OnLeftClick(x, y) })
	pointer("right_click", func(s *session.Session, x, y float64) { s.OnRightClick(x, y) })
	pointer("mouse_move", func(s *session.Session, x, y float64) { s.OnMouseMove(x, y) })

	// (undo) removes the most recent cross-section.
	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, err := st.ensureSession()
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := s.DeleteLastSection(); err != nil {
			return zygo.SexpNull, fmt.Errorf("undo: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (probe-up) / (probe-down) adjust the snapper probe fraction.
	env.AddFunction("probe_up", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, err := st.ensureSession()
		if err != nil {
			return zygo.SexpNull, err
		}
		s.IncrementScaleFactor()
		return zygo.SexpNull, nil
	})
	env.AddFunction("probe_down", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, err := st.ensureSession()
		if err != nil {
			return zygo.SexpNull, err
		}
		s.DecrementScaleFactor()
		return zygo.SexpNull, nil
	})

	// (delete-model) clears all finished components.
	env.AddFunction("delete_model", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, err := st.ensureSession()
		if err != nil {
			return zygo.SexpNull, err
		}
		s.DeleteModel()
		return zygo.SexpNull, nil
	})

	// (save-stl "out.stl") / (save-solid-stl "out.stl") export the
	// current component.
	saver := func(builtin string, save func(s *session.Session, path string) error) {
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a path argument", strings.ReplaceAll(builtin, "_", "-"))
			}
			path, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, err
			}
			s, err := st.ensureSession()
			if err != nil {
				return zygo.SexpNull, err
			}
			if err := save(s, path); err != nil {
				return zygo.SexpNull, err
			}
			st.saved = append(st.saved, path)
			return zygo.SexpNull, nil
		})
	}
	saver("save_stl", func(s *session.Session, path string) error { return s.SaveModel(path) })
	saver("save_solid_stl", func(s *session.Session, path string) error { return s.SaveModelSolid(path) })
}
