// Package engine provides the Lisp scripting engine for gencyl.
// It wraps zygomys in a sandboxed environment and replays a scripted
// stream of pointer events and session commands against a fresh
// modelling session, producing a summary of the resulting model.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in script code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ComponentSummary describes one finished component of the replayed
// model.
type ComponentSummary struct {
	ID       int `json:"id"`
	Sections int `json:"sections"`
}

// Summary bundles the outcome of a replayed script for UI bindings and
// the CLI.
type Summary struct {
	Mode        string             `json:"mode"`
	Components  []ComponentSummary `json:"components"`
	Diagnostics []string           `json:"diagnostics"`
	Saved       []string           `json:"saved"`
}

// Engine wraps the zygomys interpreter for script replay.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh modelling session for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate replays the script source against a fresh session.
//
// Return semantics:
//   - On success: returns summary + nil errors + nil error
//   - On parse/eval failure: returns nil summary + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Summary, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{summary: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Summary, []EvalError, error) {
	st := newScriptState()

	// Empty source is a valid script that leaves the session idle.
	if strings.TrimSpace(source) == "" {
		return st.summarize(), nil, nil
	}

	// Sandbox mode prevents script code from accessing the filesystem
	// or syscalls; all side effects go through the registered builtins.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, st)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return st.summarize(), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
