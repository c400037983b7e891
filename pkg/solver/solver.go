// Package solver owns the model: the ordered collection of generalized
// cylinder components built during a session.
package solver

import (
	"fmt"
	"log"
	"strings"

	"github.com/ardael/gencyl/pkg/gcyl"
)

// ModelSolver holds the components of the model in insertion order.
// Component identifiers are monotonic and never reused, so deleting a
// component cannot alias a later one.
type ModelSolver struct {
	components []*gcyl.GeneralizedCylinder
	nextID     int
	selected   map[int]bool
}

// New returns an empty model.
func New() *ModelSolver {
	return &ModelSolver{nextID: 1, selected: make(map[int]bool)}
}

// TakeComponentID reserves and returns the next component identifier.
// Called when a component starts being modelled; the component itself
// is registered only once finished, via AddComponent.
func (m *ModelSolver) TakeComponentID() int {
	id := m.nextID
	m.nextID++
	return id
}

// AddComponent registers a finished component.
func (m *ModelSolver) AddComponent(c *gcyl.GeneralizedCylinder) {
	m.components = append(m.components, c)
}

// Components returns the components in insertion order.
func (m *ModelSolver) Components() []*gcyl.GeneralizedCylinder {
	return m.components
}

// Component returns the component with the given identifier.
func (m *ModelSolver) Component(id int) (*gcyl.GeneralizedCylinder, bool) {
	for _, c := range m.components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Count returns the number of components.
func (m *ModelSolver) Count() int {
	return len(m.components)
}

// SelectComponent marks a component as selected. Unknown identifiers
// are ignored.
func (m *ModelSolver) SelectComponent(id int) {
	if _, ok := m.Component(id); ok {
		m.selected[id] = true
	}
}

// ClearSelection deselects all components.
func (m *ModelSolver) ClearSelection() {
	m.selected = make(map[int]bool)
}

// Selected reports whether the component is selected.
func (m *ModelSolver) Selected(id int) bool {
	return m.selected[id]
}

// DeleteAllComponents removes every component. Identifiers are not
// reset.
func (m *ModelSolver) DeleteAllComponents() {
	m.components = nil
	m.ClearSelection()
}

// DeleteSelectedComponents removes the selected components, preserving
// the order of the rest, and returns how many were removed.
func (m *ModelSolver) DeleteSelectedComponents() int {
	kept := m.components[:0]
	removed := 0
	for _, c := range m.components {
		if m.selected[c.ID] {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	m.components = kept
	m.ClearSelection()
	return removed
}

// Meshes returns the render mesh of every component.
func (m *ModelSolver) Meshes() []*gcyl.Mesh {
	out := make([]*gcyl.Mesh, len(m.components))
	for i, c := range m.components {
		out[i] = c.Mesh()
	}
	return out
}

// String summarizes the model, one line per component.
func (m *ModelSolver) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "model: %d component(s)\n", len(m.components))
	for _, c := range m.components {
		fmt.Fprintf(&b, "  component %d: %d section(s)\n", c.ID, len(c.Sections))
	}
	return b.String()
}

// Print logs the model summary.
func (m *ModelSolver) Print() {
	log.Print(m.String())
}
