package solver

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardael/gencyl/pkg/gcyl"
	"github.com/ardael/gencyl/pkg/geom"
)

func addComponent(m *ModelSolver) *gcyl.GeneralizedCylinder {
	c := gcyl.New(m.TakeComponentID())
	m.AddComponent(c)
	return c
}

func TestComponentIDsAreNeverReused(t *testing.T) {
	m := New()
	a := addComponent(m)
	b := addComponent(m)
	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)

	m.DeleteAllComponents()
	assert.Equal(t, 0, m.Count())

	c := addComponent(m)
	assert.Equal(t, 3, c.ID, "deletion does not recycle identifiers")
}

func TestDeleteSelectedKeepsOrder(t *testing.T) {
	m := New()
	addComponent(m)
	addComponent(m)
	addComponent(m)

	m.SelectComponent(2)
	m.SelectComponent(99) // unknown, ignored
	removed := m.DeleteSelectedComponents()
	assert.Equal(t, 1, removed)

	require.Equal(t, 2, m.Count())
	assert.Equal(t, 1, m.Components()[0].ID)
	assert.Equal(t, 3, m.Components()[1].ID)
	assert.False(t, m.Selected(2), "selection cleared after delete")
}

func TestMeshesFollowComponents(t *testing.T) {
	m := New()
	c := addComponent(m)
	c.AddPlanarSection(geom.Circle3D{
		Center: mgl64.Vec3{0, 0, -100},
		Normal: mgl64.Vec3{0, 0, 1},
		Radius: 10,
	})

	meshes := m.Meshes()
	require.Len(t, meshes, 1)
	assert.Equal(t, c.ID, meshes[0].ComponentID)
	assert.False(t, meshes[0].IsEmpty())
}

func TestStringSummary(t *testing.T) {
	m := New()
	addComponent(m)
	assert.Contains(t, m.String(), "1 component(s)")
	assert.Contains(t, m.String(), "component 1: 0 section(s)")
}
