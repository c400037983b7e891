package gcyl

import (
	"github.com/deadsy/sdfx/sdf"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices    []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals     []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices     []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	ComponentID int       `json:"componentId"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Mesh flattens the swept surface into render arrays with per-face
// normals.
func (g *GeneralizedCylinder) Mesh() *Mesh {
	return meshFromTriangles(g.tris, g.ID)
}

func meshFromTriangles(triangles []sdf.Triangle3, id int) *Mesh {
	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i := range triangles {
		tri := triangles[i]
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &Mesh{
		Vertices:    vertices,
		Normals:     normals,
		Indices:     indices,
		ComponentID: id,
	}
}
