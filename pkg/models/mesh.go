// Package models provides the geometry drawn by spincube.
package models

import (
	"github.com/taigrr/spincube/pkg/math3d"
)

// Mesh is a quad mesh with one flat color per face and an optional edge list.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face
	Edges    []Edge

	// Bounding box (calculated by CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a quad: four vertex indices in winding order and its flat color.
type Face struct {
	V     [4]int     // Indices into Mesh.Vertices
	Color [3]float64 // RGB in 0-1 range
}

// Edge is a pair of vertex indices.
type Edge [2]int

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
		Edges:    make([]Edge, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// FaceCount returns the number of quads.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Quad returns the four positions of face i in winding order.
func (m *Mesh) Quad(i int) [4]math3d.Vec3 {
	f := m.Faces[i]
	return [4]math3d.Vec3{
		m.Vertices[f.V[0]],
		m.Vertices[f.V[1]],
		m.Vertices[f.V[2]],
		m.Vertices[f.V[3]],
	}
}

// Segment returns the two endpoints of edge i.
func (m *Mesh) Segment(i int) (a, b math3d.Vec3) {
	e := m.Edges[i]
	return m.Vertices[e[0]], m.Vertices[e[1]]
}
