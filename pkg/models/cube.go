package models

import "github.com/taigrr/spincube/pkg/math3d"

// Cube tables. Face i is drawn with cubeColors[i]; the order is part of the
// look of the demo and must not change.
var (
	cubeVertices = [8]math3d.Vec3{
		{X: 1, Y: -1, Z: -1},
		{X: 1, Y: 1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: -1},
		{X: 1, Y: -1, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: -1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: 1},
	}

	cubeEdges = [12]Edge{
		{0, 1},
		{0, 3},
		{0, 4},
		{2, 1},
		{2, 3},
		{2, 7},
		{6, 3},
		{6, 4},
		{6, 7},
		{5, 1},
		{5, 4},
		{5, 7},
	}

	cubeFaces = [6][4]int{
		{0, 1, 2, 3},
		{3, 2, 7, 6},
		{6, 7, 5, 4},
		{4, 5, 1, 0},
		{1, 5, 7, 2},
		{4, 0, 3, 6},
	}

	cubeColors = [6][3]float64{
		{0, 0, 1},
		{0, 1, 0},
		{1, 0, 0},
		{1, 1, 0},
		{1, 0, 1},
		{0, 1, 1},
	}
)

// NewCube returns the 2x2x2 cube centered at the origin. Each call builds a
// fresh mesh, so callers may not disturb one another.
func NewCube() *Mesh {
	m := NewMesh("cube")
	m.Vertices = append(m.Vertices, cubeVertices[:]...)
	for i, f := range cubeFaces {
		m.Faces = append(m.Faces, Face{V: f, Color: cubeColors[i]})
	}
	m.Edges = append(m.Edges, cubeEdges[:]...)
	m.CalculateBounds()
	return m
}
