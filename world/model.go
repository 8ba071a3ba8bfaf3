package world

import "github.com/arl/gogeo/f32/d3"

// BrushModel is the static vertex/index source a Level's surfaces index
// into. It is supplied by external code (the asset pipeline lives outside
// this module) and consumed read-only by the raycast package for triangle
// intersection.
type BrushModel interface {
	// Vertex returns world-space vertex i.
	Vertex(i int) d3.Vec3
	// Index returns the vertex index at position i of the index buffer.
	Index(i int) int
}

// Vec3Mesh is a minimal in-memory BrushModel backed by plain slices, handy
// for tests and for callers that already hold a flattened static mesh.
type Vec3Mesh struct {
	Verts   []d3.Vec3
	Indices []int32
}

func (m *Vec3Mesh) Vertex(i int) d3.Vec3 { return m.Verts[i] }
func (m *Vec3Mesh) Index(i int) int      { return int(m.Indices[i]) }
