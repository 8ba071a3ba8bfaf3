package vis

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/kestrelengine/spatial/geom"
)

// View describes the frustum and masks a single top-level visibility or
// raycast query is evaluated against.
type View struct {
	Position d3.Vec3
	Right    d3.Vec3
	Up       d3.Vec3

	// NearPlane's Normal points along the view direction, so geometry in
	// front of the viewer is on its positive side; NearDist is the near
	// clip distance along that direction.
	NearPlane geom.Plane
	NearDist  float32

	// Frustum holds the side planes (4) followed by the far plane,
	// Normals pointing inward.
	Frustum [5]geom.Plane

	QueryGroupMask uint32
	VisGroupMask   uint32
}

// Result is the append-only output of a Query: handles/indices of the
// primitives and surfaces potentially visible this frame.
type Result struct {
	Primitives []int
	Surfaces   []int
}

// Stats counts what each cull stage rejected, accumulated per query for
// testability and debug display rather than kept as globals.
type Stats struct {
	CulledBySurfaceBounds   int
	CulledByPrimitiveBounds int
	CulledByFaceDot         int
	ClippedPortals          int
	PassedPortals           int
	SkippedByPlaneOffset    int
	PortalStackOverflow     int
}

// scissor is an axis-aligned 2-D rectangle in the view-right/up basis,
// used to narrow a portal's outgoing frustum.
type scissor struct {
	MinX, MinY, MaxX, MaxY float32
}

func emptyScissor() scissor {
	const inf = 1e9
	return scissor{MinX: inf, MinY: inf, MaxX: -inf, MaxY: -inf}
}

func (s scissor) empty() bool { return s.MinX >= s.MaxX || s.MinY >= s.MaxY }

func (s scissor) intersect(o scissor) scissor {
	return scissor{
		MinX: max32(s.MinX, o.MinX),
		MinY: max32(s.MinY, o.MinY),
		MaxX: min32(s.MaxX, o.MaxX),
		MaxY: min32(s.MaxY, o.MaxY),
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
