package raycast

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/world"
)

// DegenerateRayLength is the minimum ray segment length a query accepts;
// anything shorter is rejected before dispatch.
const DegenerateRayLength = 1e-4

// Filter narrows which surfaces/primitives a ray can hit, mirroring the
// query-group/vis-group masks a visibility Query uses. SortByDistance
// orders multi-hit results by ascending closest distance; single-hit
// queries ignore it.
type Filter struct {
	QueryGroupMask uint32
	VisGroupMask   uint32
	SortByDistance bool
}

// DefaultFilter accepts anything: every query-group and vis-group bit set.
func DefaultFilter() Filter {
	return Filter{QueryGroupMask: ^uint32(0), VisGroupMask: ^uint32(0)}
}

// ProxyType tags what a closest-hit or bounds-hit result landed on.
type ProxyType int8

const (
	ProxyNone ProxyType = iota
	ProxySurface
	ProxyPrimitive
)

// TriangleHit is one recorded ray/triangle intersection, world-space.
type TriangleHit struct {
	Location d3.Vec3
	Normal   d3.Vec3
	Distance float32
	U, V     float32
	Indices  [3]int32
	Material world.MaterialRef
}

// PrimitiveHits groups the triangle hits produced by a single primitive or
// surface within an all-hits query, recording which of Hits (by index into
// the query's flat Hits slice) is closest.
type PrimitiveHits struct {
	Owner      interface{}
	FirstHit   int
	NumHits    int
	ClosestHit int
}

// Result is the accumulator for an all-hits query: every triangle hit in
// no particular surface/primitive order, sortable by Distance, plus the
// per-owner grouping.
type Result struct {
	Hits       []TriangleHit
	Primitives []PrimitiveHits
}

// ClosestHit is the result of a closest-hit query.
type ClosestHit struct {
	Proxy     ProxyType
	Surface   int // index into Level.Surfaces, valid when Proxy == ProxySurface
	Primitive int // handle into Level.Primitives, valid when Proxy == ProxyPrimitive
	Owner     interface{}

	Location d3.Vec3
	Normal   d3.Vec3
	U, V     float32
	Distance float32
	Indices  [3]int32
	Material world.MaterialRef
	Lightmap world.LightmapBlock
}

// BoxHit is one bounds-only intersection: a surface or primitive's AABB/
// sphere was crossed, without resolving to a specific triangle.
type BoxHit struct {
	Proxy                    ProxyType
	Surface                  int
	Primitive                int
	Owner                    interface{}
	DistanceMin, DistanceMax float32
}
