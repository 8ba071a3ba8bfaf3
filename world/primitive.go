package world

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/kestrelengine/spatial/geom"
)

// PrimitiveKind distinguishes the two bounded-volume shapes a dynamic
// Primitive can carry.
type PrimitiveKind uint8

const (
	PrimitiveBox PrimitiveKind = iota
	PrimitiveSphere
)

// TriangleHit is the per-triangle record an owner's RaycastClosest/
// RaycastAll callback fills in; the raycast package wraps it with proxy
// metadata (owner, distance, primitive reference) before returning it to
// the caller.
type TriangleHit struct {
	Location d3.Vec3
	Normal   d3.Vec3
	U, V     float32
	Indices  [3]int32
	Material MaterialRef
}

// Raycaster is implemented by the external owner of a Primitive to answer
// a ray query against its actual (non-box/sphere) shape, e.g. the triangle
// mesh of a dynamic model.
type Raycaster interface {
	// RaycastClosest tests the primitive's shape against the ray
	// [rayStart,rayEnd]; currentClosest bounds the search (a hit farther
	// than it can be rejected early). ok is false on a miss.
	RaycastClosest(rayStart, rayEnd d3.Vec3, currentClosest float32) (hit TriangleHit, distance float32, ok bool)

	// RaycastAll appends every triangle hit along [rayStart,rayEnd] to out
	// and reports whether anything was appended.
	RaycastAll(rayStart, rayEnd d3.Vec3, out *[]TriangleHit) bool
}

// Primitive is a dynamic bounded object registered by external systems:
// a Box (AABB) or a Sphere, optionally bearing a planar face for the same
// back-face culling rule a Surface gets.
type Primitive struct {
	Kind   PrimitiveKind
	Box    geom.AABB
	Sphere geom.Sphere

	QueryGroup uint32
	VisGroup   uint32
	Flags      SurfaceFlags // reuses SurfacePlanar / SurfaceTwoSided
	FacePlane  geom.Plane

	IsOutdoor bool

	Owner     interface{}
	Raycaster Raycaster

	// --- world/dirty intrusive list indices, owned by Level ---
	next, prev           int
	nextDirty, prevDirty int
	inWorldList          bool
	inDirtyList          bool

	// linkHead is the index into the Level's link pool of this primitive's
	// singly linked chain of per-area PrimitiveLinks, or -1.
	linkHead int

	VisMark int
	VisPass int
}

// PrimitiveLink is the intrusive node simultaneously threading a
// per-primitive list of areas (Next) and a per-area list of primitives
// (NextInArea); allocated from Level's link pool.
type PrimitiveLink struct {
	Primitive int // index into Level.Primitives
	Area      int // index into Level.Areas

	Next       int // next link in Primitive's chain, or -1
	NextInArea int // next link in Area's chain, or -1

	free bool
}
