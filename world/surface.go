package world

import "github.com/kestrelengine/spatial/geom"

// SurfaceFlags are the boolean traits a brush surface carries.
type SurfaceFlags uint8

const (
	// SurfacePlanar means the surface has a single supporting face plane
	// (FacePlane is valid) and can be back-face culled / used for a
	// single planar raycast test.
	SurfacePlanar SurfaceFlags = 1 << iota
	// SurfaceTwoSided disables back-face culling and back-face raycast
	// rejection for this surface.
	SurfaceTwoSided
)

// Surface is a polygonal face attached to an area's brush model.
type Surface struct {
	Flags     SurfaceFlags
	FacePlane geom.Plane // only meaningful when Flags&SurfacePlanar != 0
	Bounds    geom.AABB

	QueryGroup uint32 // must be a subset of a query's mask to be considered
	VisGroup   uint32 // must share a bit with a query's vis-group mask

	FirstVertex, NumVertices int
	FirstIndex, NumIndices   int

	Material    MaterialRef
	Lightmap    LightmapBlock

	VisMark int
	VisPass int
}

// MaterialRef is an opaque handle into a material table owned by external
// rendering code; the core never dereferences it.
type MaterialRef int32

// LightmapBlock is an opaque lightmap atlas reference, carried through
// raycast hit records for external rendering code to resample.
type LightmapBlock struct {
	Block         int32
	LightingLevel float32
}

func (s *Surface) isPlanar() bool    { return s.Flags&SurfacePlanar != 0 }
func (s *Surface) isTwoSided() bool  { return s.Flags&SurfaceTwoSided != 0 }
