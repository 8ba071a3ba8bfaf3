// Package vis implements the per-frame visibility query: PVS or portal
// traversal of a world.Level's tree/areas to produce the set of surfaces
// and primitives potentially visible from a View.
package vis

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/geom"
	"github.com/kestrelengine/spatial/world"
)

// Query evaluates view against level, returning every surface and
// primitive potentially visible. Safe to call repeatedly
// per frame; each call advances the level's shared vis-query marker.
func Query(level *world.Level, view View) (Result, Stats) {
	q := &querier{level: level, view: view, marker: level.NextVisQueryMarker()}

	switch level.Topology() {
	case world.TopologyPortal:
		area := level.FindArea(view.Position)
		q.stackDepth = 0
		root := &q.stack[0]
		root.count = len(view.Frustum)
		copy(root.frustum[:], view.Frustum[:])
		root.scissor = fullScissor()
		q.floodPortals(area)
	case world.TopologyPVS:
		leaf := level.FindLeaf(view.Position)
		nodeMark := level.MarkLeafs(leaf)
		cullBits := (1 << uint(len(view.Frustum))) - 1
		q.traverseTree(0, view.Frustum[:], cullBits, nodeMark)
	default:
		for area := 0; area < level.OutdoorArea()+1; area++ {
			q.cullArea(area, view.Frustum[:])
		}
	}

	return q.result, q.stats
}

func fullScissor() scissor {
	const inf = 1e9
	return scissor{MinX: -inf, MinY: -inf, MaxX: inf, MaxY: inf}
}

type querier struct {
	level  *world.Level
	view   View
	marker uint32
	result Result
	stats  Stats

	stack      [MaxPortalStack]portalFrame
	stackDepth int

	// bufA/bufB are the ping-pong polygon buffers calcPortalWinding clips
	// a portal hull into, reused across the whole query.
	bufA, bufB []d3.Vec3
}

// traverseTree descends while a node/leaf's
// ViewMark matches the current tree-marking generation, culling bounds
// incrementally, and cull each reached leaf's area on arrival.
func (q *querier) traverseTree(nodeIdx int, frustum []geom.Plane, cullBits int, nodeMark int) {
	leafIdx, isLeaf := isLeafIdx(nodeIdx)

	var bounds geom.AABB
	var viewMark int
	if isLeaf {
		l := q.level.Leaf(leafIdx)
		bounds, viewMark = l.Bounds, l.ViewMark
	} else {
		n := q.level.Node(nodeIdx)
		bounds, viewMark = n.Bounds, n.ViewMark
	}

	if viewMark != nodeMark {
		return
	}
	if cullAABB(frustum, bounds, &cullBits) {
		return
	}
	if isLeaf {
		q.cullArea(q.level.Leaf(leafIdx).Area, frustum)
		return
	}

	// A child index of 0 is the solid sentinel; node 0 is
	// only ever a valid traversal target as the initial root call.
	n := q.level.Node(nodeIdx)
	if c := n.ChildrenIdx[0]; c != 0 {
		q.traverseTree(c, frustum, cullBits, nodeMark)
	}
	if c := n.ChildrenIdx[1]; c != 0 {
		q.traverseTree(c, frustum, cullBits, nodeMark)
	}
}

func isLeafIdx(nodeIdx int) (int, bool) {
	if nodeIdx < 0 {
		return -1 - nodeIdx, true
	}
	return 0, false
}

// faceCull reports whether view.Position lies behind a planar face.
func (q *querier) faceCull(facePlane geom.Plane) bool {
	return facePlane.Dot(q.view.Position) < 0
}

// cullArea walks area's surfaces then its primitive
// links, applying the VisMark/VisPass dedup, group-mask filter, face cull
// and frustum cull.
func (q *querier) cullArea(area int, frustum []geom.Plane) {
	lvl := q.level
	a := &lvl.Areas[area]

	for i := 0; i < a.NumSurfaces; i++ {
		surfIdx := int(lvl.AreaSurfaces[a.FirstSurface+i])
		surf := lvl.SurfaceAt(surfIdx)
		if uint32(surf.VisMark) == q.marker {
			continue
		}
		surf.VisMark = int(q.marker)

		if surf.QueryGroup&^q.view.QueryGroupMask != 0 {
			continue
		}
		if surf.VisGroup&q.view.VisGroupMask == 0 {
			continue
		}
		flags := surf.Flags
		if flags&world.SurfacePlanar != 0 && flags&world.SurfaceTwoSided == 0 && q.faceCull(surf.FacePlane) {
			q.stats.CulledByFaceDot++
			continue
		}
		if cullAABBSingle(frustum, surf.Bounds) {
			q.stats.CulledBySurfaceBounds++
			continue
		}

		surf.VisPass = int(q.marker)
		q.result.Surfaces = append(q.result.Surfaces, surfIdx)
	}

	lvl.PrimitivesInArea(area, func(handle int) {
		prim := lvl.Primitive(handle)
		if uint32(prim.VisMark) == q.marker {
			return
		}

		if prim.QueryGroup&^q.view.QueryGroupMask != 0 {
			prim.VisMark = int(q.marker)
			return
		}
		if prim.VisGroup&q.view.VisGroupMask == 0 {
			prim.VisMark = int(q.marker)
			return
		}
		if prim.Flags&world.SurfacePlanar != 0 && prim.Flags&world.SurfaceTwoSided == 0 && q.faceCull(prim.FacePlane) {
			prim.VisMark = int(q.marker)
			q.stats.CulledByFaceDot++
			return
		}

		switch prim.Kind {
		case world.PrimitiveBox:
			if cullAABBSingle(frustum, prim.Box) {
				q.stats.CulledByPrimitiveBounds++
				return
			}
		case world.PrimitiveSphere:
			if cullSphereSingle(frustum, prim.Sphere.Center, prim.Sphere.Radius) {
				q.stats.CulledByPrimitiveBounds++
				return
			}
		}

		prim.VisMark = int(q.marker)
		prim.VisPass = int(q.marker)
		q.result.Primitives = append(q.result.Primitives, handle)
	})
}
