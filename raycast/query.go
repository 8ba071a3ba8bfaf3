package raycast

import (
	"sort"

	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/world"
)

// state carries one query's mutable progress: the ray, the filter, and
// whichever accumulator (closest-hit, all-hits, or bounds-only) this call
// is filling in.
type state struct {
	level  *world.Level
	filter Filter
	marker uint32

	rayStart d3.Vec3
	dir      d3.Vec3 // normalized rayEnd-rayStart
	rayLength float32

	closest    bool
	boundsOnly bool

	// hitDistanceMin gates every closest-mode test, triangle or bounds;
	// it starts at rayLength and only ever shrinks.
	hitDistanceMin float32
	found          bool
	closestHit     ClosestHit
	boundsHit      BoxHit

	result     Result
	boundsHits []BoxHit
}

func newState(level *world.Level, rayStart, rayEnd d3.Vec3, filter Filter, closest, boundsOnly bool) (*state, bool) {
	delta := rayEnd.Sub(rayStart)
	length := delta.Len()
	if length < DegenerateRayLength {
		return nil, false
	}
	dir := d3.NewVec3From(delta)
	dir.Normalize()

	return &state{
		level:          level,
		filter:         filter,
		marker:         level.NextVisQueryMarker(),
		rayStart:       rayStart,
		dir:            dir,
		rayLength:      length,
		closest:        closest,
		boundsOnly:     boundsOnly,
		hitDistanceMin: length,
	}, true
}

func (s *state) rayEnd() d3.Vec3 { return s.rayStart.SAdd(s.dir, s.rayLength) }

func (s *state) dispatch() {
	if s.level.Topology() == world.TopologyPortal {
		area := s.level.FindArea(s.rayStart)
		s.floodArea(area)
		return
	}
	if len(s.level.Nodes) > 0 {
		s.segmentWalk(0, s.rayStart, s.rayEnd())
		return
	}
	for area := 0; area <= s.level.OutdoorArea(); area++ {
		s.raycastArea(area)
	}
}

// raycastArea is RaycastArea/RaycastPrimitiveBounds: visit an area's
// surfaces then its dynamic primitives exactly once per query, applying
// the same query-group/vis-group filter a visibility Query does, and
// dispatching each to the triangle or bounds-only path.
func (s *state) raycastArea(area int) {
	lvl := s.level
	a := &lvl.Areas[area]

	for i := 0; i < a.NumSurfaces; i++ {
		surfIdx := int(lvl.AreaSurfaces[a.FirstSurface+i])
		surf := lvl.SurfaceAt(surfIdx)
		if uint32(surf.VisMark) == s.marker {
			continue
		}
		surf.VisMark = int(s.marker)

		if surf.QueryGroup&^s.filter.QueryGroupMask != 0 {
			continue
		}
		if surf.VisGroup&s.filter.VisGroupMask == 0 {
			continue
		}

		if s.boundsOnly {
			s.raycastSurfaceBounds(surf, surfIdx)
		} else {
			s.raycastSurfaceTriangles(surf, surfIdx)
		}
	}

	lvl.PrimitivesInArea(area, func(handle int) {
		prim := lvl.Primitive(handle)
		if uint32(prim.VisMark) == s.marker {
			return
		}

		if prim.QueryGroup&^s.filter.QueryGroupMask != 0 {
			prim.VisMark = int(s.marker)
			return
		}
		if prim.VisGroup&s.filter.VisGroupMask == 0 {
			prim.VisMark = int(s.marker)
			return
		}

		if prim.Flags&world.SurfacePlanar != 0 && prim.Flags&world.SurfaceTwoSided == 0 {
			if prim.FacePlane.Dot(s.rayStart) < 0 {
				prim.VisMark = int(s.marker)
				return
			}
		}

		prim.VisMark = int(s.marker)
		if s.boundsOnly {
			s.raycastPrimitiveBounds(prim, handle)
		} else {
			s.raycastPrimitiveShape(prim, handle)
		}
	})
}

// RaycastClosest finds the single closest surface or primitive hit along
// [rayStart,rayEnd].
func RaycastClosest(level *world.Level, rayStart, rayEnd d3.Vec3, filter Filter) (ClosestHit, bool) {
	s, ok := newState(level, rayStart, rayEnd, filter, true, false)
	if !ok {
		return ClosestHit{}, false
	}
	s.dispatch()
	return s.closestHit, s.found
}

// RaycastAll collects every triangle hit along [rayStart,rayEnd]. With
// filter.SortByDistance, the per-owner groups are stably reordered by
// their closest hit; the flat Hits slice keeps traversal order so each
// group's FirstHit/NumHits window stays valid.
func RaycastAll(level *world.Level, rayStart, rayEnd d3.Vec3, filter Filter) Result {
	s, ok := newState(level, rayStart, rayEnd, filter, false, false)
	if !ok {
		return Result{}
	}
	s.dispatch()
	if filter.SortByDistance {
		r := &s.result
		sort.SliceStable(r.Primitives, func(i, j int) bool {
			return r.Hits[r.Primitives[i].ClosestHit].Distance < r.Hits[r.Primitives[j].ClosestHit].Distance
		})
	}
	return s.result
}

// RaycastClosestBounds is RaycastClosest but against surface/primitive
// bounding volumes only, skipping triangle work entirely.
func RaycastClosestBounds(level *world.Level, rayStart, rayEnd d3.Vec3, filter Filter) (BoxHit, bool) {
	s, ok := newState(level, rayStart, rayEnd, filter, true, true)
	if !ok {
		return BoxHit{}, false
	}
	s.dispatch()
	return s.boundsHit, s.found
}

// RaycastBounds collects every bounds-only hit along [rayStart,rayEnd],
// stably sorted by DistanceMin when filter.SortByDistance is set.
func RaycastBounds(level *world.Level, rayStart, rayEnd d3.Vec3, filter Filter) []BoxHit {
	s, ok := newState(level, rayStart, rayEnd, filter, false, true)
	if !ok {
		return nil
	}
	s.dispatch()
	if filter.SortByDistance {
		sort.SliceStable(s.boundsHits, func(i, j int) bool {
			return s.boundsHits[i].DistanceMin < s.boundsHits[j].DistanceMin
		})
	}
	return s.boundsHits
}
