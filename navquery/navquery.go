// Package navquery is a thin facade over detour.NavMeshQuery, matching the
// method table game code actually calls against a navigation mesh: resolve
// a world position to a polygon, then path, project or raycast against it.
//
// Every operation comes in two shapes: one that takes an already-resolved
// detour.PolyRef, and one that takes a world position plus a search extents
// and resolves the nearest polygon before doing the same work. The second
// shape is the one most callers want; the first is kept for callers that
// already hold a polygon reference from a previous query.
package navquery

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/detour"
)

// Query wraps a detour.NavMeshQuery with a default filter, exposing the
// navigation operations under the names callers expect.
type Query struct {
	q      *detour.NavMeshQuery
	filter detour.QueryFilter
}

// New creates a Query over nav with room for maxNodes search nodes and the
// standard (include-everything) query filter.
func New(nav *detour.NavMesh, maxNodes int32) (*Query, error) {
	st, q := detour.NewNavMeshQuery(nav, maxNodes)
	if detour.StatusFailed(st) {
		return nil, st
	}
	return &Query{q: q, filter: detour.NewStandardQueryFilter()}, nil
}

// SetFilter replaces the query filter used by every subsequent call.
func (nq *Query) SetFilter(f detour.QueryFilter) { nq.filter = f }

// Filter returns the query filter currently in use.
func (nq *Query) Filter() detour.QueryFilter { return nq.filter }

// Raw returns the underlying detour.NavMeshQuery for callers that need an
// operation this facade doesn't cover.
func (nq *Query) Raw() *detour.NavMeshQuery { return nq.q }

// QueryNearestPoly finds the polygon nearest position within extents.
func (nq *Query) QueryNearestPoly(position, extents d3.Vec3) (detour.PolyRef, bool) {
	st, ref, _ := nq.q.FindNearestPoly(position, extents, nq.filter)
	return ref, detour.StatusSucceed(st) && ref != 0
}

// QueryNearestPoint resolves both the nearest polygon and the point on it
// closest to position.
func (nq *Query) QueryNearestPoint(position, extents d3.Vec3) (detour.PolyRef, d3.Vec3, bool) {
	st, ref, pt := nq.q.FindNearestPoly(position, extents, nq.filter)
	return ref, pt, detour.StatusSucceed(st) && ref != 0
}

// QueryRandomPoint returns a random point on the whole mesh, sampled as
// detour's FindRandomPoint does: one tile with equal probability, then a
// polygon of it by area. Across tiles of different area the point is not
// area-uniform.
func (nq *Query) QueryRandomPoint(randf func() float32) (detour.PolyRef, d3.Vec3, bool) {
	ref, pt, st := nq.q.FindRandomPoint(nq.filter, randf)
	return ref, pt, detour.StatusSucceed(st)
}

// QueryRandomPointAroundCircle returns a uniformly random point reachable
// from the polygon nearest center, within radius of it.
func (nq *Query) QueryRandomPointAroundCircle(center d3.Vec3, radius float32, extents d3.Vec3, randf func() float32) (detour.PolyRef, d3.Vec3, bool) {
	startRef, ok := nq.QueryNearestPoly(center, extents)
	if !ok {
		return 0, nil, false
	}
	ref, pt, st := nq.q.FindRandomPointAroundCircle(startRef, center, radius, nq.filter, randf)
	return ref, pt, detour.StatusSucceed(st)
}

// QueryClosestPointOnPoly finds the closest point to pos on ref's surface,
// using the detail mesh for height. overPoly reports whether pos already
// projected inside the polygon's xz bounds.
func (nq *Query) QueryClosestPointOnPoly(ref detour.PolyRef, pos d3.Vec3) (closest d3.Vec3, overPoly, ok bool) {
	closest = d3.NewVec3()
	st := nq.q.ClosestPointOnPoly(ref, pos, closest, &overPoly)
	return closest, overPoly, detour.StatusSucceed(st)
}

// QueryClosestPointOnPolyBoundary is the faster, boundary-only variant of
// QueryClosestPointOnPoly: when pos lies inside the polygon's xz outline the
// result is pos itself, otherwise it lies on the polygon's edge.
func (nq *Query) QueryClosestPointOnPolyBoundary(ref detour.PolyRef, pos d3.Vec3) (d3.Vec3, bool) {
	closest := d3.NewVec3()
	st := nq.q.ClosestPointOnPolyBoundary(ref, pos, closest)
	return closest, detour.StatusSucceed(st)
}

// MoveAlongSurface slides pos from startRef toward destination, stopping at
// the first wall it cannot cross.
func (nq *Query) MoveAlongSurface(startRef detour.PolyRef, pos, destination d3.Vec3, maxVisitedSize int32) (resultPos d3.Vec3, visited []detour.PolyRef, ok bool) {
	resultPos, visited, st := nq.q.MoveAlongSurface(startRef, pos, destination, nq.filter, maxVisitedSize)
	return resultPos, visited, detour.StatusSucceed(st)
}

// MoveAlongSurfaceFromPoint resolves position's nearest polygon before
// sliding it toward destination.
func (nq *Query) MoveAlongSurfaceFromPoint(position, destination, extents d3.Vec3, maxVisitedSize int32) (d3.Vec3, []detour.PolyRef, bool) {
	startRef, ok := nq.QueryNearestPoly(position, extents)
	if !ok {
		return nil, nil, false
	}
	return nq.MoveAlongSurface(startRef, position, destination, maxVisitedSize)
}

// FindPath searches the polygon corridor from startRef to endRef.
func (nq *Query) FindPath(startRef, endRef detour.PolyRef, startPos, endPos d3.Vec3, maxPath int32) ([]detour.PolyRef, bool) {
	path := make([]detour.PolyRef, maxPath)
	n, st := nq.q.FindPath(startRef, endRef, startPos, endPos, nq.filter, path)
	if detour.StatusFailed(st) {
		return nil, false
	}
	return path[:n], true
}

// FindPathFromPoints resolves the nearest polygon to both endpoints before
// searching the corridor between them.
func (nq *Query) FindPathFromPoints(startPos, endPos, extents d3.Vec3, maxPath int32) ([]detour.PolyRef, bool) {
	startRef, ok := nq.QueryNearestPoly(startPos, extents)
	if !ok {
		return nil, false
	}
	endRef, ok := nq.QueryNearestPoly(endPos, extents)
	if !ok {
		return nil, false
	}
	return nq.FindPath(startRef, endRef, startPos, endPos, maxPath)
}

// maxPathPolys sizes the scratch polygon corridor used by the
// position-flavoured path operations.
const maxPathPolys = 2048

// FindStraightPathFromPoints resolves both endpoints, searches the polygon
// corridor between them, and string-pulls it to waypoints. When the
// corridor stops short of the polygon nearest endPos (a partial path), the
// requested end is first projected onto the corridor's last polygon so
// string-pulling still has a valid endpoint; reachedEnd reports whether
// the corridor actually arrived at endPos's polygon.
func (nq *Query) FindStraightPathFromPoints(startPos, endPos, extents d3.Vec3, maxStraightPath int32) (points []d3.Vec3, flags []uint8, refs []detour.PolyRef, reachedEnd, ok bool) {
	startRef, ok := nq.QueryNearestPoly(startPos, extents)
	if !ok {
		return nil, nil, nil, false, false
	}
	endRef, ok := nq.QueryNearestPoly(endPos, extents)
	if !ok {
		return nil, nil, nil, false, false
	}

	path, ok := nq.FindPath(startRef, endRef, startPos, endPos, maxPathPolys)
	if !ok || len(path) == 0 {
		return nil, nil, nil, false, false
	}

	target := endPos
	reachedEnd = path[len(path)-1] == endRef
	if !reachedEnd {
		proj, _, pok := nq.QueryClosestPointOnPoly(path[len(path)-1], endPos)
		if pok {
			target = proj
		}
	}

	points, flags, refs, ok = nq.FindStraightPath(startPos, target, path, maxStraightPath, 0)
	return points, flags, refs, reachedEnd, ok
}

// FindStraightPath reduces a polygon corridor to a minimal sequence of
// straight-line waypoints.
func (nq *Query) FindStraightPath(startPos, endPos d3.Vec3, path []detour.PolyRef, maxStraightPath int32, options int32) (points []d3.Vec3, flags []uint8, refs []detour.PolyRef, ok bool) {
	points = make([]d3.Vec3, maxStraightPath)
	for i := range points {
		points[i] = d3.NewVec3()
	}
	flags = make([]uint8, maxStraightPath)
	refs = make([]detour.PolyRef, maxStraightPath)

	n, st := nq.q.FindStraightPath(startPos, endPos, path, points, flags, refs, options)
	if detour.StatusFailed(st) {
		return nil, nil, nil, false
	}
	return points[:n], flags[:n], refs[:n], true
}

// WallHit describes the closest wall found by CalcDistanceToWall.
type WallHit struct {
	Dist   float32
	Pos    d3.Vec3
	Normal d3.Vec3
}

// CalcDistanceToWall radially scans outward from startRef up to radius and
// reports the closest solid wall.
func (nq *Query) CalcDistanceToWall(startRef detour.PolyRef, position d3.Vec3, radius float32) (WallHit, bool) {
	dist, pos, normal, st := nq.q.FindDistanceToWall(startRef, position, radius, nq.filter)
	return WallHit{Dist: dist, Pos: pos, Normal: normal}, detour.StatusSucceed(st)
}

// CalcDistanceToWallFromPoint resolves position's nearest polygon before
// scanning for the nearest wall.
func (nq *Query) CalcDistanceToWallFromPoint(position, extents d3.Vec3, radius float32) (WallHit, bool) {
	startRef, ok := nq.QueryNearestPoly(position, extents)
	if !ok {
		return WallHit{}, false
	}
	return nq.CalcDistanceToWall(startRef, position, radius)
}

// GetHeight returns the navigation mesh surface height at pos, using ref's
// detail mesh.
func (nq *Query) GetHeight(ref detour.PolyRef, pos d3.Vec3) (float32, bool) {
	h, st := nq.q.GetPolyHeight(ref, pos)
	return h, detour.StatusSucceed(st)
}

// GetOffMeshConnectionPolyEndPoints returns polyRef's endpoints, ordered for
// travel from prevRef toward nextRef.
func (nq *Query) GetOffMeshConnectionPolyEndPoints(prevRef, polyRef, nextRef detour.PolyRef) (start, end d3.Vec3, ok bool) {
	start, end, st := nq.q.GetOffMeshConnectionPolyEndPoints(prevRef, polyRef, nextRef)
	return start, end, detour.StatusSucceed(st)
}

// RayCastResult reports the outcome of CastRay.
type RayCastResult struct {
	// Hit is true if the ray struck a wall before reaching end.
	Hit bool
	// T is the hit parameter along the ray; 1 (or greater) if it reached end.
	T float32
	// Normal is the hit wall's normal; meaningless if Hit is false.
	Normal d3.Vec3
}

// CastRay casts a 'walkability' ray across the mesh surface from startRef
// toward end, for short-distance line-of-sight checks.
func (nq *Query) CastRay(startRef detour.PolyRef, start, end d3.Vec3) (RayCastResult, bool) {
	hit, st := nq.q.Raycast(startRef, start, end, nq.filter, 0, 0)
	if detour.StatusFailed(st) {
		return RayCastResult{}, false
	}
	return RayCastResult{Hit: hit.T < 1, T: hit.T, Normal: hit.HitNormal}, true
}

// CastRayFromPoint resolves start's nearest polygon before casting.
func (nq *Query) CastRayFromPoint(start, end, extents d3.Vec3) (RayCastResult, bool) {
	startRef, ok := nq.QueryNearestPoly(start, extents)
	if !ok {
		return RayCastResult{}, false
	}
	return nq.CastRay(startRef, start, end)
}

// GetTileLocation returns the (x, z) tile grid coordinate containing pos.
func (nq *Query) GetTileLocation(pos d3.Vec3) (tx, tz int32) {
	return nq.q.AttachedNavMesh().CalcTileLoc(pos)
}

// GetTileWorldBounds returns the world-space AABB of tile (tx, tz). The
// vertical extent is taken from the tile's own header when the tile is
// loaded, and left at zero height otherwise.
func (nq *Query) GetTileWorldBounds(tx, tz int32) (bmin, bmax d3.Vec3) {
	nav := nq.q.AttachedNavMesh()
	bmin = d3.NewVec3()
	bmax = d3.NewVec3()
	bmin[0] = nav.Orig[0] + float32(tx)*nav.TileWidth
	bmin[2] = nav.Orig[2] + float32(tz)*nav.TileHeight
	bmax[0] = bmin[0] + nav.TileWidth
	bmax[2] = bmin[2] + nav.TileHeight

	if tile := nav.TileAt(tx, tz, 0); tile != nil && tile.Header != nil {
		bmin[1] = tile.Header.Bmin[1]
		bmax[1] = tile.Header.Bmax[1]
	}
	return bmin, bmax
}
