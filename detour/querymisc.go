package detour

import (
	"unsafe"

	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// GetPolyHeight gets the height of the polygon at the provided position using
// the height detail, and fails if the provided position is outside the xz
// bounds of the polygon. Off-mesh connection polygons have no height detail
// and always fail.
//
// Note: this method may be used by multiple clients without side effects.
func (q *NavMeshQuery) GetPolyHeight(ref PolyRef, pos d3.Vec3) (height float32, st Status) {
	if !q.nav.IsValidPolyRef(ref) {
		return 0, Failure | InvalidParam
	}

	var (
		tile *MeshTile
		poly *Poly
	)
	if StatusFailed(q.nav.TileAndPolyByRef(ref, &tile, &poly)) {
		return 0, Failure | InvalidParam
	}
	if poly.Type() == polyTypeOffMeshConnection {
		return 0, Failure | InvalidParam
	}

	ip := (uintptr(unsafe.Pointer(poly)) - uintptr(unsafe.Pointer(&tile.Polys[0]))) / unsafe.Sizeof(*poly)
	pd := &tile.DetailMeshes[uint32(ip)]

	var verts [VertsPerPolygon * 3]float32
	nv := poly.VertCount
	for i := uint8(0); i < nv; i++ {
		idx := poly.Verts[i] * 3
		copy(verts[int(i)*3:int(i)*3+3], tile.Verts[idx:idx+3])
	}
	if !pointInPolygon(pos, verts[:nv*3], int32(nv)) {
		return 0, Failure | InvalidParam
	}

	// Find height at the location.
	for j := uint8(0); j < pd.TriCount; j++ {
		idx := int((pd.TriBase + uint32(j)) * 4)
		t := tile.DetailTris[idx : idx+3]
		var v [3]d3.Vec3
		for k := 0; k < 3; k++ {
			if t[k] < poly.VertCount {
				vidx := poly.Verts[t[k]] * 3
				v[k] = tile.Verts[vidx : vidx+3]
			} else {
				vidx := (pd.VertBase + uint32(t[k]-poly.VertCount)) * 3
				v[k] = tile.DetailVerts[vidx : vidx+3]
			}
		}
		var h float32
		if closestHeightPointTriangle(pos, v[0], v[1], v[2], &h) {
			return h, Success
		}
	}

	// Could not find the height through the detail triangles (computation
	// error at the poly boundary); fall back to the closest detail vertex.
	closestDist := float32(math32.MaxFloat32)
	var closestHeight float32
	found := false
	for j := uint8(0); j < pd.VertCount; j++ {
		var v d3.Vec3
		if j < poly.VertCount {
			vidx := poly.Verts[j] * 3
			v = tile.Verts[vidx : vidx+3]
		} else {
			vidx := (pd.VertBase + uint32(j-poly.VertCount)) * 3
			v = tile.DetailVerts[vidx : vidx+3]
		}
		d := math32.Sqr(pos[0]-v[0]) + math32.Sqr(pos[2]-v[2])
		if d < closestDist {
			closestDist = d
			closestHeight = v[1]
			found = true
		}
	}
	if found {
		return closestHeight, Success
	}
	return 0, Failure | InvalidParam
}

// pointInPolygon reports whether pt lies inside the xz-projected polygon
// described by verts (nverts vertices, 3 floats each).
func pointInPolygon(pt d3.Vec3, verts []float32, nverts int32) bool {
	var c bool
	j := nverts - 1
	for i := int32(0); i < nverts; j, i = i, i+1 {
		vi := verts[i*3 : i*3+3]
		vj := verts[j*3 : j*3+3]
		if ((vi[2] > pt[2]) != (vj[2] > pt[2])) &&
			(pt[0] < (vj[0]-vi[0])*(pt[2]-vi[2])/(vj[2]-vi[2])+vi[0]) {
			c = !c
		}
	}
	return c
}

// GetOffMeshConnectionPolyEndPoints returns the endpoint positions of an
// off-mesh connection polygon, ordered so that startPos lies on the side
// entered from prevRef.
//
// Note: this method may be used by multiple clients without side effects.
func (q *NavMeshQuery) GetOffMeshConnectionPolyEndPoints(prevRef, polyRef, nextRef PolyRef) (startPos, endPos d3.Vec3, st Status) {
	if polyRef == 0 {
		return nil, nil, Failure | InvalidParam
	}

	var (
		tile *MeshTile
		poly *Poly
	)
	if StatusFailed(q.nav.TileAndPolyByRef(polyRef, &tile, &poly)) {
		return nil, nil, Failure | InvalidParam
	}
	if poly.Type() != polyTypeOffMeshConnection {
		return nil, nil, Failure | InvalidParam
	}

	// An off-mesh connection polygon has two vertices, one per side, each
	// linked via the boundary edge matching its own index.
	var side0Ref, side1Ref PolyRef
	for i := poly.FirstLink; i != nullLink; i = tile.Links[i].Next {
		switch tile.Links[i].Edge {
		case 0:
			side0Ref = tile.Links[i].Ref
		case 1:
			side1Ref = tile.Links[i].Ref
		}
	}

	idx0, idx1 := uint8(0), uint8(1)
	if prevRef != 0 && prevRef == side1Ref {
		idx0, idx1 = 1, 0
	}
	_ = nextRef

	v0idx := poly.Verts[idx0] * 3
	v1idx := poly.Verts[idx1] * 3
	startPos = d3.NewVec3From(tile.Verts[v0idx : v0idx+3])
	endPos = d3.NewVec3From(tile.Verts[v1idx : v1idx+3])
	return startPos, endPos, Success
}

// FindDistanceToWall finds the distance from the specified position to the
// nearest polygon wall, flooding the navigation graph outward from startRef
// up to maxRadius.
//
// Note: this method clears and reuses the query's node pool and open list.
func (q *NavMeshQuery) FindDistanceToWall(startRef PolyRef, centerPos d3.Vec3, maxRadius float32,
	filter QueryFilter) (hitDist float32, hitPos, hitNormal d3.Vec3, st Status) {

	if startRef == 0 || !q.nav.IsValidPolyRef(startRef) {
		return 0, nil, nil, Failure | InvalidParam
	}

	q.nodePool.Clear()
	q.openList.clear()

	startNode := q.nodePool.Node(startRef, 0)
	startNode.Pos.Assign(centerPos)
	startNode.PIdx = 0
	startNode.Cost = 0
	startNode.Total = 0
	startNode.ID = startRef
	startNode.Flags = nodeOpen
	q.openList.push(startNode)

	radiusSqr := maxRadius * maxRadius
	hitPos = d3.NewVec3()
	hitNormal = d3.NewVec3()
	hitDist = math32.MaxFloat32

	for !q.openList.empty() {
		bestNode := q.openList.pop()
		bestNode.Flags &= ^nodeOpen
		bestNode.Flags |= nodeClosed

		bestRef := bestNode.ID
		var bestTile *MeshTile
		var bestPoly *Poly
		q.nav.TileAndPolyByRefUnsafe(bestRef, &bestTile, &bestPoly)

		var parentRef PolyRef
		if bestNode.PIdx != 0 {
			parentRef = q.nodePool.NodeAtIdx(int32(bestNode.PIdx)).ID
		}

		// Hit test the polygon's solid (link-less, or filtered-out) edges.
		nv := int32(bestPoly.VertCount)
		for e := int32(0); e < nv; e++ {
			solid := true
			for i := bestPoly.FirstLink; i != nullLink; i = bestTile.Links[i].Next {
				if int32(bestTile.Links[i].Edge) == e {
					var neiTile *MeshTile
					var neiPoly *Poly
					q.nav.TileAndPolyByRefUnsafe(bestTile.Links[i].Ref, &neiTile, &neiPoly)
					if filter.PassFilter(bestTile.Links[i].Ref, neiTile, neiPoly) {
						solid = false
					}
					break
				}
			}
			if !solid {
				continue
			}

			v0idx := bestPoly.Verts[e] * 3
			v1idx := bestPoly.Verts[(e+1)%nv] * 3
			p1 := bestTile.Verts[v0idx : v0idx+3]
			p2 := bestTile.Verts[v1idx : v1idx+3]

			var tseg float32
			distSqr := distancePtSegSqr2D(centerPos, p1, p2, &tseg)
			if distSqr < hitDist*hitDist {
				d3.Vec3Lerp(hitPos, p1, p2, tseg)
				hitDist = math32.Sqrt(distSqr)
				dx := p2[0] - p1[0]
				dz := p2[2] - p1[2]
				hitNormal[0] = dz
				hitNormal[1] = 0
				hitNormal[2] = -dx
				hitNormal.Normalize()
			}
		}

		// Flood to neighbours still within the search radius.
		for i := bestPoly.FirstLink; i != nullLink; i = bestTile.Links[i].Next {
			link := &bestTile.Links[i]
			neighbourRef := link.Ref
			if neighbourRef == 0 || neighbourRef == parentRef {
				continue
			}

			var neighbourTile *MeshTile
			var neighbourPoly *Poly
			q.nav.TileAndPolyByRefUnsafe(neighbourRef, &neighbourTile, &neighbourPoly)
			if !filter.PassFilter(neighbourRef, neighbourTile, neighbourPoly) {
				continue
			}

			neighbourNode := q.nodePool.Node(neighbourRef, 0)
			if neighbourNode == nil {
				continue
			}
			if (neighbourNode.Flags & nodeClosed) != 0 {
				continue
			}

			if neighbourNode.Flags == 0 {
				q.edgeMidPoint(bestRef, bestPoly, bestTile, neighbourRef, neighbourPoly, neighbourTile, neighbourNode.Pos[:])
			}

			dx := neighbourNode.Pos[0] - centerPos[0]
			dz := neighbourNode.Pos[2] - centerPos[2]
			if dx*dx+dz*dz > radiusSqr {
				continue
			}

			total := bestNode.Total + bestNode.Pos.Dist(neighbourNode.Pos)
			if (neighbourNode.Flags&nodeOpen) != 0 && total >= neighbourNode.Total {
				continue
			}

			neighbourNode.PIdx = q.nodePool.NodeIdx(bestNode)
			neighbourNode.ID = neighbourRef
			neighbourNode.Flags &= ^NodeFlags(nodeClosed)
			neighbourNode.Total = total

			if (neighbourNode.Flags & nodeOpen) != 0 {
				q.openList.modify(neighbourNode)
			} else {
				neighbourNode.Flags |= nodeOpen
				q.openList.push(neighbourNode)
			}
		}
	}

	if hitDist == math32.MaxFloat32 {
		hitDist = maxRadius
	}
	return hitDist, hitPos, hitNormal, Success
}

// MoveAlongSurface moves from the start to the end position constrained to
// the navigation mesh, sliding along its surface when a wall is encountered.
//
// The result is not projected to the surface of the navigation mesh; call
// GetPolyHeight on the returned polygon to apply the final height.
//
// Note: this method clears and reuses the query's tiny node pool.
func (q *NavMeshQuery) MoveAlongSurface(startRef PolyRef, startPos, endPos d3.Vec3,
	filter QueryFilter, maxVisitedSize int32) (resultPos d3.Vec3, visited []PolyRef, st Status) {

	if startRef == 0 || !q.nav.IsValidPolyRef(startRef) {
		return nil, nil, Failure | InvalidParam
	}

	q.tinyNodePool.Clear()

	startNode := q.tinyNodePool.Node(startRef, 0)
	startNode.PIdx = 0
	startNode.ID = startRef
	startNode.Flags = nodeClosed

	stack := []*Node{startNode}

	bestPos := d3.NewVec3From(startPos)
	var bestNode *Node
	bestDist := float32(math32.MaxFloat32)

	var verts [VertsPerPolygon * 3]float32

	for len(stack) > 0 {
		curNode := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		curRef := curNode.ID
		var curTile *MeshTile
		var curPoly *Poly
		q.nav.TileAndPolyByRefUnsafe(curRef, &curTile, &curPoly)

		nverts := int32(curPoly.VertCount)
		for i := int32(0); i < nverts; i++ {
			vidx := curPoly.Verts[i] * 3
			copy(verts[i*3:i*3+3], curTile.Verts[vidx:vidx+3])
		}

		var edged, edget [VertsPerPolygon]float32
		if distancePtPolyEdgesSqr(endPos, verts[:nverts*3], nverts, edged[:nverts], edget[:nverts]) {
			bestNode = curNode
			bestPos.Assign(endPos)
			break
		}

		// Find the wall edge closest to endPos.
		imin := int32(-1)
		dmin := float32(math32.MaxFloat32)
		for i := int32(0); i < nverts; i++ {
			if edged[i] < dmin {
				dmin = edged[i]
				imin = i
			}
		}
		if imin < 0 {
			continue
		}
		if dmin < bestDist {
			idx := imin * 3
			jdx := ((imin + 1) % nverts) * 3
			va := verts[idx : idx+3]
			vb := verts[jdx : jdx+3]
			closest := d3.NewVec3()
			d3.Vec3Lerp(closest, va, vb, edget[imin])
			bestPos.Assign(closest)
			bestDist = dmin
			bestNode = curNode
		}

		// Follow the neighbour across that edge, toward endPos.
		for i := curPoly.FirstLink; i != nullLink; i = curTile.Links[i].Next {
			link := &curTile.Links[i]
			if int32(link.Edge) != imin {
				continue
			}

			neighbourRef := link.Ref
			if neighbourRef == 0 || neighbourRef == curNode.ID {
				continue
			}

			var neighbourTile *MeshTile
			var neighbourPoly *Poly
			q.nav.TileAndPolyByRefUnsafe(neighbourRef, &neighbourTile, &neighbourPoly)
			if neighbourPoly.Type() == polyTypeOffMeshConnection {
				continue
			}
			if !filter.PassFilter(neighbourRef, neighbourTile, neighbourPoly) {
				continue
			}

			neighbourNode := q.tinyNodePool.Node(neighbourRef, 0)
			if neighbourNode == nil {
				continue
			}
			if (neighbourNode.Flags & nodeClosed) != 0 {
				continue
			}

			neighbourNode.PIdx = q.tinyNodePool.NodeIdx(curNode)
			neighbourNode.ID = neighbourRef
			neighbourNode.Flags |= nodeClosed
			stack = append(stack, neighbourNode)
		}
	}

	if bestNode == nil {
		return d3.NewVec3From(startPos), nil, Failure
	}

	var path []PolyRef
	for n := bestNode; n != nil && int32(len(path)) < maxVisitedSize; n = q.tinyNodePool.NodeAtIdx(int32(n.PIdx)) {
		path = append(path, n.ID)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return bestPos, path, Success
}

// FindRandomPoint returns a random point on the navigation mesh. It picks one
// loaded tile with equal probability whatever its area, then a ground polygon
// of that tile that passes filter with probability proportional to its area,
// then a uniform point inside that polygon. Connectivity is not checked, and
// across tiles of different area the sample is not area-uniform.
//
// randf must return successive uniform random values in [0, 1).
//
// Note: this method may be used by multiple clients without side effects.
func (q *NavMeshQuery) FindRandomPoint(filter QueryFilter, randf func() float32) (ref PolyRef, pt d3.Vec3, st Status) {
	if q.nav == nil {
		return 0, nil, Failure | InvalidParam
	}

	var tile *MeshTile
	tsum := float32(0)
	for i := int32(0); i < q.nav.MaxTiles; i++ {
		t := &q.nav.Tiles[i]
		if t.Header == nil {
			continue
		}
		tsum++
		if randf()*tsum <= 1 {
			tile = t
		}
	}
	if tile == nil {
		return 0, nil, Failure | InvalidParam
	}

	var poly *Poly
	var polyRef PolyRef
	areaSum := float32(0)
	base := q.nav.polyRefBase(tile)
	for i := int32(0); i < tile.Header.PolyCount; i++ {
		p := &tile.Polys[i]
		if p.Type() != polyTypeGround {
			continue
		}
		ref := base | PolyRef(i)
		if !filter.PassFilter(ref, tile, p) {
			continue
		}

		area := convexPolyArea(p, tile.Verts)
		areaSum += area
		if randf()*areaSum <= area {
			poly = p
			polyRef = ref
		}
	}
	if poly == nil {
		return 0, nil, Failure | InvalidParam
	}

	var verts [VertsPerPolygon * 3]float32
	for i := uint8(0); i < poly.VertCount; i++ {
		vidx := poly.Verts[i] * 3
		copy(verts[int(i)*3:int(i)*3+3], tile.Verts[vidx:vidx+3])
	}

	pt = randomPointInConvexPoly(verts[:poly.VertCount*3], int32(poly.VertCount), randf(), randf())
	h, _ := q.GetPolyHeight(polyRef, pt)
	pt[1] = h

	return polyRef, pt, Success
}

// FindRandomPointAroundCircle returns a random point within maxRadius of
// centerPos, reachable from startRef, chosen uniformly weighted by polygon
// surface area amongst the polygons the flood visits.
//
// randf must return successive uniform random values in [0, 1).
//
// Note: this method clears and reuses the query's node pool and open list.
func (q *NavMeshQuery) FindRandomPointAroundCircle(startRef PolyRef, centerPos d3.Vec3,
	maxRadius float32, filter QueryFilter, randf func() float32) (ref PolyRef, pt d3.Vec3, st Status) {

	if startRef == 0 || !q.nav.IsValidPolyRef(startRef) {
		return 0, nil, Failure | InvalidParam
	}

	var startTile *MeshTile
	var startPoly *Poly
	q.nav.TileAndPolyByRefUnsafe(startRef, &startTile, &startPoly)
	if !filter.PassFilter(startRef, startTile, startPoly) {
		return 0, nil, Failure | InvalidParam
	}

	q.nodePool.Clear()
	q.openList.clear()

	startNode := q.nodePool.Node(startRef, 0)
	startNode.Pos.Assign(centerPos)
	startNode.PIdx = 0
	startNode.ID = startRef
	startNode.Flags = nodeOpen
	q.openList.push(startNode)

	radiusSqr := maxRadius * maxRadius
	areaSum := float32(0)

	var randomRef PolyRef
	var randomTile *MeshTile
	var randomPoly *Poly

	for !q.openList.empty() {
		bestNode := q.openList.pop()
		bestNode.Flags &= ^nodeOpen
		bestNode.Flags |= nodeClosed

		bestRef := bestNode.ID
		var bestTile *MeshTile
		var bestPoly *Poly
		q.nav.TileAndPolyByRefUnsafe(bestRef, &bestTile, &bestPoly)

		area := convexPolyArea(bestPoly, bestTile.Verts)
		areaSum += area
		if randf()*areaSum <= area {
			randomRef = bestRef
			randomTile = bestTile
			randomPoly = bestPoly
		}

		var parentRef PolyRef
		if bestNode.PIdx != 0 {
			parentRef = q.nodePool.NodeAtIdx(int32(bestNode.PIdx)).ID
		}

		for i := bestPoly.FirstLink; i != nullLink; i = bestTile.Links[i].Next {
			link := &bestTile.Links[i]
			neighbourRef := link.Ref
			if neighbourRef == 0 || neighbourRef == parentRef {
				continue
			}

			var neighbourTile *MeshTile
			var neighbourPoly *Poly
			q.nav.TileAndPolyByRefUnsafe(neighbourRef, &neighbourTile, &neighbourPoly)
			if !filter.PassFilter(neighbourRef, neighbourTile, neighbourPoly) {
				continue
			}

			neighbourNode := q.nodePool.Node(neighbourRef, 0)
			if neighbourNode == nil {
				continue
			}
			if (neighbourNode.Flags & nodeClosed) != 0 {
				continue
			}

			if neighbourNode.Flags == 0 {
				q.edgeMidPoint(bestRef, bestPoly, bestTile, neighbourRef, neighbourPoly, neighbourTile, neighbourNode.Pos[:])
			}

			dx := neighbourNode.Pos[0] - centerPos[0]
			dz := neighbourNode.Pos[2] - centerPos[2]
			if dx*dx+dz*dz > radiusSqr {
				continue
			}

			total := bestNode.Total + bestNode.Pos.Dist(neighbourNode.Pos)
			if (neighbourNode.Flags&nodeOpen) != 0 && total >= neighbourNode.Total {
				continue
			}

			neighbourNode.PIdx = q.nodePool.NodeIdx(bestNode)
			neighbourNode.ID = neighbourRef
			neighbourNode.Flags &= ^NodeFlags(nodeClosed)
			neighbourNode.Total = total

			if (neighbourNode.Flags & nodeOpen) != 0 {
				q.openList.modify(neighbourNode)
			} else {
				neighbourNode.Flags |= nodeOpen
				q.openList.push(neighbourNode)
			}
		}
	}

	if randomPoly == nil {
		return 0, nil, Failure | InvalidParam
	}

	var verts [VertsPerPolygon * 3]float32
	for i := uint8(0); i < randomPoly.VertCount; i++ {
		vidx := randomPoly.Verts[i] * 3
		copy(verts[int(i)*3:int(i)*3+3], randomTile.Verts[vidx:vidx+3])
	}

	pt = randomPointInConvexPoly(verts[:randomPoly.VertCount*3], int32(randomPoly.VertCount), randf(), randf())
	h, _ := q.GetPolyHeight(randomRef, pt)
	pt[1] = h

	return randomRef, pt, Success
}

// convexPolyArea returns twice the xz-plane area of a convex polygon's
// triangle fan, used to weight random polygon selection by surface area.
func convexPolyArea(poly *Poly, verts []float32) float32 {
	var area float32
	v0idx := poly.Verts[0] * 3
	v0 := verts[v0idx : v0idx+3]
	for i := uint8(2); i < poly.VertCount; i++ {
		vaidx := poly.Verts[i-1] * 3
		vbidx := poly.Verts[i] * 3
		va := verts[vaidx : vaidx+3]
		vb := verts[vbidx : vbidx+3]
		area += math32.Abs(TriArea2D(v0, va, vb))
	}
	return area
}

// randomPointInConvexPoly picks a uniformly random point inside a convex
// polygon's xz projection (height left uninterpolated), triangulated as a
// fan from vertex 0, the triangle chosen by s and the barycentric position
// within it chosen by t and by s rescaled to that triangle's share of the area.
func randomPointInConvexPoly(verts []float32, nverts int32, s, t float32) d3.Vec3 {
	areas := make([]float32, nverts)
	var areaSum float32
	for i := int32(2); i < nverts; i++ {
		va := verts[(i-1)*3 : (i-1)*3+3]
		vb := verts[i*3 : i*3+3]
		v0 := verts[0:3]
		areas[i] = math32.Abs(TriArea2D(v0, va, vb))
		areaSum += areas[i]
	}

	thr := s * areaSum
	acc := float32(0)
	tri := nverts - 1
	for i := int32(2); i < nverts; i++ {
		next := acc + areas[i]
		if thr < next {
			tri = i
			break
		}
		acc = next
	}

	v := float32(0)
	if areas[tri] > 0 {
		v = (thr - acc) / areas[tri]
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	u := math32.Sqrt(t)
	b0 := 1 - u
	b1 := (1 - v) * u
	b2 := v * u

	v0 := verts[0:3]
	va := verts[(tri-1)*3 : (tri-1)*3+3]
	vb := verts[tri*3 : tri*3+3]

	pt := d3.NewVec3()
	pt[0] = b0*v0[0] + b1*va[0] + b2*vb[0]
	pt[1] = b0*v0[1] + b1*va[1] + b2*vb[1]
	pt[2] = b0*v0[2] + b1*va[2] + b2*vb[2]
	return pt
}
