package world

import (
	"log"

	"github.com/arl/assertgo"
	"github.com/arl/gogeo/f32/d3"
	"github.com/kestrelengine/spatial/geom"
)

// NodeDef, LeafDef, AreaDef describe one entry of a LevelDef's flat arrays,
// using -1 as "no parent" rather than a pointer.
type NodeDef struct {
	Parent      int
	Bounds      geom.AABB
	PlaneIndex  int
	ChildrenIdx [2]int
}

type LeafDef struct {
	Parent     int
	Bounds     geom.AABB
	PVSCluster int
	VisdataOffset int
	Area       int
	AudioArea  int32
}

type AreaDef struct {
	Bounds       geom.AABB
	FirstSurface int
	NumSurfaces  int
}

// LevelDef is the complete description consumed by NewLevel.
type LevelDef struct {
	Planes       []geom.Plane
	Nodes        []NodeDef
	Leafs        []LeafDef
	Areas        []AreaDef
	Portals      []PortalDef
	HullVertices []d3.Vec3
	PVS          *PVS // optional
	AreaSurfaces []uint32
	Surfaces     []Surface
	Model        BrushModel
}

// Level is a fully constructed static world partition: tree, areas,
// portals and surfaces, plus the dynamic primitive registry layered over
// it.
type Level struct {
	Planes   []geom.Plane
	Nodes    []Node
	Leafs    []Leaf
	Areas    []Area // Areas[len(Areas)-1] is the synthesized outdoor area
	Surfaces []Surface

	AreaSurfaces []uint32
	Model        BrushModel

	portals     []Portal
	portalLinks []PortalLink

	pvs        *PVS
	visScratch []byte

	// viewMark is the tree-marking generation used by the PVS topology;
	// viewCluster caches the leaf cluster that produced the current
	// marking so repeat queries from the same leaf are free.
	viewMark    int
	viewCluster int

	// Primitives is the arena of registered dynamic primitives, indexed by
	// the handle returned from AddPrimitive. An entry with
	// inWorldList == false is a free slot (listed in freeList) available
	// for reuse.
	Primitives []Primitive
	freeList   []int

	worldHead, worldTail int // indices into Primitives, or -1
	dirtyHead, dirtyTail int

	links *linkPool

	outdoorArea int // index into Areas of the synthesized outdoor area

	// VisQueryMarker is incremented once per top-level visibility or
	// raycast query and stamped into Surface/Primitive VisMark/VisPass.
	VisQueryMarker uint32
}

const outdoorAreaBounds = 1 << 20

// NewLevel constructs a Level from def, resolving parent pointers, linking
// leaves back to their areas, and building the two PortalLink records per
// portal.
func NewLevel(def LevelDef) *Level {
	l := &Level{
		Planes:       append([]geom.Plane(nil), def.Planes...),
		Surfaces:     append([]Surface(nil), def.Surfaces...),
		AreaSurfaces: append([]uint32(nil), def.AreaSurfaces...),
		Model:        def.Model,
		links:        newLinkPool(),
		worldHead:    -1, worldTail: -1,
		dirtyHead: -1, dirtyTail: -1,
	}

	l.Areas = make([]Area, len(def.Areas)+1)
	for i, a := range def.Areas {
		l.Areas[i] = Area{
			Bounds:        a.Bounds,
			FirstSurface:  a.FirstSurface,
			NumSurfaces:   a.NumSurfaces,
			PortalList:    -1,
			PrimitiveList: -1,
		}
	}
	l.outdoorArea = len(def.Areas)
	ext := d3.NewVec3XYZ(outdoorAreaBounds, outdoorAreaBounds, outdoorAreaBounds)
	l.Areas[l.outdoorArea] = Area{
		Bounds:        geom.AABB{Min: ext.Scale(-1), Max: ext},
		PortalList:    -1,
		PrimitiveList: -1,
		IsOutdoor:     true,
	}

	l.Nodes = make([]Node, len(def.Nodes))
	for i, n := range def.Nodes {
		l.Nodes[i] = Node{
			Parent:      n.Parent,
			Bounds:      n.Bounds,
			PlaneIndex:  n.PlaneIndex,
			ChildrenIdx: n.ChildrenIdx,
		}
	}

	l.Leafs = make([]Leaf, len(def.Leafs))
	for i, lf := range def.Leafs {
		leaf := Leaf{
			Parent:     lf.Parent,
			Bounds:     lf.Bounds,
			PVSCluster: lf.PVSCluster,
			Area:       lf.Area,
			AudioArea:  lf.AudioArea,
		}
		l.Leafs[i] = leaf
	}

	if def.PVS != nil {
		l.pvs = def.PVS
		l.visScratch = make([]byte, l.pvs.rowBytes())
		for i, lf := range def.Leafs {
			if lf.VisdataOffset < len(def.PVS.Data) {
				end := len(def.PVS.Data)
				if !def.PVS.Compressed {
					row := l.pvs.rowBytes()
					if lf.VisdataOffset+row < end {
						end = lf.VisdataOffset + row
					}
				}
				l.Leafs[i].Visdata = def.PVS.Data[lf.VisdataOffset:end]
			}
		}
	}

	l.viewCluster = -1
	l.createPortals(def.Portals, def.HullVertices)

	for i := range l.Primitives {
		l.Primitives[i].linkHead = -1
	}

	return l
}

// areaIndex resolves a PortalDef/world area reference: negative means
// outdoor.
func (l *Level) areaIndex(i int) int {
	if i < 0 {
		return l.outdoorArea
	}
	return i
}

// createPortals allocates two directional PortalLink records per portal
// and prepends each to its source area's portal list. The first direction
// uses the reversed hull with the plane negated, the second the hull and
// plane as given, so each link's winding is CCW as seen from its own
// source area.
func (l *Level) createPortals(defs []PortalDef, hullVerts []d3.Vec3) {
	l.portals = make([]Portal, len(defs))
	l.portalLinks = make([]PortalLink, 0, len(defs)*2)

	for i, def := range defs {
		pts := append([]d3.Vec3(nil), hullVerts[def.FirstVert:def.FirstVert+def.NumVerts]...)
		hull := geom.NewHull(pts)
		hullReversed := hull.Reversed()
		plane := hull.Plane()

		a1 := l.areaIndex(def.Areas[0])
		a2 := l.areaIndex(def.Areas[1])

		fwd := PortalLink{ToArea: a2, Hull: hullReversed, Plane: plane.Flip(), Portal: i}
		fwdIdx := len(l.portalLinks)
		fwd.Next = l.Areas[a1].PortalList
		l.portalLinks = append(l.portalLinks, fwd)
		l.Areas[a1].PortalList = fwdIdx

		back := PortalLink{ToArea: a1, Hull: hull, Plane: plane, Portal: i}
		backIdx := len(l.portalLinks)
		back.Next = l.Areas[a2].PortalList
		l.portalLinks = append(l.portalLinks, back)
		l.Areas[a2].PortalList = backIdx

		l.portals[i] = Portal{Links: [2]int{fwdIdx, backIdx}}
	}
}

// Topology reports which traversal a Level's queries use: Portal takes
// priority when any portal is defined, else PVS when a PVS blob was
// supplied, else brute-force area enumeration.
type Topology int

const (
	TopologyBrute Topology = iota
	TopologyPVS
	TopologyPortal
)

func (l *Level) Topology() Topology {
	switch {
	case len(l.portals) > 0:
		return TopologyPortal
	case l.pvs != nil:
		return TopologyPVS
	default:
		return TopologyBrute
	}
}

// LeafPVS returns leaf's decompressed PVS row (nil if it has none).
func (l *Level) LeafPVS(leafIdx int) []byte { return l.leafPVS(leafIdx) }

// MarkLeafs re-marks the tree's ViewMark ancestor chains for every leaf
// reachable from viewLeaf's PVS cluster (or every leaf, if the level has
// no PVS data for that cluster), memoized against the previously marked
// cluster so repeat queries from the same leaf are free.
// Returns the generation value leaves/nodes must match against.
func (l *Level) MarkLeafs(viewLeaf int) int {
	if viewLeaf < 0 {
		return l.viewMark
	}
	leaf := &l.Leafs[viewLeaf]
	if l.viewCluster == leaf.PVSCluster {
		return l.viewMark
	}
	l.viewMark++
	l.viewCluster = leaf.PVSCluster

	markAncestors := func(li int) {
		// Leaf encodes itself as node index -1-li per the shared
		// ViewMark convention; walk leaf then its node-parent chain.
		if l.Leafs[li].ViewMark == l.viewMark {
			return
		}
		l.Leafs[li].ViewMark = l.viewMark
		p := l.Leafs[li].Parent
		for p != -1 {
			if l.Nodes[p].ViewMark == l.viewMark {
				return
			}
			l.Nodes[p].ViewMark = l.viewMark
			p = l.Nodes[p].Parent
		}
	}

	pvsRow := l.leafPVS(viewLeaf)
	if pvsRow != nil {
		for i := range l.Leafs {
			c := l.Leafs[i].PVSCluster
			if c < 0 || (l.pvs != nil && c >= l.pvs.Clusters) {
				continue
			}
			if pvsRow[c>>3]&(1<<uint(c&7)) == 0 {
				continue
			}
			markAncestors(i)
		}
	} else {
		for i := range l.Leafs {
			markAncestors(i)
		}
	}
	return l.viewMark
}

// PortalLink returns the link at index idx (as stored in an Area's
// PortalList chain).
func (l *Level) PortalLink(idx int) *PortalLink { return &l.portalLinks[idx] }

// Portal returns the portal at index idx.
func (l *Level) Portal(idx int) *Portal { return &l.portals[idx] }

// SetBlocked sets a portal's blocked flag, hiding it from both visibility
// and ray traversal.
func (l *Level) SetBlocked(portal int, blocked bool) { l.portals[portal].Blocked = blocked }

// OutdoorArea returns the index of the Level's synthesized outdoor area.
func (l *Level) OutdoorArea() int { return l.outdoorArea }

// FindLeaf descends the tree from node 0, returning the leaf index p falls
// in, or -1 if p is in solid space.
func (l *Level) FindLeaf(p d3.Vec3) int {
	if len(l.Nodes) == 0 {
		return -1
	}
	nodeIdx := 0
	for {
		node := &l.Nodes[nodeIdx]
		d := l.Planes[node.PlaneIndex].Dot(p)
		child := node.ChildrenIdx[childIndex(d)]
		if child <= 0 {
			return -1 - child
		}
		nodeIdx = child
	}
}

// FindArea resolves the area containing p: via FindLeaf when a tree
// exists, else a linear AABB scan; solid space resolves to the outdoor
// area.
func (l *Level) FindArea(p d3.Vec3) int {
	if len(l.Nodes) > 0 {
		leaf := l.FindLeaf(p)
		if leaf < 0 {
			return l.outdoorArea
		}
		return l.Leafs[leaf].Area
	}
	// Closed overlap on both bounds, matching the BSP path's ClassifyPlane
	// semantics uniformly rather than the half-open test the no-tree
	// fallback used historically.
	for i := range l.Areas[:len(l.Areas)-1] {
		a := &l.Areas[i]
		if p[0] >= a.Bounds.Min[0] && p[1] >= a.Bounds.Min[1] && p[2] >= a.Bounds.Min[2] &&
			p[0] <= a.Bounds.Max[0] && p[1] <= a.Bounds.Max[1] && p[2] <= a.Bounds.Max[2] {
			return i
		}
	}
	return l.outdoorArea
}

// QueryOverlappingAreas appends every area overlapping bounds to dst,
// de-duplicated, by descending the tree. A level without a tree appends
// nothing and returns dst unchanged. dst may be nil.
func (l *Level) QueryOverlappingAreas(bounds geom.AABB, dst []int) []int {
	if len(l.Nodes) == 0 {
		return dst
	}
	return l.queryAreasAABB(0, bounds, dst)
}

// QueryOverlappingAreasSphere is the sphere-bounds analogue of
// QueryOverlappingAreas.
func (l *Level) QueryOverlappingAreasSphere(center d3.Vec3, radius float32, dst []int) []int {
	if len(l.Nodes) == 0 {
		return dst
	}
	return l.queryAreasSphere(0, center, radius, dst)
}

func appendUniqueArea(dst []int, area int) []int {
	for _, a := range dst {
		if a == area {
			return dst
		}
	}
	return append(dst, area)
}

// queryAreasAABB descends the tree pruning against bounds: a straddling
// node recurses into child 1 then tail-loops into child 0, bounding
// recursion depth to the tree's straddle count rather than its full depth.
func (l *Level) queryAreasAABB(nodeIdx int, bounds geom.AABB, dst []int) []int {
	for {
		if leafIdx, ok := isLeaf(nodeIdx); ok {
			return appendUniqueArea(dst, l.Leafs[leafIdx].Area)
		}
		node := &l.Nodes[nodeIdx]
		side := bounds.ClassifyPlane(l.Planes[node.PlaneIndex], geom.EpsPlane)

		switch side {
		case geom.SideFront:
			nodeIdx = node.ChildrenIdx[0]
		case geom.SideBack:
			nodeIdx = node.ChildrenIdx[1]
		default:
			if !isSolid(node.ChildrenIdx[1]) {
				dst = l.queryAreasAABB(node.ChildrenIdx[1], bounds, dst)
			}
			nodeIdx = node.ChildrenIdx[0]
		}
		if isSolid(nodeIdx) {
			return dst
		}
	}
}

func (l *Level) queryAreasSphere(nodeIdx int, center d3.Vec3, radius float32, dst []int) []int {
	for {
		if leafIdx, ok := isLeaf(nodeIdx); ok {
			return appendUniqueArea(dst, l.Leafs[leafIdx].Area)
		}
		node := &l.Nodes[nodeIdx]
		d := l.Planes[node.PlaneIndex].Dot(center)

		switch {
		case d > radius:
			nodeIdx = node.ChildrenIdx[0]
		case d < -radius:
			nodeIdx = node.ChildrenIdx[1]
		default:
			if !isSolid(node.ChildrenIdx[1]) {
				dst = l.queryAreasSphere(node.ChildrenIdx[1], center, radius, dst)
			}
			nodeIdx = node.ChildrenIdx[0]
		}
		if isSolid(nodeIdx) {
			return dst
		}
	}
}

// --- Primitive registration ---

// AddPrimitive registers p with the level and returns its handle. The
// primitive is linked into every overlapping area immediately.
func (l *Level) AddPrimitive(p Primitive) int {
	p.linkHead = -1
	var handle int
	if n := len(l.freeList); n > 0 {
		handle = l.freeList[n-1]
		l.freeList = l.freeList[:n-1]
		l.Primitives[handle] = p
	} else {
		handle = len(l.Primitives)
		l.Primitives = append(l.Primitives, p)
	}

	prim := &l.Primitives[handle]
	prim.next, prim.prev = -1, -1
	prim.inWorldList = true
	l.listPushBack(handle)

	l.linkPrimitiveToAreas(handle)
	return handle
}

// RemovePrimitive deregisters handle, unlinking it from every area it was
// part of. The caller must not use handle again.
func (l *Level) RemovePrimitive(handle int) {
	prim := &l.Primitives[handle]
	if !prim.inWorldList {
		return
	}
	l.listRemove(handle)
	if prim.inDirtyList {
		l.dirtyRemove(handle)
	}
	l.unlinkPrimitive(handle)
	prim.inWorldList = false
	l.freeList = append(l.freeList, handle)
}

// MarkDirty schedules handle for re-linking on the next FlushDirty. This
// is the only operation that moves a primitive's bounds; callers mutate
// Primitives[handle].Box/.Sphere directly, then MarkDirty.
func (l *Level) MarkDirty(handle int) {
	prim := &l.Primitives[handle]
	if !prim.inWorldList || prim.inDirtyList {
		return
	}
	prim.inDirtyList = true
	prim.nextDirty, prim.prevDirty = -1, -1
	if l.dirtyTail == -1 {
		l.dirtyHead = handle
	} else {
		l.Primitives[l.dirtyTail].nextDirty = handle
		prim.prevDirty = l.dirtyTail
	}
	l.dirtyTail = handle
}

// FlushDirty re-links every dirty primitive's area membership: unlink
// first (freeing stale links), then relink from current bounds. This is
// the only place a registered primitive's membership follows its moved
// bounds.
func (l *Level) FlushDirty() {
	for h := l.dirtyHead; h != -1; h = l.Primitives[h].nextDirty {
		l.unlinkPrimitive(h)
	}
	h := l.dirtyHead
	for h != -1 {
		next := l.Primitives[h].nextDirty
		l.Primitives[h].nextDirty, l.Primitives[h].prevDirty = -1, -1
		l.Primitives[h].inDirtyList = false
		l.linkPrimitiveToAreas(h)
		h = next
	}
	l.dirtyHead, l.dirtyTail = -1, -1
}

func (l *Level) listPushBack(handle int) {
	if l.worldTail == -1 {
		l.worldHead = handle
	} else {
		l.Primitives[l.worldTail].next = handle
		l.Primitives[handle].prev = l.worldTail
	}
	l.worldTail = handle
}

func (l *Level) listRemove(handle int) {
	p := &l.Primitives[handle]
	if p.prev != -1 {
		l.Primitives[p.prev].next = p.next
	} else {
		l.worldHead = p.next
	}
	if p.next != -1 {
		l.Primitives[p.next].prev = p.prev
	} else {
		l.worldTail = p.prev
	}
	p.next, p.prev = -1, -1
}

func (l *Level) dirtyRemove(handle int) {
	p := &l.Primitives[handle]
	if p.prevDirty != -1 {
		l.Primitives[p.prevDirty].nextDirty = p.nextDirty
	} else {
		l.dirtyHead = p.nextDirty
	}
	if p.nextDirty != -1 {
		l.Primitives[p.nextDirty].prevDirty = p.prevDirty
	} else {
		l.dirtyTail = p.prevDirty
	}
	p.nextDirty, p.prevDirty = -1, -1
	p.inDirtyList = false
}

// isPrimitiveInArea scans a primitive's existing link chain to suppress
// duplicate (primitive, area) links.
func (l *Level) isPrimitiveInArea(handle, area int) bool {
	for li := l.Primitives[handle].linkHead; li != -1; li = l.links.get(li).Next {
		if l.links.get(li).Area == area {
			return true
		}
	}
	return false
}

// addPrimitiveToArea links handle into area, unless already linked, and
// unless the link pool is exhausted.
func (l *Level) addPrimitiveToArea(area, handle int) {
	if l.isPrimitiveInArea(handle, area) {
		return
	}
	li := l.links.alloc()
	if li == -1 {
		log.Printf("world: link pool exhausted, primitive %d partially linked to area %d", handle, area)
		return
	}
	link := l.links.get(li)
	link.Primitive = handle
	link.Area = area

	// Append to the primitive's chain, tracking the tail so repeated
	// links preserve discovery order.
	if l.Primitives[handle].linkHead == -1 {
		l.Primitives[handle].linkHead = li
	} else {
		tail := l.Primitives[handle].linkHead
		for l.links.get(tail).Next != -1 {
			tail = l.links.get(tail).Next
		}
		l.links.get(tail).Next = li
	}
	link.Next = -1

	link.NextInArea = l.Areas[area].PrimitiveList
	l.Areas[area].PrimitiveList = li
}

// linkPrimitiveToAreas attaches handle to every area its current bounds
// overlap: directly to the outdoor area when flagged IsOutdoor, otherwise
// a tree descent (or brute scan, absent a tree), falling back to outdoor
// if nothing is found.
func (l *Level) linkPrimitiveToAreas(handle int) {
	prim := &l.Primitives[handle]
	if prim.IsOutdoor {
		l.addPrimitiveToArea(l.outdoorArea, handle)
		return
	}

	if len(l.Nodes) > 0 {
		switch prim.Kind {
		case PrimitiveBox:
			l.addBoxRecursive(0, handle)
		case PrimitiveSphere:
			l.addSphereRecursive(0, handle)
		}
		if prim.linkHead == -1 {
			l.addPrimitiveToArea(l.outdoorArea, handle)
		}
		return
	}

	found := false
	for i := range l.Areas[:len(l.Areas)-1] {
		overlaps := false
		switch prim.Kind {
		case PrimitiveBox:
			overlaps = l.Areas[i].Bounds.Overlaps(prim.Box)
		case PrimitiveSphere:
			overlaps = l.Areas[i].Bounds.OverlapsSphere(prim.Sphere.Center, prim.Sphere.Radius)
		}
		if overlaps {
			l.addPrimitiveToArea(i, handle)
			found = true
		}
	}
	if !found {
		l.addPrimitiveToArea(l.outdoorArea, handle)
	}
}

func (l *Level) addBoxRecursive(nodeIdx, handle int) {
	for {
		if leafIdx, ok := isLeaf(nodeIdx); ok {
			l.addPrimitiveToArea(l.Leafs[leafIdx].Area, handle)
			return
		}
		node := &l.Nodes[nodeIdx]
		side := l.Primitives[handle].Box.ClassifyPlane(l.Planes[node.PlaneIndex], geom.EpsPlane)

		switch side {
		case geom.SideFront:
			nodeIdx = node.ChildrenIdx[0]
		case geom.SideBack:
			nodeIdx = node.ChildrenIdx[1]
		default:
			if !isSolid(node.ChildrenIdx[1]) {
				l.addBoxRecursive(node.ChildrenIdx[1], handle)
			}
			nodeIdx = node.ChildrenIdx[0]
		}
		if isSolid(nodeIdx) {
			return
		}
	}
}

func (l *Level) addSphereRecursive(nodeIdx, handle int) {
	for {
		if leafIdx, ok := isLeaf(nodeIdx); ok {
			l.addPrimitiveToArea(l.Leafs[leafIdx].Area, handle)
			return
		}
		node := &l.Nodes[nodeIdx]
		s := l.Primitives[handle].Sphere
		d := l.Planes[node.PlaneIndex].Dot(s.Center)

		switch {
		case d > s.Radius:
			nodeIdx = node.ChildrenIdx[0]
		case d < -s.Radius:
			nodeIdx = node.ChildrenIdx[1]
		default:
			if !isSolid(node.ChildrenIdx[1]) {
				l.addSphereRecursive(node.ChildrenIdx[1], handle)
			}
			nodeIdx = node.ChildrenIdx[0]
		}
		if isSolid(nodeIdx) {
			return
		}
	}
}

// unlinkPrimitive walks handle's link chain, removing each link from its
// area's chain and returning it to the pool.
func (l *Level) unlinkPrimitive(handle int) {
	prim := &l.Primitives[handle]
	li := prim.linkHead
	for li != -1 {
		link := l.links.get(li)
		assert.True(link.Area >= 0, "world: unlinking primitive with invalid area index")

		area := &l.Areas[link.Area]
		prev := &area.PrimitiveList
		for *prev != -1 {
			if *prev == li {
				*prev = link.NextInArea
				break
			}
			prev = &l.links.get(*prev).NextInArea
		}

		next := link.Next
		l.links.free(li)
		li = next
	}
	prim.linkHead = -1
}

// PrimitivesInArea calls fn for every primitive linked to area, in chain
// order.
func (l *Level) PrimitivesInArea(area int, fn func(handle int)) {
	for li := l.Areas[area].PrimitiveList; li != -1; li = l.links.get(li).NextInArea {
		fn(l.links.get(li).Primitive)
	}
}

// PortalsInArea calls fn for every outgoing portal link of area, in chain
// order.
func (l *Level) PortalsInArea(area int, fn func(linkIdx int)) {
	for pi := l.Areas[area].PortalList; pi != -1; pi = l.portalLinks[pi].Next {
		fn(pi)
	}
}

// SetMaxLinks bounds the primitive link pool at n records; 0 (the
// default) means unbounded. Registration that would exceed the budget
// leaves the primitive partially linked.
func (l *Level) SetMaxLinks(n int) { l.links.maxLinks = n }

// NextVisQueryMarker increments and returns the level's query generation
// counter, stamped into Surface/Primitive VisMark/VisPass to dedupe a
// single top-level visibility or raycast query.
func (l *Level) NextVisQueryMarker() uint32 {
	l.VisQueryMarker++
	return l.VisQueryMarker
}

// Node returns a pointer to node i so callers can read/update ViewMark.
func (l *Level) Node(i int) *Node { return &l.Nodes[i] }

// Leaf returns a pointer to leaf i so callers can read/update ViewMark.
func (l *Level) Leaf(i int) *Leaf { return &l.Leafs[i] }

// SurfaceAt returns a pointer to surface i.
func (l *Level) SurfaceAt(i int) *Surface { return &l.Surfaces[i] }

// Primitive returns a pointer to the registered primitive with handle h.
func (l *Level) Primitive(h int) *Primitive { return &l.Primitives[h] }
