package world

import "github.com/kestrelengine/spatial/geom"

// solidChild is the child index convention meaning "no further
// geometry, entirely solid".
const solidChild = 0

// Node is an interior split of the binary-space tree. ChildrenIdx uses a
// signed convention: a non-positive entry is terminal - 0 means solid,
// a negative value c means leaf index -1-c; a positive entry is a child
// Node index.
type Node struct {
	Parent      int // -1 for the root
	Bounds      geom.AABB
	PlaneIndex  int
	ChildrenIdx [2]int
	ViewMark    int
}

// Leaf is a terminal convex cell of the binary-space tree.
type Leaf struct {
	Parent    int // -1 only if the tree is a single leaf with no nodes
	Bounds    geom.AABB
	PVSCluster int // -1 if the leaf isn't assigned to a PVS cluster
	Visdata   []byte // leaf's PVS row, nil if none
	Area      int    // index into Level.Areas
	AudioArea int32  // opaque tag, not interpreted by this package
	ViewMark  int
}

// childIndex picks the child to descend into given the signed distance d of
// a query point to the node's splitting plane: front (d>0) takes child 0,
// back (d<=0) takes child 1. On-plane points descend the back side.
func childIndex(d float32) int {
	if d <= 0 {
		return 1
	}
	return 0
}

// isSolid reports whether a children-index entry denotes the solid leaf.
func isSolid(idx int) bool { return idx == solidChild }

// isLeaf reports whether a children-index entry denotes a leaf, returning
// its index into Level.Leafs.
func isLeaf(idx int) (leafIndex int, ok bool) {
	if idx < 0 {
		return -1 - idx, true
	}
	return 0, false
}
