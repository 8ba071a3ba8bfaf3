package raycast

import "github.com/arl/gogeo/f32/d3"

// side picks 0 for the half-space a node's split plane calls "front"
// (signed distance >= 0) and 1 for "back" (< 0), the same convention
// world's interior-node ChildrenIdx uses.
func side(d float32) int {
	if d < 0 {
		return 1
	}
	return 0
}

// segmentWalk recurses through the binary-space tree,
// clipping the ray segment [start,end] to each node's splitting plane and
// only descending into the half(es) the segment actually crosses. It
// returns true ("stop") once a hit closer than the segment already found
// makes searching the remainder of the tree pointless.
func (s *state) segmentWalk(nodeIdx int, start, end d3.Vec3) bool {
	if nodeIdx < 0 {
		leaf := s.level.Leaf(-1 - nodeIdx)
		s.raycastArea(leaf.Area)
		return s.closest && s.rayLength > s.hitDistanceMin
	}

	node := s.level.Node(nodeIdx)
	plane := s.level.Planes[node.PlaneIndex]

	d1 := plane.Dot(start)
	d2 := plane.Dot(end)

	sd := side(d1)
	front := node.ChildrenIdx[sd]

	if (d2 < 0) == (sd == 1) {
		// Segment stays on one side of the plane.
		if front == 0 {
			return false
		}
		return s.segmentWalk(front, start, end)
	}

	t := d1 / (d1 - d2)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	mid := start.Lerp(end, t)

	if front != 0 && s.segmentWalk(front, start, mid) {
		return true
	}

	back := node.ChildrenIdx[1-sd]
	return back != 0 && s.segmentWalk(back, mid, end)
}
