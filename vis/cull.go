package vis

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/kestrelengine/spatial/geom"
)

// MaxCullPlanes bounds the frustum a portal flood can carry: four side
// planes plus a far plane.
const MaxCullPlanes = 5

// cullCorners is indexed by a plane normal's sign-bit triplet (bit0=X<0,
// bit1=Y<0, bit2=Z<0) and gives, for that sign combination, the box-corner
// coordinate indices (0..5 into {minX,minY,minZ,maxX,maxY,maxZ}) of the
// corner farthest along the normal (tested for a full cull) followed by
// the opposite corner (tested to retire the plane), so an AABB-vs-frustum
// cull never materializes all 8 corners of a box per plane test.
var cullCorners = [8][6]int{
	{3, 4, 5, 0, 1, 2},
	{0, 4, 5, 3, 1, 2},
	{3, 1, 5, 0, 4, 2},
	{0, 1, 5, 3, 4, 2},
	{3, 4, 2, 0, 1, 5},
	{0, 4, 2, 3, 1, 5},
	{3, 1, 2, 0, 4, 5},
	{0, 1, 2, 3, 4, 5},
}

// signBits packs a plane normal's negative-component bits into 0..7.
func signBits(n d3.Vec3) int {
	b := 0
	if n[0] < 0 {
		b |= 1
	}
	if n[1] < 0 {
		b |= 2
	}
	if n[2] < 0 {
		b |= 4
	}
	return b
}

// boxComponents lays out bounds the way cullCorners indexes into it:
// [minX,minY,minZ,maxX,maxY,maxZ].
func boxComponents(b geom.AABB) [6]float32 {
	return [6]float32{b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2]}
}

// cullAABB tests bounds against each plane of frustum whose bit is set in
// cullBits, maintaining that incremental per-plane bit mask: once a plane's
// positive corner is found inside, that plane can never cull anything
// further down this subtree and its bit is cleared for the caller's
// recursive calls. Returns true when
// bounds is fully outside any active plane.
func cullAABB(frustum []geom.Plane, bounds geom.AABB, cullBits *int) bool {
	comp := boxComponents(bounds)
	for i := 0; i < len(frustum); i++ {
		bit := 1 << uint(i)
		if *cullBits&bit == 0 {
			continue
		}
		plane := frustum[i]
		idx := cullCorners[signBits(plane.Normal)]

		neg := d3.NewVec3XYZ(comp[idx[0]], comp[idx[1]], comp[idx[2]])
		if plane.Normal.Dot(neg) <= -plane.Dist {
			return true
		}

		pos := d3.NewVec3XYZ(comp[idx[3]], comp[idx[4]], comp[idx[5]])
		if plane.Normal.Dot(pos) >= -plane.Dist {
			*cullBits &^= bit
		}
	}
	return false
}

// cullAABBSingle is a non-incremental single-pass frustum test used for
// surface/primitive culling once we're past node traversal.
func cullAABBSingle(frustum []geom.Plane, bounds geom.AABB) bool {
	for i := range frustum {
		p := &frustum[i]
		maxX := bounds.Min[0] * p.Normal[0]
		if v := bounds.Max[0] * p.Normal[0]; v > maxX {
			maxX = v
		}
		maxY := bounds.Min[1] * p.Normal[1]
		if v := bounds.Max[1] * p.Normal[1]; v > maxY {
			maxY = v
		}
		maxZ := bounds.Min[2] * p.Normal[2]
		if v := bounds.Max[2] * p.Normal[2]; v > maxZ {
			maxZ = v
		}
		if maxX+maxY+maxZ+p.Dist <= 0 {
			return true
		}
	}
	return false
}

// cullSphereSingle is the sphere analogue of cullAABBSingle.
func cullSphereSingle(frustum []geom.Plane, center d3.Vec3, radius float32) bool {
	for i := range frustum {
		p := &frustum[i]
		if p.Normal.Dot(center)+p.Dist <= -radius {
			return true
		}
	}
	return false
}
