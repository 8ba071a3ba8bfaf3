package geom

import "github.com/arl/gogeo/f32/d3"

// Sphere is a bounding volume test cheaper than AABB, used as the first
// pass of a primitive's overlap test against a BSP node or culling frustum.
type Sphere struct {
	Center d3.Vec3
	Radius float32
}

// NewSphere returns the sphere (c, r).
func NewSphere(c d3.Vec3, r float32) Sphere {
	return Sphere{Center: d3.NewVec3From(c), Radius: r}
}

// SphereFromAABB returns the sphere that circumscribes b.
func SphereFromAABB(b AABB) Sphere {
	c := b.Center()
	return Sphere{Center: c, Radius: c.Dist(b.Max)}
}

// Contains reports whether p lies within the sphere.
func (s Sphere) Contains(p d3.Vec3) bool {
	return s.Center.DistSqr(p) <= s.Radius*s.Radius
}

// Overlaps reports whether s and o intersect.
func (s Sphere) Overlaps(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.DistSqr(o.Center) <= r*r
}

// OverlapsAABB reports whether s intersects b.
func (s Sphere) OverlapsAABB(b AABB) bool {
	return b.OverlapsSphere(s.Center, s.Radius)
}

// Side classifies the sphere against plane: Front or Back if it lies
// entirely on one side, Cross if the plane passes through it.
func (s Sphere) Side(plane Plane, eps float32) Side {
	d := plane.Dot(s.Center)
	switch {
	case d-s.Radius > eps:
		return SideFront
	case d+s.Radius < -eps:
		return SideBack
	default:
		return SideCross
	}
}
