package geom

import (
	"math"

	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// AABB is an axis-aligned bounding box described by its minimum and maximum
// corners.
type AABB struct {
	Min, Max d3.Vec3
}

// EmptyAABB returns a degenerate box suitable as the seed of an incremental
// AddPoint/Union accumulation: its Min is +inf and its Max is -inf on every
// axis, so the first point or box merged into it always wins.
func EmptyAABB() AABB {
	return AABB{
		Min: d3.NewVec3XYZ(math.MaxFloat32, math.MaxFloat32, math.MaxFloat32),
		Max: d3.NewVec3XYZ(-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32),
	}
}

// AABBFromPoint returns the zero-volume box containing only p.
func AABBFromPoint(p d3.Vec3) AABB {
	return AABB{Min: d3.NewVec3From(p), Max: d3.NewVec3From(p)}
}

// AABBFromCenterExtents returns the box centered on c extending half-size e
// (per axis, e must be non-negative).
func AABBFromCenterExtents(c, e d3.Vec3) AABB {
	return AABB{Min: c.Sub(e), Max: c.Add(e)}
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// AddPoint grows b in place to include p.
func (b *AABB) AddPoint(p d3.Vec3) {
	d3.Vec3Min(b.Min, p)
	d3.Vec3Max(b.Max, p)
}

// Union grows b in place to include o.
func (b *AABB) Union(o AABB) {
	d3.Vec3Min(b.Min, o.Min)
	d3.Vec3Max(b.Max, o.Max)
}

// Expand returns a copy of b grown by amount on every face.
func (b AABB) Expand(amount float32) AABB {
	e := d3.NewVec3XYZ(amount, amount, amount)
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// Center returns the box's midpoint.
func (b AABB) Center() d3.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the box's half-size along each axis.
func (b AABB) Extents() d3.Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b AABB) Contains(p d3.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Overlaps reports whether b and o share any volume.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

// OverlapsSphere reports whether b intersects the sphere (c, r).
func (b AABB) OverlapsSphere(c d3.Vec3, r float32) bool {
	distSqr := float32(0)
	for i := 0; i < 3; i++ {
		v := c[i]
		if v < b.Min[i] {
			d := b.Min[i] - v
			distSqr += d * d
		} else if v > b.Max[i] {
			d := v - b.Max[i]
			distSqr += d * d
		}
	}
	return distSqr <= r*r
}

// ClassifyPlane reports how b sits relative to plane, treating the box as
// its own convex hull of 8 corners without materializing them: Front if
// every corner satisfies Dot > eps, Back if every corner is < -eps,
// otherwise Cross.
func (b AABB) ClassifyPlane(plane Plane, eps float32) Side {
	// Project the box's half-extents onto the plane normal to get the
	// maximum deviation any corner can have from the center's distance.
	c := b.Center()
	e := b.Extents()
	centerDist := plane.Dot(c)
	radius := math32.Abs(plane.Normal[0])*e[0] +
		math32.Abs(plane.Normal[1])*e[1] +
		math32.Abs(plane.Normal[2])*e[2]

	if centerDist-radius > eps {
		return SideFront
	}
	if centerDist+radius < -eps {
		return SideBack
	}
	return SideCross
}
