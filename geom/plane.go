package geom

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// Side classifies a point, or a whole Hull, against a Plane.
type Side int8

const (
	// SideFront means strictly in front of the plane (along Normal).
	SideFront Side = iota
	// SideBack means strictly behind the plane.
	SideBack
	// SideOn means within the classification epsilon of the plane.
	SideOn
	// SideCross means some points are in front and some are behind: the
	// plane crosses the queried geometry.
	SideCross
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	case SideOn:
		return "on"
	case SideCross:
		return "cross"
	default:
		return "invalid"
	}
}

// Plane is a half-space boundary n.p + d = 0, with Normal unit length.
//
// A point p is in front of the plane when Dot(p) > 0, behind it when
// Dot(p) < 0, and lies on the plane when Dot(p) == 0.
type Plane struct {
	Normal d3.Vec3
	Dist   float32
}

// NewPlane builds a plane from a unit normal and signed distance.
func NewPlane(normal d3.Vec3, dist float32) Plane {
	return Plane{Normal: d3.NewVec3From(normal), Dist: dist}
}

// PlaneFromPoints builds the plane through a, b, c (CCW winding gives a
// normal following the right-hand rule: (b-a) x (c-a)).
func PlaneFromPoints(a, b, c d3.Vec3) Plane {
	e1 := d3.NewVec3()
	e2 := d3.NewVec3()
	d3.Vec3Sub(e1, b, a)
	d3.Vec3Sub(e2, c, a)

	n := d3.NewVec3()
	d3.Vec3Cross(n, e1, e2)
	n.Normalize()

	return Plane{Normal: n, Dist: -n.Dot(a)}
}

// Dot returns the signed distance of p from the plane: n.p + d.
func (p Plane) Dot(pt d3.Vec3) float32 {
	return p.Normal.Dot(pt) + p.Dist
}

// PointOnPlane returns an arbitrary point lying on the plane, projected
// from the origin along Normal.
func (p Plane) PointOnPlane() d3.Vec3 {
	return p.Normal.Scale(-p.Dist)
}

// Side classifies pt against the plane using the given epsilon.
func (p Plane) Side(pt d3.Vec3, eps float32) Side {
	d := p.Dot(pt)
	switch {
	case d > eps:
		return SideFront
	case d < -eps:
		return SideBack
	default:
		return SideOn
	}
}

// Flip returns the plane with Normal and Dist negated, i.e. facing the
// opposite half-space.
func (p Plane) Flip() Plane {
	n := d3.NewVec3XYZ(-p.Normal[0], -p.Normal[1], -p.Normal[2])
	return Plane{Normal: n, Dist: -p.Dist}
}

// axialSnap resolves component j (0=x,1=y,2=z) of a point being clipped
// against the plane. When the plane is axis-aligned (one Normal component
// is exactly +-1) the clipped coordinate is pinned to the plane's offset
// along that axis instead of being linearly interpolated, which avoids the
// small numerical drift interpolation would otherwise introduce on an axial
// cut - the same rule a BSP clipper applies when splitting against the
// grid-aligned planes that dominate building geometry.
func axialSnap(normalComp float32, planeDist float32, lerped float32) float32 {
	switch {
	case normalComp == 1:
		return -planeDist
	case normalComp == -1:
		return planeDist
	default:
		return lerped
	}
}

// clipVertex computes the intersection of edge (p0 -> p1) with the plane,
// given their precomputed signed distances d0, d1 (which must have
// opposite, non-zero sign), applying the axial-snap rule component-wise.
func clipVertex(p0, p1 d3.Vec3, d0, d1 float32, plane Plane) d3.Vec3 {
	t := d0 / (d0 - d1)
	out := d3.NewVec3From(p1)
	for j := 0; j < 3; j++ {
		lerped := p0[j] + t*(p1[j]-p0[j])
		out[j] = axialSnap(plane.Normal[j], plane.Dist, lerped)
	}
	return out
}

// Approx reports whether two planes describe (approximately) the same
// half-space.
func (p Plane) Approx(o Plane) bool {
	return p.Normal.Approx(o.Normal) && math32.Approx(p.Dist, o.Dist)
}
