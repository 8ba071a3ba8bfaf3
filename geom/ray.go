package geom

import (
	"math"

	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// Ray is a parametric ray Origin + t*Dir, t >= 0. Dir need not be
// normalized; callers that need a hit distance in world units should
// normalize it first.
type Ray struct {
	Origin, Dir d3.Vec3
}

// NewRay returns the ray from origin in direction dir.
func NewRay(origin, dir d3.Vec3) Ray {
	return Ray{Origin: d3.NewVec3From(origin), Dir: d3.NewVec3From(dir)}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) d3.Vec3 {
	return r.Origin.SAdd(r.Dir, t)
}

// IntersectAABB performs a slab test against b, returning the entry and
// exit parameters and whether the ray hits the box at all (tmin > tmax, or
// tmax < 0, means no hit in front of the ray).
func (r Ray) IntersectAABB(b AABB) (tmin, tmax float32, hit bool) {
	tmin = 0
	tmax = math.MaxFloat32

	for i := 0; i < 3; i++ {
		d := r.Dir[i]
		if d > -EpsRayParallel && d < EpsRayParallel {
			// Ray parallel to this slab: must already be within it.
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1.0 / d
		t1 := (b.Min[i] - r.Origin[i]) * inv
		t2 := (b.Max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return tmin, tmax, false
		}
	}
	return tmin, tmax, true
}

// IntersectSphere returns the near and far intersection parameters against
// sphere s.
func (r Ray) IntersectSphere(s Sphere) (tmin, tmax float32, hit bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math32.Sqrt(disc)
	tmin = (-b - sq) / (2 * a)
	tmax = (-b + sq) / (2 * a)
	return tmin, tmax, true
}

// IntersectPlane returns the parameter at which the ray crosses plane.
// hit is false when the ray is parallel to the plane.
func (r Ray) IntersectPlane(plane Plane) (t float32, hit bool) {
	denom := plane.Normal.Dot(r.Dir)
	if denom > -EpsRayParallel && denom < EpsRayParallel {
		return 0, false
	}
	t = -plane.Dot(r.Origin) / denom
	return t, true
}

// IntersectTriangle is a Moller-Trumbore test against the CCW triangle
// (a, b, c). hit is false when the ray is parallel to the triangle's plane,
// misses the triangle's extent, or only crosses it behind the origin.
// u, v are the barycentric coordinates of the hit point with respect to
// (b-a) and (c-a), and w = 1-u-v completes the third.
func (r Ray) IntersectTriangle(a, b, c d3.Vec3) (t, u, v float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pvec := r.Dir.Cross(e2)
	det := e1.Dot(pvec)

	if det > -EpsTriDet && det < EpsTriDet {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det

	tvec := r.Origin.Sub(a)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(e1)
	v = r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(qvec) * invDet
	if t < 0 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}
