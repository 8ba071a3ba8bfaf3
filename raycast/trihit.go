package raycast

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/geom"
)

// intersectTriangle is a Moller-Trumbore test against ray with an optional
// back-face cull, returning the hit's normalized face normal alongside
// the usual t/u/v.
func intersectTriangle(ray geom.Ray, a, b, c d3.Vec3, cullBackFace bool) (t, u, v float32, normal d3.Vec3, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pvec := ray.Dir.Cross(e2)
	det := e1.Dot(pvec)

	if cullBackFace {
		if det < geom.EpsTriDet {
			return 0, 0, 0, nil, false
		}
	} else if det > -geom.EpsTriDet && det < geom.EpsTriDet {
		return 0, 0, 0, nil, false
	}
	invDet := 1.0 / det

	tvec := ray.Origin.Sub(a)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, nil, false
	}

	qvec := tvec.Cross(e1)
	v = ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, nil, false
	}

	t = e2.Dot(qvec) * invDet
	if t < 0 {
		return 0, 0, 0, nil, false
	}

	normal = e1.Cross(e2)
	normal.Normalize()
	return t, u, v, normal, true
}
