package raycast

import (
	"github.com/kestrelengine/spatial/geom"
	"github.com/kestrelengine/spatial/world"
)

// raycastSurfaceBounds tests a surface's AABB only, skipping triangle
// work. A planar surface has no meaningful bounding box distinct from its
// plane, so it is skipped.
func (s *state) raycastSurfaceBounds(surf *world.Surface, surfIdx int) {
	if surf.Flags&world.SurfacePlanar != 0 {
		return
	}

	ray := geom.NewRay(s.rayStart, s.dir)
	tmin, tmax, hit := ray.IntersectAABB(surf.Bounds)
	if !hit {
		return
	}

	if s.closest {
		if tmin >= s.hitDistanceMin {
			return
		}
		s.hitDistanceMin = tmin
		s.found = true
		s.boundsHit = BoxHit{Proxy: ProxySurface, Surface: surfIdx, DistanceMin: tmin, DistanceMax: tmax}
		return
	}

	if tmin >= s.rayLength {
		return
	}
	s.boundsHits = append(s.boundsHits, BoxHit{Proxy: ProxySurface, Surface: surfIdx, DistanceMin: tmin, DistanceMax: tmax})
}

// raycastPrimitiveBounds is the Box/Sphere analogue for a dynamic
// primitive.
func (s *state) raycastPrimitiveBounds(prim *world.Primitive, handle int) {
	ray := geom.NewRay(s.rayStart, s.dir)

	var tmin, tmax float32
	var hit bool
	switch prim.Kind {
	case world.PrimitiveBox:
		tmin, tmax, hit = ray.IntersectAABB(prim.Box)
	case world.PrimitiveSphere:
		tmin, tmax, hit = ray.IntersectSphere(prim.Sphere)
	}
	if !hit || tmax < 0 {
		return
	}

	if s.closest {
		if tmin >= s.hitDistanceMin {
			return
		}
		s.hitDistanceMin = tmin
		s.found = true
		s.boundsHit = BoxHit{Proxy: ProxyPrimitive, Primitive: handle, Owner: prim.Owner, DistanceMin: tmin, DistanceMax: tmax}
		return
	}

	if tmin >= s.rayLength {
		return
	}
	s.boundsHits = append(s.boundsHits, BoxHit{Proxy: ProxyPrimitive, Primitive: handle, Owner: prim.Owner, DistanceMin: tmin, DistanceMax: tmax})
}
