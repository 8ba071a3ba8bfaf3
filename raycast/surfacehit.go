package raycast

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/geom"
	"github.com/kestrelengine/spatial/world"
)

// raycastSurfaceTriangles is the triangle path of a surface ray test: planar
// surfaces get a single plane test before the triangle loop, non-planar
// surfaces get an AABB prefilter first, then every surface walks its
// triangles with Moller-Trumbore.
func (s *state) raycastSurfaceTriangles(surf *world.Surface, surfIdx int) {
	twoSided := surf.Flags&world.SurfaceTwoSided != 0
	ray := geom.NewRay(s.rayStart, s.dir)
	model := s.level.Model

	if surf.Flags&world.SurfacePlanar != 0 {
		d1 := surf.FacePlane.Dot(s.rayStart)
		d2 := surf.FacePlane.Normal.Dot(s.dir)

		if twoSided {
			if d2 > -geom.EpsRayParallel && d2 < geom.EpsRayParallel {
				return
			}
		} else {
			if d1 <= 0 {
				return
			}
			if d2 >= 0 {
				return
			}
		}

		d := -(d1 / d2)
		if d <= 0 {
			return
		}
		if s.closest {
			if d >= s.hitDistanceMin {
				return
			}
		} else if d >= s.rayLength {
			return
		}

		firstHit := len(s.result.Hits)
		for i := 0; i < surf.NumIndices; i += 3 {
			i0 := model.Index(surf.FirstIndex + i)
			i1 := model.Index(surf.FirstIndex + i + 1)
			i2 := model.Index(surf.FirstIndex + i + 2)
			v0 := model.Vertex(surf.FirstVertex + i0)
			v1 := model.Vertex(surf.FirstVertex + i1)
			v2 := model.Vertex(surf.FirstVertex + i2)

			_, u, v, _, hit := intersectTriangle(ray, v0, v1, v2, false)
			if !hit {
				continue
			}

			indices := [3]int32{int32(surf.FirstVertex + i0), int32(surf.FirstVertex + i1), int32(surf.FirstVertex + i2)}
			if s.closest {
				s.recordClosestSurface(surf, surfIdx, d, u, v, surf.FacePlane.Normal, indices)
			} else {
				s.result.Hits = append(s.result.Hits, TriangleHit{
					Location: ray.At(d),
					Normal:   surf.FacePlane.Normal,
					Distance: d,
					U:        u,
					V:        v,
					Indices:  indices,
					Material: surf.Material,
				})
				s.result.Primitives = append(s.result.Primitives, PrimitiveHits{
					FirstHit: firstHit, NumHits: 1, ClosestHit: firstHit,
				})
			}
			break
		}
		return
	}

	cullBack := !twoSided
	tmin, _, hit := ray.IntersectAABB(surf.Bounds)
	if !hit {
		return
	}
	if s.closest && tmin >= s.hitDistanceMin {
		return
	}

	firstHit := len(s.result.Hits)
	closestLocal := -1
	for i := 0; i < surf.NumIndices; i += 3 {
		i0 := model.Index(surf.FirstIndex + i)
		i1 := model.Index(surf.FirstIndex + i + 1)
		i2 := model.Index(surf.FirstIndex + i + 2)
		v0 := model.Vertex(surf.FirstVertex + i0)
		v1 := model.Vertex(surf.FirstVertex + i1)
		v2 := model.Vertex(surf.FirstVertex + i2)

		t, u, v, normal, hit := intersectTriangle(ray, v0, v1, v2, cullBack)
		if !hit {
			continue
		}
		indices := [3]int32{int32(surf.FirstVertex + i0), int32(surf.FirstVertex + i1), int32(surf.FirstVertex + i2)}

		if s.closest {
			if t < s.hitDistanceMin {
				s.recordClosestSurface(surf, surfIdx, t, u, v, normal, indices)
			}
			continue
		}

		if t >= s.rayLength {
			continue
		}
		hitIdx := len(s.result.Hits)
		s.result.Hits = append(s.result.Hits, TriangleHit{
			Location: ray.At(t), Normal: normal, Distance: t, U: u, V: v, Indices: indices, Material: surf.Material,
		})
		if closestLocal < 0 || t < s.result.Hits[closestLocal].Distance {
			closestLocal = hitIdx
		}
	}

	if !s.closest && closestLocal >= 0 {
		s.result.Primitives = append(s.result.Primitives, PrimitiveHits{
			FirstHit: firstHit, NumHits: len(s.result.Hits) - firstHit, ClosestHit: closestLocal,
		})
	}
}

// recordClosestSurface updates the closest-mode accumulator and narrows
// hitDistanceMin, the gate every later candidate (surface, primitive, or
// tree-traversal stop check) is tested against.
func (s *state) recordClosestSurface(surf *world.Surface, surfIdx int, d, u, v float32, normal d3.Vec3, indices [3]int32) {
	s.hitDistanceMin = d
	s.found = true
	s.closestHit = ClosestHit{
		Proxy:    ProxySurface,
		Surface:  surfIdx,
		Location: s.rayStart.SAdd(s.dir, d),
		Normal:   normal,
		U:        u,
		V:        v,
		Distance: d,
		Indices:  indices,
		Material: surf.Material,
		Lightmap: surf.Lightmap,
	}
}
