package raycast

import "github.com/kestrelengine/spatial/world"

// raycastPrimitiveShape delegates to the primitive owner's Raycaster
// callback, then wraps whatever it returns with proxy metadata.
func (s *state) raycastPrimitiveShape(prim *world.Primitive, handle int) {
	if prim.Raycaster == nil {
		return
	}

	if s.closest {
		hit, distance, ok := prim.Raycaster.RaycastClosest(s.rayStart, s.rayEnd(), s.hitDistanceMin)
		if !ok || distance >= s.hitDistanceMin {
			return
		}
		s.hitDistanceMin = distance
		s.found = true
		s.closestHit = ClosestHit{
			Proxy:     ProxyPrimitive,
			Primitive: handle,
			Owner:     prim.Owner,
			Location:  hit.Location,
			Normal:    hit.Normal,
			U:         hit.U,
			V:         hit.V,
			Distance:  distance,
			Indices:   hit.Indices,
			Material:  hit.Material,
		}
		return
	}

	var hits []world.TriangleHit
	if !prim.Raycaster.RaycastAll(s.rayStart, s.rayEnd(), &hits) || len(hits) == 0 {
		return
	}

	firstHit := len(s.result.Hits)
	closestLocal := firstHit
	for _, h := range hits {
		distance := h.Location.Sub(s.rayStart).Dot(s.dir)
		idx := len(s.result.Hits)
		s.result.Hits = append(s.result.Hits, TriangleHit{
			Location: h.Location,
			Normal:   h.Normal,
			Distance: distance,
			U:        h.U,
			V:        h.V,
			Indices:  h.Indices,
			Material: h.Material,
		})
		if idx == firstHit || distance < s.result.Hits[closestLocal].Distance {
			closestLocal = idx
		}
	}

	s.result.Primitives = append(s.result.Primitives, PrimitiveHits{
		Owner: prim.Owner, FirstHit: firstHit, NumHits: len(s.result.Hits) - firstHit, ClosestHit: closestLocal,
	})
}
