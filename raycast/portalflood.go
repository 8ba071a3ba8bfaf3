package raycast

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/geom"
)

// floodArea raycasts the current area, then walks
// its outgoing portal links, recursing into any unblocked, unvisited
// portal the ray actually threads through.
func (s *state) floodArea(area int) {
	s.raycastArea(area)

	s.level.PortalsInArea(area, func(linkIdx int) {
		link := s.level.PortalLink(linkIdx)
		if uint32(link.VisMark) == s.marker {
			return
		}
		portal := s.level.Portal(link.Portal)
		if portal.Blocked {
			return
		}

		dOrigin := link.Plane.Dot(s.rayStart)
		if dOrigin <= 0 {
			return
		}
		dDir := link.Plane.Normal.Dot(s.dir)
		if dDir >= 0 {
			return
		}

		t := -dOrigin / dDir
		if t < 0 || t >= s.hitDistanceMin {
			return
		}

		point := s.rayStart.SAdd(s.dir, t)
		if !pointInHull(link.Hull, link.Plane.Normal, point) {
			return
		}

		link.VisMark = int(s.marker)
		s.floodArea(link.ToArea)
	})
}

// pointInHull is a 2-D point-in-convex-polygon test performed directly in
// 3-D: p is assumed to already lie on hull's plane, and hull.Points winds
// CCW as seen looking against normal, so p is inside exactly when every
// edge's cross product agrees with normal.
func pointInHull(hull *geom.Hull, normal d3.Vec3, p d3.Vec3) bool {
	n := len(hull.Points)
	for i := 0; i < n; i++ {
		a := hull.Points[i]
		b := hull.Points[(i+1)%n]
		edge := b.Sub(a)
		toPoint := p.Sub(a)
		if normal.Dot(edge.Cross(toPoint)) < -geom.EpsPlane {
			return false
		}
	}
	return true
}
