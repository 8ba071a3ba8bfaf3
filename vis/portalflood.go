package vis

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/geom"
	"github.com/kestrelengine/spatial/world"
)

// MaxPortalStack bounds portal-flood recursion depth; overflowing floods
// abort the offending branch and count it in Stats.
const MaxPortalStack = 128

// portalFrame is one level of the portal flood's stack: the frustum that
// reached the current area (up to MaxCullPlanes planes, side planes
// followed by a far plane) and the scissor rectangle it was narrowed
// through.
type portalFrame struct {
	frustum [MaxCullPlanes]geom.Plane
	count   int
	scissor scissor
}

func (f *portalFrame) planes() []geom.Plane { return f.frustum[:f.count] }

// floodPortals culls the current area's contents against the frustum that
// reached it, then walks its outgoing portal links, computing each one's
// outgoing frustum and recursing into the area on the far side.
func (q *querier) floodPortals(area int) {
	prev := &q.stack[q.stackDepth]
	q.cullArea(area, prev.planes())

	if q.stackDepth == MaxPortalStack-1 {
		q.stats.PortalStackOverflow++
		return
	}

	q.stackDepth++
	cur := &q.stack[q.stackDepth]

	q.level.PortalsInArea(area, func(linkIdx int) {
		link := q.level.PortalLink(linkIdx)
		if uint32(link.VisMark) == q.marker {
			return
		}
		portal := q.level.Portal(link.Portal)
		if portal.Blocked {
			return
		}
		if !q.calcPortalStack(cur, prev, link) {
			return
		}
		link.VisMark = int(q.marker)
		q.stats.PassedPortals++
		q.floodPortals(link.ToArea)
	})

	q.stackDepth--
}

// calcPortalStack rejects back-facing or degenerate portals, reuses the
// parent frustum unchanged when the portal straddles the near plane, and
// otherwise clips the portal hull into the parent frustum/near-plane to
// build a tighter outgoing frustum and scissor.
func (q *querier) calcPortalStack(out, prev *portalFrame, link *world.PortalLink) bool {
	d := link.Plane.Dot(q.view.Position)
	if d <= 0 {
		q.stats.SkippedByPlaneOffset++
		return false
	}
	if d <= q.view.NearDist {
		*out = *prev
		return true
	}

	winding := q.calcPortalWinding(link, prev)
	if len(winding) < 3 {
		q.stats.ClippedPortals++
		return false
	}

	sc := q.calcPortalScissor(winding, prev)
	if sc.empty() {
		q.stats.ClippedPortals++
		return false
	}
	out.scissor = sc

	// The winding is CCW as seen from the view position, so taking each
	// edge's vertices in reverse gives side planes whose normals face the
	// frustum interior, the sense cullArea tests against.
	if len(winding) <= 4 {
		n := len(winding)
		out.count = n
		for i := 0; i < n; i++ {
			out.frustum[i] = geom.PlaneFromPoints(q.view.Position, winding[(i+1)%n], winding[i])
		}
	} else {
		corner := func(x, y float32) d3.Vec3 {
			p := q.view.Position.SAdd(q.view.NearPlane.Normal, q.view.NearDist)
			return p.Add(q.view.Right.Scale(x)).Add(q.view.Up.Scale(y))
		}
		corners := [4]d3.Vec3{
			corner(sc.MinX, sc.MinY),
			corner(sc.MaxX, sc.MinY),
			corner(sc.MaxX, sc.MaxY),
			corner(sc.MinX, sc.MaxY),
		}
		for i := 0; i < 4; i++ {
			out.frustum[i] = geom.PlaneFromPoints(q.view.Position, corners[(i+1)%4], corners[i])
		}
		out.count = 4
	}

	out.frustum[out.count] = prev.frustum[prev.count-1]
	out.count++
	return true
}

// calcPortalWinding clips the portal hull against the near plane, then
// against every plane of the parent frustum, using a
// ping-pong pair of buffers owned by the querier so a flood of any depth
// allocates at most twice.
func (q *querier) calcPortalWinding(link *world.PortalLink, prev *portalFrame) []d3.Vec3 {
	if q.bufA == nil {
		q.bufA = make([]d3.Vec3, 0, MaxHullPoints)
		q.bufB = make([]d3.Vec3, 0, MaxHullPoints)
	}
	bufs := [2]*[]d3.Vec3{&q.bufA, &q.bufB}
	cur := 0

	if clipPolygonFast(link.Hull.Points, q.view.NearPlane, 0, bufs[cur]) {
		// clipped: bufs[cur] now holds the result (possibly empty).
	} else {
		*bufs[cur] = append((*bufs[cur])[:0], link.Hull.Points...)
	}
	pts := *bufs[cur]

	for i := 0; i < prev.count && len(pts) >= 3; i++ {
		next := 1 - cur
		if clipPolygonFast(pts, prev.frustum[i], 0, bufs[next]) {
			cur = next
			pts = *bufs[cur]
		}
	}
	return pts
}

// calcPortalScissor projects every winding vertex onto the view's
// right/up basis through the near plane, takes the bounding rectangle,
// and intersects it with the parent scissor.
func (q *querier) calcPortalScissor(pts []d3.Vec3, prev *portalFrame) scissor {
	sc := emptyScissor()
	for _, p := range pts {
		vec := p.Sub(q.view.Position)
		d := q.view.NearPlane.Normal.Dot(vec)

		proj := vec
		if d >= q.view.NearDist {
			proj = vec.Scale(q.view.NearDist / d)
		}

		x := q.view.Right.Dot(proj)
		y := q.view.Up.Dot(proj)
		if x < sc.MinX {
			sc.MinX = x
		}
		if y < sc.MinY {
			sc.MinY = y
		}
		if x > sc.MaxX {
			sc.MaxX = x
		}
		if y > sc.MaxY {
			sc.MaxY = y
		}
	}
	return sc.intersect(prev.scissor)
}
