package geom

import (
	"github.com/arl/gogeo/f32/d3"
)

// Hull is a convex polygon described by its vertices in CCW winding order
// (as seen from the side the plane Normal points to). It is the unit of
// geometry the world partition clips against splitting planes to produce
// leaf surfaces and portals.
type Hull struct {
	Points []d3.Vec3
}

// NewHull wraps pts as a Hull without copying.
func NewHull(pts []d3.Vec3) *Hull {
	return &Hull{Points: pts}
}

// HullFromPlane builds the maximal quad lying in plane, extending maxExtent
// in every direction from the plane's closest point to the origin, wound CCW
// as seen from the side plane.Normal points to.
func HullFromPlane(plane Plane, maxExtent float32) *Hull {
	right, up := ComputeBasis(plane.Normal)
	p := plane.PointOnPlane()

	right = right.Scale(maxExtent)
	up = up.Scale(maxExtent)

	p0 := up.Sub(right)
	p1 := up.Scale(-1).Sub(right)
	p2 := p0.Scale(-1)
	p3 := p1.Scale(-1)

	// right x up == -Normal, so this order is CCW seen from the Normal side.
	pts := []d3.Vec3{p0, p3, p2, p1}
	for i := range pts {
		pts[i] = pts[i].Add(p)
	}
	return &Hull{Points: pts}
}

// Reverse flips the hull's winding order in place.
func (h *Hull) Reverse() {
	for i, j := 0, len(h.Points)-1; i < j; i, j = i+1, j-1 {
		h.Points[i], h.Points[j] = h.Points[j], h.Points[i]
	}
}

// Reversed returns a copy of h with the winding order flipped.
func (h *Hull) Reversed() *Hull {
	pts := make([]d3.Vec3, len(h.Points))
	copy(pts, h.Points)
	out := &Hull{Points: pts}
	out.Reverse()
	return out
}

// Classify reports how the hull as a whole sits relative to plane: Front,
// Back or On if every vertex agrees, Cross if the plane passes through it.
func (h *Hull) Classify(plane Plane, eps float32) Side {
	var front, back, on int

	for _, p := range h.Points {
		d := plane.Dot(p)
		switch {
		case d > eps:
			if back > 0 || on > 0 {
				return SideCross
			}
			front++
		case d < -eps:
			if front > 0 || on > 0 {
				return SideCross
			}
			back++
		default:
			if front > 0 || back > 0 {
				return SideCross
			}
			on++
		}
	}

	switch {
	case on > 0:
		return SideOn
	case front > 0:
		return SideFront
	case back > 0:
		return SideBack
	default:
		return SideCross
	}
}

// IsTiny reports whether fewer than 3 of the hull's edges are at least
// minEdgeLength long, meaning it has degenerated to a sliver not worth
// keeping as a splitting surface.
func (h *Hull) IsTiny(minEdgeLength float32) bool {
	minSqr := minEdgeLength * minEdgeLength
	n := len(h.Points)
	edges := 0
	for i := 0; i < n; i++ {
		p1 := h.Points[i]
		p2 := h.Points[(i+1)%n]
		if p1.DistSqr(p2) >= minSqr {
			edges++
			if edges == 3 {
				return false
			}
		}
	}
	return true
}

// IsHuge reports whether any vertex has escaped the sane coordinate bounds
// of the level, meaning the hull was never clipped down by the volume it
// was meant to bound and should be discarded.
func (h *Hull) IsHuge() bool {
	for _, p := range h.Points {
		if p[0] <= -HullMaxExtent || p[0] >= HullMaxExtent ||
			p[1] <= -HullMaxExtent || p[1] >= HullMaxExtent ||
			p[2] <= -HullMaxExtent || p[2] >= HullMaxExtent {
			return true
		}
	}
	return false
}

// Area returns the hull's surface area, via a fan triangulation from
// Points[0].
func (h *Hull) Area() float32 {
	var area float32
	for i := 2; i < len(h.Points); i++ {
		e1 := h.Points[i-1].Sub(h.Points[0])
		e2 := h.Points[i].Sub(h.Points[0])
		area += e1.Cross(e2).Len()
	}
	return area * 0.5
}

// Bounds returns the hull's axis-aligned bounding box.
func (h *Hull) Bounds() AABB {
	if len(h.Points) == 0 {
		return EmptyAABB()
	}
	b := AABBFromPoint(h.Points[0])
	for _, p := range h.Points[1:] {
		b.AddPoint(p)
	}
	return b
}

// Center returns the unweighted average of the hull's vertices.
func (h *Hull) Center() d3.Vec3 {
	c := d3.NewVec3()
	if len(h.Points) == 0 {
		return c
	}
	for _, p := range h.Points {
		d3.Vec3Add(c, c, p)
	}
	return c.Scale(1.0 / float32(len(h.Points)))
}

// Normal derives the hull's face normal from its first two edges around
// its Center, following the same winding rule Plane() uses to build the
// hull's supporting plane.
func (h *Hull) Normal() d3.Vec3 {
	if len(h.Points) < 3 {
		return d3.NewVec3()
	}
	c := h.Center()
	n := h.Points[0].Sub(c).Cross(h.Points[1].Sub(c))
	n.Normalize()
	return n
}

// Plane derives the supporting plane of the hull.
func (h *Hull) Plane() Plane {
	if len(h.Points) < 3 {
		return Plane{}
	}
	n := h.Normal()
	return Plane{Normal: n, Dist: -n.Dot(h.Points[0])}
}

// Split partitions the hull against plane, returning the front piece, the
// back piece and the overall classification. When the hull lies entirely on
// the plane, it is attributed to the side its own face normal agrees with.
func (h *Hull) Split(plane Plane, eps float32) (front, back *Hull, side Side) {
	count := len(h.Points)
	distances := make([]float32, count+1)
	sides := make([]Side, count+1)

	var nfront, nback int
	for i, p := range h.Points {
		d := plane.Dot(p)
		distances[i] = d
		switch {
		case d > eps:
			sides[i] = SideFront
			nfront++
		case d < -eps:
			sides[i] = SideBack
			nback++
		default:
			sides[i] = SideOn
		}
	}
	sides[count] = sides[0]
	distances[count] = distances[0]

	if nfront == 0 && nback == 0 {
		if h.Normal().Dot(plane.Normal) > 0 {
			return h, nil, SideFront
		}
		return nil, h, SideBack
	}
	if nfront == 0 {
		return nil, h, SideBack
	}
	if nback == 0 {
		return h, nil, SideFront
	}

	frontPts := make([]d3.Vec3, 0, count+4)
	backPts := make([]d3.Vec3, 0, count+4)

	for i := 0; i < count; i++ {
		p := h.Points[i]
		switch sides[i] {
		case SideOn:
			frontPts = append(frontPts, p)
			backPts = append(backPts, p)
			continue
		case SideFront:
			frontPts = append(frontPts, p)
		case SideBack:
			backPts = append(backPts, p)
		}

		next := sides[i+1]
		if next == SideOn || next == sides[i] {
			continue
		}

		p1 := h.Points[(i+1)%count]
		v := clipVertex(p, p1, distances[i], distances[i+1], plane)
		frontPts = append(frontPts, v)
		backPts = append(backPts, v)
	}

	return &Hull{Points: frontPts}, &Hull{Points: backPts}, SideCross
}

// Clip keeps only the part of the hull in front of plane, returning nil if
// nothing survives.
func (h *Hull) Clip(plane Plane, eps float32) (front *Hull, side Side) {
	count := len(h.Points)
	distances := make([]float32, count+1)
	sides := make([]Side, count+1)

	var nfront, nback int
	for i, p := range h.Points {
		d := plane.Dot(p)
		distances[i] = d
		switch {
		case d > eps:
			sides[i] = SideFront
			nfront++
		case d < -eps:
			sides[i] = SideBack
			nback++
		default:
			sides[i] = SideOn
		}
	}
	sides[count] = sides[0]
	distances[count] = distances[0]

	if nfront == 0 {
		return nil, SideBack
	}
	if nback == 0 {
		return h, SideFront
	}

	frontPts := make([]d3.Vec3, 0, count+4)
	for i := 0; i < count; i++ {
		p := h.Points[i]
		switch sides[i] {
		case SideOn:
			frontPts = append(frontPts, p)
			continue
		case SideFront:
			frontPts = append(frontPts, p)
		case SideBack:
		}

		next := sides[i+1]
		if next == SideOn || next == sides[i] {
			continue
		}

		p1 := h.Points[(i+1)%count]
		v := clipVertex(p, p1, distances[i], distances[i+1], plane)
		frontPts = append(frontPts, v)
	}

	return &Hull{Points: frontPts}, SideCross
}

// Approx reports whether two hulls have the same vertex count and
// approximately equal vertices in order.
func (h *Hull) Approx(o *Hull) bool {
	if len(h.Points) != len(o.Points) {
		return false
	}
	for i := range h.Points {
		if !h.Points[i].Approx(o.Points[i]) {
			return false
		}
	}
	return true
}
