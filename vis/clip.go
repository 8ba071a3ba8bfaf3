package vis

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/kestrelengine/spatial/geom"
)

// MaxHullPoints is the capacity both ping-pong buffers are allocated with,
// and the largest polygon clipPolygonFast clips without heap scratch.
// Larger polygons still clip; the buffers then grow as append needs.
const MaxHullPoints = 128

// clipPolygonFast clips points against plane, writing the kept result to
// out (truncated first, capacity reused across calls). It reports whether
// out was written.
//
// The contract is slightly surprising: when every input point
// is behind the plane, out is truncated to empty and true is returned
// (entirely clipped away). When every point is in front, out is left
// *untouched* and false is returned - callers must read this as "input is
// unchanged", not as an error, and must fill out from the unclipped input
// themselves if they need it populated (calcPortalWinding does so for the
// near-plane clip, and keeps its current buffer without a copy for the
// frustum-plane clips).
func clipPolygonFast(points []d3.Vec3, plane geom.Plane, eps float32, out *[]d3.Vec3) bool {
	n := len(points)
	var distBuf [MaxHullPoints + 1]float32
	var sideBuf [MaxHullPoints + 1]geom.Side
	var dist []float32
	var side []geom.Side
	if n <= MaxHullPoints {
		dist, side = distBuf[:n+1], sideBuf[:n+1]
	} else {
		dist, side = make([]float32, n+1), make([]geom.Side, n+1)
	}

	front, back := 0, 0
	for i, p := range points {
		d := plane.Dot(p)
		dist[i] = d
		switch {
		case d > eps:
			side[i] = geom.SideFront
			front++
		case d < -eps:
			side[i] = geom.SideBack
			back++
		default:
			side[i] = geom.SideOn
		}
	}

	if front == 0 {
		*out = (*out)[:0]
		return true
	}
	if back == 0 {
		return false
	}

	side[n] = side[0]
	dist[n] = dist[0]

	*out = (*out)[:0]
	for i := 0; i < n; i++ {
		v := points[i]
		if side[i] == geom.SideOn || side[i] == geom.SideFront {
			*out = append(*out, v)
		}

		next := side[i+1]
		if next == geom.SideOn || next == side[i] {
			continue
		}

		t := dist[i] / (dist[i] - dist[i+1])
		v1 := points[(i+1)%n]
		cut := v.SAdd(v1.Sub(v), t)
		*out = append(*out, cut)
	}
	return true
}
