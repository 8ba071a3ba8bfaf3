package geom

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// ComputeTangents derives per-vertex tangent frames for an indexed
// triangle mesh: positions and normals hold one d3.Vec3 per vertex, uvs
// one (u,v) pair per vertex packed flat, and indices three vertex indices
// per triangle. The result holds one [4]float32 per vertex: the
// orthonormalized tangent xyz plus the bitangent handedness sign in w,
// so a consumer reconstructs the bitangent as cross(n, t) * w.
//
// Each triangle's tangent/bitangent pair comes from solving its edge
// deltas against its texture deltas; degenerate texture areas (near-zero
// determinant) contribute nothing. Per-vertex accumulation then
// Gram-Schmidt against the vertex normal smooths the frames across
// shared vertices.
func ComputeTangents(positions, normals []d3.Vec3, uvs []float32, indices []int32) [][4]float32 {
	tan := make([]d3.Vec3, len(positions))
	bitan := make([]d3.Vec3, len(positions))
	for i := range tan {
		tan[i] = d3.NewVec3()
		bitan[i] = d3.NewVec3()
	}

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := positions[i0], positions[i1], positions[i2]

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)

		u0, v0 := uvs[i0*2], uvs[i0*2+1]
		et1x, et1y := uvs[i1*2]-u0, uvs[i1*2+1]-v0
		et2x, et2y := uvs[i2*2]-u0, uvs[i2*2+1]-v0

		det := et1x*et2y - et1y*et2x
		if det > -EpsTriDet && det < EpsTriDet {
			continue
		}
		r := 1.0 / det

		t := e1.Scale(et2y).Sub(e2.Scale(et1y)).Scale(r)
		b := e2.Scale(et1x).Sub(e1.Scale(et2x)).Scale(r)

		for _, vi := range []int32{i0, i1, i2} {
			d3.Vec3Add(tan[vi], tan[vi], t)
			d3.Vec3Add(bitan[vi], bitan[vi], b)
		}
	}

	out := make([][4]float32, len(positions))
	for i := range positions {
		n := normals[i]
		t := tan[i].Sub(n.Scale(n.Dot(tan[i])))
		if t.LenSqr() > EpsSegmentMin {
			t.Normalize()
		} else {
			// Vertex never got a usable tangent; fall back to any basis
			// vector perpendicular to the normal.
			t, _ = ComputeBasis(n)
		}

		w := float32(1)
		if n.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		out[i] = [4]float32{t[0], t[1], t[2], w}
	}
	return out
}

// ComputeBasis derives an arbitrary orthonormal (right, up) pair spanning
// the plane perpendicular to normal. normal must already be unit length.
//
// Picks whichever world axis normal is least aligned with as the seed for
// the cross products, the same branch idTech-derived engines use to avoid
// a near-zero cross product when normal is close to that axis.
func ComputeBasis(normal d3.Vec3) (right, up d3.Vec3) {
	var seed d3.Vec3
	if math32.Abs(normal[0]) <= math32.Abs(normal[1]) && math32.Abs(normal[0]) <= math32.Abs(normal[2]) {
		seed = d3.NewVec3XYZ(1, 0, 0)
	} else if math32.Abs(normal[1]) <= math32.Abs(normal[2]) {
		seed = d3.NewVec3XYZ(0, 1, 0)
	} else {
		seed = d3.NewVec3XYZ(0, 0, 1)
	}

	right = normal.Cross(seed)
	right.Normalize()
	up = right.Cross(normal)
	up.Normalize()
	return right, up
}
