package geom

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
)

func TestComputeTangentsQuad(t *testing.T) {
	// Quad in the z=0 plane with UVs matching xy: the tangent frame is the
	// world basis itself, with positive handedness.
	positions := []d3.Vec3{
		d3.NewVec3XYZ(0, 0, 0),
		d3.NewVec3XYZ(1, 0, 0),
		d3.NewVec3XYZ(1, 1, 0),
		d3.NewVec3XYZ(0, 1, 0),
	}
	normals := []d3.Vec3{
		d3.NewVec3XYZ(0, 0, 1),
		d3.NewVec3XYZ(0, 0, 1),
		d3.NewVec3XYZ(0, 0, 1),
		d3.NewVec3XYZ(0, 0, 1),
	}
	uvs := []float32{0, 0, 1, 0, 1, 1, 0, 1}
	indices := []int32{0, 1, 2, 0, 2, 3}

	frames := ComputeTangents(positions, normals, uvs, indices)
	assert.Len(t, frames, 4)
	for i, f := range frames {
		assert.InDelta(t, 1, f[0], 1e-5, "tangent x, vertex %d", i)
		assert.InDelta(t, 0, f[1], 1e-5, "tangent y, vertex %d", i)
		assert.InDelta(t, 0, f[2], 1e-5, "tangent z, vertex %d", i)
		assert.Equal(t, float32(1), f[3], "handedness, vertex %d", i)
	}
}

func TestComputeBasisOrthonormal(t *testing.T) {
	for _, n := range []d3.Vec3{
		d3.NewVec3XYZ(0, 0, 1),
		d3.NewVec3XYZ(0, 1, 0),
		d3.NewVec3XYZ(1, 0, 0),
		d3.NewVec3XYZ(0.577350, 0.577350, 0.577350),
	} {
		right, up := ComputeBasis(n)
		assert.InDelta(t, 0, right.Dot(n), 1e-5)
		assert.InDelta(t, 0, up.Dot(n), 1e-5)
		assert.InDelta(t, 0, right.Dot(up), 1e-5)
		assert.InDelta(t, 1, right.Len(), 1e-5)
		assert.InDelta(t, 1, up.Len(), 1e-5)
	}
}
