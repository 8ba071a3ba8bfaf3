package geom

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
)

func TestPlaneFromPoints(t *testing.T) {
	p := PlaneFromPoints(
		d3.NewVec3XYZ(0, 0, 0),
		d3.NewVec3XYZ(1, 0, 0),
		d3.NewVec3XYZ(0, 0, 1),
	)
	assert.InDelta(t, 0, p.Normal[0], 1e-5)
	assert.InDelta(t, -1, p.Normal[1], 1e-5)
	assert.InDelta(t, 0, p.Normal[2], 1e-5)
	assert.InDelta(t, 0, p.Dist, 1e-5)
}

func TestPlaneSide(t *testing.T) {
	p := NewPlane(d3.NewVec3XYZ(0, 1, 0), 0) // y = 0 plane, normal pointing up

	ttable := []struct {
		name string
		pt   d3.Vec3
		want Side
	}{
		{"above", d3.NewVec3XYZ(0, 1, 0), SideFront},
		{"below", d3.NewVec3XYZ(0, -1, 0), SideBack},
		{"on", d3.NewVec3XYZ(5, 0, 5), SideOn},
	}

	for _, tt := range ttable {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Side(tt.pt, EpsPlane)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaneFlip(t *testing.T) {
	p := NewPlane(d3.NewVec3XYZ(0, 1, 0), 2)
	f := p.Flip()
	assert.Equal(t, SideFront, p.Side(d3.NewVec3XYZ(0, 1, 0), EpsPlane))
	assert.Equal(t, SideBack, f.Side(d3.NewVec3XYZ(0, 1, 0), EpsPlane))
}

func TestAxialSnap(t *testing.T) {
	assert.Equal(t, float32(-5), axialSnap(1, 5, 99))
	assert.Equal(t, float32(5), axialSnap(-1, 5, 99))
	assert.Equal(t, float32(99), axialSnap(0.5, 5, 99))
}
