package geom

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
)

// unitQuadZ is a quad in the z=0 plane spanning x,y in [-1,1], wound CCW
// as seen from +z.
func unitQuadZ() *Hull {
	return NewHull([]d3.Vec3{
		d3.NewVec3XYZ(-1, -1, 0),
		d3.NewVec3XYZ(1, -1, 0),
		d3.NewVec3XYZ(1, 1, 0),
		d3.NewVec3XYZ(-1, 1, 0),
	})
}

func TestHullSplitAxialSnap(t *testing.T) {
	h := unitQuadZ()
	plane := NewPlane(d3.NewVec3XYZ(1, 0, 0), 0) // x = 0

	front, back, side := h.Split(plane, EpsPlane)
	assert.Equal(t, SideCross, side)

	wantFront := NewHull([]d3.Vec3{
		d3.NewVec3XYZ(0, -1, 0),
		d3.NewVec3XYZ(1, -1, 0),
		d3.NewVec3XYZ(1, 1, 0),
		d3.NewVec3XYZ(0, 1, 0),
	})
	assert.True(t, front.Approx(wantFront), "front = %v", front.Points)

	// The cut points snap x to exactly 0 on an axial plane, no epsilon.
	for _, p := range front.Points {
		assert.True(t, p[0] == 0 || p[0] == 1)
	}
	for _, p := range back.Points {
		assert.True(t, p[0] == 0 || p[0] == -1)
	}
}

func TestHullSplitCopyInvariant(t *testing.T) {
	h := unitQuadZ()

	// A plane entirely below the hull: classification is Front, and split
	// hands back the hull itself on the front side.
	plane := NewPlane(d3.NewVec3XYZ(0, 0, 1), 5)
	front, back, side := h.Split(plane, EpsPlane)
	assert.Equal(t, SideFront, side)
	assert.Nil(t, back)
	assert.True(t, front.Approx(h))

	front, back, side = h.Split(plane.Flip(), EpsPlane)
	assert.Equal(t, SideBack, side)
	assert.Nil(t, front)
	assert.True(t, back.Approx(h))
}

func TestHullSplitFullyOnPlane(t *testing.T) {
	h := unitQuadZ()

	// The hull lies exactly in z=0: it is attributed to the side its own
	// normal (+z) agrees with.
	front, back, side := h.Split(NewPlane(d3.NewVec3XYZ(0, 0, 1), 0), EpsPlane)
	assert.Equal(t, SideFront, side)
	assert.Nil(t, back)
	assert.True(t, front.Approx(h))

	front, back, side = h.Split(NewPlane(d3.NewVec3XYZ(0, 0, -1), 0), EpsPlane)
	assert.Equal(t, SideBack, side)
	assert.Nil(t, front)
	assert.True(t, back.Approx(h))
}

func TestHullClipSamePlaneTwice(t *testing.T) {
	h := unitQuadZ()
	plane := NewPlane(d3.NewVec3XYZ(1, 0, 0), 0.5) // keeps x >= -0.5

	once, side := h.Clip(plane, EpsPlane)
	assert.Equal(t, SideCross, side)

	twice, _ := once.Clip(plane, EpsPlane)
	assert.True(t, once.Approx(twice))
}

func TestHullClipNothingSurvives(t *testing.T) {
	h := unitQuadZ()
	front, side := h.Clip(NewPlane(d3.NewVec3XYZ(0, 0, 1), -5), EpsPlane)
	assert.Nil(t, front)
	assert.Equal(t, SideBack, side)
}

func TestHullReverseTwiceIdentity(t *testing.T) {
	h := unitQuadZ()
	orig := NewHull(append([]d3.Vec3(nil), h.Points...))

	h.Reverse()
	assert.False(t, h.Approx(orig))
	h.Reverse()
	assert.True(t, h.Approx(orig))
}

func TestHullClassify(t *testing.T) {
	h := unitQuadZ()

	assert.Equal(t, SideCross, h.Classify(NewPlane(d3.NewVec3XYZ(1, 0, 0), 0), EpsPlane))
	assert.Equal(t, SideFront, h.Classify(NewPlane(d3.NewVec3XYZ(0, 0, 1), 5), EpsPlane))
	assert.Equal(t, SideBack, h.Classify(NewPlane(d3.NewVec3XYZ(0, 0, -1), -5), EpsPlane))
	assert.Equal(t, SideOn, h.Classify(NewPlane(d3.NewVec3XYZ(0, 0, 1), 0), EpsPlane))
}

func TestHullTinyAndHuge(t *testing.T) {
	assert.True(t, unitQuadZ().IsTiny(3))
	assert.False(t, unitQuadZ().IsTiny(0.5))

	assert.False(t, unitQuadZ().IsHuge())
	big := NewHull([]d3.Vec3{
		d3.NewVec3XYZ(-HullMaxExtent*2, 0, 0),
		d3.NewVec3XYZ(HullMaxExtent*2, 0, 0),
		d3.NewVec3XYZ(0, 1, 0),
	})
	assert.True(t, big.IsHuge())
}
