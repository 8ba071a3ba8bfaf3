package raycast

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/kestrelengine/spatial/geom"
	"github.com/kestrelengine/spatial/world"
	"github.com/stretchr/testify/assert"
)

// quadMesh is a two-triangle quad lying in the z=0 plane, spanning x,y in
// [-1,1], wound CCW as seen from +z.
func quadMesh() *world.Vec3Mesh {
	return &world.Vec3Mesh{
		Verts: []d3.Vec3{
			d3.NewVec3XYZ(-1, -1, 0),
			d3.NewVec3XYZ(1, -1, 0),
			d3.NewVec3XYZ(1, 1, 0),
			d3.NewVec3XYZ(-1, 1, 0),
		},
		Indices: []int32{0, 1, 2, 0, 2, 3},
	}
}

// bruteLevel builds a one-area, no-tree Level holding the quad surface plus
// one dynamic box primitive sitting off to the side of the quad.
func bruteLevel() (*world.Level, int) {
	surf := world.Surface{
		Flags:       world.SurfacePlanar,
		FacePlane:   geom.PlaneFromPoints(d3.NewVec3XYZ(-1, -1, 0), d3.NewVec3XYZ(1, -1, 0), d3.NewVec3XYZ(1, 1, 0)),
		Bounds:      geom.AABB{Min: d3.NewVec3XYZ(-1, -1, 0), Max: d3.NewVec3XYZ(1, 1, 0)},
		QueryGroup:  0,
		VisGroup:    1,
		NumVertices: 4,
		NumIndices:  6,
	}

	def := world.LevelDef{
		Areas: []world.AreaDef{
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, FirstSurface: 0, NumSurfaces: 1},
		},
		AreaSurfaces: []uint32{0},
		Surfaces:     []world.Surface{surf},
		Model:        quadMesh(),
	}
	lvl := world.NewLevel(def)

	box := geom.AABB{Min: d3.NewVec3XYZ(2.5, 2.5, 2.5), Max: d3.NewVec3XYZ(3.5, 3.5, 3.5)}
	handle := lvl.AddPrimitive(world.Primitive{
		Kind:       world.PrimitiveBox,
		Box:        box,
		QueryGroup: 0,
		VisGroup:   1,
		Raycaster:  boxRaycaster{box: box},
	})
	return lvl, handle
}

// boxRaycaster is a minimal world.Raycaster standing in for an owner's
// actual mesh: it reports the AABB's near-face intersection as a single
// triangle hit, letting the triangle-mode raycast tests exercise the
// per-primitive delegation path without a real mesh.
type boxRaycaster struct{ box geom.AABB }

func (b boxRaycaster) RaycastClosest(rayStart, rayEnd d3.Vec3, currentClosest float32) (world.TriangleHit, float32, bool) {
	delta := rayEnd.Sub(rayStart)
	length := delta.Len()
	dir := d3.NewVec3From(delta)
	dir.Normalize()
	ray := geom.NewRay(rayStart, dir)

	tmin, tmax, hit := ray.IntersectAABB(b.box)
	if !hit || tmax < 0 || tmin >= currentClosest || tmin >= length {
		return world.TriangleHit{}, 0, false
	}
	return world.TriangleHit{Location: ray.At(tmin)}, tmin, true
}

func (b boxRaycaster) RaycastAll(rayStart, rayEnd d3.Vec3, out *[]world.TriangleHit) bool {
	hit, _, ok := b.RaycastClosest(rayStart, rayEnd, 1e30)
	if !ok {
		return false
	}
	*out = append(*out, hit)
	return true
}

func TestRaycastClosestHitsQuad(t *testing.T) {
	lvl, _ := bruteLevel()

	hit, ok := RaycastClosest(lvl, d3.NewVec3XYZ(0.5, -0.5, 5), d3.NewVec3XYZ(0.5, -0.5, -5), DefaultFilter())
	assert.True(t, ok)
	assert.Equal(t, ProxySurface, hit.Proxy)
	assert.InDelta(t, 5, hit.Distance, 1e-4)
	assert.InDelta(t, 0, hit.Location[2], 1e-4)
}

func TestRaycastClosestMissesBehindSurface(t *testing.T) {
	lvl, _ := bruteLevel()

	// The quad is single-sided (not two-sided): a ray starting behind its
	// face plane and heading further away never crosses it.
	_, ok := RaycastClosest(lvl, d3.NewVec3XYZ(0.5, -0.5, -5), d3.NewVec3XYZ(0.5, -0.5, -10), DefaultFilter())
	assert.False(t, ok)
}

func TestRaycastAllCollectsHit(t *testing.T) {
	lvl, _ := bruteLevel()

	result := RaycastAll(lvl, d3.NewVec3XYZ(0.5, -0.5, 5), d3.NewVec3XYZ(0.5, -0.5, -5), DefaultFilter())
	assert.Len(t, result.Hits, 1)
	assert.InDelta(t, 5, result.Hits[0].Distance, 1e-4)
}

func TestRaycastClosestHitsPrimitiveBox(t *testing.T) {
	lvl, handle := bruteLevel()

	hit, ok := RaycastClosest(lvl, d3.NewVec3XYZ(3, 3, 10), d3.NewVec3XYZ(3, 3, -10), DefaultFilter())
	assert.True(t, ok)
	assert.Equal(t, ProxyPrimitive, hit.Proxy)
	assert.Equal(t, handle, hit.Primitive)
}

func TestRaycastClosestBoundsSkipsPlanarSurface(t *testing.T) {
	lvl, handle := bruteLevel()

	// Bounds-only mode skips planar surfaces entirely, so a ray through
	// the quad alone should report no hit.
	_, ok := RaycastClosestBounds(lvl, d3.NewVec3XYZ(0.5, -0.5, 5), d3.NewVec3XYZ(0.5, -0.5, -5), DefaultFilter())
	assert.False(t, ok)

	hit, ok := RaycastClosestBounds(lvl, d3.NewVec3XYZ(3, 3, 10), d3.NewVec3XYZ(3, 3, -10), DefaultFilter())
	assert.True(t, ok)
	assert.Equal(t, ProxyPrimitive, hit.Proxy)
	assert.Equal(t, handle, hit.Primitive)
}

func TestRaycastBoundsSortByDistance(t *testing.T) {
	lvl, near := bruteLevel()

	// A second box further down the ray; area chains are prepended, so
	// unsorted traversal visits this one first.
	far := lvl.AddPrimitive(world.Primitive{
		Kind:     world.PrimitiveBox,
		Box:      geom.AABB{Min: d3.NewVec3XYZ(2.5, 2.5, -3.5), Max: d3.NewVec3XYZ(3.5, 3.5, -2.5)},
		VisGroup: 1,
	})

	filter := DefaultFilter()
	filter.SortByDistance = true
	hits := RaycastBounds(lvl, d3.NewVec3XYZ(3, 3, 10), d3.NewVec3XYZ(3, 3, -10), filter)
	assert.Len(t, hits, 2)
	assert.Equal(t, near, hits[0].Primitive)
	assert.Equal(t, far, hits[1].Primitive)
	assert.True(t, hits[0].DistanceMin < hits[1].DistanceMin)
}

func TestRaycastDegenerateRayMisses(t *testing.T) {
	lvl, _ := bruteLevel()

	_, ok := RaycastClosest(lvl, d3.NewVec3XYZ(0, 0, 0), d3.NewVec3XYZ(0, 0, 1e-6), DefaultFilter())
	assert.False(t, ok)
}

// treeLevel builds a minimal two-leaf BSP Level split by the x=0 plane, with
// no surfaces, to exercise the segment-BSP walk's area dispatch in
// isolation from triangle intersection.
func treeLevel() *world.Level {
	def := world.LevelDef{
		Planes: []geom.Plane{geom.NewPlane(d3.NewVec3XYZ(1, 0, 0), 0)},
		Nodes: []world.NodeDef{
			{Parent: -1, Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, PlaneIndex: 0, ChildrenIdx: [2]int{-1, -2}},
		},
		Leafs: []world.LeafDef{
			{Parent: 0, Bounds: geom.AABB{Min: d3.NewVec3XYZ(0, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, PVSCluster: -1, Area: 0},
			{Parent: 0, Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(0, 50, 50)}, PVSCluster: -1, Area: 1},
		},
		Areas: []world.AreaDef{
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(0, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}},
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(0, 50, 50)}},
		},
	}
	return world.NewLevel(def)
}

func TestRaycastSegmentWalkEmptyTreeNoHit(t *testing.T) {
	lvl := treeLevel()

	_, ok := RaycastClosest(lvl, d3.NewVec3XYZ(10, 0, 0), d3.NewVec3XYZ(-10, 0, 0), DefaultFilter())
	assert.False(t, ok)
}
