package vis

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
// one dynamic box primitive.
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

	handle := lvl.AddPrimitive(world.Primitive{
		Kind:       world.PrimitiveBox,
		Box:        geom.AABB{Min: d3.NewVec3XYZ(2.5, 2.5, 2.5), Max: d3.NewVec3XYZ(3.5, 3.5, 3.5)},
		QueryGroup: 0,
		VisGroup:   1,
	})
	return lvl, handle
}

// wideOpenView is a 50-unit half-extent axis-aligned frustum, looking down
// from +z, that doesn't cull anything the tests place inside it.
func wideOpenView(pos d3.Vec3, visMask uint32) View {
	return View{
		Position: pos,
		Right:    d3.NewVec3XYZ(1, 0, 0),
		Up:       d3.NewVec3XYZ(0, 1, 0),
		Frustum: [5]geom.Plane{
			geom.NewPlane(d3.NewVec3XYZ(1, 0, 0), 50),
			geom.NewPlane(d3.NewVec3XYZ(-1, 0, 0), 50),
			geom.NewPlane(d3.NewVec3XYZ(0, 1, 0), 50),
			geom.NewPlane(d3.NewVec3XYZ(0, -1, 0), 50),
			geom.NewPlane(d3.NewVec3XYZ(0, 0, -1), 50),
		},
		QueryGroupMask: 0,
		VisGroupMask:   visMask,
	}
}

// portalLevel builds two box areas A (x in [-2,0]) and B (x in [0,2])
// joined by a unit portal at x=0. A's surface is its back wall at x=-2
// (facing +x), B's is its far wall at x=2 (facing -x). The portal hull is
// wound CCW as seen from B, per the LevelDef convention.
func portalLevel() *world.Level {
	surfA := world.Surface{
		Flags:     world.SurfacePlanar,
		FacePlane: geom.NewPlane(d3.NewVec3XYZ(1, 0, 0), 2),
		Bounds:    geom.AABB{Min: d3.NewVec3XYZ(-2, 0, 0), Max: d3.NewVec3XYZ(-2, 1, 1)},
		VisGroup:  1,
	}
	surfB := world.Surface{
		Flags:     world.SurfacePlanar,
		FacePlane: geom.NewPlane(d3.NewVec3XYZ(-1, 0, 0), 2),
		Bounds:    geom.AABB{Min: d3.NewVec3XYZ(2, 0, 0), Max: d3.NewVec3XYZ(2, 1, 1)},
		VisGroup:  1,
	}

	def := world.LevelDef{
		Areas: []world.AreaDef{
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(-2, 0, 0), Max: d3.NewVec3XYZ(0, 1, 1)}, FirstSurface: 0, NumSurfaces: 1},
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(0, 0, 0), Max: d3.NewVec3XYZ(2, 1, 1)}, FirstSurface: 1, NumSurfaces: 1},
		},
		AreaSurfaces: []uint32{0, 1},
		Surfaces:     []world.Surface{surfA, surfB},
		Portals:      []world.PortalDef{{Areas: [2]int{0, 1}, FirstVert: 0, NumVerts: 4}},
		HullVertices: []d3.Vec3{
			d3.NewVec3XYZ(0, 0, 0),
			d3.NewVec3XYZ(0, 1, 0),
			d3.NewVec3XYZ(0, 1, 1),
			d3.NewVec3XYZ(0, 0, 1),
		},
	}
	return world.NewLevel(def)
}

// lookXView is a view at pos looking along +x (dir=+1) or -x (dir=-1),
// with a wide-open frustum.
func lookXView(pos d3.Vec3, dir float32) View {
	fwd := d3.NewVec3XYZ(dir, 0, 0)
	return View{
		Position:  pos,
		Right:     d3.NewVec3XYZ(0, 0, dir),
		Up:        d3.NewVec3XYZ(0, 1, 0),
		NearPlane: geom.NewPlane(fwd, -(fwd.Dot(pos) + 0.1)),
		NearDist:  0.1,
		Frustum: [5]geom.Plane{
			geom.NewPlane(d3.NewVec3XYZ(0, 1, 0), 50),
			geom.NewPlane(d3.NewVec3XYZ(0, -1, 0), 50),
			geom.NewPlane(d3.NewVec3XYZ(0, 0, 1), 50),
			geom.NewPlane(d3.NewVec3XYZ(0, 0, -1), 50),
			geom.NewPlane(fwd.Scale(-1), 50),
		},
		VisGroupMask: 1,
	}
}

func TestQueryPortalFloodReachesNeighbour(t *testing.T) {
	lvl := portalLevel()

	// From inside A looking +x through the portal: both areas' surfaces.
	result, stats := Query(lvl, lookXView(d3.NewVec3XYZ(-1.5, 0.5, 0.5), 1))
	assert.ElementsMatch(t, []int{0, 1}, result.Surfaces)
	assert.Equal(t, 1, stats.PassedPortals)
}

func TestQueryPortalBehindViewerIsClipped(t *testing.T) {
	lvl := portalLevel()

	// Same position, looking -x: the portal is behind the near plane, so
	// the flood never enters B.
	result, stats := Query(lvl, lookXView(d3.NewVec3XYZ(-1.5, 0.5, 0.5), -1))
	assert.Equal(t, []int{0}, result.Surfaces)
	assert.Equal(t, 0, stats.PassedPortals)
	assert.Equal(t, 1, stats.ClippedPortals)
}

func TestQueryBlockedPortalHidesNeighbour(t *testing.T) {
	lvl := portalLevel()
	lvl.SetBlocked(0, true)

	result, _ := Query(lvl, lookXView(d3.NewVec3XYZ(-1.5, 0.5, 0.5), 1))
	assert.Equal(t, []int{0}, result.Surfaces)

	lvl.SetBlocked(0, false)
	result, _ = Query(lvl, lookXView(d3.NewVec3XYZ(-1.5, 0.5, 0.5), 1))
	assert.ElementsMatch(t, []int{0, 1}, result.Surfaces)
}

func TestQueryPortalFromOppositeSide(t *testing.T) {
	lvl := portalLevel()

	// From inside B looking -x through the portal toward A: the reverse
	// direction link is front-facing from B's side.
	result, stats := Query(lvl, lookXView(d3.NewVec3XYZ(1.5, 0.5, 0.5), -1))
	assert.ElementsMatch(t, []int{0, 1}, result.Surfaces)
	assert.Equal(t, 1, stats.PassedPortals)
}

func TestQueryBruteForceSurfaceAndPrimitive(t *testing.T) {
	lvl, handle := bruteLevel()
	view := wideOpenView(d3.NewVec3XYZ(0, 0, 5), 1)

	result, _ := Query(lvl, view)

	assert.Equal(t, []int{0}, result.Surfaces)
	assert.Equal(t, []int{handle}, result.Primitives)
}

func TestQueryVisGroupMaskExcludes(t *testing.T) {
	lvl, _ := bruteLevel()
	view := wideOpenView(d3.NewVec3XYZ(0, 0, 5), 2) // no bit shared with VisGroup=1

	result, _ := Query(lvl, view)

	assert.Empty(t, result.Surfaces)
	assert.Empty(t, result.Primitives)
}

func TestQueryFaceCullBehindSurface(t *testing.T) {
	lvl, _ := bruteLevel()
	// Looking from behind the quad's face plane (z<0): the planar,
	// one-sided surface must be face-culled out of the result.
	view := wideOpenView(d3.NewVec3XYZ(0, 0, -5), 1)

	result, stats := Query(lvl, view)

	assert.Empty(t, result.Surfaces)
	assert.Equal(t, 1, stats.CulledByFaceDot)
	assert.Contains(t, result.Primitives, 0) // the box primitive has no face plane, so it still passes
}
