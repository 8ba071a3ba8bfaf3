package world

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/kestrelengine/spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadMesh returns a two-triangle quad lying in the z=0 plane, spanning
// x,y in [-1,1], wound CCW as seen from +z.
func quadMesh() *Vec3Mesh {
	return &Vec3Mesh{
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
// one dynamic box primitive, exercising the linear-scan FindArea/
// linkPrimitiveToAreas paths (no Nodes, no Portals, no PVS).
func bruteLevel() *Level {
	surf := Surface{
		Flags:       SurfacePlanar,
		FacePlane:   geom.PlaneFromPoints(d3.NewVec3XYZ(-1, -1, 0), d3.NewVec3XYZ(1, -1, 0), d3.NewVec3XYZ(1, 1, 0)),
		Bounds:      geom.AABB{Min: d3.NewVec3XYZ(-1, -1, 0), Max: d3.NewVec3XYZ(1, 1, 0)},
		QueryGroup:  1,
		VisGroup:    1,
		NumVertices: 4,
		NumIndices:  6,
	}

	def := LevelDef{
		Areas: []AreaDef{
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, FirstSurface: 0, NumSurfaces: 1},
		},
		AreaSurfaces: []uint32{0},
		Surfaces:     []Surface{surf},
		Model:        quadMesh(),
	}
	return NewLevel(def)
}

// treeLevel builds a minimal two-leaf BSP Level split by the x=0 plane:
// leaf 0 (area 0) is x>0, leaf 1 (area 1) is x<0.
func treeLevel() *Level {
	def := LevelDef{
		Planes: []geom.Plane{geom.NewPlane(d3.NewVec3XYZ(1, 0, 0), 0)},
		Nodes: []NodeDef{
			{Parent: -1, Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, PlaneIndex: 0, ChildrenIdx: [2]int{-1, -2}},
		},
		Leafs: []LeafDef{
			{Parent: 0, Bounds: geom.AABB{Min: d3.NewVec3XYZ(0, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, PVSCluster: -1, Area: 0},
			{Parent: 0, Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(0, 50, 50)}, PVSCluster: -1, Area: 1},
		},
		Areas: []AreaDef{
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(0, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}},
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(0, 50, 50)}},
		},
	}
	return NewLevel(def)
}

func TestFindAreaBruteForce(t *testing.T) {
	lvl := bruteLevel()

	assert.Equal(t, 0, lvl.FindArea(d3.NewVec3XYZ(0, 0, 0)))
	// On the boundary: closed overlap includes it too.
	assert.Equal(t, 0, lvl.FindArea(d3.NewVec3XYZ(50, 50, 50)))
	assert.Equal(t, lvl.OutdoorArea(), lvl.FindArea(d3.NewVec3XYZ(1000, 1000, 1000)))
}

func TestFindLeafAndAreaTree(t *testing.T) {
	lvl := treeLevel()

	assert.Equal(t, 0, lvl.FindLeaf(d3.NewVec3XYZ(10, 0, 0)))
	assert.Equal(t, 1, lvl.FindLeaf(d3.NewVec3XYZ(-10, 0, 0)))

	assert.Equal(t, 0, lvl.FindArea(d3.NewVec3XYZ(10, 0, 0)))
	assert.Equal(t, 1, lvl.FindArea(d3.NewVec3XYZ(-10, 0, 0)))
}

func TestQueryOverlappingAreasNoTree(t *testing.T) {
	lvl := bruteLevel()
	dst := lvl.QueryOverlappingAreas(geom.AABB{Min: d3.NewVec3XYZ(-1, -1, -1), Max: d3.NewVec3XYZ(1, 1, 1)}, nil)
	assert.Empty(t, dst, "brute-force levels have no tree to query overlapping areas against")
}

func TestQueryOverlappingAreasTree(t *testing.T) {
	lvl := treeLevel()
	dst := lvl.QueryOverlappingAreas(geom.AABB{Min: d3.NewVec3XYZ(-10, -1, -1), Max: d3.NewVec3XYZ(10, 1, 1)}, nil)
	assert.ElementsMatch(t, []int{0, 1}, dst)
}

func TestAddRemovePrimitive(t *testing.T) {
	lvl := bruteLevel()

	handle := lvl.AddPrimitive(Primitive{
		Kind:       PrimitiveBox,
		Box:        geom.AABB{Min: d3.NewVec3XYZ(2.5, 2.5, 2.5), Max: d3.NewVec3XYZ(3.5, 3.5, 3.5)},
		QueryGroup: 1,
		VisGroup:   1,
	})

	var seen []int
	lvl.PrimitivesInArea(0, func(h int) { seen = append(seen, h) })
	require.Contains(t, seen, handle)

	lvl.RemovePrimitive(handle)

	seen = nil
	lvl.PrimitivesInArea(0, func(h int) { seen = append(seen, h) })
	assert.NotContains(t, seen, handle)
}

// rowLevel builds a no-tree Level of four 10-unit-wide areas side by side
// along x: area i spans x in [10i, 10i+10].
func rowLevel() *Level {
	var areas []AreaDef
	for i := 0; i < 4; i++ {
		areas = append(areas, AreaDef{
			Bounds: geom.AABB{
				Min: d3.NewVec3XYZ(float32(i)*10, 0, 0),
				Max: d3.NewVec3XYZ(float32(i)*10+10, 50, 50),
			},
		})
	}
	return NewLevel(LevelDef{Areas: areas})
}

func (l *Level) areasOf(handle int) []int {
	var out []int
	for li := l.Primitives[handle].linkHead; li != -1; li = l.links.get(li).Next {
		out = append(out, l.links.get(li).Area)
	}
	return out
}

func TestPrimitiveDirtyFlushRelinks(t *testing.T) {
	lvl := rowLevel()

	// Straddles the boundary between areas 0 and 1.
	handle := lvl.AddPrimitive(Primitive{
		Kind: PrimitiveBox,
		Box:  geom.AABB{Min: d3.NewVec3XYZ(4, 1, 1), Max: d3.NewVec3XYZ(14, 2, 2)},
	})
	assert.ElementsMatch(t, []int{0, 1}, lvl.areasOf(handle))

	// Move to straddle areas 2 and 3, then flush.
	lvl.Primitives[handle].Box = geom.AABB{Min: d3.NewVec3XYZ(24, 1, 1), Max: d3.NewVec3XYZ(34, 2, 2)}
	lvl.MarkDirty(handle)
	lvl.FlushDirty()

	assert.ElementsMatch(t, []int{2, 3}, lvl.areasOf(handle))
	for _, area := range []int{0, 1} {
		lvl.PrimitivesInArea(area, func(h int) {
			assert.NotEqual(t, handle, h)
		})
	}
	var seen []int
	for _, area := range []int{2, 3} {
		lvl.PrimitivesInArea(area, func(h int) { seen = append(seen, h) })
	}
	assert.Equal(t, []int{handle, handle}, seen)
}

func TestMarkLeafsPVSCluster(t *testing.T) {
	def := LevelDef{
		Planes: []geom.Plane{geom.NewPlane(d3.NewVec3XYZ(1, 0, 0), 0)},
		Nodes: []NodeDef{
			{Parent: -1, Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, PlaneIndex: 0, ChildrenIdx: [2]int{-1, -2}},
		},
		Leafs: []LeafDef{
			{Parent: 0, Bounds: geom.AABB{Min: d3.NewVec3XYZ(0, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}, PVSCluster: 0, VisdataOffset: 0, Area: 0},
			{Parent: 0, Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(0, 50, 50)}, PVSCluster: 1, VisdataOffset: 1, Area: 1},
		},
		Areas: []AreaDef{
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(0, -50, -50), Max: d3.NewVec3XYZ(50, 50, 50)}},
			{Bounds: geom.AABB{Min: d3.NewVec3XYZ(-50, -50, -50), Max: d3.NewVec3XYZ(0, 50, 50)}},
		},
		// Uncompressed: each cluster's row says it sees only itself.
		PVS: &PVS{Data: []byte{0x01, 0x02}, Compressed: false, Clusters: 2},
	}
	lvl := NewLevel(def)

	gen := lvl.MarkLeafs(0)
	assert.Equal(t, gen, lvl.Leafs[0].ViewMark)
	assert.NotEqual(t, gen, lvl.Leafs[1].ViewMark)
	assert.Equal(t, gen, lvl.Nodes[0].ViewMark)

	// Re-marking from the same cluster is memoized.
	assert.Equal(t, gen, lvl.MarkLeafs(0))

	// Moving to the other cluster advances the generation and flips which
	// leaf is marked.
	gen2 := lvl.MarkLeafs(1)
	assert.NotEqual(t, gen, gen2)
	assert.Equal(t, gen2, lvl.Leafs[1].ViewMark)
	assert.NotEqual(t, gen2, lvl.Leafs[0].ViewMark)
}

func TestPVSDecompressZeroRuns(t *testing.T) {
	// 0x05, then a run of three zeros, then 0xA0.
	src := []byte{0x05, 0x00, 0x03, 0xA0}
	scratch := make([]byte, 8)
	out := decompress(src, scratch, 5)
	assert.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0xA0}, out)

	// A run longer than the row is clamped.
	out = decompress([]byte{0x00, 0xFF}, scratch, 4)
	assert.Equal(t, []byte{0, 0, 0, 0}, out)
}

func TestPrimitiveOutsideEveryAreaGoesOutdoor(t *testing.T) {
	lvl := bruteLevel()

	handle := lvl.AddPrimitive(Primitive{
		Kind: PrimitiveBox,
		Box:  geom.AABB{Min: d3.NewVec3XYZ(1000, 1000, 1000), Max: d3.NewVec3XYZ(1001, 1001, 1001)},
	})

	var seen []int
	lvl.PrimitivesInArea(lvl.OutdoorArea(), func(h int) { seen = append(seen, h) })
	assert.Contains(t, seen, handle)
}
