package tilecache

import (
	"github.com/kestrelengine/spatial/detour"
	"github.com/kestrelengine/spatial/recast"
)

// Config carries the navigation build tuning, restricted to the fields the
// dynamic layered build path needs.
type Config struct {
	CellSize       float32
	CellHeight     float32
	WalkableSlope  float32 // degrees
	WalkableHeight int32   // voxels
	WalkableRadius int32   // voxels
	WalkableClimb  int32   // voxels
	TileSize       int32   // voxels per tile side
	BorderSize     int32   // voxels
	MaxVertsPerPoly int32
	DetailSampleDist     float32
	DetailSampleMaxError float32
}

// tileCoord is the map key for a tile-cache tile: (x, z) grid coordinate.
// Layer index is kept alongside the stored payload since one coordinate may
// hold several stacked layers.
type tileCoord struct {
	x, y int32
}

// buildTileLayers gathers geom's triangles inside tile (tx,ty)'s padded
// AABB, rasterizes and filters them, then partitions the result into
// vertical HeightfieldLayers. Every obstacle in obstacles that is not
// pending removal is carved out of the compact heightfield before
// layering: paintObstacles sets the spans it covers to RC_NULL_AREA.
func buildTileLayers(ctx *recast.BuildContext, geom *recast.InputGeom, cfg Config, tx, ty int32, bmin, bmax [3]float32, obstacles []*Obstacle) (*recast.HeightfieldLayerSet, bool) {
	if geom.Mesh() == nil || geom.ChunkyMesh() == nil {
		return nil, false
	}

	verts := geom.Mesh().Verts()
	nverts := geom.Mesh().VertCount()
	chunkyMesh := geom.ChunkyMesh()

	rcfg := recast.Config{
		Cs:                 cfg.CellSize,
		Ch:                 cfg.CellHeight,
		WalkableSlopeAngle: cfg.WalkableSlope,
		WalkableHeight:     cfg.WalkableHeight,
		WalkableClimb:      cfg.WalkableClimb,
		WalkableRadius:     cfg.WalkableRadius,
		BorderSize:         cfg.BorderSize,
		TileSize:           cfg.TileSize,
	}
	rcfg.Width = cfg.TileSize + cfg.BorderSize*2
	rcfg.Height = cfg.TileSize + cfg.BorderSize*2
	copy(rcfg.BMin[:], bmin[:])
	copy(rcfg.BMax[:], bmax[:])
	rcfg.BMin[0] -= float32(cfg.BorderSize) * cfg.CellSize
	rcfg.BMin[2] -= float32(cfg.BorderSize) * cfg.CellSize
	rcfg.BMax[0] += float32(cfg.BorderSize) * cfg.CellSize
	rcfg.BMax[2] += float32(cfg.BorderSize) * cfg.CellSize

	solid := recast.NewHeightfield()
	if !solid.Create(ctx, rcfg.Width, rcfg.Height, rcfg.BMin[:], rcfg.BMax[:], rcfg.Cs, rcfg.Ch) {
		return nil, false
	}

	triAreas := make([]uint8, chunkyMesh.MaxTrisPerChunk)
	var tbmin, tbmax [2]float32
	tbmin[0], tbmin[1] = rcfg.BMin[0], rcfg.BMin[2]
	tbmax[0], tbmax[1] = rcfg.BMax[0], rcfg.BMax[2]

	var cid [512]int32
	ncid := chunkyMesh.ChunksOverlappingRect(tbmin, tbmax, cid[:])
	for i := 0; i < ncid; i++ {
		node := chunkyMesh.Nodes[cid[i]]
		ctris := chunkyMesh.Tris[node.I*3:]
		nctris := node.N

		for j := range triAreas {
			triAreas[j] = 0
		}
		recast.MarkWalkableTriangles(ctx, rcfg.WalkableSlopeAngle, verts, nverts, ctris, nctris, triAreas)
		if !recast.RasterizeTriangles(ctx, verts, nverts, ctris, triAreas, nctris, solid, rcfg.WalkableClimb) {
			return nil, false
		}
	}

	recast.FilterLowHangingWalkableObstacles(ctx, rcfg.WalkableClimb, solid)
	recast.FilterLedgeSpans(ctx, rcfg.WalkableHeight, rcfg.WalkableClimb, solid)
	recast.FilterWalkableLowHeightSpans(ctx, rcfg.WalkableHeight, solid)

	chf := &recast.CompactHeightfield{}
	if !recast.BuildCompactHeightfield(ctx, rcfg.WalkableHeight, rcfg.WalkableClimb, solid, chf) {
		return nil, false
	}
	if !recast.ErodeWalkableArea(ctx, rcfg.WalkableRadius, chf) {
		return nil, false
	}

	paintObstacles(ctx, chf, obstacles)

	return recast.BuildHeightfieldLayers(ctx, chf, cfg.BorderSize, cfg.WalkableHeight)
}

// paintObstacles marks every obstacle that is not mid-removal into chf as
// RC_NULL_AREA, the same "carve a hole, let layering re-split the stack"
// approach upstream dtTileCache uses: an obstacle never reshapes the
// mesh, it simply removes the spans it covers before layers (and thus
// polygons) are built from what remains.
func paintObstacles(ctx *recast.BuildContext, chf *recast.CompactHeightfield, obstacles []*Obstacle) {
	for _, o := range obstacles {
		if o.State == ObstacleRemoving {
			continue
		}
		switch o.Type {
		case ObstacleBox:
			recast.MarkBoxArea(ctx, o.BMin, o.BMax, recast.RC_NULL_AREA, chf)
		case ObstacleCylinder:
			recast.MarkCylinderArea(ctx, o.Center, o.Radius, o.Height, recast.RC_NULL_AREA, chf)
		}
	}
}

// buildTileFromLayer turns one HeightfieldLayer into a serialized detour
// tile, reusing the static path's region/contour/polymesh stages via
// recast.CompactHeightfieldFromLayer (see DESIGN.md).
func buildTileFromLayer(ctx *recast.BuildContext, cfg Config, tx, ty, layerIdx int32, layer *recast.HeightfieldLayer) ([]byte, bool) {
	chf := recast.CompactHeightfieldFromLayer(layer, cfg.WalkableHeight, cfg.WalkableClimb)

	cset := &recast.ContourSet{}
	if !recast.BuildRegionsMonotone(ctx, chf, 0, 0, 0) {
		return nil, false
	}
	if !recast.BuildContours(ctx, chf, 1.3, 0, cset, recast.ContourTessWallEdges) {
		return nil, false
	}
	if cset.NConts == 0 {
		return nil, false
	}

	nvp := cfg.MaxVertsPerPoly
	if nvp == 0 || nvp > int32(detour.VertsPerPolygon) {
		nvp = int32(detour.VertsPerPolygon)
	}
	pmesh, ok := recast.BuildPolyMesh(ctx, cset, nvp)
	if !ok {
		return nil, false
	}
	if pmesh.NVerts == 0 || pmesh.NVerts >= 0xffff {
		return nil, false
	}

	for i := int32(0); i < pmesh.NPolys; i++ {
		if pmesh.Areas[i] == recast.WalkableArea {
			pmesh.Flags[i] = 1
		}
	}

	dmesh, ok := recast.BuildPolyMeshDetail(ctx, pmesh, chf, cfg.DetailSampleDist, cfg.DetailSampleMaxError)
	if !ok {
		return nil, false
	}

	var params detour.NavMeshCreateParams
	params.Verts = pmesh.Verts
	params.VertCount = pmesh.NVerts
	params.Polys = pmesh.Polys
	params.PolyAreas = pmesh.Areas
	params.PolyFlags = pmesh.Flags
	params.PolyCount = pmesh.NPolys
	params.Nvp = pmesh.Nvp
	if dmesh != nil {
		params.DetailMeshes = dmesh.Meshes
		params.DetailVerts = dmesh.Verts
		params.DetailVertsCount = dmesh.NVerts
		params.DetailTris = dmesh.Tris
		params.DetailTriCount = dmesh.NTris
	}
	params.WalkableHeight = float32(cfg.WalkableHeight) * cfg.CellHeight
	params.WalkableRadius = float32(cfg.WalkableRadius) * cfg.CellSize
	params.WalkableClimb = float32(cfg.WalkableClimb) * cfg.CellHeight
	params.TileX = tx
	params.TileY = ty
	params.TileLayer = layerIdx
	copy(params.BMin[:], pmesh.BMin[:])
	copy(params.BMax[:], pmesh.BMax[:])
	params.Cs = cfg.CellSize
	params.Ch = cfg.CellHeight
	params.BuildBvTree = false

	data, err := detour.CreateNavMeshData(&params)
	if err != nil {
		return nil, false
	}
	return data, true
}
