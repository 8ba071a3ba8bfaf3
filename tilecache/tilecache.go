package tilecache

import (
	"log"

	"github.com/kestrelengine/spatial/detour"
	"github.com/kestrelengine/spatial/recast"
)

// layerEntry is one compressed, persisted layer plus the TileRef it was
// last added to the navmesh under (0 if not currently live).
type layerEntry struct {
	data []byte
	ref  detour.TileRef
}

// TileCache owns the dynamic-mode map of tile-coord -> compressed layer
// list, the active obstacle set, and the per-tile "needs rebuild"
// bookkeeping. BuildTile populates it from static geometry;
// AddObstacle/RemoveObstacle queue changes that Update(dt, navmesh) later
// bakes into the navmesh by rebuilding only the tiles those obstacles touch.
//
// The build-time scratch state (heightfields, compact heightfields, contour
// sets) is allocated fresh per tile rebuild and discarded at the end of the
// call. Nothing in this package outlives a single build, so ordinary
// garbage-collected allocation scoped to one rebuild stands in for the
// per-tile linear allocator upstream dtTileCache carries.
type TileCache struct {
	geom *recast.InputGeom
	cfg  Config
	ctx  *recast.BuildContext

	tiles   map[tileCoord][]layerEntry
	dirty   map[tileCoord]bool
	reqs    []obstacleRequest
	obs     map[ObstacleRef]*Obstacle
	nextRef ObstacleRef
}

// New creates an empty tile cache over geom using cfg's build tuning.
func New(ctx *recast.BuildContext, geom *recast.InputGeom, cfg Config) *TileCache {
	return &TileCache{
		geom:  geom,
		cfg:   cfg,
		ctx:   ctx,
		tiles: make(map[tileCoord][]layerEntry),
		dirty: make(map[tileCoord]bool),
		obs:   make(map[ObstacleRef]*Obstacle),
	}
}

func (tc *TileCache) tileBounds(tx, ty int32) ([3]float32, [3]float32) {
	bmin := tc.geom.NavMeshBoundsMin()
	bmax := tc.geom.NavMeshBoundsMax()
	ts := float32(tc.cfg.TileSize) * tc.cfg.CellSize

	var lo, hi [3]float32
	lo[0] = bmin[0] + float32(tx)*ts
	lo[1] = bmin[1]
	lo[2] = bmin[2] + float32(ty)*ts
	hi[0] = bmin[0] + float32(tx+1)*ts
	hi[1] = bmax[1]
	hi[2] = bmin[2] + float32(ty+1)*ts
	return lo, hi
}

// BuildTile (re)builds every layer at tile coordinate (tx,ty) from static
// geometry and currently-active obstacles, compresses and stores them, and
// pushes each resulting polygon layer into navmesh.
// Any previously stored layers at this coordinate are cleared first.
func (tc *TileCache) BuildTile(navmesh *detour.NavMesh, tx, ty int32) bool {
	tc.ClearTile(navmesh, tx, ty)

	bmin, bmax := tc.tileBounds(tx, ty)

	var active []*Obstacle
	for _, o := range tc.obs {
		if o.State == ObstacleEmpty {
			continue
		}
		active = append(active, o)
	}

	lset, ok := buildTileLayers(tc.ctx, tc.geom, tc.cfg, tx, ty, bmin, bmax, active)
	if !ok {
		tc.ctx.Log(recast.RC_LOG_ERROR, "tilecache: BuildTile(%d,%d): layer build failed", tx, ty)
		return false
	}
	if lset == nil {
		return true // empty tile, nothing walkable here
	}

	coord := tileCoord{tx, ty}
	entries := make([]layerEntry, 0, len(lset.Layers))
	for i := range lset.Layers {
		layer := &lset.Layers[i]
		entries = append(entries, layerEntry{
			data: EncodeLayer(tx, ty, int32(i), layerSource{
				BMin: layer.BMin, BMax: layer.BMax,
				Width: layer.Width, Height: layer.Height,
				MinX: layer.MinX, MaxX: layer.MaxX, MinY: layer.MinY, MaxY: layer.MaxY,
				HMin: layer.HMin, HMax: layer.HMax,
				Heights: layer.Heights, Areas: layer.Areas, Cons: layer.Cons,
			}),
		})

		tileData, ok := buildTileFromLayer(tc.ctx, tc.cfg, tx, ty, int32(i), layer)
		if !ok {
			continue // layer carried no walkable surface after obstacle carving
		}
		navmesh.RemoveTile(navmesh.TileRefAt(tx, ty, int32(i)))
		st, ref := navmesh.AddTile(tileData, detour.TileRef(0))
		if detour.StatusFailed(st) {
			log.Printf("tilecache: AddTile(%d,%d,%d) failed: 0x%x", tx, ty, i, st)
			continue
		}
		entries[len(entries)-1].ref = ref
	}

	tc.tiles[coord] = entries
	delete(tc.dirty, coord)
	return true
}

// ClearTile removes every layer at (tx,ty) from both the navmesh and the
// cache's own storage.
func (tc *TileCache) ClearTile(navmesh *detour.NavMesh, tx, ty int32) {
	coord := tileCoord{tx, ty}
	for _, e := range tc.tiles[coord] {
		if e.ref != 0 {
			navmesh.RemoveTile(e.ref)
		}
	}
	delete(tc.tiles, coord)
}

// ClearAll walks every tile this cache currently holds and clears it.
func (tc *TileCache) ClearAll(navmesh *detour.NavMesh) {
	for coord := range tc.tiles {
		tc.ClearTile(navmesh, coord.x, coord.y)
	}
	tc.dirty = make(map[tileCoord]bool)
}

// LayerCount reports how many compressed layers are currently stored at
// (tx,ty); used by tests and CLI inspection rather than any query path.
func (tc *TileCache) LayerCount(tx, ty int32) int {
	return len(tc.tiles[tileCoord{tx, ty}])
}

func (tc *TileCache) touchedTiles(o *Obstacle) []tileCoord {
	lo, hi := o.bounds()
	bmin := tc.geom.NavMeshBoundsMin()
	ts := float32(tc.cfg.TileSize) * tc.cfg.CellSize

	txMin := int32((lo[0] - bmin[0]) / ts)
	txMax := int32((hi[0] - bmin[0]) / ts)
	tyMin := int32((lo[2] - bmin[2]) / ts)
	tyMax := int32((hi[2] - bmin[2]) / ts)

	var out []tileCoord
	for ty := tyMin; ty <= tyMax; ty++ {
		for tx := txMin; tx <= txMax; tx++ {
			out = append(out, tileCoord{tx, ty})
		}
	}
	return out
}

// AddObstacle queues a box obstacle for addition. The obstacle is not
// baked into the navmesh until Update runs. A full request queue (the
// analogue of dtTileCache's DT_BUFFER_TOO_SMALL) logs and returns false;
// the caller drains the queue with Update or PumpUntilDone and retries.
func (tc *TileCache) AddObstacle(bmin, bmax [3]float32) (ObstacleRef, bool) {
	return tc.addObstacle(&Obstacle{Type: ObstacleBox, BMin: bmin, BMax: bmax})
}

// AddCylinderObstacle queues a cylinder obstacle for addition.
func (tc *TileCache) AddCylinderObstacle(center [3]float32, radius, height float32) (ObstacleRef, bool) {
	return tc.addObstacle(&Obstacle{Type: ObstacleCylinder, Center: center, Radius: radius, Height: height})
}

func (tc *TileCache) addObstacle(o *Obstacle) (ObstacleRef, bool) {
	if len(tc.reqs) >= maxRequests {
		log.Printf("tilecache: AddObstacle: request queue full")
		return 0, false
	}
	tc.nextRef++
	o.Ref = tc.nextRef
	o.State = ObstaclePending
	tc.obs[o.Ref] = o
	tc.reqs = append(tc.reqs, obstacleRequest{ref: o.Ref})
	return o.Ref, true
}

// RemoveObstacle queues ref for removal. The navmesh keeps the obstacle's
// carved tiles until Update rebuilds the tiles it touches; from this call
// on, any tile rebuild leaves the obstacle out.
func (tc *TileCache) RemoveObstacle(ref ObstacleRef) bool {
	o, ok := tc.obs[ref]
	if !ok {
		return false
	}
	if len(tc.reqs) >= maxRequests {
		log.Printf("tilecache: RemoveObstacle: request queue full")
		return false
	}
	o.State = ObstacleRemoving
	tc.reqs = append(tc.reqs, obstacleRequest{remove: true, ref: ref})
	return true
}

// Update pumps one frame's worth of deferred obstacle processing: it
// applies queued add/remove requests (marking the tiles they overlap
// dirty) and rebuilds every dirty tile once. dt is accepted for signature
// compatibility with upstream dtTileCache::update; rebuilds here are not
// time-sliced across calls, every dirty tile is processed immediately.
func (tc *TileCache) Update(dt float32, navmesh *detour.NavMesh) bool {
	_ = dt
	for _, req := range tc.reqs {
		o := tc.obs[req.ref]
		if o == nil {
			continue
		}
		for _, coord := range tc.touchedTiles(o) {
			tc.dirty[coord] = true
		}
		if req.remove {
			delete(tc.obs, req.ref)
		} else {
			o.State = ObstacleProcessed
		}
	}
	tc.reqs = tc.reqs[:0]

	upToDate := true
	for coord := range tc.dirty {
		if !tc.BuildTile(navmesh, coord.x, coord.y) {
			upToDate = false
			continue
		}
	}
	return upToDate
}

// PumpUntilDone repeatedly calls Update until the request queue and dirty
// set both drain, so a deferred obstacle add/remove is guaranteed applied
// before the next query.
func (tc *TileCache) PumpUntilDone(navmesh *detour.NavMesh, maxIters int) bool {
	for i := 0; i < maxIters; i++ {
		tc.Update(1, navmesh)
		if len(tc.reqs) == 0 && len(tc.dirty) == 0 {
			return true
		}
	}
	return len(tc.reqs) == 0 && len(tc.dirty) == 0
}
