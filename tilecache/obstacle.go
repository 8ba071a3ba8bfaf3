package tilecache

// ObstacleType distinguishes the two bounded dynamic shapes the tile cache
// accepts as obstacles.
type ObstacleType int

const (
	ObstacleBox ObstacleType = iota
	ObstacleCylinder
)

// ObstacleState tracks an obstacle through its add/remove lifecycle; a
// pending state means the obstacle has been requested but not yet baked
// into a tile rebuild.
type ObstacleState int

const (
	ObstacleEmpty ObstacleState = iota
	ObstaclePending
	ObstacleProcessed
	ObstacleRemoving
)

// ObstacleRef identifies a registered obstacle; zero is never valid.
type ObstacleRef uint32

// Obstacle is a dynamic box or cylinder that invalidates every tile it
// overlaps, forcing those tiles to be rebuilt on the next Update.
type Obstacle struct {
	Ref   ObstacleRef
	Type  ObstacleType
	State ObstacleState

	// Box fields (ObstacleBox).
	BMin, BMax [3]float32

	// Cylinder fields (ObstacleCylinder).
	Center [3]float32
	Radius float32
	Height float32

	touched []tileCoord
}

// bounds returns an AABB enclosing the obstacle, used to find touched tiles.
func (o *Obstacle) bounds() ([3]float32, [3]float32) {
	if o.Type == ObstacleCylinder {
		return [3]float32{o.Center[0] - o.Radius, o.Center[1], o.Center[2] - o.Radius},
			[3]float32{o.Center[0] + o.Radius, o.Center[1] + o.Height, o.Center[2] + o.Radius}
	}
	return o.BMin, o.BMax
}

const maxRequests = 64

type obstacleRequest struct {
	remove bool
	ref    ObstacleRef
}
