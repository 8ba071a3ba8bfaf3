package geom

// Epsilon values used throughout the geometry kernel. Each is named for the
// test it guards rather than shared, since the right tolerance depends on
// whether we're comparing distances, areas or directions.
const (
	// EpsPlane is the default tolerance used when classifying a point
	// against a plane (Plane.Side, Hull.Classify, Hull.Split, Hull.Clip).
	EpsPlane float32 = 1.0 / 32.0

	// EpsTriDet guards the determinant in the Moller-Trumbore ray/triangle
	// test; below this the ray is considered parallel to the triangle.
	EpsTriDet float32 = 1e-6

	// EpsRayParallel guards ray/plane and ray/slab denominators.
	EpsRayParallel float32 = 1e-6

	// EpsSegmentMin is the squared-length threshold below which
	// ComputeTangents treats a vertex's accumulated tangent as degenerate.
	EpsSegmentMin float32 = 1e-8
)

// MinEdgeLength is a default edge length for Hull.IsTiny, below which a hull
// is considered tiny. The world build does not call IsTiny.
const MinEdgeLength float32 = 0.05

// HullMaxExtent bounds the coordinates a Hull built FromPlane may take before
// it is considered IsHuge, i.e. clipped away to nothing by the volume it was
// meant to bound. Mirrors the sanity bound original engines place on a
// plane's unbounded "base quad" before any clipping narrows it down.
const HullMaxExtent float32 = 1 << 20
