package recast

// Contour build flags.
// @see rcBuildContours
//enum rcBuildContoursFlags
const (
	RC_CONTOUR_TESS_WALL_EDGES int32 = 0x01 ///< Tessellate solid (impassable) edges during contour simplification.
	RC_CONTOUR_TESS_AREA_EDGES int32 = 0x02 ///< Tessellate edges between areas during contour simplification.
)

// Applied to the region id field of contour vertices in order to extract the region id.
// The region id field of a vertex may have several flags applied to it.  So the
// fields value can't be used directly.
// @see rcContour::verts, rcContour::rverts
const RC_CONTOUR_REG_MASK int32 = 0xffff

// An value which indicates an invalid index within a mesh.
// @note This does not necessarily indicate an error.
// @see rcPolyMesh::polys
const RC_MESH_NULL_IDX uint16 = 0xffff

// Represents the null area.
// When a data element is given this value it is considered to no longer be
// assigned to a usable area.  (E.g. It is unwalkable.)
const RC_NULL_AREA uint8 = 0

// The default area id used to indicate a walkable polygon.
// This is also the maximum allowed area id, and the only non-null area id
// recognized by some steps in the build process.
const RC_WALKABLE_AREA uint8 = 63

// The value returned by #rcGetCon if the specified direction is not connected
// to another span. (Has no neighbor.)
const RC_NOT_CONNECTED int32 = 0x3f

// Applied to the region id field of contour vertices to flag a vertex as
// lying on a tile border.
const borderVertex int32 = 0x10000

// Applied to the region id field of contour vertices to flag an edge as
// lying between two different areas.
const areaBorder int32 = 0x20000

// Aliases used by the contour simplification pass; mirror the
// RC_CONTOUR_* exported constants above.
const (
	contourRegMask       = RC_CONTOUR_REG_MASK
	ContourTessWallEdges = RC_CONTOUR_TESS_WALL_EDGES
	ContourTessAreaEdges = RC_CONTOUR_TESS_AREA_EDGES
)

// Marks a region id as a border region, applied to the top bit of the
// 16-bit region id field used throughout region/contour building.
const borderReg uint16 = 0x8000

// Lowercase alias for RC_NULL_AREA, used throughout region building.
const nullArea uint8 = RC_NULL_AREA

// Alias for RC_TIMER_BUILD_REGIONS, used throughout region building.
const TimerBuildRegions = RC_TIMER_BUILD_REGIONS

// Exported aliases for the timer/area constants used by the build stages
// and sample builders.
const (
	TimerTotal                 = RC_TIMER_TOTAL
	TimerTemp                  = RC_TIMER_TEMP
	TimerRasterizeTriangles    = RC_TIMER_RASTERIZE_TRIANGLES
	TimerBuildContours         = RC_TIMER_BUILD_CONTOURS
	TimerBuildContoursTrace    = RC_TIMER_BUILD_CONTOURS_TRACE
	TimerBuildContoursSimplify = RC_TIMER_BUILD_CONTOURS_SIMPLIFY
	TimerBuildPolymesh         = RC_TIMER_BUILD_POLYMESH
	TimerBuildPolyMeshDetail   = RC_TIMER_BUILD_POLYMESHDETAIL
	TimerBuildRegionsWatershed = RC_TIMER_BUILD_REGIONS_WATERSHED
	TimerBuildRegionsExpand    = RC_TIMER_BUILD_REGIONS_EXPAND
	TimerBuildRegionsFlood     = RC_TIMER_BUILD_REGIONS_FLOOD
	TimerBuildRegionsFilter    = RC_TIMER_BUILD_REGIONS_FILTER
	WalkableArea               = RC_WALKABLE_AREA
)