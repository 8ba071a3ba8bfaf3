package world

import "github.com/kestrelengine/spatial/geom"

// areaOutdoor is a PortalDef area index naming the distinguished outdoor
// area every Level carries (any negative index does). The outdoor area
// itself is stored last in Level.Areas, at Level.OutdoorArea(); a negative
// PortalDef index, or a FindArea query that resolves to solid space,
// resolves to that index.
const areaOutdoor = -1

// Area is a convex volume bounded by planar surfaces and portals: the
// atomic unit of visibility and primitive linkage.
type Area struct {
	Bounds geom.AABB

	FirstSurface int
	NumSurfaces  int

	// PortalList is the head index into Level.portalLinks of this area's
	// singly-linked PortalLink chain, or -1.
	PortalList int

	// PrimitiveList is the head index into the Level's link pool of this area's
	// singly-linked PrimitiveLink chain, or -1.
	PrimitiveList int

	// IsOutdoor marks the distinguished outdoor area synthesized by the
	// Level, never present in a LevelDef's Areas slice.
	IsOutdoor bool
}
