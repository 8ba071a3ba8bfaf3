package world

import "github.com/kestrelengine/spatial/geom"

// PortalDef describes one portal as supplied in a LevelDef: the shared
// boundary between two areas (a negative area index means the outdoor
// area) and a range into the LevelDef's flat hull-vertex array. The hull
// vertices are wound CCW as seen from Areas[1]; NewLevel derives the
// reversed winding for the other direction.
type PortalDef struct {
	Areas     [2]int
	FirstVert int
	NumVerts  int
}

// Portal is the undirected shared boundary between two areas. It owns the
// indices of its two directional PortalLink halves.
type Portal struct {
	Links   [2]int // index into Level.portalLinks, one per direction
	Blocked bool
}

// PortalLink is one directional half of a Portal, attached to its source
// area's portal list. The hull is wound CCW as seen from the source area,
// and Plane points toward the source area, so a viewer or ray origin in
// the source area sits on its positive side.
type PortalLink struct {
	ToArea int
	Hull   *geom.Hull
	Plane  geom.Plane

	// Next chains this link into its source area's Area.PortalList.
	Next int

	// Portal is the index of the owning Portal, so a flood can reach the
	// sibling direction (e.g. to stamp VisMark on Portal, not just link).
	Portal int

	// VisMark is stamped by a visibility/raycast flood to avoid revisiting
	// this link within the same top-level query.
	VisMark int
}
