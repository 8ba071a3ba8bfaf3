// Package world implements the static level partition: a binary-space tree
// of nodes and leaves, the convex areas they bottom out in, the portals
// linking adjacent areas, the brush surfaces attached to each area, and the
// dynamic primitives (box/sphere bounds) registered against it.
//
// A Level is built once from a LevelDef describing planes, nodes, leaves,
// areas, portals and an optional PVS blob. Primitives are registered,
// moved and deregistered at any time. AddPrimitive and RemovePrimitive
// link and unlink a primitive at once; after a primitive's bounds move,
// FlushDirty() is the only place its area linkage is rebuilt.
package world
