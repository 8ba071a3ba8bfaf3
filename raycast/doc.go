// Package raycast implements the ray engine: closest-hit
// and all-hits queries against a world.Level's surfaces and dynamic
// primitives, dispatched per level topology the same way package vis
// dispatches visibility queries - a segment-BSP walk when the level has a
// PVS/tree, a portal flood when it has portals, and a brute area scan
// otherwise.
package raycast
