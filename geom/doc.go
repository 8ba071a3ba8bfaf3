// Package geom provides the low-level geometric primitives shared by the
// world partition, visibility and raycasting packages: planes, convex
// polygon hulls, axis-aligned bounding boxes, spheres, rays and tangent
// basis construction.
//
// Vectors are represented with d3.Vec3 (github.com/arl/gogeo/f32/d3), the
// same type used throughout the navmesh build and query packages, so a
// single coordinate representation flows through the whole module.
package geom
