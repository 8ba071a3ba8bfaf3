// Command dbg is a scratch debugging harness: it loads a binary navmesh
// from testdata/ and runs a path query against it, printing each step.
// It is a development aid, not part of the library surface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/detour"
)

func check(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

func main() {
	f, err := os.Open("testdata/navmesh.bin")
	check(err)
	defer f.Close()

	mesh, err := detour.Decode(f)
	check(err)
	fmt.Println("mesh loaded successfully")
	fmt.Printf("mesh params: %#v\n", mesh.Params)

	org := d3.NewVec3XYZ(3, 0, 1)
	dst := d3.NewVec3XYZ(50, 0, 30)

	path, err := findPath(mesh, org, dst)
	if err != nil {
		log.Fatalln("findPath failed:", err)
	}
	log.Println("findPath success, path:", path)
}

func findPath(mesh *detour.NavMesh, org, dst d3.Vec3) ([]detour.PolyRef, error) {
	st, query := detour.NewNavMeshQuery(mesh, 1000)
	if detour.StatusFailed(st) {
		return nil, fmt.Errorf("query creation failed with status %v", st)
	}

	extents := d3.NewVec3XYZ(0, 2, 0)
	filter := detour.NewStandardQueryFilter()

	st, orgRef, nearestOrg := query.FindNearestPoly(org, extents, filter)
	if detour.StatusFailed(st) {
		return nil, fmt.Errorf("FindNearestPoly(org) failed with %v", st)
	} else if orgRef == 0 {
		return nil, fmt.Errorf("org doesn't intersect any polygons")
	}
	copy(org, nearestOrg)
	log.Println("org is now", org)

	st, dstRef, nearestDst := query.FindNearestPoly(dst, extents, filter)
	if detour.StatusFailed(st) {
		return nil, fmt.Errorf("FindNearestPoly(dst) failed with %v", st)
	} else if dstRef == 0 {
		return nil, fmt.Errorf("dst doesn't intersect any polygons")
	}
	copy(dst, nearestDst)
	log.Println("dst is now", dst)

	path := make([]detour.PolyRef, 100)
	n, st := query.FindPath(orgRef, dstRef, org, dst, filter, path)
	if detour.StatusFailed(st) {
		return nil, fmt.Errorf("query.FindPath failed with %v", st)
	}
	return path[:n], nil
}
