package recast

import "github.com/arl/assertgo"

// NavAreaEntity is an externally registered volume that paints an area id
// onto the compact heightfield during the build. Shape selects which of
// Box/Cylinder/Polygon fields is meaningful.
type NavAreaEntity struct {
	Shape NavAreaShape

	// Box: an axis-aligned region.
	BoxMin, BoxMax [3]float32

	// Cylinder: centered at Center, radius CylRadius, from Center[1] to
	// Center[1]+CylHeight.
	Center    [3]float32
	CylRadius float32
	CylHeight float32

	// Polygon: a convex footprint in the xz-plane, extruded from PolyMinY
	// to PolyMaxY. PolyVerts holds NPolyVerts vertices, 3 float32s apart
	// (only the x and z components of each triple are read), matching the
	// layout ConvexVolume.Verts already uses.
	PolyVerts  []float32
	NPolyVerts int32
	PolyMinY   float32
	PolyMaxY   float32

	AreaID uint8
}

// PaintNavAreas applies every entity in entities to chf, in order, so a
// later entity overrides an earlier one wherever their volumes overlap.
func PaintNavAreas(ctx *BuildContext, chf *CompactHeightfield, entities []NavAreaEntity) {
	for i := range entities {
		e := &entities[i]
		switch e.Shape {
		case NavAreaBox:
			MarkBoxArea(ctx, e.BoxMin, e.BoxMax, e.AreaID, chf)
		case NavAreaCylinder:
			MarkCylinderArea(ctx, e.Center, e.CylRadius, e.CylHeight, e.AreaID, chf)
		case NavAreaPolygon:
			MarkConvexPolyArea(ctx, e.PolyVerts, e.NPolyVerts, e.PolyMinY, e.PolyMaxY, e.AreaID, chf)
		}
	}
}

// NavAreaShape selects a NavAreaEntity's volume kind.
type NavAreaShape uint8

const (
	NavAreaBox NavAreaShape = iota
	NavAreaCylinder
	NavAreaPolygon
)

// MarkBoxArea marks every span within the axis-aligned box [bmin, bmax]
// with areaID, overwriting whatever area any already-walkable span inside
// it carried. Spans marked RC_NULL_AREA stay null, inside the box or not.
func MarkBoxArea(ctx *BuildContext, bmin, bmax [3]float32, areaID uint8, chf *CompactHeightfield) {
	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(RC_TIMER_MARK_BOX_AREA)
	defer ctx.StopTimer(RC_TIMER_MARK_BOX_AREA)

	minx := int32((bmin[0] - chf.BMin[0]) / chf.Cs)
	miny := int32((bmin[1] - chf.BMin[1]) / chf.Ch)
	minz := int32((bmin[2] - chf.BMin[2]) / chf.Cs)
	maxx := int32((bmax[0] - chf.BMin[0]) / chf.Cs)
	maxy := int32((bmax[1] - chf.BMin[1]) / chf.Ch)
	maxz := int32((bmax[2] - chf.BMin[2]) / chf.Cs)

	if maxx < 0 || minx >= chf.Width || maxz < 0 || minz >= chf.Height {
		return
	}

	minx = iClamp(minx, 0, chf.Width-1)
	maxx = iClamp(maxx, 0, chf.Width-1)
	minz = iClamp(minz, 0, chf.Height-1)
	maxz = iClamp(maxz, 0, chf.Height-1)

	for z := minz; z <= maxz; z++ {
		for x := minx; x <= maxx; x++ {
			c := chf.Cells[x+z*chf.Width]
			ni := int32(c.Index) + int32(c.Count)
			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]
				if int32(s.Y) >= miny && int32(s.Y) <= maxy && chf.Areas[i] != RC_NULL_AREA {
					chf.Areas[i] = areaID
				}
			}
		}
	}
}

// MarkCylinderArea marks every span whose center lies within radius of
// (pos[0], pos[2]) and whose height band [pos[1], pos[1]+h] overlaps the
// span, with areaID.
func MarkCylinderArea(ctx *BuildContext, pos [3]float32, radius, h float32, areaID uint8, chf *CompactHeightfield) {
	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(RC_TIMER_MARK_CYLINDER_AREA)
	defer ctx.StopTimer(RC_TIMER_MARK_CYLINDER_AREA)

	bmin := [3]float32{pos[0] - radius, pos[1], pos[2] - radius}
	bmax := [3]float32{pos[0] + radius, pos[1] + h, pos[2] + radius}
	r2 := radius * radius

	minx := int32((bmin[0] - chf.BMin[0]) / chf.Cs)
	miny := int32((bmin[1] - chf.BMin[1]) / chf.Ch)
	minz := int32((bmin[2] - chf.BMin[2]) / chf.Cs)
	maxx := int32((bmax[0] - chf.BMin[0]) / chf.Cs)
	maxy := int32((bmax[1] - chf.BMin[1]) / chf.Ch)
	maxz := int32((bmax[2] - chf.BMin[2]) / chf.Cs)

	if maxx < 0 || minx >= chf.Width || maxz < 0 || minz >= chf.Height {
		return
	}

	minx = iClamp(minx, 0, chf.Width-1)
	maxx = iClamp(maxx, 0, chf.Width-1)
	minz = iClamp(minz, 0, chf.Height-1)
	maxz = iClamp(maxz, 0, chf.Height-1)

	for z := minz; z <= maxz; z++ {
		for x := minx; x <= maxx; x++ {
			c := chf.Cells[x+z*chf.Width]
			ni := int32(c.Index) + int32(c.Count)

			cx := chf.BMin[0] + (float32(x)+0.5)*chf.Cs
			cz := chf.BMin[2] + (float32(z)+0.5)*chf.Cs
			dx := cx - pos[0]
			dz := cz - pos[2]
			if dx*dx+dz*dz >= r2 {
				continue
			}

			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]
				if chf.Areas[i] == RC_NULL_AREA {
					continue
				}
				if int32(s.Y) >= miny && int32(s.Y) <= maxy {
					chf.Areas[i] = areaID
				}
			}
		}
	}
}

// MarkConvexPolyArea marks every span whose column center lies inside the
// convex footprint described by the first nverts vertices of verts (each
// vertex 3 float32s apart, only x/z read, CCW or CW, either winding works
// since pointInPoly only counts crossings) and whose height lies within
// [hmin, hmax], with areaID.
func MarkConvexPolyArea(ctx *BuildContext, verts []float32, nverts int32, hmin, hmax float32, areaID uint8, chf *CompactHeightfield) {
	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(RC_TIMER_MARK_CONVEXPOLY_AREA)
	defer ctx.StopTimer(RC_TIMER_MARK_CONVEXPOLY_AREA)

	if nverts < 3 {
		return
	}

	bminx, bminz := verts[0], verts[2]
	bmaxx, bmaxz := verts[0], verts[2]
	for i := int32(1); i < nverts; i++ {
		x, z := verts[i*3+0], verts[i*3+2]
		if x < bminx {
			bminx = x
		}
		if z < bminz {
			bminz = z
		}
		if x > bmaxx {
			bmaxx = x
		}
		if z > bmaxz {
			bmaxz = z
		}
	}

	minx := int32((bminx - chf.BMin[0]) / chf.Cs)
	minz := int32((bminz - chf.BMin[2]) / chf.Cs)
	maxx := int32((bmaxx - chf.BMin[0]) / chf.Cs)
	maxz := int32((bmaxz - chf.BMin[2]) / chf.Cs)
	miny := int32((hmin - chf.BMin[1]) / chf.Ch)
	maxy := int32((hmax - chf.BMin[1]) / chf.Ch)

	if maxx < 0 || minx >= chf.Width || maxz < 0 || minz >= chf.Height {
		return
	}

	minx = iClamp(minx, 0, chf.Width-1)
	maxx = iClamp(maxx, 0, chf.Width-1)
	minz = iClamp(minz, 0, chf.Height-1)
	maxz = iClamp(maxz, 0, chf.Height-1)

	for z := minz; z <= maxz; z++ {
		for x := minx; x <= maxx; x++ {
			c := chf.Cells[x+z*chf.Width]
			ni := int32(c.Index) + int32(c.Count)

			cx := chf.BMin[0] + (float32(x)+0.5)*chf.Cs
			cz := chf.BMin[2] + (float32(z)+0.5)*chf.Cs
			if !pointInPoly(verts, nverts, cx, cz) {
				continue
			}

			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]
				if chf.Areas[i] == RC_NULL_AREA {
					continue
				}
				if int32(s.Y) >= miny && int32(s.Y) <= maxy {
					chf.Areas[i] = areaID
				}
			}
		}
	}
}

// pointInPoly is the standard odd-crossing-number test against a simple
// polygon's edges in the xz-plane, reading verts[i*3+0]/verts[i*3+2] as the
// ith vertex's x/z for i in [0, nverts).
func pointInPoly(verts []float32, nverts int32, px, pz float32) bool {
	inside := false
	for i, j := int32(0), nverts-1; i < nverts; j, i = i, i+1 {
		xi, zi := verts[i*3+0], verts[i*3+2]
		xj, zj := verts[j*3+0], verts[j*3+2]
		if ((zi > pz) != (zj > pz)) &&
			(px < (xj-xi)*(pz-zi)/(zj-zi)+xi) {
			inside = !inside
		}
	}
	return inside
}

func iClamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
