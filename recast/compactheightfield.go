package recast

// getHeightFieldSpanCount returns the total number of spans in the
// heightfield whose area is not RC_NULL_AREA.
func getHeightFieldSpanCount(hf *Heightfield) int32 {
	w := hf.Width
	h := hf.Height
	var count int32
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			for s := hf.Spans[x+y*w]; s != nil; s = s.next {
				if s.area != RC_NULL_AREA {
					count++
				}
			}
		}
	}
	return count
}

const maxHeight = 0xffff

// BuildCompactHeightfield builds a compact heightfield from a solid
// heightfield, collapsing each column's span list into a single record per
// open span and wiring up 4-directional neighbour connections bounded by
// walkableHeight/walkableClimb.
func BuildCompactHeightfield(ctx *BuildContext, walkableHeight, walkableClimb int32, hf *Heightfield, chf *CompactHeightfield) bool {
	ctx.StartTimer(RC_TIMER_BUILD_COMPACTHEIGHTFIELD)
	defer ctx.StopTimer(RC_TIMER_BUILD_COMPACTHEIGHTFIELD)

	w := hf.Width
	h := hf.Height
	spanCount := getHeightFieldSpanCount(hf)

	chf.Width = w
	chf.Height = h
	chf.SpanCount = spanCount
	chf.WalkableHeight = walkableHeight
	chf.WalkableClimb = walkableClimb
	chf.MaxRegions = 0
	chf.BMin = hf.BMin
	chf.BMax = hf.BMax
	chf.BMax[1] += float32(walkableHeight) * hf.Ch
	chf.Cs = hf.Cs
	chf.Ch = hf.Ch
	chf.Cells = make([]CompactCell, w*h)
	chf.Spans = make([]CompactSpan, spanCount)
	chf.Areas = make([]uint8, spanCount)

	var idx int32
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			s := hf.Spans[x+y*w]
			if s == nil {
				continue
			}
			cell := &chf.Cells[x+y*w]
			cell.Index = uint32(idx)
			cell.Count = 0
			for ; s != nil; s = s.next {
				if s.area == RC_NULL_AREA {
					continue
				}
				bot := int32(s.smax)
				var top int32 = maxHeight
				if s.next != nil {
					top = int32(s.next.smin)
				}
				chf.Spans[idx].Y = uint16(iClamp(bot, 0, 0xffff))
				chf.Spans[idx].H = uint8(iClamp(top-bot, 0, 0xff))
				chf.Areas[idx] = s.area
				idx++
				cell.Count++
			}
		}
	}

	const maxLayers = RC_NOT_CONNECTED - 1
	var tooHighNeighbour int32

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i, ni := int32(c.Index), int32(c.Index)+int32(c.Count); i < ni; i++ {
				s := &chf.Spans[i]

				for dir := int32(0); dir < 4; dir++ {
					SetCon(s, dir, RC_NOT_CONNECTED)
					nx := x + GetDirOffsetX(dir)
					ny := y + GetDirOffsetY(dir)
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nc := chf.Cells[nx+ny*w]
					for k, nk := int32(nc.Index), int32(nc.Index)+int32(nc.Count); k < nk; k++ {
						ns := &chf.Spans[k]
						bot := iMax(int32(s.Y), int32(ns.Y))
						top := iMin(int32(s.Y)+int32(s.H), int32(ns.Y)+int32(ns.H))
						if (top-bot) >= walkableHeight && iAbs(int32(ns.Y)-int32(s.Y)) <= walkableClimb {
							lidx := k - int32(nc.Index)
							if lidx < 0 || lidx > maxLayers {
								if lidx > tooHighNeighbour {
									tooHighNeighbour = lidx
								}
								continue
							}
							SetCon(s, dir, lidx)
							break
						}
					}
				}
			}
		}
	}

	if tooHighNeighbour > maxLayers {
		ctx.Errorf("BuildCompactHeightfield: Heightfield has too many layers %d (max: %d)", tooHighNeighbour, maxLayers)
	}

	return true
}
