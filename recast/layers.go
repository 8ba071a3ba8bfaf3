package recast

// RC_MAX_LAYERS bounds the number of distinct region ids a single
// heightfield layer build can produce (stored as a byte, same as upstream).
const RC_MAX_LAYERS = 255

// HeightfieldLayer is one vertical slice of walkable space within a tile,
// packed as a flat width*height grid in the tile's local XZ space. Multiple
// layers stack where the tile geometry itself stacks (bridges, tunnels).
type HeightfieldLayer struct {
	BMin, BMax     [3]float32
	CS, CH         float32
	Width, Height  int32
	MinX, MaxX     int32
	MinY, MaxY     int32
	HMin, HMax     int32
	Heights        []uint8
	Areas          []uint8
	Cons           []uint8
}

// HeightfieldLayerSet is the output of BuildHeightfieldLayers: every
// monotone region of the compact heightfield becomes its own layer.
type HeightfieldLayerSet struct {
	Layers []HeightfieldLayer
}

type layerSweepSpan struct {
	ns  int32
	id  uint8
	nei uint8
}

// BuildHeightfieldLayers partitions the compact heightfield into a set of
// layers using the same column-sweep monotone-region algorithm used for
// rcBuildRegionsMonotone, one layer per resulting region. Regions are kept
// unmerged: vertically-compatible regions are not coalesced into fewer,
// larger layers.
func BuildHeightfieldLayers(ctx *BuildContext, chf *CompactHeightfield, borderSize, walkableHeight int32) (*HeightfieldLayerSet, bool) {
	ctx.StartTimer(RC_TIMER_BUILD_LAYERS)
	defer ctx.StopTimer(RC_TIMER_BUILD_LAYERS)

	w := chf.Width
	h := chf.Height

	srcReg := make([]uint8, chf.SpanCount)
	for i := range srcReg {
		srcReg[i] = 0xff
	}

	nsweeps := w
	if h > nsweeps {
		nsweeps = h
	}
	sweeps := make([]layerSweepSpan, nsweeps)

	var regID uint8
	prevCount := make([]int32, 256)

	for y := borderSize; y < h-borderSize; y++ {
		for i := range prevCount {
			prevCount[i] = 0
		}
		var sweepID uint8

		for x := borderSize; x < w-borderSize; x++ {
			c := chf.Cells[x+y*w]
			for i, ni := int32(c.Index), int32(c.Index)+int32(c.Count); i < ni; i++ {
				s := &chf.Spans[i]
				if chf.Areas[i] == RC_NULL_AREA {
					continue
				}

				sid := uint8(0xff)
				if GetCon(s, 0) != RC_NOT_CONNECTED {
					ax := x + GetDirOffsetX(0)
					ay := y + GetDirOffsetY(0)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 0)
					if chf.Areas[ai] != RC_NULL_AREA && srcReg[ai] != 0xff {
						sid = srcReg[ai]
					}
				}

				if sid == 0xff {
					sid = sweepID
					sweepID++
					sweeps[sid].nei = 0xff
					sweeps[sid].ns = 0
				}

				if GetCon(s, 3) != RC_NOT_CONNECTED {
					ax := x + GetDirOffsetX(3)
					ay := y + GetDirOffsetY(3)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 3)
					nr := srcReg[ai]
					if nr != 0xff {
						if sweeps[sid].ns == 0 {
							sweeps[sid].nei = nr
						}
						if sweeps[sid].nei == nr {
							sweeps[sid].ns++
							prevCount[nr]++
						} else {
							sweeps[sid].nei = 0xff
						}
					}
				}

				srcReg[i] = sid
			}
		}

		for i := int32(0); i < int32(sweepID); i++ {
			if sweeps[i].nei != 0xff && prevCount[sweeps[i].nei] == sweeps[i].ns {
				sweeps[i].id = sweeps[i].nei
			} else {
				if regID == 255 {
					ctx.Log(RC_LOG_ERROR, "BuildHeightfieldLayers: region id overflow")
					return nil, false
				}
				sweeps[i].id = regID
				regID++
			}
		}

		for x := borderSize; x < w-borderSize; x++ {
			c := chf.Cells[x+y*w]
			for i, ni := int32(c.Index), int32(c.Index)+int32(c.Count); i < ni; i++ {
				if srcReg[i] != 0xff {
					srcReg[i] = sweeps[srcReg[i]].id
				}
			}
		}
	}

	if regID == 0 {
		return &HeightfieldLayerSet{}, true
	}

	type regionBounds struct {
		minx, maxx, miny, maxy, ymin, ymax int32
		used                               bool
	}
	bounds := make([]regionBounds, regID)
	for i := range bounds {
		bounds[i].minx, bounds[i].miny = w, h
		bounds[i].maxx, bounds[i].maxy = -1, -1
		bounds[i].ymin, bounds[i].ymax = 0xffff, 0
	}

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i, ni := int32(c.Index), int32(c.Index)+int32(c.Count); i < ni; i++ {
				ri := srcReg[i]
				if ri == 0xff {
					continue
				}
				b := &bounds[ri]
				b.used = true
				if x < b.minx {
					b.minx = x
				}
				if x > b.maxx {
					b.maxx = x
				}
				if y < b.miny {
					b.miny = y
				}
				if y > b.maxy {
					b.maxy = y
				}
				s := chf.Spans[i]
				if int32(s.Y) < b.ymin {
					b.ymin = int32(s.Y)
				}
				if int32(s.Y) > b.ymax {
					b.ymax = int32(s.Y)
				}
			}
		}
	}

	lset := &HeightfieldLayerSet{}
	for r := int32(0); r < int32(regID); r++ {
		b := bounds[r]
		if !b.used {
			continue
		}
		lw := b.maxx - b.minx + 1
		lh := b.maxy - b.miny + 1
		layer := HeightfieldLayer{
			CS:     chf.Cs,
			CH:     chf.Ch,
			Width:  lw,
			Height: lh,
			MinX:   b.minx,
			MaxX:   b.maxx,
			MinY:   b.miny,
			MaxY:   b.maxy,
			HMin:   b.ymin,
			HMax:   b.ymax,
		}
		layer.BMin[0] = chf.BMin[0] + float32(b.minx)*chf.Cs
		layer.BMin[1] = chf.BMin[1] + float32(b.ymin)*chf.Ch
		layer.BMin[2] = chf.BMin[2] + float32(b.miny)*chf.Cs
		layer.BMax[0] = chf.BMin[0] + float32(b.maxx+1)*chf.Cs
		layer.BMax[1] = chf.BMin[1] + float32(b.ymax+1)*chf.Ch
		layer.BMax[2] = chf.BMin[2] + float32(b.maxy+1)*chf.Cs

		layer.Heights = make([]uint8, lw*lh)
		layer.Areas = make([]uint8, lw*lh)
		layer.Cons = make([]uint8, lw*lh)
		for i := range layer.Heights {
			layer.Heights[i] = 0xff
		}

		for y := b.miny; y <= b.maxy; y++ {
			for x := b.minx; x <= b.maxx; x++ {
				c := chf.Cells[x+y*w]
				for i, ni := int32(c.Index), int32(c.Index)+int32(c.Count); i < ni; i++ {
					if srcReg[i] != uint8(r) {
						continue
					}
					s := chf.Spans[i]
					lx := x - b.minx
					ly := y - b.miny
					idx := lx + ly*lw
					layer.Heights[idx] = uint8(int32(s.Y) - b.ymin)
					layer.Areas[idx] = chf.Areas[i]

					var con uint8
					for dir := int32(0); dir < 4; dir++ {
						if GetCon(&s, dir) == RC_NOT_CONNECTED {
							continue
						}
						ax := x + GetDirOffsetX(dir)
						ay := y + GetDirOffsetY(dir)
						ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(&s, dir)
						if srcReg[ai] == uint8(r) {
							con |= 1 << uint(dir)
						}
					}
					layer.Cons[idx] = con
				}
			}
		}

		lset.Layers = append(lset.Layers, layer)
	}

	return lset, true
}
