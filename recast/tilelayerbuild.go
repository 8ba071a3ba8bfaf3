package recast

// CompactHeightfieldFromLayer reconstructs a single-span-per-cell compact
// heightfield directly from a HeightfieldLayer's height/area/connection
// arrays, skipping the solid-heightfield intermediate step. Every valid
// cell (Heights[i] != 0xff) becomes exactly one CompactSpan; the layer's
// packed 4-bit connection mask (set by BuildHeightfieldLayers) becomes the
// compact span's Con field, with a same-cell offset of zero since a
// reconstructed layer-derived column never holds more than one span.
//
// This lets the dynamic (tile-cache) build path reuse the static path's
// region/contour/polymesh stages unchanged instead of re-deriving a
// dtTileCache-style bespoke region/contour builder that walks the layer
// arrays directly.
func CompactHeightfieldFromLayer(layer *HeightfieldLayer, walkableHeight, walkableClimb int32) *CompactHeightfield {
	w := layer.Width
	h := layer.Height

	var spanCount int32
	for _, ht := range layer.Heights {
		if ht != 0xff {
			spanCount++
		}
	}

	chf := &CompactHeightfield{
		Width:          w,
		Height:         h,
		SpanCount:      spanCount,
		WalkableHeight: walkableHeight,
		WalkableClimb:  walkableClimb,
		BMin:           layer.BMin,
		BMax:           layer.BMax,
		Cs:             layer.CS,
		Ch:             layer.CH,
		Cells:          make([]CompactCell, w*h),
		Spans:          make([]CompactSpan, spanCount),
		Areas:          make([]uint8, spanCount),
	}

	cellSpanIdx := make([]int32, w*h)
	for i := range cellSpanIdx {
		cellSpanIdx[i] = -1
	}

	var idx int32
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			ci := x + y*w
			if layer.Heights[ci] == 0xff {
				continue
			}
			chf.Cells[ci].Index = uint32(idx)
			chf.Cells[ci].Count = 1
			chf.Spans[idx].Y = uint16(layer.Heights[ci])
			chf.Spans[idx].H = 1
			chf.Areas[idx] = layer.Areas[ci]
			for dir := int32(0); dir < 4; dir++ {
				SetCon(&chf.Spans[idx], dir, RC_NOT_CONNECTED)
			}
			cellSpanIdx[ci] = idx
			idx++
		}
	}

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			ci := x + y*w
			si := cellSpanIdx[ci]
			if si < 0 {
				continue
			}
			con := layer.Cons[ci]
			for dir := int32(0); dir < 4; dir++ {
				if con&(1<<uint(dir)) == 0 {
					continue
				}
				nx := x + GetDirOffsetX(dir)
				ny := y + GetDirOffsetY(dir)
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if cellSpanIdx[nx+ny*w] < 0 {
					continue
				}
				SetCon(&chf.Spans[si], dir, 0)
			}
		}
	}

	return chf
}
