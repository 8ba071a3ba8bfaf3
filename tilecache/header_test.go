package tilecache

import "testing"

func TestEncodeDecodeLayer(t *testing.T) {
	src := layerSource{
		BMin: [3]float32{0, 0, 0},
		BMax: [3]float32{4, 2, 4},
		Width: 2, Height: 2,
		MinX: 0, MaxX: 1, MinY: 0, MaxY: 1,
		HMin: 0, HMax: 5,
		Heights: []uint8{0, 1, 2, 0xff},
		Areas:   []uint8{1, 1, 1, 0},
		Cons:    []uint8{3, 1, 2, 0},
	}

	buf := EncodeLayer(2, 3, 0, src)

	hdr, heights, areas, cons, err := DecodeLayer(buf)
	if err != nil {
		t.Fatalf("DecodeLayer: %v", err)
	}
	if hdr.TX != 2 || hdr.TY != 3 {
		t.Fatalf("tile coord mismatch: got (%d,%d)", hdr.TX, hdr.TY)
	}
	if hdr.Width != 2 || hdr.Height != 2 {
		t.Fatalf("dims mismatch: got (%d,%d)", hdr.Width, hdr.Height)
	}
	for i, h := range src.Heights {
		if heights[i] != h {
			t.Fatalf("height[%d] = %d, want %d", i, heights[i], h)
		}
	}
	for i, a := range src.Areas {
		if areas[i] != a {
			t.Fatalf("area[%d] = %d, want %d", i, areas[i], a)
		}
	}
	for i, c := range src.Cons {
		if cons[i] != c {
			t.Fatalf("con[%d] = %d, want %d", i, cons[i], c)
		}
	}
}

func TestDecodeLayerBadMagic(t *testing.T) {
	buf := EncodeLayer(0, 0, 0, layerSource{Width: 1, Height: 1, Heights: []uint8{0}, Areas: []uint8{1}, Cons: []uint8{0}})
	buf[0] ^= 0xff
	if _, _, _, _, err := DecodeLayer(buf); err == nil {
		t.Fatalf("expected magic mismatch error")
	}
}
