package tilecache

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// layerMagic identifies a serialized compressed tile-cache layer: the four
// bytes 'D','T','L','C' packed with 'D' in the lowest byte, so they appear
// in that order in the little-endian header.
const layerMagic = int32('D') | int32('T')<<8 | int32('L')<<16 | int32('C')<<24
const layerVersion = int32(1)

// TileHeader is the little-endian, fixed-size header that precedes a single
// compressed heightfield layer on disk. Width/height and the
// min/max cell ranges are stored as bytes; EncodeLayer narrows them with a
// plain conversion, so values above 255 do not survive the round trip.
type TileHeader struct {
	Magic    int32
	Version  int32
	TX       int32
	TY       int32
	TLayer   int32
	BMin     [3]float32
	BMax     [3]float32
	Width    uint8
	Height   uint8
	MinX     uint8
	MaxX     uint8
	MinY     uint8
	MaxY     uint8
	HMin     uint16
	HMax     uint16
}

// EncodeLayer serializes one HeightfieldLayer into a self-contained buffer:
// TileHeader followed by the compressed concatenation of heights, areas and
// connection bytes, in that order.
func EncodeLayer(tx, ty, tlayer int32, layer layerSource) []byte {
	hdr := TileHeader{
		Magic:   layerMagic,
		Version: layerVersion,
		TX:      tx,
		TY:      ty,
		TLayer:  tlayer,
		BMin:    layer.BMin,
		BMax:    layer.BMax,
		Width:   uint8(layer.Width),
		Height:  uint8(layer.Height),
		MinX:    uint8(layer.MinX),
		MaxX:    uint8(layer.MaxX),
		MinY:    uint8(layer.MinY),
		MaxY:    uint8(layer.MaxY),
		HMin:    uint16(layer.HMin),
		HMax:    uint16(layer.HMax),
	}

	raw := make([]byte, 0, len(layer.Heights)+len(layer.Areas)+len(layer.Cons))
	raw = append(raw, layer.Heights...)
	raw = append(raw, layer.Areas...)
	raw = append(raw, layer.Cons...)
	payload := Compress(raw)

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &hdr)
	buf.Write(payload)
	return buf.Bytes()
}

// layerSource is the subset of recast.HeightfieldLayer that EncodeLayer
// needs, as a local struct; BuildTile fills one from each built
// recast.HeightfieldLayer.
type layerSource struct {
	BMin, BMax             [3]float32
	Width, Height          int32
	MinX, MaxX, MinY, MaxY int32
	HMin, HMax             int32
	Heights, Areas, Cons   []uint8
}

// DecodeLayer reverses EncodeLayer, returning the header and the
// uncompressed heights/areas/cons arrays (each width*height bytes).
func DecodeLayer(data []byte) (TileHeader, []byte, []byte, []byte, error) {
	var hdr TileHeader
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return hdr, nil, nil, nil, err
	}
	if hdr.Magic != layerMagic {
		return hdr, nil, nil, nil, fmt.Errorf("tilecache: bad layer magic %x", hdr.Magic)
	}
	if hdr.Version != layerVersion {
		return hdr, nil, nil, nil, fmt.Errorf("tilecache: unsupported layer version %d", hdr.Version)
	}

	gridSize := int(hdr.Width) * int(hdr.Height)
	raw, ok := Decompress(data[binary.Size(hdr):], gridSize*3)
	if !ok || len(raw) != gridSize*3 {
		return hdr, nil, nil, nil, fmt.Errorf("tilecache: corrupt layer payload")
	}
	heights := raw[0:gridSize]
	areas := raw[gridSize : 2*gridSize]
	cons := raw[2*gridSize : 3*gridSize]
	return hdr, heights, areas, cons, nil
}
