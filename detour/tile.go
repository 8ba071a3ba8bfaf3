package detour

// TileRef is a reference to a tile of the navigation mesh.
type TileRef uint32

// navMeshTileHeader precedes each serialized tile in a navmesh binary: the
// reference the tile was stored under and the byte length of its blob.
type navMeshTileHeader struct {
	TileRef  TileRef
	DataSize int32
}
