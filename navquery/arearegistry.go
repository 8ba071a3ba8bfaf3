package navquery

import "fmt"

// AreaRegistry maps navigation area type ids to human-readable names. Area
// ids are assigned by recast.RasterizeTriangles and friends; this registry
// just gives callers a name for them. It deliberately carries no
// per-area debug-draw color: nothing in this module draws a navmesh.
type AreaRegistry struct {
	byName map[string]uint8
	byID   map[uint8]string
}

// NewAreaRegistry returns an empty registry.
func NewAreaRegistry() *AreaRegistry {
	return &AreaRegistry{
		byName: make(map[string]uint8),
		byID:   make(map[uint8]string),
	}
}

// Register associates name with areaType, overwriting any previous name
// bound to that id.
func (r *AreaRegistry) Register(areaType uint8, name string) {
	if old, ok := r.byID[areaType]; ok {
		delete(r.byName, old)
	}
	r.byID[areaType] = name
	r.byName[name] = areaType
}

// AreaType returns the area id registered under name.
func (r *AreaRegistry) AreaType(name string) (uint8, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// AreaName returns the name registered for areaType.
func (r *AreaRegistry) AreaName(areaType uint8) string {
	if name, ok := r.byID[areaType]; ok {
		return name
	}
	return fmt.Sprintf("area#%d", areaType)
}
