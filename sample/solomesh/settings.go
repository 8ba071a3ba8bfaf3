package solomesh

import "github.com/kestrelengine/spatial/recast"

// Settings contains all the settings required for a SoloMesh.
type Settings struct {
	// Rasterization settings
	CellSize   float32
	CellHeight float32

	// Agent properties
	AgentHeight   float32
	AgentMaxClimb float32
	AgentRadius   float32

	// Region
	RegionMinSize   int32
	RegionMergeSize int32

	// Polygonization
	EdgeMaxLen   int32
	EdgeMaxError float32
	VertsPerPoly int32

	// Detail Mesh
	DetailSampleDist     float32
	DetailSampleMaxError float32

	WalkableSlopeAngle float32
}

// SettingsFromBuild converts the generic recast.BuildSettings (the form
// the CLI reads from YAML) into solo mesh settings.
func SettingsFromBuild(bs recast.BuildSettings) Settings {
	s := NewSettings()
	s.CellSize = bs.CellSize
	s.CellHeight = bs.CellHeight
	s.AgentHeight = bs.AgentHeight
	s.AgentMaxClimb = bs.AgentMaxClimb
	s.AgentRadius = bs.AgentRadius
	s.RegionMinSize = int32(bs.RegionMinSize)
	s.RegionMergeSize = int32(bs.RegionMergeSize)
	s.EdgeMaxLen = int32(bs.EdgeMaxLen)
	s.EdgeMaxError = bs.EdgeMaxError
	s.VertsPerPoly = int32(bs.VertsPerPoly)
	s.DetailSampleDist = bs.DetailSampleDist
	s.DetailSampleMaxError = bs.DetailSampleMaxError
	s.WalkableSlopeAngle = bs.AgentMaxSlope
	return s
}

// NewSettings returns a new Settings struct filled with default values.
func NewSettings() Settings {
	return Settings{
		CellSize:             float32(0.3),
		CellHeight:           float32(0.2),
		AgentHeight:          float32(2.0),
		AgentMaxClimb:        float32(0.9),
		AgentRadius:          float32(0.6),
		RegionMinSize:        int32(8),
		RegionMergeSize:      int32(20),
		EdgeMaxLen:           int32(12),
		EdgeMaxError:         float32(1.3),
		VertsPerPoly:         int32(6),
		DetailSampleDist:     float32(6),
		DetailSampleMaxError: float32(1),
		WalkableSlopeAngle:   float32(45),
	}
}
