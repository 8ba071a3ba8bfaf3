package navquery

import (
	"strings"
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/require"

	"github.com/kestrelengine/spatial/detour"
	"github.com/kestrelengine/spatial/recast"
	"github.com/kestrelengine/spatial/sample/solomesh"
)

// flatGroundOBJ is a single 20x20 ground quad, CCW from above so its face
// normal points +Y (walkable), large enough that the default monotone
// partition's minimum region area (8*8 voxels) isn't the whole tile.
const flatGroundOBJ = `
v -10 0 -10
v  10 0 -10
v  10 0  10
v -10 0  10
f 1 3 2
f 1 4 3
`

func buildFlatGroundNavMesh(t *testing.T) *detour.NavMesh {
	t.Helper()
	sm := solomesh.New(recast.NewBuildContext(false))
	require.NoError(t, sm.LoadGeometry(strings.NewReader(flatGroundOBJ)))
	nav, ok := sm.Build()
	require.True(t, ok, "Build")
	return nav
}

func TestAgentGroupWalksToTarget(t *testing.T) {
	nav := buildFlatGroundNavMesh(t)

	group, ok := NewAgentGroup(nav, 4, 0.6)
	require.True(t, ok, "NewAgentGroup")

	start := d3.Vec3{-8, 0, -8}
	dest := d3.Vec3{8, 0, 8}

	h, ok := group.AddAgent(start, 0.6, 2.0, 8.0, 3.5)
	require.True(t, ok, "AddAgent")
	require.True(t, group.SetTarget(h, dest), "SetTarget")

	startDist := group.Position(h).Dist2D(dest)
	for i := 0; i < 200; i++ {
		group.Update(1.0 / 20.0)
	}
	endDist := group.Position(h).Dist2D(dest)

	require.True(t, group.HasValidPath(h))
	require.True(t, endDist < startDist, "agent should have moved toward its target")
	require.Equal(t, 1, group.Count())
}
