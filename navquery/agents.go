package navquery

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/kestrelengine/spatial/detour"
)

// AgentGroup manages multiple agents moving across the same navigation mesh
// at once. Each agent follows a straight-path corridor recomputed by
// FindPath/FindStraightPath and is advanced every Update by sliding its
// position toward the next waypoint with MoveAlongSurface, so it never
// crosses a wall the corridor itself didn't already cross. There is no
// local steering or collision-avoidance layer between agents: each one
// moves independently along its own corridor.
type AgentGroup struct {
	q       *Query
	extents d3.Vec3

	agents []agentSlot
}

type agentSlot struct {
	active bool
	a      *agent
}

// agent holds one group member's per-frame steering state: the straight-path
// corridor toward its current target, how far along it the agent has
// travelled, and whether that corridor actually reaches the requested
// target or only the closest polygon the nearest-poly query could resolve.
type agent struct {
	pos    d3.Vec3
	vel    d3.Vec3
	radius float32
	height float32
	accel  float32
	speed  float32

	ref         detour.PolyRef
	waypoints   []d3.Vec3
	wpIndex     int
	reachesDest bool
}

const (
	agentMaxPathPolys    = 256
	agentMaxStraightPath = 64
	agentArriveRadius    = 0.2
)

// NewAgentGroup creates a group that can hold up to maxAgents simultaneous
// agents over nav, each resolved against a search extents box of
// 2*maxAgentRadius along x and z and 4*maxAgentRadius along y.
func NewAgentGroup(nav *detour.NavMesh, maxAgents int, maxAgentRadius float32) (*AgentGroup, bool) {
	q, err := New(nav, int32(agentMaxPathPolys))
	if err != nil {
		return nil, false
	}
	ext := d3.Vec3{maxAgentRadius * 2, maxAgentRadius * 4, maxAgentRadius * 2}
	return &AgentGroup{
		q:       q,
		extents: ext,
		agents:  make([]agentSlot, maxAgents),
	}, true
}

// AgentHandle identifies one agent within a group.
type AgentHandle int

// AddAgent places a new agent at the polygon nearest pos with the given
// radius/height/acceleration/speed. It returns false if the group has no
// free slot or pos has no reachable polygon.
func (g *AgentGroup) AddAgent(pos d3.Vec3, radius, height, maxAcceleration, maxSpeed float32) (AgentHandle, bool) {
	ref, ok := g.q.QueryNearestPoly(pos, g.extents)
	if !ok {
		return -1, false
	}
	for i := range g.agents {
		if g.agents[i].active {
			continue
		}
		g.agents[i] = agentSlot{active: true, a: &agent{
			pos:    pos,
			radius: radius,
			height: height,
			accel:  maxAcceleration,
			speed:  maxSpeed,
			ref:    ref,
		}}
		return AgentHandle(i), true
	}
	return -1, false
}

// RemoveAgent frees h's slot; h must not be used again afterward.
func (g *AgentGroup) RemoveAgent(h AgentHandle) {
	if !g.valid(h) {
		return
	}
	g.agents[h] = agentSlot{}
}

func (g *AgentGroup) valid(h AgentHandle) bool {
	return h >= 0 && int(h) < len(g.agents) && g.agents[h].active
}

// SetTarget requests agent h move toward dest, resolving dest's nearest
// polygon under the group's query extents and rebuilding the agent's
// straight-path corridor toward it.
func (g *AgentGroup) SetTarget(h AgentHandle, dest d3.Vec3) bool {
	if !g.valid(h) {
		return false
	}
	a := g.agents[h].a

	points, _, _, reachedEnd, ok := g.q.FindStraightPathFromPoints(a.pos, dest, g.extents, agentMaxStraightPath)
	if !ok || len(points) == 0 {
		return false
	}

	a.waypoints = points
	a.wpIndex = 0
	a.reachesDest = reachedEnd
	return true
}

// Stop cancels agent h's current move request in place.
func (g *AgentGroup) Stop(h AgentHandle) bool {
	if !g.valid(h) {
		return false
	}
	a := g.agents[h].a
	a.waypoints = nil
	a.wpIndex = 0
	a.vel = d3.Vec3{0, 0, 0}
	return true
}

// Update advances every active agent's position by dt seconds, sliding each
// one toward its next straight-path waypoint at up to its configured speed
// via MoveAlongSurface so the move never crosses a wall.
func (g *AgentGroup) Update(dt float32) {
	for i := range g.agents {
		slot := &g.agents[i]
		if !slot.active {
			continue
		}
		g.stepAgent(slot.a, dt)
	}
}

func (g *AgentGroup) stepAgent(a *agent, dt float32) {
	if a.wpIndex >= len(a.waypoints) {
		a.vel = d3.Vec3{0, 0, 0}
		return
	}

	target := a.waypoints[a.wpIndex]
	toTarget := target.Sub(a.pos)
	toTarget[1] = 0
	dist := toTarget.Len()

	if dist < agentArriveRadius {
		a.wpIndex++
		if a.wpIndex >= len(a.waypoints) {
			a.vel = d3.Vec3{0, 0, 0}
			return
		}
		target = a.waypoints[a.wpIndex]
		toTarget = target.Sub(a.pos)
		toTarget[1] = 0
		dist = toTarget.Len()
	}

	step := a.speed * dt
	if step > dist {
		step = dist
	}
	var dir d3.Vec3
	if dist > 1e-6 {
		dir = toTarget.Scale(1.0 / dist)
	} else {
		dir = d3.Vec3{0, 0, 0}
	}

	moveTo := a.pos.Add(dir.Scale(step))
	resolved, _, ok := g.q.MoveAlongSurface(a.ref, a.pos, moveTo, 16)
	if ok {
		if dt > 0 {
			a.vel = resolved.Sub(a.pos).Scale(1.0 / dt)
		}
		a.pos = resolved
	} else {
		a.vel = d3.Vec3{0, 0, 0}
	}

	if ref, ok := g.q.QueryNearestPoly(a.pos, g.extents); ok {
		a.ref = ref
	}
}

// HasValidPath reports whether agent h holds a corridor that actually
// reaches its requested target, rather than the nearest point the path
// search could resolve.
func (g *AgentGroup) HasValidPath(h AgentHandle) bool {
	return g.valid(h) && g.agents[h].a.reachesDest
}

// Count returns the number of active agents in the group.
func (g *AgentGroup) Count() int {
	n := 0
	for i := range g.agents {
		if g.agents[i].active {
			n++
		}
	}
	return n
}

// Position returns agent h's current world-space position.
func (g *AgentGroup) Position(h AgentHandle) d3.Vec3 {
	if !g.valid(h) {
		return d3.Vec3{}
	}
	return g.agents[h].a.pos
}

// Velocity returns agent h's current velocity.
func (g *AgentGroup) Velocity(h AgentHandle) d3.Vec3 {
	if !g.valid(h) {
		return d3.Vec3{}
	}
	return g.agents[h].a.vel
}
