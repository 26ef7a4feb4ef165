package game

import (
	"time"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/systems"
)

// spawnBoids fills the arena and creates one entity per agent.
func (g *Game) spawnBoids(v systems.Values) {
	systems.SpawnHalton(g.arena, v.Count, v, g.rng)

	for i := range g.arena.Agents {
		boid := components.Boid{ID: uint32(i)}
		var (
			pos  components.Position
			vel  components.Velocity
			rot  components.Rotation
			tint components.Tint
		)
		copyAgent(&g.arena.Agents[i], &pos, &vel, &rot, &tint)
		g.boidMapper.NewEntity(&boid, &pos, &vel, &rot, &tint)
	}
}

// step runs one pipeline tick at now and records its timing.
// It returns false when the pipeline is paused.
func (g *Game) step(now time.Time) bool {
	g.perfCollector.StartTick()
	if !g.pipeline.Step(now, g.pointer) {
		g.perfCollector.AbortTick()
		return false
	}
	g.perfCollector.EndTick()

	g.simTime += g.cfg.Derived.TickDT
	g.flushTelemetry()
	return true
}

// syncVisuals copies arena state into the ECS components.
func (g *Game) syncVisuals() {
	query := g.boidFilter.Query()
	for query.Next() {
		boid, pos, vel, rot, tint := query.Get()
		ag := g.arena.Get(boid.ID)
		if ag == nil {
			continue
		}
		copyAgent(ag, pos, vel, rot, tint)
	}
}

func copyAgent(ag *systems.Agent, pos *components.Position, vel *components.Velocity, rot *components.Rotation, tint *components.Tint) {
	pos.X, pos.Y = ag.Pos.X, ag.Pos.Y
	vel.X, vel.Y = ag.Vel.X, ag.Vel.Y
	rot.Heading = ag.Heading
	tint.H, tint.S, tint.V = ag.Color.X, ag.Color.Y, ag.Color.Z
}
