package game

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/telemetry"
)

const testConfig = `
profile: lite
parallel:
  workers: 2
  threshold: 8
telemetry:
  stats_window: 0.5
`

func newTestGame(t *testing.T, outputDir string) *Game {
	t.Helper()
	cfg, err := config.Parse([]byte(testConfig))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	g, err := NewGame(cfg, Options{Seed: 7, Headless: true, OutputDir: outputDir, StepsPerUpdate: 3})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameSpawnsFlock(t *testing.T) {
	g := newTestGame(t, "")

	want := g.Values().Count
	if g.arena.Len() != want {
		t.Errorf("arena has %d agents, want %d", g.arena.Len(), want)
	}

	entities := 0
	query := g.boidFilter.Query()
	for query.Next() {
		boid, pos, _, _, _ := query.Get()
		ag := g.arena.Get(boid.ID)
		if ag == nil {
			t.Fatalf("entity references unknown agent %d", boid.ID)
		}
		if pos.X != ag.Pos.X || pos.Y != ag.Pos.Y {
			t.Errorf("boid %d position (%v, %v), want (%v, %v)", boid.ID, pos.X, pos.Y, ag.Pos.X, ag.Pos.Y)
		}
		entities++
	}
	if entities != want {
		t.Errorf("world has %d boid entities, want %d", entities, want)
	}
	if g.camera != nil || g.settings != nil {
		t.Error("headless game created UI state")
	}
}

func TestUpdateHeadlessAdvancesTicks(t *testing.T) {
	g := newTestGame(t, "")

	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 12 {
		t.Errorf("tick = %d, want 12", g.Tick())
	}
	if want := 12 * g.cfg.Derived.TickDT; g.simTime != want {
		t.Errorf("simulated time = %v, want %v", g.simTime, want)
	}
}

func TestSyncVisualsMirrorsArena(t *testing.T) {
	g := newTestGame(t, "")
	g.UpdateHeadless()

	query := g.boidFilter.Query()
	for query.Next() {
		boid, pos, vel, rot, tint := query.Get()
		ag := g.arena.Get(boid.ID)
		if pos.X != ag.Pos.X || vel.Y != ag.Vel.Y || rot.Heading != ag.Heading || tint.H != ag.Color.X {
			t.Errorf("boid %d out of sync with arena", boid.ID)
		}
	}
}

func TestSameSeedSameSpawn(t *testing.T) {
	a := newTestGame(t, "")
	b := newTestGame(t, "")

	for i := range a.arena.Agents {
		if a.arena.Agents[i].Pos != b.arena.Agents[i].Pos {
			t.Fatalf("agent %d spawned at %v and %v", i, a.arena.Agents[i].Pos, b.arena.Agents[i].Pos)
		}
	}
}

func TestStagedEditAppliesNextTick(t *testing.T) {
	g := newTestGame(t, "")

	v := g.pipeline.Tunables().Edit()
	v.Paused = true
	g.pipeline.Tunables().Stage(v)

	g.UpdateHeadless()
	if g.Tick() != 0 {
		t.Errorf("paused game ticked %d times", g.Tick())
	}
	if !g.Values().Paused {
		t.Error("staged pause was not applied")
	}

	v.Paused = false
	g.pipeline.Tunables().Stage(v)
	g.UpdateHeadless()
	if g.Tick() != 3 {
		t.Errorf("tick after resume = %d, want 3", g.Tick())
	}
}

func TestHeadlessWritesOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	g := newTestGame(t, dir)

	// 0.5s windows at 60 Hz: two flushes in 60 ticks.
	for g.Tick() < 60 {
		g.UpdateHeadless()
	}
	if g.LastFlockStats().Tick != 60 {
		t.Errorf("last stats window at tick %d, want 60", g.LastFlockStats().Tick)
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "flock.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("flock.csv has %d lines, want header + 2 rows", len(lines))
	}
	for _, name := range []string{"perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestFlockStaysNearWorld(t *testing.T) {
	g := newTestGame(t, "")
	for i := 0; i < 40; i++ {
		g.UpdateHeadless()
	}

	v := g.Values()
	// Bounded mode turns boids around within about one max-speed stopping
	// distance of the free area.
	slack := v.Bounds.Scale(2)
	for i, ag := range g.arena.Agents {
		if math.IsNaN(float64(ag.Pos.X)) || math.IsNaN(float64(ag.Pos.Y)) {
			t.Fatalf("agent %d position is NaN", i)
		}
		if ag.Pos.X < -slack.X || ag.Pos.X > slack.X || ag.Pos.Y < -slack.Y || ag.Pos.Y > slack.Y {
			t.Errorf("agent %d escaped to %v", i, ag.Pos)
		}
	}
}

func TestStatsCallbackEachWindow(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfig))
	if err != nil {
		t.Fatal(err)
	}
	var ticks []uint64
	g, err := NewGame(cfg, Options{
		Seed:           1,
		Headless:       true,
		StepsPerUpdate: 10,
		StatsCallback:  func(s telemetry.FlockStats) { ticks = append(ticks, s.Tick) },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	for g.Tick() < 90 {
		g.UpdateHeadless()
	}
	if len(ticks) != 3 || ticks[0] != 30 || ticks[2] != 90 {
		t.Errorf("callback ticks = %v, want [30 60 90]", ticks)
	}
}
