// Package game hosts the flocking pipeline: it spawns the flock, schedules
// ticks, mirrors agents into an ECS world for rendering and routes input
// to the tunables.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/inspector"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/ui"
)

// maxCatchUp bounds the simulated time added in one frame after a stall.
const maxCatchUp = 250 * time.Millisecond

// Steps-per-update limits.
const (
	MinStepsPerUpdate = 1
	MaxStepsPerUpdate = 10
)

// Options configures a Game.
type Options struct {
	Seed           uint64 // RNG seed for spawning
	Headless       bool   // skip window, camera and UI setup
	LogStats       bool   // log flock and perf stats each window
	OutputDir      string // CSV output directory ("" disables)
	StepsPerUpdate int    // ticks per Update at 1x; clamped to [1, 10]

	// StatsCallback, if set, receives every flock stats window.
	StatsCallback func(telemetry.FlockStats)
}

// Game holds the complete host state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	// ECS mirror of the arena
	world      *ecs.World
	boidMapper *ecs.Map5[
		components.Boid,
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Tint,
	]
	boidFilter *ecs.Filter5[
		components.Boid,
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Tint,
	]
	pickFilter *ecs.Filter2[components.Position, components.Boid]
	maps       inspector.Maps

	// Simulation
	arena    *systems.Arena
	pipeline *systems.Pipeline
	defaults systems.Values // profile values restored by the settings reset
	pointer  systems.PointerTarget

	// Scheduling
	headless       bool
	stepsPerUpdate int
	accumulator    time.Duration
	lastUpdate     time.Time
	epoch          time.Time     // origin of the simulated clock
	simTime        time.Duration // ticks * TickDT

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	sampler          telemetry.FlockSampler
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.FlockStats)
	lastFlock        telemetry.FlockStats

	// Rendering and UI, nil when headless
	screenWidth, screenHeight float32
	camera                    *camera.Camera
	inspector                 *inspector.Inspector
	overlays                  *ui.OverlayRegistry
	hud                       *ui.HUD
	settings                  *ui.SettingsPanel
	controls                  *ui.ControlsPanel
	perfPanel                 *ui.PerfPanel
	flockPanel                *ui.FlockStatsPanel
}

// NewGame spawns the flock described by cfg and prepares the pipeline.
// In headless mode no raylib state is touched.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	world := ecs.NewWorld()

	g := &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		world: world,
		boidMapper: ecs.NewMap5[
			components.Boid,
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Tint,
		](world),
		boidFilter: ecs.NewFilter5[
			components.Boid,
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Tint,
		](world),
		pickFilter: ecs.NewFilter2[components.Position, components.Boid](world),
		maps: inspector.Maps{
			Boid: ecs.NewMap1[components.Boid](world),
			Pos:  ecs.NewMap1[components.Position](world),
			Vel:  ecs.NewMap1[components.Velocity](world),
			Rot:  ecs.NewMap1[components.Rotation](world),
			Tint: ecs.NewMap1[components.Tint](world),
		},
		headless:         opts.Headless,
		stepsPerUpdate:   clampInt(opts.StepsPerUpdate, MinStepsPerUpdate, MaxStepsPerUpdate),
		epoch:            time.Unix(0, 0),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	g.defaults = cfg.Values()
	g.arena = systems.NewArena(g.defaults.Count)
	g.spawnBoids(g.defaults)

	g.pipeline = systems.NewPipeline(g.arena, g.defaults, cfg.PipelineOptions())
	g.pipeline.SetPhaseTimer(g.perfCollector)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.pipeline.Close()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		g.Unload()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if !g.headless {
		g.initUI()
	}

	slog.Info("flock spawned",
		"profile", cfg.Profile,
		"count", g.arena.Len(),
		"workers", g.pipeline.Workers(),
		"bounds_w", g.defaults.Bounds.X,
		"bounds_h", g.defaults.Bounds.Y,
		"headless", g.headless,
	)

	return g, nil
}

// initUI creates the camera and panels for the configured screen size.
func (g *Game) initUI() {
	g.screenWidth = g.cfg.Derived.ScreenW32
	g.screenHeight = g.cfg.Derived.ScreenH32
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	g.camera = camera.New(g.screenWidth, g.screenHeight, g.defaults.Bounds.X, g.defaults.Bounds.Y)
	g.camera.Wrap = g.defaults.Toroidal
	g.inspector = inspector.NewInspector(w, h)
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.settings = ui.NewSettingsPanel(10, 100, 300)
	g.controls = ui.NewControlsPanel(0, 0, 240)
	g.perfPanel = ui.NewPerfPanel(0, 0, 260)
	g.flockPanel = ui.NewFlockStatsPanel(0, 0, 260)
	g.layoutPanels()
}

// layoutPanels positions the screen-anchored panels.
func (g *Game) layoutPanels() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	g.controls.SetPosition(w-250, 10)
	g.perfPanel.SetPosition(w-270, h-230)
	g.flockPanel.SetPosition(w-270, h-230)
}

// Update handles input, advances the simulation on the fixed timestep and
// syncs the ECS mirror. Called once per rendered frame.
func (g *Game) Update() {
	g.handleInput()

	now := time.Now()
	if g.lastUpdate.IsZero() {
		g.lastUpdate = now
	}
	elapsed := now.Sub(g.lastUpdate)
	g.lastUpdate = now
	if elapsed > maxCatchUp {
		elapsed = maxCatchUp
	}

	dt := g.cfg.Derived.TickDT
	g.accumulator += elapsed * time.Duration(g.stepsPerUpdate)
	for g.accumulator >= dt {
		g.accumulator -= dt
		if !g.step(time.Now()) {
			// Paused: drop the backlog instead of replaying it on resume.
			g.accumulator = 0
			break
		}
	}

	g.syncVisuals()
}

// UpdateHeadless runs stepsPerUpdate ticks against the simulated clock.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(g.epoch.Add(g.simTime))
	}
	g.syncVisuals()
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() uint64 {
	return g.pipeline.Ticks()
}

// Values returns the tunables used by the most recent tick.
func (g *Game) Values() systems.Values {
	return g.pipeline.Tunables().Current()
}

// Unload stops the workers and closes output files.
func (g *Game) Unload() {
	g.pipeline.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
