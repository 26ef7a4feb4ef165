package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/ui"
)

// boidScale converts Values.BoidSize into a body radius in world units.
const boidScale = 16

// velocityTicks is how many ticks ahead the velocity overlay projects.
const velocityTicks = 4

var (
	colorBackground = rl.Color{R: 12, G: 14, B: 22, A: 255}
	colorWorldEdge  = rl.Color{R: 80, G: 90, B: 120, A: 255}
	colorFreeArea   = rl.Color{R: 60, G: 70, B: 95, A: 160}
	colorVelocity   = rl.Color{R: 255, G: 255, B: 255, A: 110}
	colorAttract    = rl.Color{R: 120, G: 230, B: 140, A: 220}
	colorRepel      = rl.Color{R: 240, G: 80, B: 80, A: 220}
)

const controlsLegend = "LMB: attract | RMB: inspect | Arrows/MMB: pan | Wheel: zoom | Home: reset | </>: speed | H: controls"

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	v := g.pipeline.Tunables().Current()

	if g.overlays.IsEnabled(ui.OverlayBounds) {
		g.drawBounds(v)
	}

	g.drawBoids(v)

	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.drawVelocities()
	}
	if g.overlays.IsEnabled(ui.OverlayPerception) {
		g.inspector.DrawSelectionHighlight(g.world, g.maps, g.camera, g.pipeline)
	}
	if g.overlays.IsEnabled(ui.OverlayPointer) {
		g.drawPointer(v)
	}

	g.drawUI(v)

	rl.EndDrawing()
}

// drawBounds outlines the world and, in bounded mode, the free-roam area.
func (g *Game) drawBounds(v systems.Values) {
	rl.DrawRectangleLinesEx(g.worldRect(v.Bounds.X/2, v.Bounds.Y/2), 2, colorWorldEdge)
	if !v.Toroidal {
		lim := v.Limits()
		rl.DrawRectangleLinesEx(g.worldRect(lim.X, lim.Y), 1, colorFreeArea)
	}
}

// worldRect returns the screen rectangle of an origin-centered box.
// Unlike WorldToScreen it never wraps, so the seam stays a single outline.
func (g *Game) worldRect(halfW, halfH float32) rl.Rectangle {
	cam := g.camera
	return rl.Rectangle{
		X:      cam.ViewportW/2 + (-halfW-cam.X)*cam.Zoom,
		Y:      cam.ViewportH/2 + (-halfH-cam.Y)*cam.Zoom,
		Width:  2 * halfW * cam.Zoom,
		Height: 2 * halfH * cam.Zoom,
	}
}

// drawBoids renders all boids as oriented triangles tinted by their color.
func (g *Game) drawBoids(v systems.Values) {
	radius := v.BoidSize * boidScale
	screenRadius := g.camera.ScaleLength(radius)
	if screenRadius < 1.5 {
		screenRadius = 1.5
	}

	query := g.boidFilter.Query()
	for query.Next() {
		_, pos, _, rot, tint := query.Get()
		if !g.camera.IsVisible(pos.X, pos.Y, radius*1.5) {
			continue
		}
		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
		drawOrientedTriangle(sx, sy, rot.Heading, screenRadius, rl.ColorFromHSV(tint.H, tint.S, tint.V))
	}
}

// drawVelocities draws each boid's projected motion.
func (g *Game) drawVelocities() {
	query := g.boidFilter.Query()
	for query.Next() {
		_, pos, vel, _, _ := query.Get()
		if !g.camera.IsVisible(pos.X, pos.Y, 0) {
			continue
		}
		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
		ex := sx + g.camera.ScaleLength(vel.X*velocityTicks)
		ey := sy + g.camera.ScaleLength(vel.Y*velocityTicks)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, colorVelocity)
	}
}

// drawPointer marks the active pointer target. Predator mode draws it red.
func (g *Game) drawPointer(v systems.Values) {
	if !g.pointer.Active {
		return
	}
	col := colorAttract
	if v.PredatorMode {
		col = colorRepel
	}
	sx, sy := g.camera.WorldToScreen(g.pointer.Pos.X, g.pointer.Pos.Y)
	center := rl.Vector2{X: sx, Y: sy}
	rl.DrawCircleLinesV(center, 10, col)
	rl.DrawCircleV(center, 3, col)
}

// drawUI renders the HUD and the screen-space panels.
func (g *Game) drawUI(v systems.Values) {
	perfStats := g.perfCollector.Stats()

	g.hud.Draw(ui.HUDData{
		Title:          g.cfg.Screen.Title,
		Profile:        g.cfg.Profile,
		Count:          g.arena.Len(),
		Tick:           g.pipeline.Ticks(),
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		TicksPerSecond: perfStats.TicksPerSecond,
		Workers:        g.pipeline.Workers(),
		Values:         v,
		PointerActive:  g.pointer.Active,
	})

	if g.overlays.IsEnabled(ui.OverlaySettings) {
		edited, changed, reset := g.settings.Draw(g.pipeline.Tunables().Edit())
		switch {
		case reset:
			g.pipeline.Tunables().Stage(g.defaults)
		case changed:
			g.pipeline.Tunables().Stage(edited)
		}
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(perfStats)
	}
	if g.overlays.IsEnabled(ui.OverlayFlockStats) {
		g.flockPanel.Draw(g.lastFlock)
	}

	g.inspector.Draw(g.world, g.maps)
	g.controls.Draw(g.overlays, g.settings.Toggles(), v)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	// Front point
	frontX := x + cos*radius*1.5
	frontY := y + sin*radius*1.5

	// Back left
	backAngle := heading + math.Pi*0.8
	backLeftX := x + float32(math.Cos(float64(backAngle)))*radius
	backLeftY := y + float32(math.Sin(float64(backAngle)))*radius

	// Back right
	backAngle = heading - math.Pi*0.8
	backRightX := x + float32(math.Cos(float64(backAngle)))*radius
	backRightY := y + float32(math.Sin(float64(backAngle)))*radius

	v1 := rl.Vector2{X: frontX, Y: frontY}
	v2 := rl.Vector2{X: backLeftX, Y: backLeftY}
	v3 := rl.Vector2{X: backRightX, Y: backRightY}

	// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
	rl.DrawTriangle(v1, v3, v2, color)
}
