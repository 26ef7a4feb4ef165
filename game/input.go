package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > MinStepsPerUpdate {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < MaxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	g.handleKeys()
	g.handleCameraInput()

	// Inspector input
	mousePos := rl.GetMousePosition()
	consumed := g.inspector.HandleInput(mousePos.X, mousePos.Y, g.camera, g.pickFilter)

	g.updatePointer(mousePos, consumed)
}

// handleKeys drains the key queue into mode toggles, overlays and panels.
func (g *Game) handleKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if key == rl.KeyH {
			g.controls.Toggle()
			continue
		}

		v := g.pipeline.Tunables().Edit()
		if t, ok := ui.ToggleByKey(g.settings.Toggles(), key, &v); ok {
			g.pipeline.Tunables().Stage(v)
			slog.Debug("mode toggled", "mode", t.ID, "on", t.Get(&v))
			continue
		}

		g.overlays.HandleKeyPress(key)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.inspector.Resize(int32(w), int32(h))
	g.layoutPanels()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	const panSpeed = 8 // screen pixels per frame

	v := g.pipeline.Tunables().Current()
	g.camera.Wrap = v.Toroidal
	g.camera.SetWorld(v.Bounds.X, v.Bounds.Y)

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Middle-drag panning
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// updatePointer sets the pointer target from the mouse. The pointer is
// active while the left button is held over the world, or whenever the
// cursor is over the world with pointer.always_on.
func (g *Game) updatePointer(mouse rl.Vector2, consumed bool) {
	g.pointer = systems.PointerTarget{}
	if consumed || !rl.IsCursorOnScreen() || g.overUI(mouse) {
		return
	}
	if !g.cfg.Pointer.AlwaysOn && !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	g.pointer = systems.PointerTarget{Pos: systems.Vec2{X: wx, Y: wy}, Active: true}
}

// overUI reports whether the mouse is over an interactive panel.
func (g *Game) overUI(mouse rl.Vector2) bool {
	if g.overlays.IsEnabled(ui.OverlaySettings) && g.settings.Contains(mouse.X, mouse.Y) {
		return true
	}
	return g.inspector.Contains(mouse.X, mouse.Y)
}
