// Package camera provides a 2D camera system for viewport control.
package camera

import "math"

// Camera controls the viewport into the simulation world.
// The world is centered on the origin and spans WorldW x WorldH.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level in screen pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float32

	// Wrap enables toroidal coordinates: points are drawn at their shortest
	// offset from the camera and picked points wrap into the world.
	Wrap bool

	// Zoom constraints
	FitZoom, MinZoom, MaxZoom float32
}

// fitMargin leaves a border around the world at the fitted zoom.
const fitMargin = 0.95

// New creates a camera centered on the world, zoomed so the whole world is visible.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
	}
	c.refit()
	c.Zoom = c.FitZoom
	return c
}

// refit recomputes the zoom that fits the world into the viewport.
func (c *Camera) refit() {
	fit := c.ViewportW / c.WorldW
	if fy := c.ViewportH / c.WorldH; fy < fit {
		fit = fy
	}
	c.FitZoom = fit * fitMargin
	c.MinZoom = c.FitZoom / 2
	c.MaxZoom = c.FitZoom * 8
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := wx - c.X
	dy := wy - c.Y
	if c.Wrap {
		dx = wrapDelta(dx, c.WorldW)
		dy = wrapDelta(dy, c.WorldH)
	}
	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	if c.Wrap {
		wx = wrapDelta(wx, c.WorldW)
		wy = wrapDelta(wy, c.WorldH)
	}
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := wx - c.X
	dy := wy - c.Y
	if c.Wrap {
		dx = wrapDelta(dx, c.WorldW)
		dy = wrapDelta(dy, c.WorldH)
	}

	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(dx) <= halfW && absf(dy) <= halfH
}

// ScaleLength converts a world length to screen pixels.
func (c *Camera) ScaleLength(l float32) float32 {
	return l * c.Zoom
}

// Resize updates viewport dimensions and recalculates zoom constraints.
// The zoom relative to the fitted zoom is preserved.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	rel := c.Zoom / c.FitZoom
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.refit()
	c.SetZoom(c.FitZoom * rel)
}

// Pan moves the camera by the given delta in screen pixels.
// The center stays inside the world.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, -c.WorldW/2, c.WorldW/2)
	c.Y = clamp(c.Y+dy/c.Zoom, -c.WorldH/2, c.WorldH/2)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at the fitted zoom.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
	c.Zoom = c.FitZoom
}

// SetWorld changes the world extent and refits the zoom constraints.
func (c *Camera) SetWorld(worldW, worldH float32) {
	if worldW == c.WorldW && worldH == c.WorldH {
		return
	}
	c.WorldW = worldW
	c.WorldH = worldH
	c.refit()
	c.Reset()
}

// wrapDelta maps d into [-size/2, size/2).
func wrapDelta(d, size float32) float32 {
	r := float32(math.Mod(float64(d+size/2), float64(size)))
	if r < 0 {
		r += size
	}
	return r - size/2
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
