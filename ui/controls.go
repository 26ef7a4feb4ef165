package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/systems"
)

// ControlsPanel lists overlay toggles and mode keys with their state.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, toggles []ToggleDescriptor, v systems.Values) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := len(overlays.All()) + len(categories) + len(toggles) + 2
	height := int32(rows)*lineHeight + padding*2 + int32(len(categories)+1)*4

	r.DrawPanel(c.x, c.y, c.width, height)
	y := c.y + padding
	rl.DrawText("Controls [H]", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			y = r.DrawIndicator(c.x+padding, y, desc.Name, desc.KeyLabel, overlays.IsEnabled(desc.ID), c.width-padding*2)
		}
		y += 4
	}

	y = r.DrawSectionHeader(c.x+padding, y, "Modes")
	for _, t := range toggles {
		y = r.DrawIndicator(c.x+padding, y, t.Label, t.KeyLabel, t.Get(&v), c.width-padding*2)
	}
	return y + padding
}

func categoryLabel(cat string) string {
	switch cat {
	case CategoryWorld:
		return "World"
	case CategoryPanels:
		return "Panels"
	}
	return cat
}
