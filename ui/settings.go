package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/systems"
)

const degPerRad = 180 / math.Pi

// DefaultSliders returns the sliders of the settings panel in display order.
func DefaultSliders() []SliderDescriptor {
	return []SliderDescriptor{
		{ID: "vis_range", Label: "Visual range", Format: "%.0f", Min: 1, Max: 150, Section: "Perception",
			Get: func(v *systems.Values) float32 { return v.VisRange },
			Set: func(v *systems.Values, x float32) { v.VisRange = x }},
		{ID: "prot_range", Label: "Protected", Format: "%.0f", Min: 1, Max: 50, Section: "Perception",
			Get: func(v *systems.Values) float32 { return v.ProtRange },
			Set: func(v *systems.Values, x float32) { v.ProtRange = x }},
		{ID: "fov", Label: "FOV (deg)", Format: "%.0f", Min: 0, Max: 180, Section: "Perception",
			Get: func(v *systems.Values) float32 { return v.FOV * degPerRad },
			Set: func(v *systems.Values, x float32) { v.FOV = x / degPerRad }},
		{ID: "max_neighbors", Label: "Neighbors", Format: "%.0f", Min: 1, Max: 200, Section: "Perception",
			Get: func(v *systems.Values) float32 { return float32(v.MaxNeighbors) },
			Set: func(v *systems.Values, x float32) { v.MaxNeighbors = max(1, int(math.Round(float64(x)))) }},

		{ID: "centering", Label: "Cohesion", Format: "%.4f", Min: 0, Max: 0.01, Section: "Weights",
			Get: func(v *systems.Values) float32 { return v.Centering },
			Set: func(v *systems.Values, x float32) { v.Centering = x }},
		{ID: "avoidance", Label: "Separation", Format: "%.3f", Min: 0, Max: 0.5, Section: "Weights",
			Get: func(v *systems.Values) float32 { return v.Avoidance },
			Set: func(v *systems.Values, x float32) { v.Avoidance = x }},
		{ID: "matching", Label: "Alignment", Format: "%.3f", Min: 0, Max: 0.5, Section: "Weights",
			Get: func(v *systems.Values) float32 { return v.Matching },
			Set: func(v *systems.Values, x float32) { v.Matching = x }},
		{ID: "mouse_chase", Label: "Pointer", Format: "%.4f", Min: 0, Max: 0.005, Section: "Weights",
			Get: func(v *systems.Values) float32 { return v.MouseChase },
			Set: func(v *systems.Values, x float32) { v.MouseChase = x }},

		{ID: "min_speed", Label: "Min speed", Format: "%.1f", Min: 0, Max: 30, Section: "Motion",
			Get: func(v *systems.Values) float32 { return v.MinSpeed },
			Set: func(v *systems.Values, x float32) {
				v.MinSpeed = x
				v.MaxSpeed = max(v.MaxSpeed, x)
			}},
		{ID: "max_speed", Label: "Max speed", Format: "%.1f", Min: 0, Max: 30, Section: "Motion",
			Get: func(v *systems.Values) float32 { return v.MaxSpeed },
			Set: func(v *systems.Values, x float32) {
				v.MaxSpeed = x
				v.MinSpeed = min(v.MinSpeed, x)
			}},
		{ID: "turn_factor", Label: "Turn factor", Format: "%.2f", Min: 0, Max: 2, Section: "Motion",
			Get: func(v *systems.Values) float32 { return v.TurnFactor },
			Set: func(v *systems.Values, x float32) { v.TurnFactor = x }},
		{ID: "bound_size", Label: "Free area %", Format: "%.0f", Min: 10, Max: 100, Section: "Motion",
			Get: func(v *systems.Values) float32 { return v.BoundSize },
			Set: func(v *systems.Values, x float32) { v.BoundSize = x }},

		{ID: "blend_factor", Label: "Blend", Format: "%.2f", Min: 0, Max: 1, Section: "Color",
			Get: func(v *systems.Values) float32 { return v.ColorBlendFactor },
			Set: func(v *systems.Values, x float32) { v.ColorBlendFactor = x }},
		{ID: "revert_factor", Label: "Revert", Format: "%.2f", Min: 0, Max: 1, Section: "Color",
			Get: func(v *systems.Values) float32 { return v.ColorRevertFactor },
			Set: func(v *systems.Values, x float32) { v.ColorRevertFactor = x }},
	}
}

// DefaultToggles returns the mode flags with their key bindings.
func DefaultToggles() []ToggleDescriptor {
	return []ToggleDescriptor{
		{ID: "paused", Label: "Paused", Key: rl.KeySpace, KeyLabel: "Space",
			Get: func(v *systems.Values) bool { return v.Paused },
			Set: func(v *systems.Values, on bool) { v.Paused = on }},
		{ID: "predator", Label: "Predator", Key: rl.KeyP, KeyLabel: "P",
			Get: func(v *systems.Values) bool { return v.PredatorMode },
			Set: func(v *systems.Values, on bool) { v.PredatorMode = on }},
		{ID: "toroidal", Label: "Toroidal", Key: rl.KeyT, KeyLabel: "T",
			Get: func(v *systems.Values) bool { return v.Toroidal },
			Set: func(v *systems.Values, on bool) { v.Toroidal = on }},
		{ID: "color_blend", Label: "Color blend", Key: rl.KeyC, KeyLabel: "C",
			Get: func(v *systems.Values) bool { return v.ColorBlend },
			Set: func(v *systems.Values, on bool) { v.ColorBlend = on }},
	}
}

// ToggleByKey flips the mode bound to key in v.
// It returns the toggle and true when key is bound.
func ToggleByKey(toggles []ToggleDescriptor, key int32, v *systems.Values) (ToggleDescriptor, bool) {
	for _, t := range toggles {
		if t.Key != 0 && t.Key == key {
			t.Set(v, !t.Get(v))
			return t, true
		}
	}
	return ToggleDescriptor{}, false
}

// SetSlider writes x, clamped to the slider range, into v.
// It reports whether the value changed.
func SetSlider(d SliderDescriptor, v *systems.Values, x float32) bool {
	x = min(max(x, d.Min), d.Max)
	before := *v
	d.Set(v, x)
	return *v != before
}

// SettingsPanel draws raygui controls over a Values snapshot.
type SettingsPanel struct {
	renderer *Renderer
	sliders  []SliderDescriptor
	toggles  []ToggleDescriptor
	x, y     int32
	width    int32
}

// NewSettingsPanel creates a settings panel with the default descriptors.
func NewSettingsPanel(x, y, width int32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		sliders:  DefaultSliders(),
		toggles:  DefaultToggles(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggles returns the mode descriptors, for keyboard handling.
func (s *SettingsPanel) Toggles() []ToggleDescriptor {
	return s.toggles
}

// Height returns the panel height for the current descriptors.
func (s *SettingsPanel) Height() int32 {
	lh := s.renderer.Theme.LineHeight
	sections := 0
	prev := ""
	for _, d := range s.sliders {
		if d.Section != prev {
			sections++
			prev = d.Section
		}
	}
	rows := int32(len(s.sliders)) + int32(sections) + int32(len(s.toggles)+1)/2 + 2
	return rows*(lh+4) + 2*s.renderer.Theme.Padding + 30
}

// Contains reports whether a screen point lies on the panel.
func (s *SettingsPanel) Contains(x, y float32) bool {
	return int32(x) >= s.x && int32(x) <= s.x+s.width &&
		int32(y) >= s.y && int32(y) <= s.y+s.Height()
}

// Draw renders the controls for v and returns the edited copy.
// changed is true when any control moved; reset is true when the
// defaults button was pressed.
func (s *SettingsPanel) Draw(v systems.Values) (out systems.Values, changed, reset bool) {
	r := s.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight + 4

	r.DrawPanel(s.x, s.y, s.width, s.Height())
	x := s.x + pad
	y := s.y + pad
	inner := s.width - 2*pad
	rl.DrawText("Settings", x, y, 16, rl.White)
	y += lh + 2

	section := ""
	for _, d := range s.sliders {
		if d.Section != section {
			section = d.Section
			r.DrawSectionHeader(x, y, section)
			y += lh
		}
		cur := d.Get(&v)
		rl.DrawText(d.Label, x, y+2, r.Theme.FontSize, r.Theme.LabelColor)
		bounds := rl.Rectangle{
			X:      float32(x + r.Theme.LabelWidth),
			Y:      float32(y),
			Width:  float32(inner - r.Theme.LabelWidth - 60),
			Height: float32(r.Theme.LineHeight),
		}
		next := gui.SliderBar(bounds, "", "", cur, d.Min, d.Max)
		rl.DrawText(fmt.Sprintf(d.Format, cur), int32(bounds.X+bounds.Width)+6, y+2, r.Theme.FontSize, r.Theme.ValueColor)
		if next != cur && SetSlider(d, &v, next) {
			changed = true
		}
		y += lh
	}

	y = r.DrawSectionHeader(x, y+4, "Modes")
	for i, t := range s.toggles {
		col := int32(i % 2)
		box := rl.Rectangle{X: float32(x + col*inner/2), Y: float32(y), Width: 14, Height: 14}
		label := fmt.Sprintf("%s [%s]", t.Label, t.KeyLabel)
		if on := gui.CheckBox(box, label, t.Get(&v)); on != t.Get(&v) {
			t.Set(&v, on)
			changed = true
		}
		if col == 1 || i == len(s.toggles)-1 {
			y += lh
		}
	}

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y + 4), Width: float32(inner), Height: 24}, "Reset to profile") {
		reset = true
	}
	return v, changed, reset
}
