// Package ui provides a descriptor-driven UI for the simulation.
// Tunables, mode toggles and overlays are declared as metadata so panels,
// keyboard bindings and the settings sliders stay in sync with the
// simulation values they edit.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/systems"
)

// SliderDescriptor binds a numeric tunable to a slider.
type SliderDescriptor struct {
	ID       string  // Unique identifier
	Label    string  // Display label
	Format   string  // Printf format for the current value
	Min, Max float32 // Slider range in display units
	Section  string  // Logical grouping

	Get func(v *systems.Values) float32
	Set func(v *systems.Values, x float32)
}

// ToggleDescriptor binds a boolean tunable to a checkbox and a key.
type ToggleDescriptor struct {
	ID       string
	Label    string
	Key      int32  // Keyboard key (0 = none)
	KeyLabel string // Key label for display
	Get      func(v *systems.Values) bool
	Set      func(v *systems.Values, on bool)
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	DimColor       rl.Color
	OnColor        rl.Color
	OffColor       rl.Color
	WarnColor      rl.Color
	HotColor       rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		DimColor:       rl.Color{R: 150, G: 150, B: 150, A: 255},
		OnColor:        rl.Color{R: 100, G: 200, B: 100, A: 255},
		OffColor:       rl.Color{R: 80, G: 80, B: 80, A: 255},
		WarnColor:      rl.Orange,
		HotColor:       rl.Red,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
