package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable overlay or panel.
type OverlayID string

const (
	OverlayBounds     OverlayID = "bounds"
	OverlayVelocity   OverlayID = "velocity"
	OverlayPerception OverlayID = "perception"
	OverlayPointer    OverlayID = "pointer"
	OverlayPerf       OverlayID = "perf"
	OverlayFlockStats OverlayID = "flock_stats"
	OverlaySettings   OverlayID = "settings"
)

// Overlay categories, in legend order.
const (
	CategoryWorld  = "world"
	CategoryPanels = "panels"
)

// OverlayDescriptor describes one overlay for the key handler and legend.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // 0 = no key binding
	KeyLabel    string // shown in the controls panel
	Category    string
	Default     bool

	// Exclusive overlays are switched off when this one is switched on.
	// Used for panels that share a screen corner.
	Exclusive []OverlayID
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayBounds, Name: "Bounds", Description: "World edge and the free-roam margin",
		Key: rl.KeyB, KeyLabel: "B", Category: CategoryWorld, Default: true},
	{ID: OverlayVelocity, Name: "Velocity", Description: "Velocity vector of every boid",
		Key: rl.KeyX, KeyLabel: "X", Category: CategoryWorld},
	{ID: OverlayPerception, Name: "Perception", Description: "Ranges and neighbors of the selected boid",
		Key: rl.KeyV, KeyLabel: "V", Category: CategoryWorld, Default: true},
	{ID: OverlayPointer, Name: "Pointer", Description: "Pointer target while it attracts or repels",
		Key: rl.KeyM, KeyLabel: "M", Category: CategoryWorld, Default: true},
	{ID: OverlaySettings, Name: "Settings", Description: "Tunable sliders and mode checkboxes",
		Key: rl.KeyTab, KeyLabel: "Tab", Category: CategoryPanels, Default: true},
	{ID: OverlayPerf, Name: "Performance", Description: "Tick time per pipeline phase",
		Key: rl.KeyF, KeyLabel: "F", Category: CategoryPanels, Exclusive: []OverlayID{OverlayFlockStats}},
	{ID: OverlayFlockStats, Name: "Flock Stats", Description: "Polarization, speed and dispersion",
		Key: rl.KeyG, KeyLabel: "G", Category: CategoryPanels, Exclusive: []OverlayID{OverlayPerf}},
}

// OverlayRegistry tracks which overlays are on.
type OverlayRegistry struct {
	list []OverlayDescriptor
	on   map[OverlayID]bool
}

// NewOverlayRegistry returns a registry holding the built-in overlays in
// their default state.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{on: make(map[OverlayID]bool, len(defaultOverlays))}
	for _, d := range defaultOverlays {
		r.Register(d)
	}
	return r
}

// Register appends d and applies its default state.
func (r *OverlayRegistry) Register(d OverlayDescriptor) {
	r.list = append(r.list, d)
	r.on[d.ID] = d.Default
}

func (r *OverlayRegistry) find(id OverlayID) (OverlayDescriptor, bool) {
	i := slices.IndexFunc(r.list, func(d OverlayDescriptor) bool { return d.ID == id })
	if i < 0 {
		return OverlayDescriptor{}, false
	}
	return r.list[i], true
}

// Toggle flips id and returns its new state. Unknown IDs stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.find(id); !ok {
		return false
	}
	r.SetEnabled(id, !r.on[id])
	return r.on[id]
}

// SetEnabled sets id, switching off its exclusive partners when enabling.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	d, ok := r.find(id)
	if !ok {
		return
	}
	r.on[id] = enabled
	if !enabled {
		return
	}
	for _, other := range d.Exclusive {
		r.on[other] = false
	}
}

// IsEnabled reports whether id is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.on[id]
}

// All returns every overlay in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.list
}

// ByCategory returns the overlays in category, in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.list {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.list {
		if !slices.Contains(cats, d.Category) {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. ok is false when no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, on, ok bool) {
	for _, d := range r.list {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}
