// Package inspector shows the components of a selected boid and its
// perception area.
package inspector

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/systems"
)

// Panel dimensions
const (
	PanelWidth   = 280
	PanelPadding = 10
	HeaderHeight = 30
	SectionGap   = 22
)

// PickRadius is the screen distance within which a click selects a boid.
const PickRadius = 12

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}

	ColorVisRange  = rl.Color{R: 120, G: 200, B: 255, A: 40}
	ColorProtRange = rl.Color{R: 255, G: 120, B: 120, A: 90}
	ColorLink      = rl.Color{R: 255, G: 255, B: 255, A: 70}
)

// Maps bundles the component lookups the inspector reads.
type Maps struct {
	Boid *ecs.Map1[components.Boid]
	Pos  *ecs.Map1[components.Position]
	Vel  *ecs.Map1[components.Velocity]
	Rot  *ecs.Map1[components.Rotation]
	Tint *ecs.Map1[components.Tint]
}

// Inspector manages boid selection and panel rendering.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32

	keeper    systems.Keeper
	neighbors []systems.Neighbor
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize anchors the panel to the right edge of the new screen.
func (ins *Inspector) Resize(screenWidth, _ int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleInput selects the boid under a right click and handles the close button.
// It reports whether the mouse event was consumed by the panel.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, cam *camera.Camera, filter *ecs.Filter2[components.Position, components.Boid]) bool {
	if ins.hasSelected && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		closeX := float32(ins.panelX + PanelWidth - 25)
		closeY := float32(ins.panelY + 5)
		if mouseX >= closeX && mouseX <= closeX+20 && mouseY >= closeY && mouseY <= closeY+20 {
			ins.Deselect()
			return true
		}
	}
	if ins.Contains(mouseX, mouseY) {
		return true
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		return false
	}

	wx, wy := cam.ScreenToWorld(mouseX, mouseY)
	e, ok := Pick(filter, wx, wy, PickRadius/cam.Zoom, cam)
	if !ok {
		ins.Deselect()
		return false
	}
	ins.Select(e)
	return false
}

// Pick returns the entity nearest to (wx, wy) within radius world units.
// Distances are measured on the torus when cam wraps.
func Pick(filter *ecs.Filter2[components.Position, components.Boid], wx, wy, radius float32, cam *camera.Camera) (ecs.Entity, bool) {
	var closest ecs.Entity
	best := radius * radius
	found := false

	target := systems.Vec2{X: wx, Y: wy}
	query := filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		d := systems.Vec2{X: pos.X, Y: pos.Y}.Sub(target)
		if cam != nil && cam.Wrap {
			d = systems.ToroidalDelta(target, systems.Vec2{X: pos.X, Y: pos.Y}, cam.WorldW, cam.WorldH)
		}
		if distSq := d.LenSq(); distSq <= best {
			closest = query.Entity()
			best = distSq
			found = true
		}
	}
	return closest, found
}

// Select makes e the inspected entity.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Contains reports whether a screen point lies on the open panel.
func (ins *Inspector) Contains(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.panelHeight()
}

func (ins *Inspector) sections(world *ecs.World, m Maps) ([]Section, bool) {
	if !ins.hasSelected || !world.Alive(ins.selected) {
		return nil, false
	}
	e := ins.selected
	return ExtractSections(m.Boid.Get(e), m.Pos.Get(e), m.Vel.Get(e), m.Rot.Get(e), m.Tint.Get(e)), true
}

// panelHeight is computed from the components every boid carries.
func (ins *Inspector) panelHeight() int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, s := range ExtractSections(&components.Boid{}, &components.Position{}, &components.Velocity{},
		&components.Rotation{}, &components.Tint{}) {
		h += SectionGap
		for _, f := range s.Fields {
			h += FieldHeight(f)
		}
	}
	return h + 2*18 + PanelPadding
}

// Draw renders the inspector panel if a boid is selected.
func (ins *Inspector) Draw(world *ecs.World, m Maps) {
	sections, ok := ins.sections(world, m)
	if !ok {
		ins.Deselect()
		return
	}

	height := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, s := range sections {
		rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
		rl.DrawText(s.Title, x+2, y, 14, ColorSectionText)
		y += SectionGap
		for _, f := range s.Fields {
			y += DrawField(x, y, f)
		}
	}

	if vel := m.Vel.Get(ins.selected); vel != nil {
		y += DrawLabel(x, y, "Speed", vel.Speed(), nil)
	}
	DrawLabel(x, y, "Neighbors", len(ins.neighbors), nil)
}

// DrawSelectionHighlight draws the perception area of the selected boid:
// the visual range cone, the protected range and links to the neighbors
// inside the visual range.
func (ins *Inspector) DrawSelectionHighlight(world *ecs.World, m Maps, cam *camera.Camera, pipe *systems.Pipeline) {
	ins.neighbors = ins.neighbors[:0]
	if !ins.hasSelected || !world.Alive(ins.selected) {
		return
	}
	boid := m.Boid.Get(ins.selected)
	pos := m.Pos.Get(ins.selected)
	rot := m.Rot.Get(ins.selected)
	if boid == nil || pos == nil || rot == nil {
		return
	}

	v := pipe.Tunables().Current()
	sx, sy := cam.WorldToScreen(pos.X, pos.Y)
	center := rl.Vector2{X: sx, Y: sy}

	ins.neighbors = perceived(ins.neighbors, &ins.keeper, pipe, boid.ID, v)
	for _, n := range ins.neighbors {
		other := pipe.Arena().Get(n.ID)
		ox, oy := cam.WorldToScreen(other.Pos.X, other.Pos.Y)
		rl.DrawLineV(center, rl.Vector2{X: ox, Y: oy}, ColorLink)
	}

	vis := cam.ScaleLength(v.VisRange)
	headingDeg := float64(rot.Heading) * 180 / math.Pi
	fovDeg := float64(v.FOV) * 180 / math.Pi
	rl.DrawCircleSector(center, vis, float32(headingDeg-fovDeg), float32(headingDeg+fovDeg), 32, ColorVisRange)
	rl.DrawCircleLinesV(center, cam.ScaleLength(v.ProtRange), ColorProtRange)
	rl.DrawCircleLinesV(center, cam.ScaleLength(v.BoidSize*8), rl.Yellow)
}

// perceived appends the neighbors of id that lie within the visual range
// and field of view, using the same index the pipeline steers with.
func perceived(dst []systems.Neighbor, keeper *systems.Keeper, pipe *systems.Pipeline, id uint32, v systems.Values) []systems.Neighbor {
	self := pipe.Arena().Get(id)
	if self == nil {
		return dst
	}
	start := len(dst)
	dst = pipe.Index().KNearest(dst, self.Pos, v.MaxNeighbors, keeper)

	heading := systems.FromAngle(self.Heading)
	out := dst[:start]
	for _, n := range dst[start:] {
		other := pipe.Arena().Get(n.ID)
		if n.ID == id || other == nil {
			continue
		}
		if _, _, ok := systems.Perceives(self.Pos, heading, other.Pos, v); ok {
			out = append(out, n)
		}
	}
	return out
}
