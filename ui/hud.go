package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Profile        string
	Count          int
	Tick           uint64
	StepsPerUpdate int
	FPS            int32
	TicksPerSecond float64
	Workers        int
	Values         systems.Values
	PointerActive  bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Boids: %d | Profile: %s | Workers: %d", data.Count, data.Profile, data.Workers),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | TPS: %.0f", data.Tick, data.StepsPerUpdate, data.FPS, data.TicksPerSecond),
		10, 55, 16, rl.LightGray,
	)

	status := "Running"
	if data.Values.Paused {
		status = "PAUSED"
	}
	if modes := ModeSummary(data.Values); modes != "" {
		status += " | " + modes
	}
	if data.PointerActive {
		status += " | pointer"
	}
	rl.DrawText(status, 10, 75, 16, rl.Yellow)
}

// ModeSummary lists the active mode flags other than pause.
func ModeSummary(v systems.Values) string {
	var modes []string
	if v.PredatorMode {
		modes = append(modes, "predator")
	}
	if v.Toroidal {
		modes = append(modes, "toroidal")
	}
	if v.ColorBlend {
		modes = append(modes, "color")
	}
	return strings.Join(modes, " ")
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase pipeline timing.
type PerfPanel struct {
	renderer *Renderer
	phases   *systems.PhaseRegistry
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		phases:   systems.NewPhaseRegistry(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	phases := p.phases.All()
	height := int32(len(phases)+4)*r.Theme.LineHeight + 2*pad
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := p.y + pad
	rl.DrawText("Pipeline", x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	y = r.DrawLabelValue(x, y, "Tick avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Tick p95", stats.P95TickDuration.Round(time.Microsecond).String())

	for _, phase := range phases {
		pct := stats.PhasePct[phase.ID]
		fill := r.Theme.BarFill
		if pct > 50 {
			fill = r.Theme.HotColor
		} else if pct > 25 {
			fill = r.Theme.WarnColor
		}
		text := fmt.Sprintf("%5.1f%%", pct)
		label := phase.Name
		if phase.Parallel {
			label += "*"
		}
		y = r.DrawBar(x, y, label, float32(pct/100), text, p.width-2*pad, fill)
	}
}

// FlockStatsPanel renders the latest flock statistics.
type FlockStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFlockStatsPanel creates a new flock stats panel.
func NewFlockStatsPanel(x, y, width int32) *FlockStatsPanel {
	return &FlockStatsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (f *FlockStatsPanel) SetPosition(x, y int32) {
	f.x = x
	f.y = y
}

// Draw renders the flock stats panel.
func (f *FlockStatsPanel) Draw(s telemetry.FlockStats) {
	r := f.renderer
	pad := r.Theme.Padding
	width := f.width - 2*pad
	height := 9*r.Theme.LineHeight + 2*pad
	r.DrawPanel(f.x, f.y, f.width, height)

	x := f.x + pad
	y := f.y + pad
	rl.DrawText("Flock", x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	y = r.DrawBar(x, y, "Polarization", float32(s.Polarization), fmt.Sprintf("%.2f", s.Polarization), width, r.Theme.BarFill)
	y = r.DrawBar(x, y, "Hue coherence", float32(s.HueCoherence), fmt.Sprintf("%.2f", s.HueCoherence), width,
		rl.ColorFromHSV(float32(s.HueMean), 0.75, 0.95))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f +/- %.2f", s.SpeedMean, s.SpeedStd))
	y = r.DrawLabelValue(x, y, "Speed p10/90", fmt.Sprintf("%.2f / %.2f", s.SpeedP10, s.SpeedP90))
	y = r.DrawLabelValue(x, y, "Centroid", fmt.Sprintf("(%.0f, %.0f)", s.CentroidX, s.CentroidY))
	y = r.DrawLabelValue(x, y, "Dispersion", fmt.Sprintf("%.1f", s.Dispersion))
	r.DrawLabelValue(x, y, "Sampled", fmt.Sprintf("tick %d", s.Tick))
}
