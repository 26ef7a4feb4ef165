package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/systems"
)

// phaseSlot maps a pipeline phase name to its column in tickSample.
var phaseSlot = func() map[string]int {
	m := make(map[string]int, len(systems.Phases))
	for i, name := range systems.Phases {
		m[name] = i
	}
	return m
}()

// tickSample is the wall time of one pipeline tick split by phase.
// Slots are ordered as systems.Phases.
type tickSample struct {
	total  time.Duration
	phases []time.Duration
	seen   []bool
}

// PerfCollector keeps a ring of recent tick timings and the last frame
// interval. It satisfies systems.PhaseTimer.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	open      tickSample
	openStart time.Time
	slot      int // running phase, -1 between phases
	slotStart time.Time

	prevFrame time.Time
	frame     time.Duration

	sorted []float64
}

var _ systems.PhaseTimer = (*PerfCollector)(nil)

// NewPerfCollector returns a collector averaging over the last window
// ticks. Non-positive windows fall back to 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	pc := &PerfCollector{ring: make([]tickSample, window), slot: -1}
	for i := range pc.ring {
		pc.ring[i] = newTickSample()
	}
	pc.open = newTickSample()
	return pc
}

func newTickSample() tickSample {
	return tickSample{
		phases: make([]time.Duration, len(systems.Phases)),
		seen:   make([]bool, len(systems.Phases)),
	}
}

// StartTick opens a new sample.
func (p *PerfCollector) StartTick() {
	p.openStart = time.Now()
	clear(p.open.phases)
	clear(p.open.seen)
	p.slot = -1
}

// StartPhase closes the running phase, if any, and opens phase.
// Names outside systems.Phases only close the running phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closeSlot(now)
	slot, ok := phaseSlot[phase]
	if !ok {
		slot = -1
	}
	p.slot = slot
	p.slotStart = now
}

func (p *PerfCollector) closeSlot(now time.Time) {
	if p.slot < 0 {
		return
	}
	p.open.phases[p.slot] += now.Sub(p.slotStart)
	p.open.seen[p.slot] = true
	p.slot = -1
}

// EndTick closes the open sample and pushes it into the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closeSlot(now)
	p.open.total = now.Sub(p.openStart)

	dst := &p.ring[p.next]
	dst.total = p.open.total
	copy(dst.phases, p.open.phases)
	copy(dst.seen, p.open.seen)

	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// AbortTick drops the open sample, e.g. when the pipeline was paused.
func (p *PerfCollector) AbortTick() {
	p.slot = -1
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.prevFrame.IsZero() {
		p.frame = now.Sub(p.prevFrame)
	}
	p.prevFrame = now
}

// PerfStats summarizes the tick ring and the last frame.
type PerfStats struct {
	AvgTickDuration, MinTickDuration, MaxTickDuration, P95TickDuration time.Duration

	// Per-phase averages, and their share of the average tick in percent.
	// Phases that never ran in the window are absent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration // zero until two frames were drawn
	FPS           float64
}

// Stats aggregates the ring. Phase shares are relative to the average
// tick, so they may not sum to 100 when time is spent between phases.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(systems.Phases)),
		PhasePct:      make(map[string]float64, len(systems.Phases)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return out
	}

	var sum time.Duration
	perPhase := make([]time.Duration, len(systems.Phases))
	observed := make([]bool, len(systems.Phases))
	p.sorted = p.sorted[:0]
	for _, s := range p.ring[:p.count] {
		sum += s.total
		p.sorted = append(p.sorted, float64(s.total))
		for i, d := range s.phases {
			perPhase[i] += d
			observed[i] = observed[i] || s.seen[i]
		}
	}
	sort.Float64s(p.sorted)

	n := time.Duration(p.count)
	out.AvgTickDuration = sum / n
	out.MinTickDuration = time.Duration(p.sorted[0])
	out.MaxTickDuration = time.Duration(p.sorted[len(p.sorted)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, p.sorted, nil))

	for i, name := range systems.Phases {
		if !observed[i] {
			continue
		}
		avg := perPhase[i] / n
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = 100 * float64(avg) / float64(out.AvgTickDuration)
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats emits one "perf" record with rounded figures.
func (s PerfStats) LogStats() {
	args := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"tps", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		args = append(args, "fps", int(s.FPS))
	}
	for _, name := range systems.Phases {
		pct := s.PhasePct[name]
		if pct <= 0.1 {
			continue
		}
		args = append(args, name+"_pct", math.Round(pct*10)/10)
	}
	slog.Info("perf", args...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range systems.Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Tick        uint64  `csv:"tick"`
	Workers     int     `csv:"workers"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	IndexPct    float64 `csv:"index_pct"`
	DispatchPct float64 `csv:"dispatch_pct"`
	VelocityPct float64 `csv:"velocity_pct"`
	MovementPct float64 `csv:"movement_pct"`
	ColorPct    float64 `csv:"color_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(tick uint64, workers int) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:        tick,
		Workers:     workers,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		P95TickUS:   s.P95TickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		IndexPct:    s.PhasePct[systems.PhaseIndex],
		DispatchPct: s.PhasePct[systems.PhaseDispatch],
		VelocityPct: s.PhasePct[systems.PhaseVelocity],
		MovementPct: s.PhasePct[systems.PhaseMovement],
		ColorPct:    s.PhasePct[systems.PhaseColor],
	}
}
