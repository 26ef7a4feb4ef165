package systems

import "time"

// Phase names for the simulation step.
const (
	PhaseIndex    = "index"
	PhaseDispatch = "dispatch"
	PhaseVelocity = "velocity"
	PhaseMovement = "movement"
	PhaseColor    = "color"
)

// Phases lists every phase in execution order.
var Phases = []string{PhaseIndex, PhaseDispatch, PhaseVelocity, PhaseMovement, PhaseColor}

// PhaseTimer is notified at the start of each pipeline phase.
type PhaseTimer interface {
	StartPhase(phase string)
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Workers       int           // 0 = GOMAXPROCS
	Threshold     int           // inline evaluation below this many agents; 0 = default
	IndexInterval time.Duration // spatial index refresh cadence; 0 = every tick
}

// Pipeline runs the flocking stages in order, once per tick.
type Pipeline struct {
	arena      *Arena
	tunables   *Tunables
	index      *SpatialIndex
	schedule   RebuildSchedule
	dispatcher *Dispatcher
	timer      PhaseTimer

	entries []IndexEntry
	ticks   uint64
}

// NewPipeline creates a pipeline over arena seeded with v.
func NewPipeline(arena *Arena, v Values, opts PipelineOptions) *Pipeline {
	d := NewDispatcher(opts.Workers)
	if opts.Threshold > 0 {
		d.Threshold = opts.Threshold
	}
	return &Pipeline{
		arena:      arena,
		tunables:   NewTunables(v),
		index:      NewSpatialIndex(),
		schedule:   RebuildSchedule{Interval: opts.IndexInterval},
		dispatcher: d,
		entries:    make([]IndexEntry, 0, arena.Len()),
	}
}

// SetPhaseTimer installs t to observe phase boundaries; nil disables it.
func (p *Pipeline) SetPhaseTimer(t PhaseTimer) {
	p.timer = t
}

// Arena returns the agents driven by this pipeline.
func (p *Pipeline) Arena() *Arena { return p.arena }

// Tunables returns the configuration holder. Stage edits there between ticks.
func (p *Pipeline) Tunables() *Tunables { return p.tunables }

// Index returns the spatial index.
func (p *Pipeline) Index() *SpatialIndex { return p.index }

// Ticks returns the number of completed ticks.
func (p *Pipeline) Ticks() uint64 { return p.ticks }

// Workers returns the dispatcher pool size.
func (p *Pipeline) Workers() int { return p.dispatcher.NumWorkers() }

// Step runs one tick at wall time now. It returns false when paused.
func (p *Pipeline) Step(now time.Time, pointer PointerTarget) bool {
	p.tunables.ApplyPending()
	v := p.tunables.Current()
	if v.Paused {
		return false
	}

	p.phase(PhaseIndex)
	if p.schedule.Due(now) {
		p.entries = p.arena.IndexEntries(p.entries[:0])
		p.index.Rebuild(p.entries)
	}

	p.phase(PhaseDispatch)
	batch := p.dispatcher.Dispatch(Frame{
		Arena:   p.arena,
		Index:   p.index,
		Values:  v,
		Pointer: pointer,
	})

	p.phase(PhaseVelocity)
	ApplyVelocity(p.arena, batch.DV, v)

	p.phase(PhaseMovement)
	ApplyMovement(p.arena, v)

	if v.ColorBlend {
		p.phase(PhaseColor)
		ApplyColors(p.arena, batch.Colors)
	}

	p.ticks++
	return true
}

// Close stops the worker pool.
func (p *Pipeline) Close() {
	p.dispatcher.Stop()
}

func (p *Pipeline) phase(name string) {
	if p.timer != nil {
		p.timer.StartPhase(name)
	}
}
