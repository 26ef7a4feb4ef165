package systems

// Values is an immutable snapshot of the flocking tunables for one tick.
// Pipeline stages receive it by value and never observe a partial update.
//
// Preconditions are not checked here: MinSpeed <= MaxSpeed, non-negative
// radii and MaxNeighbors > 0 are the caller's responsibility.
type Values struct {
	Count     int     // agents spawned at start
	BoidSize  float32 // render scale
	BoidSpeed float32 // initial speed at spawn

	MaxNeighbors int     // k for nearest-neighbor queries
	VisRange     float32 // perception radius
	ProtRange    float32 // separation radius
	FOV          float32 // half-angle of the perception cone, radians

	Centering  float32 // cohesion weight
	Avoidance  float32 // separation weight
	Matching   float32 // alignment weight
	MouseChase float32 // pointer weight

	MinSpeed float32
	MaxSpeed float32

	Bounds     Vec2    // full world extent, centered on the origin
	BoundSize  float32 // percent of the half-bounds agents roam freely in
	TurnFactor float32 // inward nudge applied outside the free area

	ColorBlendFactor  float32 // lerp toward neighborhood color
	ColorRevertFactor float32 // lerp toward start color when isolated

	PredatorMode bool
	Toroidal     bool
	ColorBlend   bool
	Paused       bool

	// Derived, see WithDerived.
	VisRangeSq  float32
	ProtRangeSq float32
}

// WithDerived returns a copy of v with the squared radii recomputed.
func (v Values) WithDerived() Values {
	v.VisRangeSq = v.VisRange * v.VisRange
	v.ProtRangeSq = v.ProtRange * v.ProtRange
	return v
}

// Limits returns the per-axis coordinate beyond which bounded-mode steering kicks in.
func (v Values) Limits() Vec2 {
	f := v.BoundSize / 100
	return Vec2{v.Bounds.X / 2 * f, v.Bounds.Y / 2 * f}
}

// Tunables holds the live Values and at most one pending replacement.
// Writers call Stage at any time from the host thread; the pipeline calls
// ApplyPending at tick boundaries only.
type Tunables struct {
	current Values
	pending *Values
}

// NewTunables creates a holder seeded with v.
func NewTunables(v Values) *Tunables {
	return &Tunables{current: v.WithDerived()}
}

// Current returns the snapshot used by the running tick.
func (t *Tunables) Current() Values {
	return t.current
}

// Edit returns the most recent values, pending or current, for a UI to modify.
func (t *Tunables) Edit() Values {
	if t.pending != nil {
		return *t.pending
	}
	return t.current
}

// Stage queues v to become current at the next ApplyPending.
// A later Stage replaces an earlier one.
func (t *Tunables) Stage(v Values) {
	v = v.WithDerived()
	t.pending = &v
}

// ApplyPending promotes the staged values, reporting whether anything changed.
func (t *Tunables) ApplyPending() bool {
	if t.pending == nil {
		return false
	}
	t.current = *t.pending
	t.pending = nil
	return true
}
