package systems

// PhaseInfo describes a pipeline phase for UI display.
type PhaseInfo struct {
	ID          string // Phase name reported to the PhaseTimer
	Name        string // Display name
	Description string // What this phase does
	Parallel    bool   // Runs on the dispatcher's workers
}

// PhaseRegistry holds metadata about the pipeline phases.
// This centralizes phase naming so the UI and perf tracker stay in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with every phase in execution order.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{
		byID: make(map[string]PhaseInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all phases to the registry.
// Keep in step with Phases.
func (r *PhaseRegistry) registerDefaults() {
	r.Register(PhaseInfo{ID: PhaseIndex, Name: "Index", Description: "Rebuilds the k-d tree when due"})
	r.Register(PhaseInfo{ID: PhaseDispatch, Name: "Steering", Description: "Evaluates flocking rules per boid", Parallel: true})
	r.Register(PhaseInfo{ID: PhaseVelocity, Name: "Velocity", Description: "Applies steering and clamps speed"})
	r.Register(PhaseInfo{ID: PhaseMovement, Name: "Movement", Description: "Integrates positions and headings"})
	r.Register(PhaseInfo{ID: PhaseColor, Name: "Color", Description: "Blends colors toward neighbors"})
}

// Register adds a phase to the registry.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	r.phases = append(r.phases, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// IDs returns all phase IDs in registration order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
