package systems

// Agent is one boid record. Its identity is its index in the Arena.
type Agent struct {
	Pos        Vec2
	Vel        Vec2
	Heading    float32 // radians, derived from Vel by ApplyMovement
	Color      Vec3
	StartColor Vec3
}

// Arena stores every agent of a run, indexed by a stable uint32 identity.
// Agents are appended at spawn and never removed.
type Arena struct {
	Agents []Agent
}

// NewArena creates an arena with room for n agents.
func NewArena(n int) *Arena {
	return &Arena{Agents: make([]Agent, 0, n)}
}

// Add appends an agent and returns its identity.
func (a *Arena) Add(ag Agent) uint32 {
	a.Agents = append(a.Agents, ag)
	return uint32(len(a.Agents) - 1)
}

// Len returns the number of agents.
func (a *Arena) Len() int {
	return len(a.Agents)
}

// Get returns the agent with the given identity, or nil if it does not exist.
func (a *Arena) Get(id uint32) *Agent {
	if int(id) >= len(a.Agents) {
		return nil
	}
	return &a.Agents[id]
}

// IndexEntries appends (id, position) pairs for every agent to dst.
func (a *Arena) IndexEntries(dst []IndexEntry) []IndexEntry {
	for i := range a.Agents {
		dst = append(dst, IndexEntry{ID: uint32(i), Pos: a.Agents[i].Pos})
	}
	return dst
}
