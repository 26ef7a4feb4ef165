package systems

import (
	"math/rand/v2"
	"testing"
)

func spawnedFrame(t *testing.T, n int) Frame {
	t.Helper()
	v := testValues()
	v.FOV = 2 // exercise cone culling too
	v.MaxNeighbors = 20

	arena := NewArena(n)
	SpawnHalton(arena, n, v, rand.New(rand.NewPCG(11, 12)))
	idx := NewSpatialIndex()
	idx.Rebuild(arena.IndexEntries(nil))

	return Frame{
		Arena:   arena,
		Index:   idx,
		Values:  v,
		Pointer: PointerTarget{Pos: Vec2{30, -20}, Active: true},
	}
}

func TestDispatchChunkCountInvariance(t *testing.T) {
	frame := spawnedFrame(t, 500)

	single := NewDispatcher(1)
	defer single.Stop()
	want := single.Dispatch(frame)

	for _, workers := range []int{2, 3, 8, 64} {
		d := NewDispatcher(workers)
		d.Threshold = 1
		got := d.Dispatch(frame)
		d.Stop()

		if len(got.DV) != len(want.DV) {
			t.Fatalf("workers=%d: %d events, want %d", workers, len(got.DV), len(want.DV))
		}
		byID := make(map[uint32]Vec2, len(got.DV))
		for _, e := range got.DV {
			byID[e.ID] = e.DV
		}
		for _, e := range want.DV {
			if byID[e.ID] != e.DV {
				t.Errorf("workers=%d agent %d: DV %+v, want %+v", workers, e.ID, byID[e.ID], e.DV)
			}
		}

		colors := make(map[uint32]Vec3, len(got.Colors))
		for _, e := range got.Colors {
			colors[e.ID] = e.Color
		}
		for _, e := range want.Colors {
			if colors[e.ID] != e.Color {
				t.Errorf("workers=%d agent %d: color %+v, want %+v", workers, e.ID, colors[e.ID], e.Color)
			}
		}
	}
}

func TestDispatchEvaluatesEachAgentOnce(t *testing.T) {
	frame := spawnedFrame(t, 257)

	d := NewDispatcher(4)
	d.Threshold = 1
	defer d.Stop()

	// Run twice to exercise the persistent pool.
	for round := 0; round < 2; round++ {
		b := d.Dispatch(frame)
		seen := make([]int, frame.Arena.Len())
		for _, e := range b.DV {
			seen[e.ID]++
		}
		for id, c := range seen {
			if c != 1 {
				t.Errorf("round %d: agent %d evaluated %d times", round, id, c)
			}
		}
		if len(b.Colors) != frame.Arena.Len() {
			t.Errorf("round %d: %d color events, want %d", round, len(b.Colors), frame.Arena.Len())
		}
	}
}

func TestDispatchChunkOrder(t *testing.T) {
	frame := spawnedFrame(t, 100)

	d := NewDispatcher(4)
	d.Threshold = 1
	defer d.Stop()

	// Contiguous chunks concatenated in chunk order keep agent order overall.
	b := d.Dispatch(frame)
	for i, e := range b.DV {
		if e.ID != uint32(i) {
			t.Fatalf("event %d has agent %d", i, e.ID)
		}
	}
}

func TestDispatchWithoutColorBlend(t *testing.T) {
	frame := spawnedFrame(t, 80)
	frame.Values.ColorBlend = false

	d := NewDispatcher(2)
	defer d.Stop()

	b := d.Dispatch(frame)
	if len(b.Colors) != 0 {
		t.Errorf("got %d color events with color blend disabled", len(b.Colors))
	}
	if len(b.DV) != 80 {
		t.Errorf("got %d velocity events, want 80", len(b.DV))
	}
}

func TestDispatchDoesNotMutateArena(t *testing.T) {
	frame := spawnedFrame(t, 200)
	before := append([]Agent(nil), frame.Arena.Agents...)

	d := NewDispatcher(4)
	d.Threshold = 1
	defer d.Stop()
	d.Dispatch(frame)

	for i := range before {
		if frame.Arena.Agents[i] != before[i] {
			t.Fatalf("agent %d mutated during dispatch", i)
		}
	}
}

func TestDispatchEmptyArena(t *testing.T) {
	d := NewDispatcher(2)
	defer d.Stop()

	b := d.Dispatch(Frame{Arena: NewArena(0), Index: NewSpatialIndex(), Values: testValues()})
	if len(b.DV) != 0 || len(b.Colors) != 0 {
		t.Errorf("empty arena produced events: %+v", b)
	}
}
