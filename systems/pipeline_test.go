package systems

import (
	"math/rand/v2"
	"testing"
	"time"
)

type phaseRecorder struct {
	phases []string
}

func (r *phaseRecorder) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

func newTestPipeline(t *testing.T, n int, opts PipelineOptions) *Pipeline {
	t.Helper()
	v := testValues()
	arena := NewArena(n)
	SpawnHalton(arena, n, v, rand.New(rand.NewPCG(1, 2)))
	p := NewPipeline(arena, v, opts)
	t.Cleanup(p.Close)
	return p
}

func TestPipelineStepPhases(t *testing.T) {
	tests := []struct {
		name       string
		colorBlend bool
		want       []string
	}{
		{"with color", true, Phases},
		{"without color", false, []string{PhaseIndex, PhaseDispatch, PhaseVelocity, PhaseMovement}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, 20, PipelineOptions{Workers: 2})
			v := p.Tunables().Edit()
			v.ColorBlend = tt.colorBlend
			p.Tunables().Stage(v)

			rec := &phaseRecorder{}
			p.SetPhaseTimer(rec)
			if !p.Step(time.Unix(0, 0), PointerTarget{}) {
				t.Fatal("Step returned false")
			}

			if len(rec.phases) != len(tt.want) {
				t.Fatalf("phases = %v, want %v", rec.phases, tt.want)
			}
			for i := range tt.want {
				if rec.phases[i] != tt.want[i] {
					t.Errorf("phase %d = %q, want %q", i, rec.phases[i], tt.want[i])
				}
			}
		})
	}
}

func TestPipelinePaused(t *testing.T) {
	p := newTestPipeline(t, 10, PipelineOptions{})
	before := append([]Agent(nil), p.Arena().Agents...)

	v := p.Tunables().Edit()
	v.Paused = true
	p.Tunables().Stage(v)

	if p.Step(time.Unix(0, 0), PointerTarget{}) {
		t.Error("paused pipeline reported a tick")
	}
	if p.Ticks() != 0 {
		t.Errorf("ticks = %d, want 0", p.Ticks())
	}
	for i := range before {
		if p.Arena().Agents[i] != before[i] {
			t.Fatalf("agent %d moved while paused", i)
		}
	}

	v.Paused = false
	p.Tunables().Stage(v)
	if !p.Step(time.Unix(0, 0), PointerTarget{}) {
		t.Error("unpaused pipeline did not tick")
	}
	if p.Ticks() != 1 {
		t.Errorf("ticks = %d, want 1", p.Ticks())
	}
}

func TestPipelineStagedValuesApplyAtTickBoundary(t *testing.T) {
	p := newTestPipeline(t, 10, PipelineOptions{})

	v := p.Tunables().Edit()
	v.MaxSpeed = 7
	v.VisRange = 50
	p.Tunables().Stage(v)

	if got := p.Tunables().Current().MaxSpeed; got != 10 {
		t.Errorf("staged value visible before the tick: MaxSpeed %v", got)
	}
	p.Step(time.Unix(0, 0), PointerTarget{})

	cur := p.Tunables().Current()
	if cur.MaxSpeed != 7 {
		t.Errorf("MaxSpeed = %v, want 7", cur.MaxSpeed)
	}
	if cur.VisRangeSq != 2500 {
		t.Errorf("VisRangeSq = %v, want 2500", cur.VisRangeSq)
	}
	for i, ag := range p.Arena().Agents {
		if s := ag.Vel.Len(); s > 7+1e-3 {
			t.Errorf("agent %d speed %v exceeds the new maximum", i, s)
		}
	}
}

func TestTunablesLastStageWins(t *testing.T) {
	tun := NewTunables(testValues())
	if tun.ApplyPending() {
		t.Error("ApplyPending with nothing staged reported a change")
	}

	a := tun.Edit()
	a.Centering = 1
	tun.Stage(a)
	b := tun.Edit()
	if b.Centering != 1 {
		t.Errorf("Edit did not return the pending values")
	}
	b.Centering = 2
	tun.Stage(b)

	if !tun.ApplyPending() {
		t.Fatal("ApplyPending reported no change")
	}
	if got := tun.Current().Centering; got != 2 {
		t.Errorf("Centering = %v, want the last staged value 2", got)
	}
}

func TestPipelineIndexCadence(t *testing.T) {
	p := newTestPipeline(t, 30, PipelineOptions{IndexInterval: time.Hour})
	base := time.Unix(0, 0)

	p.Step(base, PointerTarget{})
	indexed := append([]Agent(nil), p.Arena().Agents...)
	p.Step(base.Add(time.Second), PointerTarget{})

	// Index was built before the first movement and not refreshed since.
	var k Keeper
	got := p.Index().KNearest(nil, indexed[0].Pos.Sub(indexed[0].Vel), 1, &k)
	if len(got) != 1 || got[0].ID != 0 || got[0].DistSq > 1e-3 {
		t.Errorf("index refreshed before its interval: %+v", got)
	}

	p.Step(base.Add(2*time.Hour), PointerTarget{})
	got = p.Index().KNearest(nil, indexed[0].Pos.Sub(indexed[0].Vel), 1, &k)
	if len(got) == 1 && got[0].ID == 0 && got[0].DistSq < 1e-3 {
		t.Errorf("index not refreshed after its interval")
	}
}

func TestPipelineDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) []Agent {
		p := newTestPipeline(t, 150, PipelineOptions{Workers: workers, Threshold: 1})
		now := time.Unix(0, 0)
		for i := 0; i < 20; i++ {
			p.Step(now, PointerTarget{Pos: Vec2{10, 10}, Active: true})
			now = now.Add(16 * time.Millisecond)
		}
		return p.Arena().Agents
	}

	want := run(1)
	got := run(6)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, got[i], want[i])
		}
	}
}
