package systems

import (
	"math"
	"testing"
)

const eps = 1e-5

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

// testValues mirrors the desktop profile with a full-circle field of view.
func testValues() Values {
	return Values{
		Count:             100,
		BoidSpeed:         5,
		MaxNeighbors:      100,
		VisRange:          35,
		ProtRange:         10,
		FOV:               math.Pi,
		Centering:         0.0008,
		Avoidance:         0.05,
		Matching:          0.05,
		MouseChase:        0.0006,
		MinSpeed:          5,
		MaxSpeed:          10,
		Bounds:            Vec2{800, 400},
		BoundSize:         98,
		TurnFactor:        0.5,
		ColorBlendFactor:  0.1,
		ColorRevertFactor: 0.05,
		ColorBlend:        true,
	}.WithDerived()
}

// allNeighbors lists every agent of the arena as a candidate neighbor.
func allNeighbors(a *Arena) []Neighbor {
	out := make([]Neighbor, a.Len())
	for i := range out {
		out[i] = Neighbor{ID: uint32(i)}
	}
	return out
}

func twoAgents(b Agent) *Arena {
	a := NewArena(2)
	a.Add(Agent{
		Vel:        Vec2{5, 0},
		Color:      Vec3{0, 1, 1},
		StartColor: Vec3{100, 1, 1},
	})
	a.Add(b)
	return a
}

func TestComputeDVPairPullsTogether(t *testing.T) {
	v := testValues()
	v.ProtRange = 2
	v.FOV = 4 // wider than pi: agents see straight behind
	v = v.WithDerived()

	a := NewArena(2)
	a.Add(Agent{Pos: Vec2{0, 0}, Vel: Vec2{5, 0}})
	a.Add(Agent{Pos: Vec2{5, 0}, Vel: Vec2{5, 0}})
	nb := allNeighbors(a)

	first := ComputeDV(0, a, nb, v, PointerTarget{})
	second := ComputeDV(1, a, nb, v, PointerTarget{})

	// Equal velocities: alignment contributes nothing, only cohesion remains.
	if !near(first.DV.X, 5*v.Centering) || first.DV.Y != 0 {
		t.Errorf("first DV = %+v, want (%v, 0)", first.DV, 5*v.Centering)
	}
	if !near(second.DV.X, -5*v.Centering) || second.DV.Y != 0 {
		t.Errorf("second DV = %+v, want (%v, 0)", second.DV, -5*v.Centering)
	}
}

func TestComputeDVOutOfRange(t *testing.T) {
	v := testValues()
	a := twoAgents(Agent{Pos: Vec2{36, 0}, Vel: Vec2{0, 9}})

	got := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})
	if got.DV != (Vec2{}) {
		t.Errorf("neighbor beyond visibility range changed DV: %+v", got.DV)
	}
}

func TestComputeDVFieldOfView(t *testing.T) {
	v := testValues()
	v.FOV = 120 * math.Pi / 180

	tests := []struct {
		name    string
		pos     Vec2
		visible bool
	}{
		{"ahead", Vec2{20, 0}, true},
		{"beside", Vec2{0, 20}, true},
		{"directly behind", Vec2{-20, 0}, false},
		{"behind and close", Vec2{-3, 0}, false},
		{"behind at an angle", Vec2{-15, 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := twoAgents(Agent{Pos: tt.pos, Vel: Vec2{0, 7}, Color: Vec3{200, 0, 0}})
			got := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})

			if tt.visible && got.DV == (Vec2{}) {
				t.Errorf("visible neighbor had no influence")
			}
			if !tt.visible {
				if got.DV != (Vec2{}) {
					t.Errorf("hidden neighbor changed DV: %+v", got.DV)
				}
				want := a.Agents[0].Color.Lerp(a.Agents[0].StartColor, v.ColorRevertFactor)
				if got.Color != want {
					t.Errorf("hidden neighbor changed color: got %+v, want %+v", got.Color, want)
				}
			}
		})
	}
}

func TestComputeDVOverlapIsNotCulledByFOV(t *testing.T) {
	v := testValues()
	v.FOV = 0.1
	a := twoAgents(Agent{Pos: Vec2{0, 0}})

	got := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})
	// Exact overlap lands in separation with a zero relative vector.
	if got.DV != (Vec2{}) {
		t.Errorf("overlap DV = %+v, want zero", got.DV)
	}
	want := a.Agents[0].Color.Lerp(a.Agents[0].StartColor, v.ColorRevertFactor)
	if got.Color != want {
		t.Errorf("overlap counted as cohesion neighbor")
	}
}

func TestComputeDVSeparationCohesionPartition(t *testing.T) {
	v := testValues()

	t.Run("inside protected range", func(t *testing.T) {
		a := twoAgents(Agent{Pos: Vec2{4, 3}, Vel: Vec2{0, 9}, Color: Vec3{300, 0, 0}})
		got := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})

		want := Vec2{-4, -3}.Scale(v.Avoidance)
		if !near(got.DV.X, want.X) || !near(got.DV.Y, want.Y) {
			t.Errorf("DV = %+v, want separation only %+v", got.DV, want)
		}
		wantColor := a.Agents[0].Color.Lerp(a.Agents[0].StartColor, v.ColorRevertFactor)
		if got.Color != wantColor {
			t.Errorf("separation neighbor blended color: got %+v", got.Color)
		}
	})

	t.Run("outside protected range", func(t *testing.T) {
		a := twoAgents(Agent{Pos: Vec2{20, 0}, Vel: Vec2{0, 9}, Color: Vec3{300, 0, 0}})
		got := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})

		cohesion := Vec2{20, 0}.Scale(v.Centering)
		alignment := Vec2{0, 9}.Sub(Vec2{5, 0}).Scale(v.Matching)
		want := cohesion.Add(alignment)
		if !near(got.DV.X, want.X) || !near(got.DV.Y, want.Y) {
			t.Errorf("DV = %+v, want cohesion+alignment %+v", got.DV, want)
		}
		// Hue 0 toward 300 turns backwards through 360.
		wantColor := Vec3{354, 0.9, 0.9}
		if !nearHue(got.Color.X, wantColor.X) || !near(got.Color.Y, wantColor.Y) || !near(got.Color.Z, wantColor.Z) {
			t.Errorf("color = %+v, want %+v", got.Color, wantColor)
		}
	})
}

func TestComputeDVIsolationWithPointer(t *testing.T) {
	v := testValues()
	a := NewArena(1)
	a.Add(Agent{Pos: Vec2{0, 0}, Vel: Vec2{5, 0}, Color: Vec3{10, 0.5, 0.5}, StartColor: Vec3{50, 1, 1}})
	pointer := PointerTarget{Pos: Vec2{100, -50}, Active: true}

	got := ComputeDV(0, a, nil, v, pointer)
	want := Vec2{100, -50}.Scale(v.MouseChase)
	if !near(got.DV.X, want.X) || !near(got.DV.Y, want.Y) {
		t.Errorf("chase DV = %+v, want %+v", got.DV, want)
	}
	wantColor := Vec3{10, 0.5, 0.5}.Lerp(Vec3{50, 1, 1}, v.ColorRevertFactor)
	if got.Color != wantColor {
		t.Errorf("isolated color = %+v, want %+v", got.Color, wantColor)
	}

	v.PredatorMode = true
	fled := ComputeDV(0, a, nil, v, pointer)
	if !near(fled.DV.X, -want.X) || !near(fled.DV.Y, -want.Y) {
		t.Errorf("predator DV = %+v, want %+v", fled.DV, want.Neg())
	}

	if got := ComputeDV(0, a, nil, v, PointerTarget{Pos: Vec2{100, 0}}); got.DV != (Vec2{}) {
		t.Errorf("inactive pointer produced DV %+v", got.DV)
	}
}

func TestComputeDVSkipsStaleIdentities(t *testing.T) {
	v := testValues()
	a := twoAgents(Agent{Pos: Vec2{20, 0}, Vel: Vec2{5, 0}})

	withStale := append(allNeighbors(a), Neighbor{ID: 99})
	got := ComputeDV(0, a, withStale, v, PointerTarget{})
	want := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})
	if got != want {
		t.Errorf("stale identity changed result: got %+v, want %+v", got, want)
	}

	if got := ComputeDV(42, a, allNeighbors(a), v, PointerTarget{}); got != (Steering{}) {
		t.Errorf("unknown self produced %+v", got)
	}
}

func TestComputeDVToroidalDelta(t *testing.T) {
	v := testValues()
	v.Toroidal = true
	a := twoAgents(Agent{Pos: Vec2{-390, 0}, Vel: Vec2{5, 0}})
	a.Agents[0].Pos = Vec2{395, 0}

	got := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})
	// The neighbor is 15 units ahead across the seam.
	if !near(got.DV.X, 15*v.Centering) {
		t.Errorf("DV = %+v, want cohesion across the seam", got.DV)
	}
}

func nearHue(a, b float32) bool {
	d := math.Abs(float64(a - b))
	return math.Min(d, 360-d) < 1e-3
}

func TestComputeDVHueBlendAcrossZero(t *testing.T) {
	v := testValues()
	a := NewArena(3)
	a.Add(Agent{Vel: Vec2{5, 0}, Color: Vec3{350, 1, 1}, StartColor: Vec3{350, 1, 1}})
	a.Add(Agent{Pos: Vec2{20, 0}, Vel: Vec2{5, 0}, Color: Vec3{5, 1, 1}})
	a.Add(Agent{Pos: Vec2{0, 20}, Vel: Vec2{5, 0}, Color: Vec3{15, 1, 1}})

	got := ComputeDV(0, a, allNeighbors(a), v, PointerTarget{})
	// Neighbors average to hue 10; 350 moves 20 degrees the short way.
	want := float32(350 + 20*v.ColorBlendFactor)
	if !nearHue(got.Color.X, want) {
		t.Errorf("hue = %v, want %v", got.Color.X, want)
	}
}

func TestVec3LerpHue(t *testing.T) {
	tests := []struct {
		name     string
		from, to float32
		t        float32
		want     float32
	}{
		{"forward", 10, 50, 0.5, 30},
		{"across zero upward", 350, 10, 0.5, 0},
		{"across zero downward", 10, 350, 0.25, 5},
		{"full step", 300, 20, 1, 20},
		{"no move", 120, 240, 0, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Vec3{tt.from, 0, 0}.Lerp(Vec3{tt.to, 1, 1}, tt.t)
			if !nearHue(got.X, tt.want) {
				t.Errorf("hue = %v, want %v", got.X, tt.want)
			}
			if got.X < 0 || got.X >= 360 {
				t.Errorf("hue %v outside [0, 360)", got.X)
			}
			if !near(got.Y, tt.t) {
				t.Errorf("saturation = %v, want %v", got.Y, tt.t)
			}
		})
	}
}
