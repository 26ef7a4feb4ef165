package systems

// PointerTarget is an optional world-space attractor such as the mouse cursor.
type PointerTarget struct {
	Pos    Vec2
	Active bool
}

// Steering is the evaluator output for one agent.
type Steering struct {
	DV    Vec2
	Color Vec3
}

// ComputeDV evaluates the flocking rules for agent id against its neighbor list.
// It reads arena and returns the velocity change and blended color without
// mutating anything.
func ComputeDV(id uint32, arena *Arena, neighbors []Neighbor, v Values, pointer PointerTarget) Steering {
	self := arena.Get(id)
	if self == nil {
		return Steering{}
	}
	heading := FromAngle(self.Heading)

	var (
		sepSum, relSum, velSum Vec2
		colors                 colorMean
		sepCount, flockCount   int
	)

	for _, n := range neighbors {
		if n.ID == id {
			continue
		}
		other := arena.Get(n.ID)
		if other == nil {
			continue
		}

		rel, distSq, ok := Perceives(self.Pos, heading, other.Pos, v)
		if !ok {
			continue
		}

		if distSq < v.ProtRangeSq {
			sepSum = sepSum.Sub(rel)
			sepCount++
			continue
		}
		relSum = relSum.Add(rel)
		velSum = velSum.Add(other.Vel)
		colors.add(other.Color)
		flockCount++
	}

	out := Steering{Color: self.Color}

	if flockCount > 0 {
		inv := 1 / float32(flockCount)
		avgRel := relSum.Scale(inv)
		avgVel := velSum.Scale(inv)
		out.DV = out.DV.
			Add(avgRel.Scale(v.Centering)).
			Add(avgVel.Sub(self.Vel).Scale(v.Matching))
		out.Color = self.Color.Lerp(colors.mean(), v.ColorBlendFactor)
	} else {
		out.Color = self.Color.Lerp(self.StartColor, v.ColorRevertFactor)
	}

	if sepCount > 0 {
		avgSep := sepSum.Scale(1 / float32(sepCount))
		out.DV = out.DV.Add(avgSep.Scale(v.Avoidance))
	}

	if pointer.Active {
		chase := pointer.Pos.Sub(self.Pos).Scale(v.MouseChase)
		if v.PredatorMode {
			chase = chase.Neg()
		}
		out.DV = out.DV.Add(chase)
	}

	return out
}

// Perceives reports whether an agent at pos facing heading (a unit vector)
// sees a neighbor at other: within VisRange and inside the FOV cone.
// It returns the offset to the neighbor and its squared length.
// Positions are the current ones; index distances may be stale.
func Perceives(pos, heading, other Vec2, v Values) (rel Vec2, distSq float32, ok bool) {
	if v.Toroidal {
		rel = ToroidalDelta(pos, other, v.Bounds.X, v.Bounds.Y)
	} else {
		rel = other.Sub(pos)
	}
	distSq = rel.LenSq()
	if distSq > v.VisRangeSq {
		return rel, distSq, false
	}
	if dir := rel.Normalize(); dir != (Vec2{}) && AngleBetween(heading, dir) > v.FOV {
		return rel, distSq, false
	}
	return rel, distSq, true
}
