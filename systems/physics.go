package systems

// ApplyVelocity consumes one tick's velocity events, then enforces the
// boundary policy and the speed bounds on every agent.
func ApplyVelocity(arena *Arena, events []DeltaVelocityEvent, v Values) {
	for _, e := range events {
		ag := arena.Get(e.ID)
		if ag == nil {
			continue
		}
		ag.Vel = ag.Vel.Add(e.DV)
	}

	limits := v.Limits()
	for i := range arena.Agents {
		ag := &arena.Agents[i]

		// Soft steering: agents may overshoot briefly before turning back.
		// Toroidal worlds wrap in ApplyMovement instead.
		if !v.Toroidal {
			ag.Vel = steerInward(ag.Pos, ag.Vel, limits, v.TurnFactor)
		}

		ag.Vel = clampSpeed(ag.Vel, ag.Heading, v.MinSpeed, v.MaxSpeed)
	}
}

// steerInward nudges vel by turn along each axis where pos is beyond limits.
func steerInward(pos, vel, limits Vec2, turn float32) Vec2 {
	if pos.X > limits.X {
		vel.X -= turn
	} else if pos.X < -limits.X {
		vel.X += turn
	}
	if pos.Y > limits.Y {
		vel.Y -= turn
	} else if pos.Y < -limits.Y {
		vel.Y += turn
	}
	return vel
}

// clampSpeed rescales vel so its length lies in [minSpeed, maxSpeed].
// A zero vector takes the direction of heading.
func clampSpeed(vel Vec2, heading, minSpeed, maxSpeed float32) Vec2 {
	speed := vel.Len()
	if speed == 0 {
		return FromAngle(heading).Scale(minSpeed)
	}
	if speed < minSpeed {
		return vel.Scale(minSpeed / speed)
	}
	if speed > maxSpeed {
		return vel.Scale(maxSpeed / speed)
	}
	return vel
}

// ApplyMovement advances every agent by its velocity and derives its heading.
// The fixed tick is the implicit timestep.
func ApplyMovement(arena *Arena, v Values) {
	half := v.Bounds.Scale(0.5)
	for i := range arena.Agents {
		ag := &arena.Agents[i]

		ag.Pos = ag.Pos.Add(ag.Vel)
		if ag.Vel != (Vec2{}) {
			ag.Heading = ag.Vel.Angle()
		}

		if v.Toroidal {
			ag.Pos.X = wrap(ag.Pos.X, half.X)
			ag.Pos.Y = wrap(ag.Pos.Y, half.Y)
		}
	}
}

// ApplyColors overwrites agent colors with the evaluator's blended values.
func ApplyColors(arena *Arena, events []ColorEvent) {
	for _, e := range events {
		if ag := arena.Get(e.ID); ag != nil {
			ag.Color = e.Color
		}
	}
}
