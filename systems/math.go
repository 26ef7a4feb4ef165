package systems

import "math"

// Vec2 is a planar vector in world units.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float32 { return v.X*v.X + v.Y*v.Y }

// Len returns the length of v.
func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.LenSq())))
}

// Normalize returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Angle returns atan2(v.Y, v.X).
func (v Vec2) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// FromAngle returns the unit vector pointing at angle a (radians).
func FromAngle(a float32) Vec2 {
	s, c := math.Sincos(float64(a))
	return Vec2{float32(c), float32(s)}
}

// AngleBetween returns the unsigned angle in radians between unit vectors a and b.
func AngleBetween(a, b Vec2) float32 {
	return float32(math.Acos(float64(clampFloat(a.Dot(b), -1, 1))))
}

// Vec3 is a color triple: hue (degrees), saturation and value.
type Vec3 struct {
	X, Y, Z float32
}

// Lerp moves v toward o by fraction t. Hue travels the shorter arc and
// stays in [0, 360); saturation and value blend linearly.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		wrapHue(v.X + hueDelta(v.X, o.X)*t),
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// hueDelta returns the signed shortest turn from one hue to another, in
// [-180, 180].
func hueDelta(from, to float32) float32 {
	d := float32(math.Mod(float64(to-from), 360))
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

func wrapHue(h float32) float32 {
	h = float32(math.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	return h
}

// colorMean averages colors with the hue taken as a circular mean.
// Opposite hues cancel to 0.
type colorMean struct {
	sin, cos float64
	sat, val float32
	n        int
}

func (c *colorMean) add(col Vec3) {
	rad := float64(col.X) * math.Pi / 180
	c.sin += math.Sin(rad)
	c.cos += math.Cos(rad)
	c.sat += col.Y
	c.val += col.Z
	c.n++
}

func (c colorMean) mean() Vec3 {
	if c.n == 0 {
		return Vec3{}
	}
	inv := 1 / float32(c.n)
	hue := float32(math.Atan2(c.sin, c.cos) * 180 / math.Pi)
	return Vec3{wrapHue(hue), c.sat * inv, c.val * inv}
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// wrap maps v into [-half, half) for a period of 2*half.
func wrap(v, half float32) float32 {
	if half <= 0 {
		return v
	}
	period := 2 * half
	r := float32(math.Mod(float64(v+half), float64(period)))
	if r < 0 {
		r += period
	}
	if r >= period {
		r -= period
	}
	return r - half
}

// ToroidalDelta returns the shortest path delta from a to b on a torus of size w x h.
func ToroidalDelta(a, b Vec2, w, h float32) Vec2 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return Vec2{dx, dy}
}
