package components

// Position represents an entity's world position.
type Position struct {
	X float32 `inspect:"label,fmt:%.1f"`
	Y float32 `inspect:"label,fmt:%.1f"`
}

// Velocity represents an entity's velocity in world units per tick.
type Velocity struct {
	X float32 `inspect:"label,fmt:%+.2f"`
	Y float32 `inspect:"label,fmt:%+.2f"`
}

// Speed returns the velocity magnitude.
func (v Velocity) Speed() float32 {
	return sqrt32(v.X*v.X + v.Y*v.Y)
}

// Rotation represents an entity's heading.
type Rotation struct {
	Heading float32 `inspect:"angle"` // radians
}
