package body

import "math"

// Kind discriminates the two body variants.
type Kind uint8

const (
	Star Kind = iota
	Planet
)

func (k Kind) String() string {
	switch k {
	case Star:
		return "star"
	case Planet:
		return "planet"
	default:
		return "unknown"
	}
}

// ID addresses a body inside its [Tree].
type ID int

// NoParent is the Parent of the Star.
const NoParent ID = -1

// Body is one star or planet. Fields that do not apply to the Star
// (OrbitalDistance, OrbitalPeriod, Specular) are zero for it, and a zero
// orbit means "does not orbit".
type Body struct {
	Kind    Kind
	Texture string

	Radius float64
	// RotationPeriod is the time for one spin about the local up axis.
	// Zero means the body does not spin; the sign selects the direction.
	RotationPeriod float64

	OrbitalDistance float64
	OrbitalPeriod   float64
	Specular        float64

	Parent ID
	Depth  int
	// Line is the 1-based source line the body was read from, 0 if built in code.
	Line int
}

// IsStar reports whether b is the root star.
func (b Body) IsStar() bool { return b.Kind == Star }

// Orbits reports whether b contributes an orbital rotation and offset.
func (b Body) Orbits() bool { return b.Kind == Planet && b.OrbitalPeriod != 0 }

// Validate checks the physical parameters of b independent of its place in a tree.
func (b Body) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"radius", b.Radius},
		{"rotation period", b.RotationPeriod},
		{"orbital distance", b.OrbitalDistance},
		{"orbital period", b.OrbitalPeriod},
		{"specular", b.Specular},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ParamError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}

	if b.Radius <= 0 {
		return &ParamError{Field: "radius", Value: b.Radius, Reason: "must be positive"}
	}

	switch b.Kind {
	case Star:
		if b.OrbitalDistance != 0 || b.OrbitalPeriod != 0 {
			return &ParamError{Field: "orbit", Value: b.OrbitalPeriod, Reason: "must be zero for a star"}
		}
	case Planet:
		if b.OrbitalDistance < 0 {
			return &ParamError{Field: "orbital distance", Value: b.OrbitalDistance, Reason: "must not be negative"}
		}
		if b.OrbitalPeriod == 0 {
			return &ParamError{Field: "orbital period", Value: b.OrbitalPeriod, Reason: "must be non-zero"}
		}
		if b.Specular < 0 {
			return &ParamError{Field: "specular", Value: b.Specular, Reason: "must not be negative"}
		}
	default:
		return &ParamError{Field: "kind", Value: float64(b.Kind), Reason: "is not a star or planet"}
	}
	return nil
}
