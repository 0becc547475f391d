package orbit

import (
	"math"

	"github.com/san-kum/orrery/internal/body"
)

// Angle returns the rotation in radians after simTime for a motion with the
// given period. A zero period means no motion.
func Angle(simTime, period float64) float64 {
	if period == 0 {
		return 0
	}
	return simTime * 2 * math.Pi / period
}

// Frame holds the world transform of every body at one instant, indexed by [body.ID].
type Frame struct {
	Time  float64
	Model []Mat4
}

// Len returns the number of transforms in f.
func (f *Frame) Len() int { return len(f.Model) }

// Position returns the world-space center of body id.
func (f *Frame) Position(id body.ID) Vec3 { return f.Model[id].Origin() }

// Normal returns the normal matrix of body id.
func (f *Frame) Normal(id body.ID) Mat4 { return f.Model[id].NormalMatrix() }

// Compose returns the world transforms of every body in tree at simTime.
func Compose(tree *body.Tree, simTime float64) *Frame {
	f := &Frame{}
	ComposeInto(f, tree, simTime)
	return f
}

// ComposeInto fills dst with the transforms at simTime, reusing its storage.
func ComposeInto(dst *Frame, tree *body.Tree, simTime float64) {
	n := tree.Len()
	if cap(dst.Model) < n {
		dst.Model = make([]Mat4, n)
	}
	dst.Model = dst.Model[:n]
	dst.Time = simTime

	for i := 0; i < n; i++ {
		dst.Model[i] = World(tree, body.ID(i), simTime)
	}
}

// World returns the world transform of a single body at simTime.
func World(tree *body.Tree, id body.ID, simTime float64) Mat4 {
	b := tree.Body(id)
	m := Identity()

	if b.Kind == body.Planet {
		// Ancestors run nearest first. Each is pre-multiplied, which with
		// post-multiplying builders means walking them farthest first.
		chain := tree.Ancestors(id)
		for i := len(chain) - 1; i >= 0; i-- {
			m = orbitStep(m, tree.Body(chain[i]), simTime)
		}
		m = orbitStep(m, b, simTime)
	}

	return m.Scale(b.Radius).RotateY(-Angle(simTime, b.RotationPeriod))
}

// orbitStep appends a's rotation about its parent followed by its offset.
// The Star does not orbit and contributes nothing.
func orbitStep(m Mat4, a body.Body, simTime float64) Mat4 {
	if !a.Orbits() {
		return m
	}
	return m.RotateY(Angle(simTime, a.OrbitalPeriod)).Translate(a.OrbitalDistance, 0, 0)
}
