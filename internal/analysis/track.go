package analysis

import (
	"errors"
	"fmt"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/orbit"
)

var ErrBadGrid = errors.New("analysis: dt and duration must be positive")

// Axis selects a coordinate of a position.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "x"
	}
}

func (a Axis) Of(v orbit.Vec3) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return v.X
	}
}

// Track is a sampled trajectory: Positions[i][id] is body id at Times[i].
type Track struct {
	Dt        float64
	Times     []float64
	Positions [][]orbit.Vec3
}

// Sample composes frames from start to start+duration inclusive, every dt.
func Sample(tree *body.Tree, start, duration, dt float64) (*Track, error) {
	if dt <= 0 || duration <= 0 {
		return nil, fmt.Errorf("%w: dt=%g duration=%g", ErrBadGrid, dt, duration)
	}

	steps := int(duration/dt + 1e-9)
	n := steps + 1
	tr := &Track{
		Dt:        dt,
		Times:     make([]float64, n),
		Positions: make([][]orbit.Vec3, n),
	}

	// Frames are independent, so each worker composes its own chunk.
	ParallelFor(n, minChunk, func(lo, hi int) {
		var f orbit.Frame
		for i := lo; i < hi; i++ {
			t := start + float64(i)*dt
			orbit.ComposeInto(&f, tree, t)

			pos := make([]orbit.Vec3, f.Len())
			for id := range pos {
				pos[id] = f.Position(body.ID(id))
			}
			tr.Times[i] = t
			tr.Positions[i] = pos
		}
	})
	return tr, nil
}

// Len returns the number of samples.
func (t *Track) Len() int { return len(t.Times) }

// Bodies returns the number of bodies per sample.
func (t *Track) Bodies() int {
	if len(t.Positions) == 0 {
		return 0
	}
	return len(t.Positions[0])
}

// Series extracts one coordinate of one body over time.
func (t *Track) Series(id body.ID, axis Axis) []float64 {
	out := make([]float64, len(t.Positions))
	for i, p := range t.Positions {
		out[i] = axis.Of(p[id])
	}
	return out
}
