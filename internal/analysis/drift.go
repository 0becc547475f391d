package analysis

import (
	"math"

	"github.com/san-kum/orrery/internal/body"
)

// Drift returns, per body, the largest deviation of its distance from its
// parent over the track from the declared orbital distance. A body that
// does not orbit reports 0.
func Drift(tree *body.Tree, track *Track) []float64 {
	out := make([]float64, tree.Len())
	for id := 0; id < tree.Len() && id < track.Bodies(); id++ {
		b := tree.Body(body.ID(id))
		if !b.Orbits() {
			continue
		}
		for _, frame := range track.Positions {
			d := frame[id].Sub(frame[b.Parent]).Length()
			out[id] = math.Max(out[id], math.Abs(d-b.OrbitalDistance))
		}
	}
	return out
}

// Stable reports the fraction of bodies whose drift stays within tol.
func Stable(drift []float64, tol float64) float64 {
	if len(drift) == 0 {
		return 1.0
	}
	ok := 0
	for _, d := range drift {
		if d <= tol {
			ok++
		}
	}
	return float64(ok) / float64(len(drift))
}
