package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orrery/internal/body"
)

// system: sun → earth → moon, sun → mars.
func system(t *testing.T) *body.Tree {
	t.Helper()
	var b body.Builder
	sun, err := b.Add(body.Body{Kind: body.Star, Texture: "sun", Radius: 3, RotationPeriod: 20})
	require.NoError(t, err)
	earth, err := b.Add(body.Body{Kind: body.Planet, Texture: "earth", Radius: 1, RotationPeriod: 1,
		OrbitalDistance: 10, OrbitalPeriod: 8, Parent: sun, Depth: 1})
	require.NoError(t, err)
	_, err = b.Add(body.Body{Kind: body.Planet, Texture: "moon", Radius: 0.25, RotationPeriod: 2,
		OrbitalDistance: 2, OrbitalPeriod: 2, Parent: earth, Depth: 2})
	require.NoError(t, err)
	_, err = b.Add(body.Body{Kind: body.Planet, Texture: "mars", Radius: 0.5, RotationPeriod: -1,
		OrbitalDistance: 15, OrbitalPeriod: 12, Parent: sun, Depth: 1})
	require.NoError(t, err)
	tree, err := b.Build()
	require.NoError(t, err)
	return tree
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, math.Pi, Angle(4, 8), eps)
	assert.InDelta(t, -math.Pi/2, Angle(1, -4), eps)
	assert.Equal(t, 0.0, Angle(100, 0))
}

func TestCompose_StarStaysAtOrigin(t *testing.T) {
	tree := system(t)
	for _, st := range []float64{0, 0.5, 3, 17.25, 1e4} {
		p := Compose(tree, st).Position(tree.Root())
		assert.InDelta(t, 0, p.Length(), eps, "simTime %v", st)
	}
}

func TestCompose_StarSpinAndScale(t *testing.T) {
	tree := system(t)
	// a quarter of the sun's rotation period
	m := Compose(tree, 5).Model[0]
	want := Scaling(3).Mul(RotationY(-math.Pi / 2))
	assert.True(t, matNear(m, want), "star transform = %v, want %v", m, want)
}

func TestCompose_HalfOrbit(t *testing.T) {
	tree := system(t)
	// earth: T = 8, R = 10, only the star above it
	p := Compose(tree, 4).Position(1)
	assert.InDelta(t, -10, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)
	assert.InDelta(t, 0, p.Z, eps)

	p = Compose(tree, 2).Position(1)
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, -10, p.Z, eps)
}

func TestCompose_OrbitRadiusIsConstant(t *testing.T) {
	tree := system(t)
	for st := 0.0; st < 30; st += 0.37 {
		f := Compose(tree, st)
		assert.InDelta(t, 10, f.Position(1).Length(), 1e-8)
		assert.InDelta(t, 15, f.Position(3).Length(), 1e-8)
	}
}

func TestCompose_MoonChainOrder(t *testing.T) {
	tree := system(t)
	st := 1.3
	ae, am := Angle(st, 8), Angle(st, 2)

	want := Identity().
		RotateY(ae).Translate(10, 0, 0).
		RotateY(am).Translate(2, 0, 0).
		Scale(0.25).RotateY(-Angle(st, 2))
	got := Compose(tree, st).Model[2]
	assert.True(t, matNear(got, want), "moon transform = %v, want %v", got, want)

	// the moon keeps its orbital distance from the earth's center
	f := Compose(tree, st)
	assert.InDelta(t, 2, f.Position(2).Sub(f.Position(1)).Length(), 1e-8)
}

func TestCompose_Idempotent(t *testing.T) {
	tree := system(t)
	a := Compose(tree, 12.345)
	b := Compose(tree, 12.345)
	require.Equal(t, a.Len(), b.Len())
	for i := range a.Model {
		assert.Equal(t, a.Model[i], b.Model[i], "body %d", i)
	}
}

func TestComposeInto_ReusesStorage(t *testing.T) {
	tree := system(t)
	f := &Frame{Model: make([]Mat4, 0, 8)}
	ComposeInto(f, tree, 1)
	first := &f.Model[0]
	ComposeInto(f, tree, 2)

	assert.Same(t, first, &f.Model[0])
	assert.Equal(t, 2.0, f.Time)
	assert.Equal(t, Compose(tree, 2).Model, f.Model)
}

func TestFrame_Normal(t *testing.T) {
	tree := system(t)
	f := Compose(tree, 3)
	n := f.Normal(1)
	inv, ok := f.Model[1].Inverse()
	require.True(t, ok)
	assert.True(t, matNear(n, inv.Transpose()))
}

func TestCompose_DeepChainTracksParent(t *testing.T) {
	var b body.Builder
	sun, err := b.Add(body.Body{Kind: body.Star, Texture: "sun", Radius: 3, RotationPeriod: 20})
	require.NoError(t, err)
	jupiter, err := b.Add(body.Body{Kind: body.Planet, Texture: "jupiter", Radius: 2, RotationPeriod: 1,
		OrbitalDistance: 30, OrbitalPeriod: 40, Parent: sun, Depth: 1})
	require.NoError(t, err)
	io, err := b.Add(body.Body{Kind: body.Planet, Texture: "io", Radius: 0.3, RotationPeriod: 2,
		OrbitalDistance: 4, OrbitalPeriod: 3, Parent: jupiter, Depth: 2})
	require.NoError(t, err)
	plume, err := b.Add(body.Body{Kind: body.Planet, Texture: "plume", Radius: 0.05, RotationPeriod: 1,
		OrbitalDistance: 0.5, OrbitalPeriod: 0.7, Parent: io, Depth: 3})
	require.NoError(t, err)
	tree, err := b.Build()
	require.NoError(t, err)

	for st := 0.0; st < 20; st += 0.73 {
		f := Compose(tree, st)
		assert.InDelta(t, 30, f.Position(jupiter).Length(), 1e-9)
		assert.InDelta(t, 4, f.Position(io).Sub(f.Position(jupiter)).Length(), 1e-9, "simTime %v", st)
		assert.InDelta(t, 0.5, f.Position(plume).Sub(f.Position(io)).Length(), 1e-9, "simTime %v", st)
	}
}
