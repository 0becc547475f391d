// Package body defines the celestial body tree rendered by orrery.
//
// A scene is a single [Star] at the root with nested planets and moons,
// each orbiting its parent:
//
//   - [Body]: tagged variant with a [Kind] discriminant and shared fields
//   - [Tree]: immutable arena owning every body, addressed by [ID]
//   - [Builder]: the only way to construct a [Tree]; validates on every add
//
// # Ownership
//
// The tree owns all bodies. A body's Parent is an [ID] into the same arena,
// a lookup-only back edge. Parents are always added before their children,
// so a Planet's parent ID is strictly smaller than its own and cycles cannot
// be expressed.
//
// # Example
//
//	var b body.Builder
//	sun, _ := b.Add(body.Body{Kind: body.Star, Texture: "sun.jpg", Radius: 2, RotationPeriod: 25})
//	b.Add(body.Body{Kind: body.Planet, Texture: "earth.jpg", Radius: 0.5, RotationPeriod: 1,
//		OrbitalDistance: 8, OrbitalPeriod: 365, Parent: sun, Depth: 1})
//	tree, _ := b.Build()
package body
