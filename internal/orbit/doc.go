// Package orbit computes per-frame world transforms for a body tree.
//
// [Compose] is a pure function of (tree, simTime): it walks every planet's
// ancestor chain and composes one orbital rotation and offset per ancestor,
// each pre-multiplied from the nearest ancestor outward, then appends the
// planet's own orbit, scale and spin. A body therefore always circles its
// parent's current center, at any depth.
//
//	frame := orbit.Compose(scene.Tree, simTime)
//	earth := frame.Position(3)
//
// Orbits lie in the XZ plane. Each orbital step rotates about +Y by
// simTime·2π/period and then offsets along local +X by the orbital distance.
// Spin uses the negated angle.
//
// # Thread Safety
//
// Trees and frames are never mutated after construction. Use [Publisher]
// when one goroutine advances time while others read transforms.
package orbit
