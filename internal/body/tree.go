package body

import "fmt"

// Tree is an immutable arena of bodies rooted at a single Star.
// The zero value is an empty tree; use [Builder] to construct one.
type Tree struct {
	bodies   []Body
	children [][]ID
}

// Len returns the number of bodies, Star included.
func (t *Tree) Len() int { return len(t.bodies) }

// Root returns the Star's ID.
func (t *Tree) Root() ID { return 0 }

// Body returns a copy of the body with the given ID.
func (t *Tree) Body(id ID) Body { return t.bodies[id] }

// Valid reports whether id addresses a body in t.
func (t *Tree) Valid(id ID) bool { return id >= 0 && int(id) < len(t.bodies) }

// Parent returns the parent of id, or false for the Star.
func (t *Tree) Parent(id ID) (ID, bool) {
	p := t.bodies[id].Parent
	return p, p != NoParent
}

// Children returns the direct children of id in file order.
func (t *Tree) Children(id ID) []ID {
	c := t.children[id]
	out := make([]ID, len(c))
	copy(out, c)
	return out
}

// Depth returns the number of parent links between id and the Star.
func (t *Tree) Depth(id ID) int { return t.bodies[id].Depth }

// Ancestors returns the parent chain of id, nearest first, ending at the Star.
// The Star has no ancestors.
func (t *Tree) Ancestors(id ID) []ID {
	out := make([]ID, 0, t.bodies[id].Depth)
	for p := t.bodies[id].Parent; p != NoParent; p = t.bodies[p].Parent {
		out = append(out, p)
	}
	return out
}

// Bodies returns a copy of every body indexed by ID.
func (t *Tree) Bodies() []Body {
	out := make([]Body, len(t.bodies))
	copy(out, t.bodies)
	return out
}

// Walk visits bodies depth-first in file order, which is also ID order.
// Returning false from fn skips that body's subtree.
func (t *Tree) Walk(fn func(id ID, b Body) bool) {
	if len(t.bodies) == 0 {
		return
	}
	var visit func(id ID)
	visit = func(id ID) {
		if !fn(id, t.bodies[id]) {
			return
		}
		for _, c := range t.children[id] {
			visit(c)
		}
	}
	visit(t.Root())
}

// Builder accumulates bodies in file order and enforces the tree invariants
// on every Add. A failed Add leaves the builder unchanged.
type Builder struct {
	bodies []Body
}

// Add appends b and returns its ID.
//
// The first body must be the Star at depth 0 with no parent. Every later
// body must be a Planet whose Parent is already present and whose Depth is
// one more than its parent's.
func (bld *Builder) Add(b Body) (ID, error) {
	if err := b.Validate(); err != nil {
		return NoParent, err
	}

	switch b.Kind {
	case Star:
		if len(bld.bodies) > 0 {
			return NoParent, ErrDuplicateStar
		}
		if b.Depth != 0 {
			return NoParent, fmt.Errorf("%w: star at depth %d", ErrDepth, b.Depth)
		}
		b.Parent = NoParent
	case Planet:
		if len(bld.bodies) == 0 {
			return NoParent, ErrMissingStar
		}
		if b.Parent < 0 || int(b.Parent) >= len(bld.bodies) {
			return NoParent, fmt.Errorf("%w: parent %d", ErrOrphan, b.Parent)
		}
		if want := bld.bodies[b.Parent].Depth + 1; b.Depth != want {
			return NoParent, fmt.Errorf("%w: depth %d under parent at depth %d", ErrDepth, b.Depth, want-1)
		}
	}

	bld.bodies = append(bld.bodies, b)
	return ID(len(bld.bodies) - 1), nil
}

// Len returns the number of bodies added so far.
func (bld *Builder) Len() int { return len(bld.bodies) }

// Build returns the finished tree. The builder must not be used afterwards.
func (bld *Builder) Build() (*Tree, error) {
	if len(bld.bodies) == 0 {
		return nil, ErrMissingStar
	}

	t := &Tree{
		bodies:   bld.bodies,
		children: make([][]ID, len(bld.bodies)),
	}
	for i, b := range t.bodies {
		if b.Parent != NoParent {
			t.children[b.Parent] = append(t.children[b.Parent], ID(i))
		}
	}
	bld.bodies = nil
	return t, nil
}
