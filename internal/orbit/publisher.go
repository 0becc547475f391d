package orbit

import (
	"sync/atomic"

	"github.com/san-kum/orrery/internal/body"
)

// Publisher exposes the most recent complete frame to concurrent readers.
// A frame is fully composed before it becomes visible, and published
// frames are never modified, so readers need no locking.
type Publisher struct {
	current atomic.Pointer[Frame]
}

// Advance composes the frame for simTime and publishes it.
func (p *Publisher) Advance(tree *body.Tree, simTime float64) *Frame {
	f := Compose(tree, simTime)
	p.current.Store(f)
	return f
}

// Load returns the latest published frame, or nil before the first Advance.
func (p *Publisher) Load() *Frame {
	return p.current.Load()
}
