// Package viz renders a scene in the terminal.
//
// The live view is a Bubble Tea program that advances a simulation clock,
// composes the world transform of every body and draws the result on a
// Braille canvas:
//
//   - [Model]: the live view, driven by [TickMsg] and hot reload messages
//   - [Canvas]: Braille-based pixel canvas (2x4 dots per cell)
//   - [Camera]: perspective projection with view presets
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume the clock
//	< >   - Halve/double the time scale
//	+ -   - Zoom in/out
//	V     - Cycle view presets
//	Tab   - Select next body
//	O     - Toggle orbit rings
//	L     - Toggle trails
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
