// Package viz is the terminal host for the gravity simulation.
//
// The host is a Bubble Tea program:
//
//   - [Model]: owns a sim.Loop, forwards ticks, mouse and resize events
//   - [Canvas]: braille pixel canvas with a color per cell
//   - [TickScheduler]: runs the pending frame on each tea.Tick
//   - Panel themes selectable by name or cycled at runtime
//
// The world is laid out in braille dots: one terminal cell is 2x4 dots and
// one dot covers Options.Scale world units. The mouse position is the
// centre of the cell under it.
//
// # Key Bindings
//
//	B     - Toggle bounce mode (restarts the run)
//	R     - Restart with a fresh particle batch
//	S     - Stop / start (the ambient drift shows while stopped)
//	+ / - - Grow or shrink the repulsor radius by 5
//	D     - Toggle debug logging
//	T     - Cycle panel themes
//	E     - Save the current frame as SVG
//	Q     - Quit
package viz
