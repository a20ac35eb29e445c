// Package viz renders extracted results in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Viewer]: variable list, time-step slider and coloured nodal scatter
//   - [Canvas]: Braille-based pixel canvas that also accumulates values per cell
//   - [PlanView]: top-down projection of the mesh keeping its aspect ratio
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	j/k   - Next/previous nodal variable
//	h/l   - Previous/next time step
//	[ ]   - First/last time step
//	c     - Cycle colour scales
//	t     - Cycle color themes
//	b     - Toggle mesh outline
//	?     - Show help overlay
//
// # Colour
//
// Cells are coloured by the mean of the values plotted into them, using a
// scale from the colorscale package over the variable's range across all
// time steps, so colours stay comparable while scrubbing.
package viz
