// Package viz renders simulations live in the terminal.
//
// A [Scene] wraps a double pendulum or an n-body system and draws it onto a
// braille [Canvas]. [Model] is the Bubble Tea program that steps the scene
// every frame and plots its total energy; [App] is a launcher that picks a
// model preset before handing over to the viewer.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Double/halve steps per frame
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
