// Package viz draws simulation frames in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [Viewport]: world to sub-pixel projection that scrolls with the target
//   - [Model]: Bubble Tea program that steps a simulator and draws each frame
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene from its configuration
//	T     - Cycle color themes
//	?     - Show help overlay
//	[]    - Replay recent frames
package viz
