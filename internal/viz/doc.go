// Package viz is the live terminal view of the arena, built on Bubble Tea.
//
//   - [Model]: steps the arena every tick, maps mouse clicks to spawns and
//     selections, and draws snapshots next to a stats panel
//   - [Canvas]: braille dot canvas the arena is drawn on
//   - [Recorder]: rasterizes canvas frames into an animated GIF
//
// # Key Bindings
//
//	Click - Spawn a top, or toggle the one under the pointer
//	Space - Pause/Resume
//	S     - Single step while paused
//	R     - Spawn at a random point
//	C     - Clear the arena
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// The program must be started with mouse reporting enabled
// (tea.WithMouseCellMotion) for clicks to reach the model.
package viz
