// Package gui is the raylib window host.
//
// The window loop ticks a FrameScheduler once per frame, so the simulation
// advances in lockstep with the display. The mouse position in window
// pixels is the pointer; moving off the window clears it.
package gui
