// Package physics steps the attractor/particle system one frame at a time.
//
// The per-particle kernels are exported so they can be tested in isolation:
//
//   - [ApplyGravity]: inverse-square pull toward the attractor
//   - [ResolveRepulsor]: look-ahead collision and reflection off the pointer
//   - [ReflectEdges]: velocity reflection at the surface edges
//
// [World] owns one run's attractor and particles and applies the kernels in
// a fixed order on every [World.Step]: gravity, repulsor, damping, Euler
// integration, edges, flash countdown.
//
// One frame is one unit of time; there is no dt.
package physics
