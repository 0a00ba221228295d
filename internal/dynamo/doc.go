// Package dynamo defines the data model shared by the gravity simulation.
//
// The package holds plain data and no behavior beyond validation:
//
//   - [Attractor]: the fixed central mass
//   - [Particle]: a moving point mass with a transient flash counter
//   - [Repulsor]: the pointer-bound circle that reflects particles
//   - [Snapshot]: an immutable view of one frame, handed to renderers
//   - [Tuning]: numeric constants of a run
//   - [Settings]: the two repulsor knobs, safe for concurrent use
//
// Stepping lives in the physics package; scheduling and lifecycle in sim.
//
// # Thread Safety
//
// Only [Settings] may be shared between goroutines. Snapshots are copies and
// may be read concurrently once returned.
package dynamo
