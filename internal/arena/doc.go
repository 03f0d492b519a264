// Package arena implements the physics core of the spinning-top arena.
//
// An [Arena] owns an ordered, contiguous collection of [Top] values. Each call
// to [Arena.Step] advances every live top by one frame:
//
//   - spiral forcing toward the center (tangential component follows spin sign)
//   - friction and velocity decay, collision flash fade
//   - rest and exit removal
//   - soft boundary containment at the arena edge
//   - pairwise collision resolution against later-indexed tops
//
// # Ordering
//
// Tops are integrated in ascending index order and collisions mutate both
// participants in place. A top with a lower index therefore resolves against
// the pre-step state of its later peers, and those peers then integrate from
// the already adjusted velocity. This single-pass update is order dependent
// on purpose; parallelizing it changes collision outcomes.
//
// # Thread Safety
//
// Arena instances are NOT thread-safe. Run independent arenas in separate
// goroutines instead (see sim.Ensemble).
package arena
