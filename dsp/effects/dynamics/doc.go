// Package dynamics provides the level-dependent stages of the saturation
// chain.
//
// Included processors:
//   - Gate: Per-channel noise gate with a smoothed open/closed decision and
//     an input level tap for a gate indicator.
//   - Limiter: Brick-wall peak limiter with instant attack, exponential
//     release and a final hard clip at the ceiling.
package dynamics
