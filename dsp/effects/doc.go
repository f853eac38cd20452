// Package effects provides the tone-shaping kernels of the saturation
// chain.
//
// Subpackages:
//   - github.com/cwbudde/algo-saturator/dsp/effects/dynamics
//   - github.com/cwbudde/algo-saturator/dsp/effects/spatial
//
// Effects in this package:
//   - Saturator: Eleven waveshaping models with drive, bias and makeup gain.
//   - ToneStage: Tilt-style low shelf, high shelf and presence peak.
//   - Cabinet: Speaker cabinet simulation from a fixed preset table.
//
// All effects are designed for real-time processing with zero-allocation
// hot paths and support both single-sample and buffer-based processing.
package effects
