// Package harmonics measures the harmonic profile of a saturated sine:
// fundamental level, per-harmonic levels, THD and the even/odd balance.
//
// Levels are read from a windowed FFT. Each partial is the root-sum-square of
// the bins covering the window's main lobe, normalised by the window energy,
// so sinusoids need not sit exactly on a bin.
package harmonics
