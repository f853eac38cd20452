// Package resample provides the fixed-ratio oversampling used around the
// nonlinear stages of the saturation chain.
//
// A [HalfBand] is a Kaiser-windowed linear-phase half-band FIR run in
// polyphase form for 2x interpolation and 2x decimation. An [Oversampler]
// cascades one or two half-band stages per channel to run a block at 1x, 2x
// or 4x the host rate:
//
//	factor  stages           round-trip latency (host samples)
//	1       none             0
//	2       47 taps          23
//	4       47 + 25 taps     29
//
// All buffers are sized by Prepare; ProcessUp and ProcessDown do not
// allocate. Factor changes reset filter state and only take effect between
// blocks.
package resample
