// Package biquad provides the second-order IIR runtime used by every filter
// stage of the saturation chain.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. [Chain] cascades sections
// for one signal path and [Bank] keeps one chain per audio channel so that
// each channel owns its delay line while sharing coefficients.
//
// Coefficient updates never touch delay-line state; only Reset clears it.
// Coefficient design lives in dsp/filter/design.
package biquad
