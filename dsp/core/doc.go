// Package core holds the numeric and buffer helpers shared by every stage of
// the saturation chain, plus [ProcessSpec], the stream description handed to
// prepare-style lifecycle calls.
//
// Building with the fastmath tag swaps the exponential and square root used
// on the processing path for approximations from algo-approx.
package core
