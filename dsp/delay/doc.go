// Package delay provides integer delay lines and a multichannel latency
// compensator.
package delay
