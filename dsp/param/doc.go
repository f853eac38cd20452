// Package param holds the host-facing parameter model of the saturator:
// the parameter table, a lock-free store written by the host and read by the
// audio thread once per block, linear-ramp smoothing, and the versioned state
// blob used for preset save and load.
package param
