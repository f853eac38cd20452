// Package saturator wires the saturation chain into a block processor.
//
// A Processor reads a param.Snapshot once per block and runs, in this fixed
// order: input gain, pre-filters, noise gate, mid/side encode, upsampling,
// saturation, tone, downsampling, dry/wet mix, cabinet (with its own mix),
// output gain with optional auto-gain, limiter, mid/side decode, DC blocker
// and the bypass crossfade.
//
// All buffers are sized in Prepare. Process does not allocate, lock or log.
// The dry path and the bypass path are delayed by Latency so that they stay
// aligned with the oversampled wet path.
package saturator
