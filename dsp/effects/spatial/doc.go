// Package spatial provides mid/side stereo processing.
//
// MidSide applies mid and side gains plus a width factor to a stereo pair.
// EncodeInPlace and Decode split the same work around stages that should
// run in the mid/side domain.
package spatial
