// Package design provides RBJ-cookbook biquad coefficient designers.
//
// Every designer returns zero coefficients when the request cannot be
// realised (non-positive sample rate, frequency outside (0, Nyquist)).
// Callers that derive frequencies from user controls should pass them through
// [ClampFrequency] first so that a sweep never lands on an invalid design.
package design
