// Package window generates the window functions used by the oversampling
// filter design (Kaiser) and by harmonic analysis (Hann, Blackman-Harris).
package window
