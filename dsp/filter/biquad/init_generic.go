//go:build !amd64 || purego

package biquad

import (
	_ "github.com/cwbudde/algo-saturator/dsp/filter/biquad/internal/arch/generic"
	_ "github.com/cwbudde/algo-saturator/dsp/filter/biquad/internal/arch/registry"
)
