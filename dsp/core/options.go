package core

import (
	"fmt"
	"math"
)

const (
	defaultSpecSampleRate   = 48000
	defaultSpecMaxBlockSize = 512
	defaultSpecChannels     = 2

	// MaxChannels is the largest channel count the processing chain supports.
	MaxChannels = 2
)

// ProcessSpec describes the stream a processor is prepared for.
type ProcessSpec struct {
	SampleRate   float64
	MaxBlockSize int
	Channels     int
}

// SpecOption mutates a ProcessSpec.
type SpecOption func(*ProcessSpec)

// DefaultProcessSpec returns a stereo 48 kHz spec with 512-sample blocks.
func DefaultProcessSpec() ProcessSpec {
	return ProcessSpec{
		SampleRate:   defaultSpecSampleRate,
		MaxBlockSize: defaultSpecMaxBlockSize,
		Channels:     defaultSpecChannels,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) SpecOption {
	return func(spec *ProcessSpec) {
		if sampleRate > 0 {
			spec.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block a process call may receive.
func WithMaxBlockSize(blockSize int) SpecOption {
	return func(spec *ProcessSpec) {
		if blockSize > 0 {
			spec.MaxBlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count.
func WithChannels(channels int) SpecOption {
	return func(spec *ProcessSpec) {
		if channels > 0 {
			spec.Channels = channels
		}
	}
}

// ApplySpecOptions applies zero or more options to the default spec.
func ApplySpecOptions(opts ...SpecOption) ProcessSpec {
	spec := DefaultProcessSpec()
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}
	return spec
}

// Validate reports whether the spec can drive a processing chain.
func (s ProcessSpec) Validate() error {
	if s.SampleRate <= 0 || math.IsNaN(s.SampleRate) || math.IsInf(s.SampleRate, 0) {
		return fmt.Errorf("process spec sample rate must be positive and finite: %f", s.SampleRate)
	}

	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("process spec max block size must be > 0: %d", s.MaxBlockSize)
	}

	if s.Channels <= 0 || s.Channels > MaxChannels {
		return fmt.Errorf("process spec channels must be in [1, %d]: %d", MaxChannels, s.Channels)
	}

	return nil
}
