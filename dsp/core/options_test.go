package core

import "testing"

func TestApplySpecOptions(t *testing.T) {
	spec := ApplySpecOptions(WithSampleRate(96000), WithMaxBlockSize(2048), WithChannels(1))
	if spec.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", spec.SampleRate)
	}
	if spec.MaxBlockSize != 2048 {
		t.Fatalf("block size = %d, want 2048", spec.MaxBlockSize)
	}
	if spec.Channels != 1 {
		t.Fatalf("channels = %d, want 1", spec.Channels)
	}
}

func TestInvalidSpecOptionsIgnored(t *testing.T) {
	spec := ApplySpecOptions(WithSampleRate(0), WithMaxBlockSize(-1), WithChannels(0))
	def := DefaultProcessSpec()
	if spec != def {
		t.Fatalf("spec = %#v, want %#v", spec, def)
	}
}

func TestProcessSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec ProcessSpec
		ok   bool
	}{
		{"default", DefaultProcessSpec(), true},
		{"mono", ProcessSpec{SampleRate: 44100, MaxBlockSize: 64, Channels: 1}, true},
		{"zero rate", ProcessSpec{SampleRate: 0, MaxBlockSize: 64, Channels: 2}, false},
		{"negative rate", ProcessSpec{SampleRate: -48000, MaxBlockSize: 64, Channels: 2}, false},
		{"zero block", ProcessSpec{SampleRate: 48000, MaxBlockSize: 0, Channels: 2}, false},
		{"zero channels", ProcessSpec{SampleRate: 48000, MaxBlockSize: 64, Channels: 0}, false},
		{"too many channels", ProcessSpec{SampleRate: 48000, MaxBlockSize: 64, Channels: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("Validate() returned nil for invalid spec")
			}
		})
	}
}
