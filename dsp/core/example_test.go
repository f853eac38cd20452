package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/core"
)

func ExampleApplySpecOptions() {
	spec := core.ApplySpecOptions(
		core.WithSampleRate(44100),
		core.WithMaxBlockSize(256),
		core.WithChannels(1),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d valid=%t\n",
		spec.SampleRate, spec.MaxBlockSize, spec.Channels, spec.Validate() == nil)

	// Output:
	// sampleRate=44100 blockSize=256 channels=1 valid=true
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)

	copied := core.CopyInto(buf[2:], []float64{3, 4})
	fmt.Println(copied, buf)

	core.Zero(buf[:2])
	fmt.Println(buf)

	// Output:
	// 2 [1 2 3 4]
	// [0 0 3 4]
}
