package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/resample"
)

func ExampleOversampler() {
	o, _ := resample.NewOversampler(resample.WithFactor(4))
	_ = o.Prepare(core.DefaultProcessSpec())

	block := [][]float64{make([]float64, 128), make([]float64, 128)}

	hi, _ := o.ProcessUp(block)
	fmt.Println(len(hi[0]), o.Latency())

	_ = o.ProcessDown(hi, block)
	// Output: 512 29
}
