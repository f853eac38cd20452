package saturator_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/param"
	"github.com/cwbudde/algo-saturator/dsp/saturator"
)

func ExampleProcessor() {
	store := param.NewStore()
	_ = store.Set(param.Drive, 60)
	_ = store.Set(param.Quality, 2)

	p, err := saturator.NewProcessor(store)
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := p.Prepare(core.ApplySpecOptions(core.WithSampleRate(44100), core.WithMaxBlockSize(256))); err != nil {
		fmt.Println(err)
		return
	}

	block := [][]float64{make([]float64, 256), make([]float64, 256)}
	if err := p.Process(block); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(p.Latency(), p.BypassState())
	// Output: 29 active
}
