package harmonics_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/effects"
	"github.com/cwbudde/algo-saturator/measure/harmonics"
)

func ExampleProfileModel() {
	p, err := harmonics.ProfileModel(effects.ModelTube, 0, harmonics.Config{Amplitude: 0.25})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%.0f Hz, fundamental %.2f, clean %v\n", p.Frequency, p.Fundamental, p.THD < 1e-3)
	// Output: 1002 Hz, fundamental 0.25, clean true
}
