package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
)

func ExampleSection_ProcessSample() {
	s := biquad.NewSection(biquad.Coefficients{
		B0: 0.25, B1: 0.5, B2: 0.25,
		A1: -0.2, A2: 0.04,
	})

	for i := range 4 {
		var x float64
		if i == 0 {
			x = 1
		}

		fmt.Printf("y[%d] = %.6f\n", i, s.ProcessSample(x))
	}
	// Output:
	// y[0] = 0.250000
	// y[1] = 0.550000
	// y[2] = 0.350000
	// y[3] = 0.048000
}

func ExampleBank_ProcessChannel() {
	bank := biquad.NewBank(2, 1)
	bank.SetCoefficients(biquad.Coefficients{B0: 0.5, B1: 0.5})

	left := []float64{1, 1, 1}
	right := []float64{1, 0, 0}
	bank.ProcessChannel(0, left)
	bank.ProcessChannel(1, right)

	fmt.Println(left, right)
	// Output:
	// [0.5 1 1] [0.5 0.5 0]
}
