package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const defaultKaiserBeta = 8.0

// DesignHalfBand returns a linear-phase lowpass prototype with its cutoff at
// a quarter of the sample rate and unity DC gain. taps must be odd and >= 3.
func DesignHalfBand(taps int, beta float64) ([]float64, error) {
	if taps < 3 || taps%2 == 0 {
		return nil, fmt.Errorf("half-band taps must be odd and >= 3: %d", taps)
	}

	w, err := window.Kaiser(taps, beta)
	if err != nil {
		return nil, err
	}

	h := make([]float64, taps)
	center := (taps - 1) / 2

	for n := range h {
		t := float64(n - center)
		h[n] = 0.5 * sinc(0.5*t) * w[n]
	}

	// Every second tap away from the centre is a sinc zero.
	for n := range h {
		if d := n - center; d != 0 && d%2 == 0 {
			h[n] = 0
		}
	}

	sum := vecmath.Sum(h)
	if sum == 0 {
		return nil, fmt.Errorf("half-band design with %d taps has zero DC gain", taps)
	}

	vecmath.ScaleBlockInPlace(h, 1/sum)

	return h, nil
}

// HalfBand is a per-channel 2x interpolator/decimator pair sharing one
// prototype. Each direction keeps its own delay line.
type HalfBand struct {
	taps []float64

	// Upsampling polyphase branches, pre-scaled by 2.
	even []float64
	odd  []float64

	upHist []float64
	upPos  int

	downHist []float64
	downPos  int
}

// NewHalfBand designs a prototype with the given tap count and Kaiser beta.
func NewHalfBand(taps int, beta float64) (*HalfBand, error) {
	h, err := DesignHalfBand(taps, beta)
	if err != nil {
		return nil, err
	}

	hb := &HalfBand{
		taps:     h,
		even:     make([]float64, 0, (taps+1)/2),
		odd:      make([]float64, 0, taps/2),
		downHist: make([]float64, 2*taps),
	}

	for i, v := range h {
		if i%2 == 0 {
			hb.even = append(hb.even, 2*v)
		} else {
			hb.odd = append(hb.odd, 2*v)
		}
	}

	hb.upHist = make([]float64, 2*len(hb.even))

	return hb, nil
}

// Upsample writes 2*len(src) interpolated samples into dst.
func (h *HalfBand) Upsample(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[2*len(src)-1]

	n := len(h.even)
	for i, x := range src {
		h.upPos--
		if h.upPos < 0 {
			h.upPos = n - 1
		}

		h.upHist[h.upPos] = x
		h.upHist[h.upPos+n] = x
		win := h.upHist[h.upPos : h.upPos+n]

		dst[2*i] = vecmath.DotProduct(h.even, win)
		dst[2*i+1] = vecmath.DotProduct(h.odd, win[:len(h.odd)])
	}
}

// Downsample filters src and keeps every second sample; len(src) must be
// 2*len(dst).
func (h *HalfBand) Downsample(dst, src []float64) {
	if len(dst) == 0 {
		return
	}

	_ = src[2*len(dst)-1]

	for i := range dst {
		h.pushDown(src[2*i])
		dst[i] = vecmath.DotProduct(h.taps, h.downHist[h.downPos:h.downPos+len(h.taps)])
		h.pushDown(src[2*i+1])
	}
}

func (h *HalfBand) pushDown(x float64) {
	n := len(h.taps)

	h.downPos--
	if h.downPos < 0 {
		h.downPos = n - 1
	}

	h.downHist[h.downPos] = x
	h.downHist[h.downPos+n] = x
}

// Reset clears both delay lines.
func (h *HalfBand) Reset() {
	clear(h.upHist)
	clear(h.downHist)
	h.upPos = 0
	h.downPos = 0
}

// Taps returns a copy of the prototype.
func (h *HalfBand) Taps() []float64 {
	return append([]float64(nil), h.taps...)
}

// Latency returns the up+down group delay in samples at the higher rate.
func (h *HalfBand) Latency() int {
	return len(h.taps) - 1
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
