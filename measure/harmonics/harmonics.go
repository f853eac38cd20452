package harmonics

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-saturator/dsp/window"
)

const (
	defaultSampleRate   = 48000.0
	defaultFFTSize      = 8192
	defaultMaxHarmonics = 9
	defaultLowerHz      = 20.0

	// mainLobeBins covers the 4-term Blackman-Harris main lobe.
	mainLobeBins = 4
)

// ErrSignalTooShort is returned when fewer samples than the FFT size are
// supplied.
var ErrSignalTooShort = errors.New("harmonics: signal shorter than FFT size")

// Config controls an analysis.
type Config struct {
	SampleRate float64
	// FFTSize must be a power of two. The last FFTSize samples are analysed.
	FFTSize int
	// Frequency of the fundamental in Hz. Zero searches the strongest bin.
	Frequency    float64
	MaxHarmonics int
	// Amplitude of the test sine used by ProfileModel.
	Amplitude float64
	// Oversampling factor used by ProfileModel (1, 2 or 4).
	Oversampling int
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.FFTSize <= 0 {
		c.FFTSize = defaultFFTSize
	}
	if c.MaxHarmonics <= 0 {
		c.MaxHarmonics = defaultMaxHarmonics
	}
	if c.Amplitude <= 0 {
		c.Amplitude = 0.5
	}
	if c.Oversampling <= 0 {
		c.Oversampling = 4
	}
	return c
}

// BinWidth returns the spacing of FFT bins in Hz.
func (c Config) BinWidth() float64 {
	c = c.withDefaults()
	return c.SampleRate / float64(c.FFTSize)
}

// SnapFrequency moves freq to the nearest bin centre.
func (c Config) SnapFrequency(freq float64) float64 {
	bw := c.BinWidth()
	return math.Max(1, math.Round(freq/bw)) * bw
}

// Profile is the harmonic content of a signal.
type Profile struct {
	// Frequency is the fundamental at bin resolution.
	Frequency float64
	// Fundamental is the fundamental's peak amplitude.
	Fundamental float64
	// Harmonics[i] is the level of harmonic i+2 relative to the fundamental.
	Harmonics []float64
	THD       float64
	THDdB     float64
	// Even and Odd are the root-sum-square of the even and odd harmonics,
	// relative to the fundamental.
	Even float64
	Odd  float64
	DC   float64
}

// EvenOddRatio returns Even/Odd, or +Inf when no odd harmonics were found.
func (p Profile) EvenOddRatio() float64 {
	if p.Odd == 0 {
		return math.Inf(1)
	}
	return p.Even / p.Odd
}

// Harmonic returns the relative level of harmonic k (k >= 2), or 0 when it
// was not measured.
func (p Profile) Harmonic(k int) float64 {
	i := k - 2
	if i < 0 || i >= len(p.Harmonics) {
		return 0
	}
	return p.Harmonics[i]
}

// Analyze measures the harmonic profile of signal.
func Analyze(signal []float64, cfg Config) (Profile, error) {
	cfg = cfg.withDefaults()

	n := cfg.FFTSize
	if n&(n-1) != 0 {
		return Profile{}, fmt.Errorf("harmonics FFT size must be a power of two: %d", n)
	}
	if len(signal) < n {
		return Profile{}, fmt.Errorf("%w: %d < %d", ErrSignalTooShort, len(signal), n)
	}

	frame := signal[len(signal)-n:]
	coeffs := window.Generate(window.TypeBlackmanHarris, n, window.WithPeriodic())

	energy := 0.0
	mean := 0.0
	in := make([]complex128, n)
	for i, x := range frame {
		in[i] = complex(x*coeffs[i], 0)
		energy += coeffs[i] * coeffs[i]
		mean += x
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Profile{}, err
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return Profile{}, err
	}

	power := make([]float64, n/2+1)
	for i := range power {
		re, im := real(out[i]), imag(out[i])
		power[i] = re*re + im*im
	}

	// RSS over the main lobe of a sinusoid of amplitude A is A/2*sqrt(n*energy).
	scale := 2 / math.Sqrt(float64(n)*energy)
	level := func(bin int) float64 {
		lo := max(bin-mainLobeBins, 1)
		hi := min(bin+mainLobeBins, len(power)-1)
		sum := 0.0
		for i := lo; i <= hi; i++ {
			sum += power[i]
		}
		return math.Sqrt(sum) * scale
	}

	binHz := cfg.SampleRate / float64(n)
	maxBin := len(power) - 1
	fundBin := fundamentalBin(power, cfg, binHz)
	if fundBin <= mainLobeBins || fundBin > maxBin-mainLobeBins {
		return Profile{}, fmt.Errorf("harmonics fundamental bin %d out of range", fundBin)
	}

	p := Profile{
		Frequency:   float64(fundBin) * binHz,
		Fundamental: level(fundBin),
		DC:          mean / float64(n),
	}
	if p.Fundamental == 0 {
		return p, nil
	}

	p.Harmonics = make([]float64, 0, cfg.MaxHarmonics)

	var total, even, odd float64
	for k := 2; k <= cfg.MaxHarmonics+1; k++ {
		bin := k * fundBin
		if bin > maxBin-mainLobeBins {
			break
		}

		r := level(bin) / p.Fundamental
		p.Harmonics = append(p.Harmonics, r)

		total += r * r
		if k%2 == 0 {
			even += r * r
		} else {
			odd += r * r
		}
	}

	p.THD = math.Sqrt(total)
	p.THDdB = ratioToDB(p.THD)
	p.Even = math.Sqrt(even)
	p.Odd = math.Sqrt(odd)

	return p, nil
}

func fundamentalBin(power []float64, cfg Config, binHz float64) int {
	if cfg.Frequency > 0 {
		return int(math.Round(cfg.Frequency / binHz))
	}

	lo := max(int(math.Ceil(defaultLowerHz/binHz)), 1)
	best, bestPower := lo, -1.0
	for i := lo; i < len(power); i++ {
		if power[i] > bestPower {
			best, bestPower = i, power[i]
		}
	}
	return best
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
