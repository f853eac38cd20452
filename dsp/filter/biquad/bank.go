package biquad

// Bank runs the same cascade of sections on several channels. Coefficients
// are shared, delay lines are per channel.
type Bank struct {
	coeffs []Coefficients
	chains []Chain
}

// NewBank returns a bank with the given channel and section counts. All
// sections start as identity filters.
func NewBank(channels, sections int) *Bank {
	if channels < 0 {
		channels = 0
	}

	if sections < 0 {
		sections = 0
	}

	b := &Bank{coeffs: make([]Coefficients, sections)}
	for i := range b.coeffs {
		b.coeffs[i] = Identity()
	}

	b.SetChannels(channels)

	return b
}

// SetChannels resizes the bank. Existing channel state is discarded.
// It allocates and must not be called on the audio path.
func (b *Bank) SetChannels(channels int) {
	if channels < 0 {
		channels = 0
	}

	b.chains = make([]Chain, channels)
	for ch := range b.chains {
		b.chains[ch].sections = make([]Section, len(b.coeffs))
		for i := range b.coeffs {
			b.chains[ch].sections[i].Coefficients = b.coeffs[i]
		}
	}
}

// SetCoefficients replaces the coefficients of all sections on every channel
// while preserving delay-line state. The count must match NumSections;
// surplus values are ignored and missing ones leave their section untouched.
func (b *Bank) SetCoefficients(coeffs ...Coefficients) {
	n := min(len(coeffs), len(b.coeffs))
	for i := range n {
		b.SetSection(i, coeffs[i])
	}
}

// SetSection replaces the coefficients of section i on every channel.
func (b *Bank) SetSection(i int, coeffs Coefficients) {
	if i < 0 || i >= len(b.coeffs) {
		return
	}

	b.coeffs[i] = coeffs
	for ch := range b.chains {
		b.chains[ch].sections[i].Coefficients = coeffs
	}
}

// Section returns the shared coefficients of section i.
func (b *Bank) Section(i int) Coefficients {
	return b.coeffs[i]
}

// ProcessChannel filters buf in place through the cascade of channel ch.
// Out-of-range channels are left untouched.
func (b *Bank) ProcessChannel(ch int, buf []float64) {
	if ch < 0 || ch >= len(b.chains) {
		return
	}

	b.chains[ch].ProcessBlock(buf)
}

// ProcessSample filters one sample of channel ch.
func (b *Bank) ProcessSample(ch int, x float64) float64 {
	if ch < 0 || ch >= len(b.chains) {
		return x
	}

	return b.chains[ch].ProcessSample(x)
}

// Reset clears the delay lines of every channel.
func (b *Bank) Reset() {
	for ch := range b.chains {
		b.chains[ch].Reset()
	}
}

// Channels returns the number of channels.
func (b *Bank) Channels() int {
	return len(b.chains)
}

// NumSections returns the number of sections per channel.
func (b *Bank) NumSections() int {
	return len(b.coeffs)
}

// Chain returns the cascade of channel ch for inspection.
func (b *Bank) Chain(ch int) *Chain {
	return &b.chains[ch]
}
