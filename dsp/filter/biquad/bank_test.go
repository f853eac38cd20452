package biquad

import "testing"

func TestBankChannelsAreIndependent(t *testing.T) {
	b := NewBank(2, 1)
	b.SetCoefficients(testCoefficients())

	left := []float64{1, 0, 0, 0}
	right := []float64{0, 0, 0, 0}

	b.ProcessChannel(0, left)
	b.ProcessChannel(1, right)

	for i, v := range right {
		if v != 0 {
			t.Fatalf("right[%d] = %v, want 0 (state bleed)", i, v)
		}
	}

	if !almostEqual(left[1], 0.55, 1e-12) {
		t.Fatalf("left[1] = %v, want 0.55", left[1])
	}
}

func TestBankSetCoefficientsKeepsState(t *testing.T) {
	b := NewBank(1, 2)
	b.SetCoefficients(testCoefficients(), testCoefficients())

	for range 4 {
		b.ProcessSample(0, 1)
	}

	before := b.Chain(0).State()
	b.SetCoefficients(Identity(), testCoefficients())
	after := b.Chain(0).State()

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("section %d state reset by coefficient change", i)
		}
	}

	if b.Section(0) != Identity() {
		t.Fatalf("Section(0) = %v, want identity", b.Section(0))
	}
}

func TestBankIdentityByDefault(t *testing.T) {
	b := NewBank(2, 3)
	buf := []float64{0.3, -0.2, 0.9}
	b.ProcessChannel(1, buf)

	want := []float64{0.3, -0.2, 0.9}
	for i := range buf {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	if b.Channels() != 2 || b.NumSections() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", b.Channels(), b.NumSections())
	}
}

func TestBankOutOfRangeChannelIgnored(t *testing.T) {
	b := NewBank(1, 1)
	b.SetCoefficients(Coefficients{B0: 2})

	buf := []float64{1}
	b.ProcessChannel(3, buf)
	if buf[0] != 1 {
		t.Fatalf("out-of-range channel modified buffer: %v", buf[0])
	}
	if y := b.ProcessSample(-1, 0.5); y != 0.5 {
		t.Fatalf("ProcessSample(-1) = %v, want passthrough", y)
	}
}

func TestBankReset(t *testing.T) {
	b := NewBank(2, 1)
	b.SetCoefficients(testCoefficients())
	b.ProcessSample(0, 1)
	b.ProcessSample(1, 1)
	b.Reset()

	for ch := range 2 {
		if st := b.Chain(ch).State(); st[0] != [2]float64{0, 0} {
			t.Fatalf("channel %d state after Reset: %v", ch, st)
		}
	}
}
