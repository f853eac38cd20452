package dynamics

import "testing"

func BenchmarkGateProcessChannel64(b *testing.B) {
	g, _ := NewGate(48000)

	buf := make([]float64, 64)
	for i := range buf {
		buf[i] = 0.5
	}

	for b.Loop() {
		g.ProcessChannel(0, buf)
	}
}
