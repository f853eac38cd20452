package saturator

import "testing"

func TestMailboxLatestWins(t *testing.T) {
	m := newMailbox()
	m.resize(1, 8)

	if n, seq := m.Read([][]float64{make([]float64, 8)}, nil); n != 0 || seq != 0 {
		t.Fatalf("empty Read() = %d, %d", n, seq)
	}

	m.offer([][]float64{{1, 2, 3}}, [][]float64{{4, 5, 6}})
	m.offer([][]float64{{7, 8}}, [][]float64{{9, 10}})

	pre := [][]float64{make([]float64, 8)}
	post := [][]float64{make([]float64, 8)}
	n, seq := m.Read(pre, post)
	if n != 2 || seq != 2 {
		t.Fatalf("Read() = %d, %d, want 2, 2", n, seq)
	}
	if pre[0][0] != 7 || post[0][1] != 10 {
		t.Fatalf("frame = %v / %v", pre[0][:n], post[0][:n])
	}
}

func TestMailboxDropsWhenReaderHoldsLock(t *testing.T) {
	m := newMailbox()
	m.resize(1, 4)

	m.mu.Lock()
	stored := m.offer([][]float64{{1}}, [][]float64{{1}})
	m.mu.Unlock()

	if stored {
		t.Fatal("offer succeeded while locked")
	}

	if _, seq := m.Read(nil, nil); seq != 0 {
		t.Fatalf("sequence = %d after dropped frame, want 0", seq)
	}

	if !m.offer([][]float64{{1}}, [][]float64{{1}}) {
		t.Fatal("offer failed on a free mailbox")
	}
	if m.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", m.Channels())
	}
}
