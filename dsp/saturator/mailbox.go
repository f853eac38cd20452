package saturator

import (
	"sync"

	"github.com/cwbudde/algo-saturator/dsp/core"
)

// Mailbox is a single-slot hand-off of the latest pre/post processing block
// from the audio thread to a reader. A newer frame replaces an unread one.
// The audio side never waits: when the reader holds the lock the frame is
// dropped.
type Mailbox struct {
	mu       sync.Mutex
	pre      [][]float64
	post     [][]float64
	samples  int
	sequence uint64
}

func newMailbox() *Mailbox {
	return &Mailbox{}
}

// resize allocates storage for channels x maxBlock samples and clears any
// pending frame.
func (m *Mailbox) resize(channels, maxBlock int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pre = make([][]float64, channels)
	m.post = make([][]float64, channels)
	for ch := range channels {
		m.pre[ch] = make([]float64, maxBlock)
		m.post[ch] = make([]float64, maxBlock)
	}
	m.samples = 0
}

// offer publishes pre and post if the lock is free. It reports whether the
// frame was stored.
func (m *Mailbox) offer(pre, post [][]float64) bool {
	if !m.mu.TryLock() {
		return false
	}
	defer m.mu.Unlock()

	n := 0
	for ch := range m.pre {
		if ch >= len(pre) || ch >= len(post) {
			core.Zero(m.pre[ch])
			core.Zero(m.post[ch])
			continue
		}
		n = core.CopyInto(m.pre[ch], pre[ch])
		core.CopyInto(m.post[ch], post[ch])
	}

	m.samples = n
	m.sequence++

	return true
}

// Read copies the latest frame into pre and post, one slice per channel, and
// returns the number of samples per channel copied and the frame sequence
// number. A sequence of 0 means nothing has been published yet.
func (m *Mailbox) Read(pre, post [][]float64) (int, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for ch := range m.pre {
		if ch < len(pre) {
			n = max(n, copy(pre[ch], m.pre[ch][:m.samples]))
		}
		if ch < len(post) {
			n = max(n, copy(post[ch], m.post[ch][:m.samples]))
		}
	}

	return n, m.sequence
}

// Channels returns the number of channels a frame carries.
func (m *Mailbox) Channels() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pre)
}
