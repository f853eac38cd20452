package delay

import (
	"errors"
	"fmt"
)

// ErrDelayTooLong is returned when a requested delay exceeds the capacity the
// line was allocated with.
var ErrDelayTooLong = errors.New("delay: delay exceeds capacity")

// Line is a circular integer delay line.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads the sample written delay writes ago. Read(1) is the most recent
// sample.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}

// Compensator delays every channel of a block by the same whole number of
// samples. It aligns an unprocessed path with a path that carries latency.
type Compensator struct {
	lines []*Line
	delay int
}

// NewCompensator allocates channels lines able to hold up to maxDelay samples.
func NewCompensator(channels, maxDelay int) (*Compensator, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("delay channels must be > 0: %d", channels)
	}
	if maxDelay < 0 {
		return nil, fmt.Errorf("delay capacity must be >= 0: %d", maxDelay)
	}

	c := &Compensator{lines: make([]*Line, channels)}
	for ch := range c.lines {
		line, err := New(maxDelay + 1)
		if err != nil {
			return nil, err
		}
		c.lines[ch] = line
	}
	return c, nil
}

// SetDelay changes the delay and clears the lines when it differs from the
// current one.
func (c *Compensator) SetDelay(samples int) error {
	if samples < 0 || samples >= c.lines[0].Len() {
		return fmt.Errorf("%w: %d", ErrDelayTooLong, samples)
	}
	if samples == c.delay {
		return nil
	}
	c.delay = samples
	c.Reset()
	return nil
}

// Delay returns the current delay in samples.
func (c *Compensator) Delay() int { return c.delay }

// Channels returns the number of lines.
func (c *Compensator) Channels() int { return len(c.lines) }

// ProcessChannel delays buf in place using the line for ch.
func (c *Compensator) ProcessChannel(ch int, buf []float64) {
	if ch < 0 || ch >= len(c.lines) {
		return
	}
	line := c.lines[ch]
	if c.delay == 0 {
		return
	}
	for i, x := range buf {
		line.Write(x)
		buf[i] = line.Read(c.delay + 1)
	}
}

// Process delays each channel of block in place. Extra channels are left
// untouched.
func (c *Compensator) Process(block [][]float64) {
	for ch := range block {
		c.ProcessChannel(ch, block[ch])
	}
}

// Reset clears every line.
func (c *Compensator) Reset() {
	for _, line := range c.lines {
		line.Reset()
	}
}
