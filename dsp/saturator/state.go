package saturator

import "github.com/sirupsen/logrus"

// SaveState serializes the current parameter values.
func (p *Processor) SaveState() ([]byte, error) {
	return p.store.MarshalState()
}

// LoadState restores parameter values from data and widens every smoother for
// the next block so that the jump to the new values is ramped. It is safe to
// call while the audio thread is processing.
func (p *Processor) LoadState(data []byte) error {
	log := p.logger.WithFields(logrus.Fields{
		"function": "LoadState",
		"bytes":    len(data),
	})

	if err := p.store.UnmarshalState(data); err != nil {
		log.WithError(err).Warn("Rejected state blob")
		return err
	}

	p.BeginPresetLoad()
	log.Info("State loaded")

	return nil
}

// BeginPresetLoad marks the next block as a preset change: every smoother
// uses the preset smoothing time for that block and then returns to its own.
// Call it after writing a batch of parameters to the store.
func (p *Processor) BeginPresetLoad() {
	p.presetPending.Store(true)
}
