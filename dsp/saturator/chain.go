package saturator

import (
	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/delay"
	"github.com/cwbudde/algo-saturator/dsp/effects"
	"github.com/cwbudde/algo-saturator/dsp/effects/dynamics"
	"github.com/cwbudde/algo-saturator/dsp/effects/spatial"
	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
	"github.com/cwbudde/algo-saturator/dsp/filter/design"
	"github.com/cwbudde/algo-saturator/dsp/param"
	"github.com/cwbudde/algo-saturator/dsp/resample"
	"github.com/cwbudde/algo-vecmath"
)

const (
	lowCutBypassHz  = 20.0
	highCutBypassHz = 20000.0
	butterworthQ    = 0.7071067811865476
)

// knob indexes into chain.knobs.
type knob int

const (
	knobInputGain knob = iota
	knobDrive
	knobMix
	knobOutput
	knobTone
	knobBias
	knobCount
)

var knobParams = [knobCount]param.ID{
	knobInputGain: param.InputGain,
	knobDrive:     param.Drive,
	knobMix:       param.Mix,
	knobOutput:    param.Output,
	knobTone:      param.Tone,
	knobBias:      param.Bias,
}

// chain is the prepared processing state. It is rebuilt by Prepare and
// owned by the audio thread.
type chain struct {
	spec core.ProcessSpec
	cfg  processorConfig
	tel  *telemetry
	box  *Mailbox

	snap    param.Snapshot
	knobs   [knobCount]param.Smoothed
	bypass   param.Smoothed
	bypassed bool
	widened  bool

	lowCut    *biquad.Bank
	highCut   *biquad.Bank
	lowCutHz  float64
	highCutHz float64
	lowCutOn  bool
	highCutOn bool

	gate   *dynamics.Gate
	gateOn bool

	midSide *spatial.MidSide
	msOn    bool

	oversampler *resample.Oversampler
	saturator   *effects.Saturator
	tone        *effects.ToneStage

	cabinet    *effects.Cabinet
	cabinetOn  bool
	cabinetMix float64

	autoGain   autoGain
	autoGainOn bool

	limiter   *dynamics.Limiter
	limiterOn bool

	dcBlocker *biquad.Bank

	dryDelay    *delay.Compensator
	bypassDelay *delay.Compensator

	vizPre    [][]float64
	dry       [][]float64
	cabDry    [][]float64
	bypassDry [][]float64
	ramp      []float64

	vizPreViews    [][]float64
	dryViews       [][]float64
	cabDryViews    [][]float64
	bypassDryViews [][]float64
	chunkViews     [][]float64
}

func newChain(spec core.ProcessSpec, cfg processorConfig, snap param.Snapshot, tel *telemetry, box *Mailbox) (*chain, error) {
	sr := spec.SampleRate
	channels := spec.Channels

	c := &chain{
		spec:      spec,
		cfg:       cfg,
		tel:       tel,
		box:       box,
		snap:      snap,
		lowCut:    biquad.NewBank(channels, 1),
		highCut:   biquad.NewBank(channels, 1),
		dcBlocker: biquad.NewBank(channels, 1),
	}

	var err error

	if c.gate, err = dynamics.NewGate(sr); err != nil {
		return nil, err
	}

	if c.midSide, err = spatial.NewMidSide(spatial.WithBalance(cfg.midSideBalance)); err != nil {
		return nil, err
	}

	factor := resample.FactorForQuality(snap.Index(param.Quality))
	if c.oversampler, err = resample.NewOversampler(resample.WithFactor(factor)); err != nil {
		return nil, err
	}
	if err = c.oversampler.Prepare(spec); err != nil {
		return nil, err
	}

	highRate := sr * float64(factor)
	if c.saturator, err = effects.NewSaturator(highRate, effects.WithSaturationChannels(channels)); err != nil {
		return nil, err
	}
	if c.tone, err = effects.NewToneStage(highRate, channels); err != nil {
		return nil, err
	}

	c.cabinet, err = effects.NewCabinet(sr,
		effects.WithCabinetChannels(channels),
		effects.WithCabinetResonance(cfg.cabinetResonance))
	if err != nil {
		return nil, err
	}

	if c.limiter, err = dynamics.NewLimiter(sr); err != nil {
		return nil, err
	}
	if err = c.limiter.SetRelease(cfg.limiterRelease); err != nil {
		return nil, err
	}

	c.dcBlocker.SetCoefficients(design.Highpass(design.ClampFrequency(cfg.dcBlockerCutoff, sr), butterworthQ, sr))

	maxLatency := resample.LatencyFor(4)
	if c.dryDelay, err = delay.NewCompensator(channels, maxLatency); err != nil {
		return nil, err
	}
	if c.bypassDelay, err = delay.NewCompensator(channels, maxLatency); err != nil {
		return nil, err
	}

	c.autoGain.prepare(sr)

	c.vizPre = allocBlock(channels, spec.MaxBlockSize)
	c.dry = allocBlock(channels, spec.MaxBlockSize)
	c.cabDry = allocBlock(channels, spec.MaxBlockSize)
	c.bypassDry = allocBlock(channels, spec.MaxBlockSize)
	c.ramp = make([]float64, spec.MaxBlockSize)

	c.vizPreViews = make([][]float64, channels)
	c.dryViews = make([][]float64, channels)
	c.cabDryViews = make([][]float64, channels)
	c.bypassDryViews = make([][]float64, channels)
	c.chunkViews = make([][]float64, channels)

	c.initSmoothers()
	c.applyDiscrete()

	if err = c.setLatency(c.oversampler.Latency()); err != nil {
		return nil, err
	}

	return c, nil
}

func allocBlock(channels, n int) [][]float64 {
	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, n)
	}
	return block
}

// initSmoothers jumps every smoothed value to the snapshot.
func (c *chain) initSmoothers() {
	sr := c.spec.SampleRate

	for k := range c.knobs {
		id := knobParams[k]
		c.knobs[k].Reset(sr, smoothingFor(id))
		c.knobs[k].SetCurrentAndTarget(c.snap.Value(id))
	}

	c.bypass.Reset(sr, smoothingFor(param.Bypass))
	c.bypass.SetCurrentAndTarget(boolValue(c.snap.Bool(param.Bypass)))

	c.applyKnobs()
}

func smoothingFor(id param.ID) float64 {
	s, err := param.Lookup(id)
	if err != nil {
		return 0
	}
	return s.Smoothing
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// setRampTimes widens every smoother to seconds, or restores the declared
// times when seconds is 0.
func (c *chain) setRampTimes(seconds float64) {
	sr := c.spec.SampleRate

	pick := func(id param.ID) float64 {
		if seconds > 0 {
			return seconds
		}
		return smoothingFor(id)
	}

	for k := range c.knobs {
		c.knobs[k].SetRampTime(sr, pick(knobParams[k]))
	}

	c.bypass.SetRampTime(sr, pick(param.Bypass))

	if seconds > 0 {
		c.autoGain.setRampTime(sr, seconds)
	} else {
		c.autoGain.setRampTime(sr, autoGainSmoothing)
	}
}

func (c *chain) setLatency(samples int) error {
	if err := c.dryDelay.SetDelay(samples); err != nil {
		return err
	}
	if err := c.bypassDelay.SetDelay(samples); err != nil {
		return err
	}
	c.tel.latency.Store(int64(samples))
	return nil
}

// beginBlock reads snap into smoother targets and the discrete settings.
func (c *chain) beginBlock(presetLoad bool) {
	if presetLoad {
		c.setRampTimes(c.cfg.presetSmoothing)
		c.widened = true
	}

	for k := range c.knobs {
		c.knobs[k].SetTarget(c.snap.Value(knobParams[k]))
	}

	c.bypass.SetTarget(boolValue(c.snap.Bool(param.Bypass)))

	c.updateFactor()
	c.applyDiscrete()
}

// endBlock restores the declared smoothing times after a preset block.
func (c *chain) endBlock() {
	if c.widened {
		c.setRampTimes(0)
		c.widened = false
	}
}

// updateFactor switches the oversampling factor between blocks.
func (c *chain) updateFactor() {
	factor := resample.FactorForQuality(c.snap.Index(param.Quality))
	if factor == c.oversampler.Factor() {
		return
	}

	if err := c.oversampler.SetFactor(factor); err != nil {
		return
	}

	highRate := c.spec.SampleRate * float64(factor)
	_ = c.saturator.SetSampleRate(highRate)
	_ = c.tone.SetSampleRate(highRate)
	c.saturator.Reset()
	c.tone.Reset()
	_ = c.setLatency(c.oversampler.Latency())
}

// applyDiscrete updates the unsmoothed settings. Stages that switch on start
// from cleared state.
func (c *chain) applyDiscrete() {
	s := &c.snap
	sr := c.spec.SampleRate

	lowCut := s.Value(param.LowCut)
	lowOn := lowCut > lowCutBypassHz
	if lowOn {
		if !c.lowCutOn {
			c.lowCut.Reset()
		}
		if lowCut != c.lowCutHz {
			c.lowCut.SetCoefficients(design.Highpass(design.ClampFrequency(lowCut, sr), butterworthQ, sr))
			c.lowCutHz = lowCut
		}
	}
	c.lowCutOn = lowOn

	highCut := s.Value(param.HighCut)
	highOn := highCut < highCutBypassHz
	if highOn {
		if !c.highCutOn {
			c.highCut.Reset()
		}
		if highCut != c.highCutHz {
			c.highCut.SetCoefficients(design.Lowpass(design.ClampFrequency(highCut, sr), butterworthQ, sr))
			c.highCutHz = highCut
		}
	}
	c.highCutOn = highOn

	gateOn := s.Bool(param.GateEnabled)
	if gateOn && !c.gateOn {
		c.gate.Reset()
	}
	c.gateOn = gateOn
	if gateOn {
		_ = c.gate.SetThreshold(s.Value(param.GateThreshold))
	} else {
		c.tel.gateLevel.Store(0)
	}

	c.msOn = s.Bool(param.MidSideEnabled) && c.spec.Channels == 2
	c.midSide.SetMidGainDB(s.Value(param.MidGain))
	c.midSide.SetSideGainDB(s.Value(param.SideGain))
	c.midSide.SetWidth(s.Value(param.StereoWidth) / 100)

	_ = c.saturator.SetModel(effects.ModelFromIndex(s.Index(param.Model)))

	cabinetOn := s.Bool(param.CabinetEnabled)
	if cabinetOn && !c.cabinetOn {
		c.cabinet.Reset()
	}
	c.cabinetOn = cabinetOn
	_ = c.cabinet.SetPreset(s.Index(param.CabinetModel))
	c.cabinet.SetPresence(s.Value(param.CabinetPresence) / 100)
	c.cabinetMix = s.Value(param.CabinetMix) / 100

	limiterOn := s.Bool(param.LimiterEnabled)
	if limiterOn && !c.limiterOn {
		c.limiter.Reset()
	}
	c.limiterOn = limiterOn

	autoGainOn := s.Bool(param.AutoGain)
	if autoGainOn && !c.autoGainOn {
		c.autoGain.reset()
	}
	if !autoGainOn {
		c.tel.autoGainDB.Store(0)
	}
	c.autoGainOn = autoGainOn
}

// advanceKnobs skips every knob smoother n samples ahead and pushes the
// values into the stages that consume them.
func (c *chain) advanceKnobs(n int) {
	for k := range c.knobs {
		c.knobs[k].Skip(n)
	}
	c.applyKnobs()
}

func (c *chain) applyKnobs() {
	c.saturator.SetDrive(c.knobs[knobDrive].Current())
	c.saturator.SetBias(c.knobs[knobBias].Current())
	c.tone.SetTone(c.knobs[knobTone].Current() / 100)
}

// views points dst at the first n samples of each buffer in src.
func views(dst, src [][]float64, channels, n int) [][]float64 {
	for ch := range channels {
		dst[ch] = src[ch][:n]
	}
	return dst[:channels]
}

func copyBlock(dst, src [][]float64) {
	for ch := range dst {
		copy(dst[ch], src[ch])
	}
}

// mixInto writes wet*mix + dry*(1-mix) into wet. dry is overwritten.
func mixInto(wet, dry []float64, mix float64) {
	vecmath.ScaleBlockInPlace(wet, mix)
	vecmath.ScaleBlockInPlace(dry, 1-mix)
	vecmath.AddBlockInPlace(wet, dry)
}

// crossfade blends wet towards dry by ramp: 0 keeps wet, 1 gives dry.
func crossfade(wet, dry, ramp []float64) {
	for i, b := range ramp {
		wet[i] += (dry[i] - wet[i]) * b
	}
}

// process runs one chunk of at most MaxBlockSize samples in place.
func (c *chain) process(block [][]float64) error {
	channels := len(block)
	n := len(block[0])

	pre := views(c.vizPreViews, c.vizPre, channels, n)
	copyBlock(pre, block)
	c.tel.measureInput(block)

	bypassDry := views(c.bypassDryViews, c.bypassDry, channels, n)
	copyBlock(bypassDry, block)
	c.bypassDelay.Process(bypassDry)

	c.advanceKnobs(n)

	if !c.bypass.IsSmoothing() && c.bypass.Current() > 0.5 {
		if err := c.idle(bypassDry, block); err != nil {
			return err
		}
		copyBlock(block, bypassDry)
		c.tel.bypass.Store(int32(BypassBypassed))
		c.finish(pre, block)
		return nil
	}

	if c.bypassed {
		c.resume()
	}

	ms, err := c.front(block)
	if err != nil {
		return err
	}

	dry := views(c.dryViews, c.dry, channels, n)
	copyBlock(dry, block)
	c.dryDelay.Process(dry)

	if c.autoGainOn {
		c.autoGain.measurePre(block)
	}

	high, err := c.oversampler.ProcessUp(block)
	if err != nil {
		return err
	}

	for ch, buf := range high {
		c.saturator.ProcessChannel(ch, buf)
		c.tone.ProcessChannel(ch, buf)
	}

	if err := c.oversampler.ProcessDown(high, block); err != nil {
		return err
	}

	if mix := c.knobs[knobMix].Current() / 100; mix < 1 {
		for ch, buf := range block {
			mixInto(buf, dry[ch], mix)
		}
	}

	if c.cabinetOn {
		c.processCabinet(block)
	}

	outDB := c.knobs[knobOutput].Current()
	if c.autoGainOn {
		db := c.autoGain.measurePost(block, n)
		storeFloat(&c.tel.autoGainDB, db)
		outDB += db
	}

	if g := core.DBToLinear(outDB); g != 1 {
		for _, buf := range block {
			vecmath.ScaleBlockInPlace(buf, g)
		}
	}

	if c.limiterOn {
		for ch, buf := range block {
			c.limiter.ProcessChannel(ch, buf)
		}
	}

	if ms {
		if err := spatial.Decode(block[0], block[1]); err != nil {
			return err
		}
	}

	for ch, buf := range block {
		c.dcBlocker.ProcessChannel(ch, buf)
	}

	if c.bypass.IsSmoothing() {
		ramp := c.ramp[:n]
		for i := range ramp {
			ramp[i] = c.bypass.Next()
		}
		for ch, buf := range block {
			crossfade(buf, bypassDry[ch], ramp)
		}
		c.tel.bypass.Store(int32(BypassRamping))
	} else {
		c.tel.bypass.Store(int32(BypassActive))
	}

	c.finish(pre, block)

	return nil
}

// front runs the stages ahead of the dry tap: input gain, pre-filters, gate
// and mid/side encoding. It reports whether block is now mid/side.
func (c *chain) front(block [][]float64) (bool, error) {
	if g := core.DBToLinear(c.knobs[knobInputGain].Current()); g != 1 {
		for _, buf := range block {
			vecmath.ScaleBlockInPlace(buf, g)
		}
	}

	for ch, buf := range block {
		if c.lowCutOn {
			c.lowCut.ProcessChannel(ch, buf)
		}
		if c.highCutOn {
			c.highCut.ProcessChannel(ch, buf)
		}
	}

	if c.gateOn {
		for ch, buf := range block {
			c.gate.ProcessChannel(ch, buf)
		}
		storeFloat(&c.tel.gateLevel, c.gate.InputLevel())
	}

	if !c.msOn || len(block) != 2 {
		return false, nil
	}

	if err := c.midSide.EncodeInPlace(block[0], block[1]); err != nil {
		return false, err
	}

	return true, nil
}

// idle keeps the dry path and the DC blocker running on scratch copies while
// fully bypassed, so that both hold current audio when bypass is released.
// input is the raw block and out the delayed input sent to the output.
func (c *chain) idle(out, input [][]float64) error {
	channels, n := len(input), len(input[0])

	dry := views(c.dryViews, c.dry, channels, n)
	copyBlock(dry, input)
	if _, err := c.front(dry); err != nil {
		return err
	}
	c.dryDelay.Process(dry)

	warm := views(c.cabDryViews, c.cabDry, channels, n)
	copyBlock(warm, out)
	for ch, buf := range warm {
		c.dcBlocker.ProcessChannel(ch, buf)
	}

	c.bypassed = true

	return nil
}

// resume drops the wet-path history left from before the bypass so that none
// of it leaks into the crossfade back to the processed signal.
func (c *chain) resume() {
	c.oversampler.Reset()
	c.saturator.Reset()
	c.tone.Reset()
	c.cabinet.Reset()
	c.limiter.Reset()
	c.bypassed = false
}

func (c *chain) processCabinet(block [][]float64) {
	mix := c.cabinetMix

	var dry [][]float64
	if mix < 1 {
		dry = views(c.cabDryViews, c.cabDry, len(block), len(block[0]))
		copyBlock(dry, block)
	}

	for ch, buf := range block {
		c.cabinet.ProcessChannel(ch, buf)
	}

	if mix < 1 {
		for ch, buf := range block {
			mixInto(buf, dry[ch], mix)
		}
	}
}

func (c *chain) finish(pre, post [][]float64) {
	c.tel.measureOutput(post)
	c.box.offer(pre, post)
}

// reset clears filter, delay and envelope state and jumps the smoothers to
// the current snapshot.
func (c *chain) reset() {
	c.lowCut.Reset()
	c.highCut.Reset()
	c.gate.Reset()
	c.oversampler.Reset()
	c.saturator.Reset()
	c.tone.Reset()
	c.cabinet.Reset()
	c.limiter.Reset()
	c.dcBlocker.Reset()
	c.dryDelay.Reset()
	c.bypassDelay.Reset()
	c.autoGain.reset()
	c.widened = false
	c.bypassed = false
	c.initSmoothers()
}
