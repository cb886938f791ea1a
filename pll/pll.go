// Package pll recovers an MFM half-bit stream from capture ticks using
// an SCP-style phase-locked loop instead of the fixed threshold buckets
// mfm.Expand uses, tolerating drive speed variation and jitter that
// would otherwise push a sample across a hard 2.5us/3.5us boundary.
// Wired in behind the CLI's --pll flag as an alternate to mfm.Expand.
//
// The loop walks tick deltas directly rather than absolute flux
// transition times: the flux iterator is a plain index into ticks
// instead of a running lastTime/transitions pair.
package pll

// SCP PLL algorithm constants (from the classic legacy/mfmdisk/scp.c
// analog PLL model).
const (
	// ClockMaxAdjPct is the +/- adjustment range (90%-110% of ideal).
	ClockMaxAdjPct = 10
	// PeriodAdjPct is the period adjustment percentage.
	PeriodAdjPct = 5
	// PhaseAdjPct is the phase adjustment percentage.
	PhaseAdjPct = 60
)

// Decoder tracks PLL state while walking a track's capture ticks,
// recovering one MFM half-bit (clock or data cell) per NextBit call.
type Decoder struct {
	PeriodIdeal  float64 // expected half-bit period, in capture ticks
	Period       float64 // current (adjusted) half-bit period
	Flux         float64 // accumulated flux time since the last clock edge
	Time         float64 // total elapsed time
	ClockedZeros int     // consecutive half-bits with no transition

	ticks []int
	index int
}

// NewDecoder returns a PLL decoder for ticks, with an ideal half-bit
// period of oneUS capture ticks (an MFM bit cell is nominally 2us, two
// half-bits).
func NewDecoder(ticks []int, oneUS int) *Decoder {
	ideal := float64(oneUS)
	return &Decoder{
		PeriodIdeal: ideal,
		Period:      ideal,
		ticks:       ticks,
	}
}

// NextFlux returns the next tick delta, or 0 if ticks are exhausted.
func (d *Decoder) NextFlux() float64 {
	if d.index >= len(d.ticks) {
		return 0
	}
	v := d.ticks[d.index]
	d.index++
	return float64(v)
}

// IsDone reports whether every tick has been consumed and no partial
// flux remains to resolve into a final bit.
func (d *Decoder) IsDone() bool {
	return d.index >= len(d.ticks) && d.Flux < d.Period/2
}

// NextBit decodes and returns the next half-bit: false for a clocked
// zero (no transition), true for a transition, adjusting the PLL's
// period and phase estimate on every transition seen.
func (d *Decoder) NextBit() bool {
	for d.Flux < d.Period/2 {
		interval := d.NextFlux()
		if interval == 0 {
			d.ClockedZeros++
			return false
		}
		d.Flux += interval
	}

	d.Time += d.Period
	d.Flux -= d.Period

	if d.Flux >= d.Period/2 {
		d.ClockedZeros++
		return false
	}

	if d.ClockedZeros <= 3 {
		d.Period += d.Flux * PeriodAdjPct / 100
	} else {
		d.Period += (d.PeriodIdeal - d.Period) * PeriodAdjPct / 100
	}

	pMin := (d.PeriodIdeal * (100 - ClockMaxAdjPct)) / 100
	if d.Period < pMin {
		d.Period = pMin
	}
	pMax := (d.PeriodIdeal * (100 + ClockMaxAdjPct)) / 100
	if d.Period > pMax {
		d.Period = pMax
	}

	newFlux := d.Flux * (100 - PhaseAdjPct) / 100
	d.Time += d.Flux - newFlux
	d.Flux = newFlux

	d.ClockedZeros = 0
	return true
}

// DecodeBits runs the PLL to completion, returning the recovered
// half-bit stream as 0/1 bytes -- the same shape mfm.Expand produces,
// suitable for mfm.NewDecoderFromBits.
func DecodeBits(ticks []int, oneUS int) []byte {
	d := NewDecoder(ticks, oneUS)
	var bits []byte
	for !d.IsDone() {
		if d.NextBit() {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
	}
	return bits
}
