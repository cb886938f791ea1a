// Package fm decodes FM-encoded floppy tracks: a single split threshold
// turns capture ticks into a 0/1 decode stream (one value per sample),
// 12-value mark patterns taken from the marks' clock+data cell timing
// locate the index/address/data/deleted-data marks, and the
// interleaved-pair byte-fetch rule recovers bytes.
//
// Structured as a Decoder type with an explicit bit-position field and
// stepwise fetch methods, rather than raw pointer walking.
package fm

import (
	"fmt"

	"floppy8/crc16"
	"floppy8/registry"
	"floppy8/sample"
)

// Mark patterns: 12 decode-stream values, one per capture sample (1 =
// interval below the FM split, 0 = at or above it), covering a mark byte
// written with its non-standard clock byte, clock and data cells
// interleaved clock-first. Spelled out as decode-stream values to match
// the decode buffer's own representation.
var (
	indexMark = [12]byte{1, 1, 1, 0, 1, 1, 0, 1, 1, 1, 0, 0} // data 0xFC, clock 0xD7
	addrMark  = [12]byte{1, 1, 1, 0, 0, 0, 1, 1, 1, 1, 1, 0} // data 0xFE, clock 0xC7
	dataMark  = [12]byte{1, 1, 1, 0, 0, 0, 1, 0, 1, 1, 1, 1} // data 0xFB, clock 0xC7
	deldMark  = [12]byte{1, 1, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1} // data 0xF8, clock 0xC7; 12th bit supplied for the clock/data interleave
)

// decodePad trails the decode buffer so mark scans near the end never
// read past the allocation.
const decodePad = 2 * 8 * registry.MaxSectorSize

// Decoder converts one track's ticks into a 0/1 decode stream and scans
// it for FM marks, committing sectors into reg as they validate.
type Decoder struct {
	buf     []byte
	reg     *registry.Registry
	verbose bool
}

// NewDecoder builds the decode buffer for ticks using the default FM
// split threshold and returns a Decoder ready to scan it.
func NewDecoder(ticks []int, reg *registry.Registry, verbose bool) *Decoder {
	return NewDecoderWithThresholds(ticks, reg, verbose, sample.DefaultThresholds())
}

// NewDecoderWithThresholds is like NewDecoder but uses th.FMSplit instead
// of the package default, for a rescaled capture profile.
func NewDecoderWithThresholds(ticks []int, reg *registry.Registry, verbose bool, th sample.Thresholds) *Decoder {
	buf := make([]byte, len(ticks)+decodePad)
	for i, tick := range ticks {
		if tick < th.FMSplit {
			buf[i] = 1
		}
	}
	return &Decoder{buf: buf, reg: reg, verbose: verbose}
}

// fetchByte applies the FM byte-fetch rule starting at position i:
// eight steps, each appending the current bit, then advancing 2 if the
// current and next bits are both 1 (a clock+data "11" pair), else 1.
// Returns the byte and the new scan position.
func (d *Decoder) fetchByte(i int) (byte, int) {
	var b byte
	for step := 0; step < 8; step++ {
		b = (b << 1) | d.buf[i]
		if d.buf[i] == 1 && i+1 < len(d.buf) && d.buf[i+1] == 1 {
			i += 2
		} else {
			i++
		}
	}
	return b, i
}

// fetchBytes repeatedly applies fetchByte, filling out and returning the
// position just past the last byte fetched.
func (d *Decoder) fetchBytes(i int, out []byte) int {
	for k := range out {
		out[k], i = d.fetchByte(i)
	}
	return i
}

func matches(buf []byte, i int, mark [12]byte) bool {
	if i+len(mark) > len(buf) {
		return false
	}
	for k, want := range mark {
		if buf[i+k] != want {
			return false
		}
	}
	return true
}

// validAddr decodes the six bytes starting at i, just past an address
// mark, and validates the CRC and field ranges. Returns the new scan position and
// whether the mark was valid.
func (d *Decoder) validAddr(i int) (next int, ok bool) {
	var addr [1 + 4 + 2]byte
	addr[0] = 0xFE
	next = d.fetchBytes(i, addr[1:])
	if !crc16.Valid(addr[:]) {
		return next, false
	}
	track, side, sector, code := int(addr[1]), int(addr[2]), int(addr[3]), int(addr[4])
	if track >= registry.Tracks || side >= registry.Sides || sector >= registry.Sectors || code >= registry.SizeCodes {
		return next, false
	}
	d.reg.Context = registry.Context{Valid: true, Track: track, Side: side, Sector: sector, Size: 128 << uint(code)}
	if d.verbose {
		fmt.Printf("# %06d: ADDR Track:%02d Side:%d Sector:%02d Size:%d\n", i, track, side, sector, d.reg.Context.Size)
	}
	return next, true
}

// validData decodes a data or deleted-data frame starting at i, just
// past its mark: markByte identifies which (0xFB or 0xF8) for the CRC computation.
// Returns the decoded payload, new scan position, and success.
func (d *Decoder) validData(i int, markByte byte, size int) (payload []byte, next int, ok bool) {
	if size <= 0 || size > registry.MaxSectorSize {
		return nil, i, false
	}
	frame := make([]byte, 1+size+2)
	frame[0] = markByte
	next = d.fetchBytes(i, frame[1:])
	if !crc16.Valid(frame) {
		return nil, next, false
	}
	return frame[1 : 1+size], next, true
}

// consumeData handles a data or deleted-data mark found at i: markLen is
// the mark pattern's length, markByte is 0xFB or 0xF8, tag labels the
// verbose trace line. A data mark is only meaningful immediately after a
// valid address mark; without one the mark is skipped.
func (d *Decoder) consumeData(i, markLen int, markByte byte, tag string) int {
	start := i + markLen
	if !d.reg.Context.Valid {
		d.reg.Reset()
		return i + 1
	}
	c := d.reg.Context
	payload, next, ok := d.validData(start, markByte, c.Size)
	if ok {
		if d.verbose {
			fmt.Printf("# %06d: %s OK\n", i, tag)
		}
		d.reg.Store(c.Track, c.Side, c.Sector, c.Size, payload)
	}
	d.reg.Reset()
	if ok {
		return next
	}
	return i + 1
}

// Run scans the whole decode buffer, committing sectors into the
// registry. The registry's Context tracks the last-seen address mark:
// set on a valid address mark, cleared on index marks, on a successfully
// consumed data mark, and on any validation failure.
func (d *Decoder) Run() {
	for i := 0; i < len(d.buf)-len(indexMark); {
		switch {
		case matches(d.buf, i, indexMark):
			if d.verbose {
				fmt.Printf("# %06d: INDX\n", i)
			}
			d.reg.Reset()
			i += len(indexMark)

		case matches(d.buf, i, addrMark):
			start := i + len(addrMark)
			next, ok := d.validAddr(start)
			if !ok {
				d.reg.Reset()
				i++
				continue
			}
			i = next

		case matches(d.buf, i, dataMark):
			i = d.consumeData(i, len(dataMark), 0xFB, "DATA")

		case matches(d.buf, i, deldMark):
			i = d.consumeData(i, len(deldMark), 0xF8, "DELD")

		default:
			i++
		}
	}
}

// Decode is the package entry point: build the decode stream for ticks
// and scan it, committing sectors into reg.
func Decode(ticks []int, reg *registry.Registry, verbose bool) {
	NewDecoder(ticks, reg, verbose).Run()
}

// DecodeWithThresholds is Decode for a rescaled capture profile.
func DecodeWithThresholds(ticks []int, reg *registry.Registry, verbose bool, th sample.Thresholds) {
	NewDecoderWithThresholds(ticks, reg, verbose, th).Run()
}
