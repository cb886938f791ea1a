// Package mfm decodes MFM-encoded floppy tracks: each sample is expanded
// into a run-length-limited (RLL) bit sequence (a 1 followed by 1-3
// zeros depending on whether the interval was ~2, ~3 or ~4us), four-byte
// mark sequences locate the index/address/data/deleted-data marks, and
// the pair-to-bit rule recovers bytes two RLL bits at a time.
//
// This package also holds the encode-side plumbing in writer.go and
// flux.go: a synthetic SA-800 track generator used by this package's
// own tests.
package mfm

import (
	"fmt"

	"floppy8/crc16"
	"floppy8/registry"
	"floppy8/sample"
)

// Mark byte sequences, matched against already pair-decoded bytes.
var (
	indexMark = [4]byte{0xC2, 0xC2, 0xC2, 0xFC}
	addrMark  = [4]byte{0xA1, 0xA1, 0xA1, 0xFE}
	dataMark  = [4]byte{0xA1, 0xA1, 0xA1, 0xFB}
	deldMark  = [4]byte{0xA1, 0xA1, 0xA1, 0xF8}
)

// decodePad trails the RLL buffer so mark scans near the end never read
// past the allocation.
const decodePad = 2 * 8 * registry.MaxSectorSize

// Expand turns capture ticks into an RLL bit buffer: a 1 followed by
// k zeros per sample, k = 1 for ~2us, 2 for ~3us, 3 for ~4us. Returns
// the buffer (padded) and the count of bits actually emitted by the
// samples themselves (excluding the pad).
func Expand(ticks []int) (buf []byte, emitted int) {
	return ExpandWithThresholds(ticks, sample.DefaultThresholds())
}

// ExpandWithThresholds is Expand for a rescaled capture profile.
func ExpandWithThresholds(ticks []int, th sample.Thresholds) (buf []byte, emitted int) {
	buf = make([]byte, 0, len(ticks)*4+decodePad)
	for _, tick := range ticks {
		buf = append(buf, 1)
		switch {
		case tick >= th.MFMSplitHi:
			buf = append(buf, 0, 0, 0)
		case tick >= th.MFMSplitLo:
			buf = append(buf, 0, 0)
		default:
			buf = append(buf, 0)
		}
	}
	emitted = len(buf)
	buf = append(buf, make([]byte, decodePad)...)
	return buf, emitted
}

// Decoder scans an RLL-expanded track for MFM marks, committing sectors
// into reg as they validate.
type Decoder struct {
	buf     []byte
	reg     *registry.Registry
	verbose bool
}

// NewDecoder expands ticks into an RLL buffer and returns a Decoder
// ready to scan it.
func NewDecoder(ticks []int, reg *registry.Registry, verbose bool) *Decoder {
	buf, _ := Expand(ticks)
	return &Decoder{buf: buf, reg: reg, verbose: verbose}
}

// NewDecoderWithThresholds is like NewDecoder but expands ticks using a
// rescaled capture profile instead of the package default.
func NewDecoderWithThresholds(ticks []int, reg *registry.Registry, verbose bool, th sample.Thresholds) *Decoder {
	buf, _ := ExpandWithThresholds(ticks, th)
	return &Decoder{buf: buf, reg: reg, verbose: verbose}
}

// NewDecoderFromBits builds a Decoder directly from an already-recovered
// RLL half-bit stream (e.g. pll.DecodeBits's output) instead of
// expanding raw ticks with fixed thresholds.
func NewDecoderFromBits(bits []byte, reg *registry.Registry, verbose bool) *Decoder {
	buf := append(append([]byte(nil), bits...), make([]byte, decodePad)...)
	return &Decoder{buf: buf, reg: reg, verbose: verbose}
}

// fetchBit converts a pair of RLL bits to a data bit: 00->0, 01->1,
// 10->0, 11 is an invalid MFM pair -- logged and treated as 0.
func fetchBit(pair [2]byte) byte {
	switch {
	case pair[0] == 0 && pair[1] == 0:
		return 0
	case pair[0] == 1 && pair[1] == 0:
		return 0
	case pair[0] == 0 && pair[1] == 1:
		return 1
	default:
		fmt.Printf("# ERROR: invalid MFM bit pair\n")
		return 0
	}
}

// fetchByteAt reads 8 RLL bit pairs from buf starting at i and returns
// the decoded byte plus the new position (i + 16).
func fetchByteAt(buf []byte, i int) (byte, int) {
	var b byte
	for step := 0; step < 8; step++ {
		var pair [2]byte
		if i < len(buf) {
			pair[0] = buf[i]
		}
		if i+1 < len(buf) {
			pair[1] = buf[i+1]
		}
		b = (b << 1) | fetchBit(pair)
		i += 2
	}
	return b, i
}

// fetchByte reads one byte from the decoder's buffer at i.
func (d *Decoder) fetchByte(i int) (byte, int) {
	return fetchByteAt(d.buf, i)
}

// fetchBytes repeatedly applies fetchByte, filling out and returning the
// position just past the last byte fetched.
func (d *Decoder) fetchBytes(i int, out []byte) int {
	for k := range out {
		out[k], i = d.fetchByte(i)
	}
	return i
}

// matches peeks 4 bytes starting at i without committing the scan
// position, for mark recognition.
func matches(buf []byte, i int) (mark [4]byte, ok bool) {
	if i+8*4*2 > len(buf) {
		return mark, false
	}
	pos := i
	for k := 0; k < 4; k++ {
		mark[k], pos = fetchByteAt(buf, pos)
	}
	return mark, true
}

// validAddr decodes the ten bytes starting at i (3 sync bytes + FE +
// track + side + sector + size + 2 CRC bytes, all part of the CRC) and
// validates CRC plus field ranges.
func (d *Decoder) validAddr(i int) (next int, ok bool) {
	var addr [3 + 1 + 4 + 2]byte
	next = d.fetchBytes(i, addr[:])
	if !crc16.Valid(addr[:]) {
		return next, false
	}
	track, side, sector, code := int(addr[4]), int(addr[5]), int(addr[6]), int(addr[7])
	if track >= registry.Tracks || side >= registry.Sides || sector >= registry.Sectors || code >= registry.SizeCodes {
		return next, false
	}
	d.reg.Context = registry.Context{Valid: true, Track: track, Side: side, Sector: sector, Size: 128 << uint(code)}
	if d.verbose {
		fmt.Printf("# %06d: ADDR Track:%02d Side:%d Sector:%02d Size:%d\n", i, track, side, sector, d.reg.Context.Size)
	}
	return next, true
}

// validData decodes a data/deleted-data frame starting at i (3 sync
// bytes + mark byte + size payload bytes + 2 CRC bytes, all part of the
// CRC): the mark byte is supplied by the caller
// (0xFB or 0xF8) and checked explicitly rather than inferred from CRC
// success alone -- one function covers both the data and deleted-data
// cases.
func (d *Decoder) validData(i int, wantMark byte, size int) (payload []byte, next int, ok bool) {
	if size <= 0 || size > registry.MaxSectorSize {
		return nil, i, false
	}
	frame := make([]byte, 3+1+size+2)
	next = d.fetchBytes(i, frame)
	if frame[3] != wantMark {
		return nil, next, false
	}
	if !crc16.Valid(frame) {
		return nil, next, false
	}
	return frame[4 : 4+size], next, true
}

// consumeData handles a data or deleted-data mark found at i: markByte
// is 0xFB or 0xF8, tag labels the verbose trace line. A data mark is
// only meaningful immediately after a valid address mark.
func (d *Decoder) consumeData(i int, markByte byte, tag string) int {
	if !d.reg.Context.Valid {
		d.reg.Reset()
		return i + 1
	}
	c := d.reg.Context
	payload, next, ok := d.validData(i, markByte, c.Size)
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

// Run scans the whole RLL buffer, committing sectors into the registry.
func (d *Decoder) Run() {
	for i := 0; i < len(d.buf); {
		mark, okPeek := matches(d.buf, i)
		if !okPeek {
			break
		}
		switch mark {
		case indexMark:
			if d.verbose {
				fmt.Printf("# %06d: INDX\n", i)
			}
			d.reg.Reset()
			i += 4 * 8 * 2 // 4 bytes, 16 RLL bits each

		case addrMark:
			next, ok := d.validAddr(i)
			if !ok {
				d.reg.Reset()
				i++
				continue
			}
			i = next

		case dataMark:
			i = d.consumeData(i, 0xFB, "DATA")

		case deldMark:
			i = d.consumeData(i, 0xF8, "DELD")

		default:
			i++
		}
	}
}

// Decode is the package entry point: expand ticks into an RLL buffer
// and scan it, committing sectors into reg.
func Decode(ticks []int, reg *registry.Registry, verbose bool) {
	NewDecoder(ticks, reg, verbose).Run()
}

// DecodeWithThresholds is Decode for a rescaled capture profile.
func DecodeWithThresholds(ticks []int, reg *registry.Registry, verbose bool, th sample.Thresholds) {
	NewDecoderWithThresholds(ticks, reg, verbose, th).Run()
}
