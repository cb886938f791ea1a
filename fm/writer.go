package fm

import "floppy8/sample"

// Writer builds a synthetic FM track's decode-bit stream (one entry per
// capture sample) for testing. Ordinary
// bytes (clock all-ones) obey a simple identity: a data bit of 1 is two
// consecutive short samples (the data transition plus the following
// clock transition), a data bit of 0 is a single long sample (the merged
// clock-to-clock span with no data transition) -- which is exactly what
// fetchByte's "advance 2 on a 1,1 pair, else advance 1" rule expects.
// Marks use their literal 12-bit patterns directly, since their clock
// bytes are not all-ones and so don't fit that identity.
type Writer struct {
	bits []byte
}

// NewWriter returns an empty FM track writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteByte appends an ordinary data byte (clock=0xFF).
func (w *Writer) WriteByte(b byte) {
	for bit := 7; bit >= 0; bit-- {
		if (b>>uint(bit))&1 == 1 {
			w.bits = append(w.bits, 1, 1)
		} else {
			w.bits = append(w.bits, 0)
		}
	}
}

// WriteGap appends n copies of fill (an ordinary byte, e.g. 0xFF).
func (w *Writer) WriteGap(n int, fill byte) {
	for i := 0; i < n; i++ {
		w.WriteByte(fill)
	}
}

func (w *Writer) WriteIndexMark()       { w.bits = append(w.bits, indexMark[:]...) }
func (w *Writer) WriteAddressMark()     { w.bits = append(w.bits, addrMark[:]...) }
func (w *Writer) WriteDataMark()        { w.bits = append(w.bits, dataMark[:]...) }
func (w *Writer) WriteDeletedDataMark() { w.bits = append(w.bits, deldMark[:]...) }

// Bits returns a copy of the accumulated decode-bit stream.
func (w *Writer) Bits() []byte {
	return append([]byte(nil), w.bits...)
}

// Ticks converts a decode-bit stream back into capture-tick samples:
// bit 1 -> a tick below the FM split, bit 0 -> a tick at/above it.
func Ticks(bits []byte) []int {
	ticks := make([]int, len(bits))
	for i, b := range bits {
		if b == 1 {
			ticks[i] = sample.TwoUS
		} else {
			ticks[i] = sample.FourUS
		}
	}
	return ticks
}
