package crc16

import "testing"

// Frames below are (mark byte + payload + CRC) triples where the trailing
// two bytes were computed by running Sum over the preceding bytes, so a
// well-formed frame must always close the loop back to zero.
func appendCRC(frame []byte) []byte {
	crc := Sum(Init, frame)
	return append(append([]byte{}, frame...), byte(crc>>8), byte(crc))
}

func TestValidFrameChecksToZero(t *testing.T) {
	cases := [][]byte{
		{0xFE, 0x05, 0x00, 0x03, 0x00},                       // FM address mark
		{0xFB, 0x00, 0x00, 0x00, 0x00},                       // FM data mark, 4 zero bytes
		{0xA1, 0xA1, 0xA1, 0xFE, 0x0A, 0x00, 0x01, 0x01},     // MFM address mark
		{0xA1, 0xA1, 0xA1, 0xF8, 0xAA, 0xAA, 0xAA, 0xAA},     // MFM deleted-data mark
	}
	for _, frame := range cases {
		full := appendCRC(frame)
		if !Valid(full) {
			t.Errorf("frame % X with appended CRC should validate to zero", frame)
		}
	}
}

func TestCorruptedFrameFailsCRC(t *testing.T) {
	full := appendCRC([]byte{0xFE, 0x05, 0x00, 0x03, 0x00})
	full[1] ^= 0x01 // flip one payload bit
	if Valid(full) {
		t.Errorf("corrupted frame unexpectedly validated")
	}
}

func TestUpdateIsOrderSensitive(t *testing.T) {
	a := Sum(Init, []byte{0x01, 0x02})
	b := Sum(Init, []byte{0x02, 0x01})
	if a == b {
		t.Errorf("CRC of reordered bytes should normally differ, got equal %#04x", a)
	}
}

func TestKnownVector(t *testing.T) {
	// Regression pin: Update(Init, 'A') must match the independently
	// computed reference value for the floppy-controller polynomial.
	got := Update(Init, 'A')
	want := uint16(0xB915)
	if got != want {
		t.Errorf("Update(Init, 'A') = %#04x, want %#04x", got, want)
	}
}
