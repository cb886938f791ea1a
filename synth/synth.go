// Package synth builds synthetic FM/MFM capture-tick tracks for tests:
// a full index mark plus a run of address+data sectors, CRC-16 computed
// the same way the decoders validate it. It exists purely as test
// fixture infrastructure, built on fm.Writer/mfm.Writer's bit-level
// plumbing.
package synth

import (
	"floppy8/crc16"
	"floppy8/fm"
	"floppy8/mfm"
)

// Sector describes one sector to lay down on a synthetic track.
type Sector struct {
	Track, Side, Sector int
	Data                []byte // length determines the size code; must be 128/256/512/1024
	Deleted             bool   // use the deleted-data mark instead of the data mark
	BadCRC              bool   // corrupt the data CRC, for error-path tests
}

func sizeCode(size int) byte {
	switch size {
	case 128:
		return 0
	case 256:
		return 1
	case 512:
		return 2
	case 1024:
		return 3
	default:
		panic("synth: unsupported sector size")
	}
}

// FMTrack lays out an FM track (index mark + gap + each sector in turn)
// and returns the capture ticks a decoder would read back.
func FMTrack(sectors []Sector) []int {
	w := fm.NewWriter()
	w.WriteGap(40, 0xFF)
	w.WriteGap(6, 0x00)
	w.WriteIndexMark()
	w.WriteGap(26, 0xFF)

	for _, s := range sectors {
		w.WriteGap(6, 0x00)
		w.WriteAddressMark()
		addr := []byte{0xFE, byte(s.Track), byte(s.Side), byte(s.Sector), sizeCode(len(s.Data))}
		sum := crc16.Sum(crc16.Init, addr)
		w.WriteByte(byte(s.Track))
		w.WriteByte(byte(s.Side))
		w.WriteByte(byte(s.Sector))
		w.WriteByte(sizeCode(len(s.Data)))
		w.WriteByte(byte(sum >> 8))
		w.WriteByte(byte(sum))

		w.WriteGap(11, 0xFF)
		w.WriteGap(6, 0x00)
		mark := byte(0xFB)
		if s.Deleted {
			mark = 0xF8
			w.WriteDeletedDataMark()
		} else {
			w.WriteDataMark()
		}
		frame := append([]byte{mark}, s.Data...)
		sum = crc16.Sum(crc16.Init, frame)
		if s.BadCRC {
			sum ^= 0xFFFF
		}
		for _, b := range s.Data {
			w.WriteByte(b)
		}
		w.WriteByte(byte(sum >> 8))
		w.WriteByte(byte(sum))
		w.WriteGap(27, 0xFF)
	}
	w.WriteGap(247, 0xFF)
	return fm.Ticks(w.Bits())
}

// MFMTrack lays out an MFM track the same way FMTrack does, using the
// A1/C2 sync-violation marks instead of FM's 12-bit patterns.
func MFMTrack(sectors []Sector) []int {
	w := mfm.NewWriter()
	w.WriteGap(80, 0x4E)
	w.WriteIndexMarker()
	w.WriteGap(50, 0x4E)

	for _, s := range sectors {
		w.WriteAddressMarkSync()
		addr := []byte{0xA1, 0xA1, 0xA1, 0xFE, byte(s.Track), byte(s.Side), byte(s.Sector), sizeCode(len(s.Data))}
		sum := crc16.Sum(crc16.Init, addr)
		w.WriteByte(0xFE)
		w.WriteByte(byte(s.Track))
		w.WriteByte(byte(s.Side))
		w.WriteByte(byte(s.Sector))
		w.WriteByte(sizeCode(len(s.Data)))
		w.WriteByte(byte(sum >> 8))
		w.WriteByte(byte(sum))

		w.WriteGap(22, 0x4E)
		w.WriteAddressMarkSync()
		mark := byte(0xFB)
		if s.Deleted {
			mark = 0xF8
		}
		frame := []byte{0xA1, 0xA1, 0xA1, mark}
		frame = append(frame, s.Data...)
		sum = crc16.Sum(crc16.Init, frame)
		if s.BadCRC {
			sum ^= 0xFFFF
		}
		w.WriteByte(mark)
		for _, b := range s.Data {
			w.WriteByte(b)
		}
		w.WriteByte(byte(sum >> 8))
		w.WriteByte(byte(sum))
		w.WriteGap(108, 0x4E)
	}
	return mfm.Ticks(w.Bits())
}
