package fm_test

import (
	"bytes"
	"testing"

	"floppy8/fm"
	"floppy8/registry"
	"floppy8/synth"
)

func TestDecodeSyntheticTrack(t *testing.T) {
	data1 := bytes.Repeat([]byte{0xAA}, 128)
	data2 := bytes.Repeat([]byte{0x55}, 256)
	ticks := synth.FMTrack([]synth.Sector{
		{Track: 3, Side: 0, Sector: 1, Data: data1},
		{Track: 3, Side: 0, Sector: 2, Data: data2},
	})

	reg := registry.New()
	fm.Decode(ticks, reg, false)

	got1, ok := reg.Get(3, 1)
	if !ok {
		t.Fatalf("sector 1 not recovered")
	}
	if !bytes.Equal(got1.Data, data1) {
		t.Errorf("sector 1 data mismatch")
	}
	got2, ok := reg.Get(3, 2)
	if !ok {
		t.Fatalf("sector 2 not recovered")
	}
	if !bytes.Equal(got2.Data, data2) {
		t.Errorf("sector 2 data mismatch")
	}
}

func TestDecodeSyntheticTrackDeletedData(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 512)
	ticks := synth.FMTrack([]synth.Sector{
		{Track: 0, Side: 0, Sector: 5, Data: data, Deleted: true},
	})
	reg := registry.New()
	fm.Decode(ticks, reg, false)
	got, ok := reg.Get(0, 5)
	if !ok || !bytes.Equal(got.Data, data) {
		t.Fatalf("deleted-data sector not recovered correctly")
	}
}

func TestDecodeSyntheticTrackCorruptedCRCRejected(t *testing.T) {
	data := bytes.Repeat([]byte{0x13}, 256)
	ticks := synth.FMTrack([]synth.Sector{
		{Track: 1, Side: 0, Sector: 9, Data: data, BadCRC: true},
	})
	reg := registry.New()
	fm.Decode(ticks, reg, false)
	if _, ok := reg.Get(1, 9); ok {
		t.Errorf("sector with a corrupted data CRC must not be stored")
	}
}
