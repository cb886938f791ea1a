package track_test

import (
	"bytes"
	"strings"
	"testing"

	"floppy8/registry"
	"floppy8/sample"
	"floppy8/synth"
	"floppy8/track"
)

func TestReadTicksStopsAtNonInteger(t *testing.T) {
	r := strings.NewReader("70 75 112 notanumber 200")
	ticks, err := track.ReadTicks(r)
	if err != nil {
		t.Fatalf("ReadTicks: %v", err)
	}
	want := []int{70, 75, 112}
	if len(ticks) != len(want) {
		t.Fatalf("got %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("got %v, want %v", ticks, want)
		}
	}
}

func TestReadTicksCapsAtMaxSamples(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < sample.MaxSamples+50; i++ {
		sb.WriteString("70 ")
	}
	ticks, err := track.ReadTicks(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadTicks: %v", err)
	}
	if len(ticks) != sample.MaxSamples {
		t.Errorf("got %d ticks, want %d", len(ticks), sample.MaxSamples)
	}
}

func TestDecodeDetectsMFMAndCommitsSector(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, 256)
	ticks := synth.MFMTrack([]synth.Sector{
		{Track: 10, Side: 0, Sector: 1, Data: data},
	})
	reg := registry.New()
	result, ok := track.Decode("synthetic", ticks, reg, false)
	if !ok {
		t.Fatalf("Decode failed")
	}
	if result.Format != sample.MFM {
		t.Errorf("format = %s, want MFM", result.Format)
	}
	got, present := reg.Get(10, 1)
	if !present || !bytes.Equal(got.Data, data) {
		t.Errorf("sector not recovered correctly")
	}
}

func TestDecodeNoSamplesFails(t *testing.T) {
	reg := registry.New()
	if _, ok := track.Decode("empty", nil, reg, false); ok {
		t.Errorf("expected Decode to fail on an empty tick list")
	}
}
