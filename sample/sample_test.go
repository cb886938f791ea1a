package sample

import "testing"

func TestBucketRounding(t *testing.T) {
	cases := []struct {
		tick int
		want int
	}{
		{0, 0},
		{OneUS - 1, 1},
		{TwoUS, 2},
		{ThreeUS, 3},
		{FourUS, 4},
		{FiveUS, 5},
		{FiveUS + OneUS*10, MaxUS - 1}, // clamp
	}
	for _, c := range cases {
		if got := Bucket(c.tick); got != c.want {
			t.Errorf("Bucket(%d) = %d, want %d", c.tick, got, c.want)
		}
	}
}

func TestDetectFormatEmptyTrack(t *testing.T) {
	_, _, ok := DetectFormat(nil)
	if ok {
		t.Errorf("empty track should be reported as not-ok (skip)")
	}
}

// TestDetectFormatBoundary checks the 5% boundary straddles correctly:
// ~3% of samples in the 3us bucket detects as FM, ~8% detects as MFM.
func TestDetectFormatBoundary(t *testing.T) {
	build := func(threePct int) []int {
		var ticks []int
		total := 1000
		threes := total * threePct / 100
		for i := 0; i < threes; i++ {
			ticks = append(ticks, ThreeUS)
		}
		for i := threes; i < total; i++ {
			ticks = append(ticks, TwoUS)
		}
		return ticks
	}

	fmt3, _, ok := DetectFormat(build(3))
	if !ok || fmt3 != FM {
		t.Errorf("3%% in 3us bucket should detect FM, got %v", fmt3)
	}

	mfm8, _, ok := DetectFormat(build(8))
	if !ok || mfm8 != MFM {
		t.Errorf("8%% in 3us bucket should detect MFM, got %v", mfm8)
	}
}

func TestFormatString(t *testing.T) {
	if FM.String() != "FM" || MFM.String() != "MFM" {
		t.Errorf("unexpected Format.String() values")
	}
}
