// Package track drives one track file through the pipeline: parse its
// capture ticks, auto-detect FM vs MFM, and hand the ticks to the
// matching decoder against a shared registry.
package track

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"floppy8/fm"
	"floppy8/mfm"
	"floppy8/pll"
	"floppy8/registry"
	"floppy8/sample"
)

// ReadTicks parses whitespace-separated decimal integers from r. Parsing
// stops at EOF or the first token that isn't a valid integer; at most
// sample.MaxSamples values are kept, any remainder silently ignored.
func ReadTicks(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var ticks []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			break
		}
		if len(ticks) >= sample.MaxSamples {
			continue
		}
		ticks = append(ticks, v)
	}
	if err := sc.Err(); err != nil {
		return ticks, err
	}
	return ticks, nil
}

// Result summarizes one track's decode for verbose/JSON reporting.
type Result struct {
	Path      string
	Format    sample.Format
	Histogram sample.Histogram
	Samples   int
}

// DecodeFile reads path's ticks, detects the format, and decodes it into
// reg. Returns the zero Result and false if the file can't be read or
// parsed, or if it carries no samples.
func DecodeFile(path string, reg *registry.Registry, verbose bool) (Result, bool) {
	return DecodeFileWithThresholds(path, reg, verbose, sample.DefaultThresholds())
}

// DecodeFileWithThresholds is DecodeFile for a rescaled capture profile.
func DecodeFileWithThresholds(path string, reg *registry.Registry, verbose bool, th sample.Thresholds) (Result, bool) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("# ERROR: %s: %v\n", path, err)
		return Result{}, false
	}
	defer f.Close()

	ticks, err := ReadTicks(f)
	if err != nil {
		fmt.Printf("# ERROR: %s: %v\n", path, err)
		return Result{}, false
	}
	return DecodeWithThresholds(path, ticks, reg, verbose, th)
}

// Decode runs format detection and the matching decoder over ticks,
// committing sectors into reg, using the package's default capture
// thresholds.
func Decode(path string, ticks []int, reg *registry.Registry, verbose bool) (Result, bool) {
	return DecodeWithThresholds(path, ticks, reg, verbose, sample.DefaultThresholds())
}

// DecodeWithThresholds is Decode for a rescaled capture profile (see
// config.Profile).
func DecodeWithThresholds(path string, ticks []int, reg *registry.Registry, verbose bool, th sample.Thresholds) (Result, bool) {
	format, hist, ok := sample.DetectFormatAt(ticks, th.OneUS)
	if !ok {
		fmt.Printf("# ERROR: %s: no samples\n", path)
		return Result{}, false
	}
	if verbose {
		fmt.Printf("# %s: %d samples, format %s, histogram %v\n", path, len(ticks), format, hist)
	}

	reg.Reset()
	switch format {
	case sample.MFM:
		mfm.DecodeWithThresholds(ticks, reg, verbose, th)
	default:
		fm.DecodeWithThresholds(ticks, reg, verbose, th)
	}
	return Result{Path: path, Format: format, Histogram: hist, Samples: len(ticks)}, true
}

// DecodeWithPLL is Decode, but recovers MFM tracks via pll.DecodeBits's
// phase-locked loop instead of mfm.Expand's fixed threshold buckets. FM
// tracks are unaffected -- the PLL only helps the 3-way MFM
// classification, which is the one sensitive to drive speed jitter.
func DecodeWithPLL(path string, ticks []int, reg *registry.Registry, verbose bool, th sample.Thresholds) (Result, bool) {
	format, hist, ok := sample.DetectFormatAt(ticks, th.OneUS)
	if !ok {
		fmt.Printf("# ERROR: %s: no samples\n", path)
		return Result{}, false
	}
	if verbose {
		fmt.Printf("# %s: %d samples, format %s, histogram %v (PLL)\n", path, len(ticks), format, hist)
	}

	reg.Reset()
	switch format {
	case sample.MFM:
		bits := pll.DecodeBits(ticks, th.OneUS)
		mfm.NewDecoderFromBits(bits, reg, verbose).Run()
	default:
		fm.DecodeWithThresholds(ticks, reg, verbose, th)
	}
	return Result{Path: path, Format: format, Histogram: hist, Samples: len(ticks)}, true
}
