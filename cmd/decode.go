package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floppy8/config"
	"floppy8/registry"
	"floppy8/render"
	"floppy8/track"
)

// runDecode is the root command's action: load the capture profile, decode
// every track file argument into a shared registry, then print the sector
// map and per-sector dump. Per-track read/parse failures are diagnostics --
// they're printed and the track is skipped, never surfaced as a command
// error.
func runDecode(cmd *cobra.Command, args []string) error {
	profile, err := config.Load(profilePath, profileName)
	if err != nil {
		return fmt.Errorf("failed to load capture profile: %w", err)
	}
	th := profile.Thresholds()

	reg := registry.New()
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			fmt.Printf("# ERROR: %s: %v\n", path, err)
			continue
		}
		ticks, err := track.ReadTicks(f)
		f.Close()
		if err != nil {
			fmt.Printf("# ERROR: %s: %v\n", path, err)
			continue
		}

		if usePLL {
			track.DecodeWithPLL(path, ticks, reg, verbose, th)
		} else {
			track.DecodeWithThresholds(path, ticks, reg, verbose, th)
		}
	}

	render.Map(os.Stdout, reg)
	if jsonOutput {
		render.JSON(os.Stdout, reg)
	} else {
		render.Human(os.Stdout, reg)
	}

	if imgPath != "" {
		if err := writeImage(imgPath, reg); err != nil {
			return fmt.Errorf("failed to write disk image: %w", err)
		}
	}
	return nil
}

// writeImage concatenates every present sector's data in (track, sector)
// order into a single flat file. Missing sectors are skipped rather than
// zero-filled: there's no canonical on-disk sector size to pad with for
// a partially-captured disk, and a partial image is already the expected
// outcome of a partial capture.
func writeImage(path string, reg *registry.Registry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sectorMin, sectorMax, ok := reg.Bounds()
	if !ok {
		return nil
	}
	for t := 0; t < registry.Tracks; t++ {
		for s := sectorMin; s <= sectorMax; s++ {
			sec, present := reg.Get(t, s)
			if !present {
				continue
			}
			if _, err := f.Write(sec.Data); err != nil {
				return err
			}
		}
	}
	return nil
}
