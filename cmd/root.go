// Package cmd wires the decode pipeline (track, config, render) into a
// cobra CLI: a root command holding shared flags and dispatching
// straight into the decode run.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	jsonOutput  bool
	usePLL      bool
	imgPath     string
	profileName string
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:   "floppy8 [FILE...]",
	Short: "Decode 8\" single-sided SA-800 floppy track captures",
	Long: "floppy8 decodes one or more track capture files (ASCII decimal tick\n" +
		"counts, one file per track) into a disk image, auto-detecting FM or\n" +
		"MFM encoding per track and printing a sector map plus per-sector dump.",
	Args: cobra.ArbitraryArgs,
	RunE: runDecode,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostic output (histogram, per-mark annotations, per-sector OK messages)")
	rootCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "select JSON-style sector dump instead of human-readable")
	rootCmd.Flags().BoolVar(&usePLL, "pll", false, "recover MFM tracks with the phase-locked loop instead of fixed split thresholds")
	rootCmd.Flags().StringVar(&imgPath, "img", "", "also write the assembled disk image to this path, sectors in track/sector order")
	rootCmd.Flags().StringVar(&profileName, "profile", "", "named capture profile to use (default: the config file's own default)")
	rootCmd.Flags().StringVar(&profilePath, "profile-file", "", "path to a capture profile TOML file (default: ~/.floppy8, created from the built-in profile on first use)")
}

// Execute runs the root command, translating a returned error into a
// nonzero exit code (fatal conditions only -- decoding errors are
// diagnostics already printed by the decoder, never errors here).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
