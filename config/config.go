// Package config loads the capture profile: the tick-to-microsecond
// scale and FM/MFM split thresholds for whatever capture rig produced a
// track file. The default profile assumes a 600MHz capture clock divided
// by 16; a rig running at a different rate needs its own named, swappable
// TOML entry instead of a recompile.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "embed"

	"github.com/BurntSushi/toml"

	"floppy8/sample"
)

//go:embed capture.toml
var defaultConfigData []byte

// Config is the whole TOML document: a default profile name plus the
// table of named profiles.
type Config struct {
	Default string    `toml:"default"`
	Profile []Profile `toml:"profile"`
}

// Profile is one capture rig's timing: a ticks-per-microsecond scale
// plus the FM/MFM split thresholds derived from it.
type Profile struct {
	Name       string `toml:"name"`
	OneUS      int    `toml:"one_us"`
	FMSplit    int    `toml:"fm_split"`
	MFMSplitLo int    `toml:"mfm_split_lo"`
	MFMSplitHi int    `toml:"mfm_split_hi"`
}

// Thresholds converts p into the sample.Thresholds a decoder consumes.
func (p Profile) Thresholds() sample.Thresholds {
	return sample.Thresholds{
		OneUS:      p.OneUS,
		FMSplit:    p.FMSplit,
		MFMSplitLo: p.MFMSplitLo,
		MFMSplitHi: p.MFMSplitHi,
	}
}

// configPath determines the user config file's path, per the standard
// per-OS convention (Windows user config dir vs. Unix home directory).
func configPath() (string, error) {
	var dir string
	var err error

	switch runtime.GOOS {
	case "windows":
		dir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user config directory: %w", err)
		}
		dir = filepath.Join(dir, "floppy8")
	default:
		dir, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user home directory: %w", err)
		}
	}
	return filepath.Join(dir, ".floppy8"), nil
}

// Load reads the named profile from path, or from the default user
// config path if path is empty (creating it from the embedded default
// first if it doesn't exist yet). An empty name selects the config's
// own `default` entry.
func Load(path, name string) (Profile, error) {
	if path == "" {
		p, err := configPath()
		if err != nil {
			return Profile{}, err
		}
		path = p
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return Profile{}, fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(path, defaultConfigData, 0644); err != nil {
				return Profile{}, fmt.Errorf("failed to create default config file at %s: %w", path, err)
			}
		}
	}

	var conf Config
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return Profile{}, fmt.Errorf("failed to parse TOML config at %s: %w", path, err)
	}

	if name == "" {
		name = conf.Default
	}
	if name == "" {
		return Profile{}, fmt.Errorf("no profile name given and no `default` key in %s", path)
	}

	for _, p := range conf.Profile {
		if p.Name == name {
			if p.OneUS <= 0 || p.FMSplit <= 0 || p.MFMSplitLo <= 0 || p.MFMSplitHi <= p.MFMSplitLo {
				return Profile{}, fmt.Errorf("profile %q has invalid thresholds", name)
			}
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile %q not found in %s", name, path)
}
