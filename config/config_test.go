package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"floppy8/config"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadNamedProfile(t *testing.T) {
	path := writeTempConfig(t, `
default = "a"

[[profile]]
name = "a"
one_us = 37
fm_split = 112
mfm_split_lo = 93
mfm_split_hi = 131

[[profile]]
name = "b"
one_us = 30
fm_split = 90
mfm_split_lo = 74
mfm_split_hi = 105
`)
	p, err := config.Load(path, "b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.OneUS != 30 || p.FMSplit != 90 {
		t.Errorf("got %+v, want one_us=30 fm_split=90", p)
	}
}

func TestLoadDefaultProfile(t *testing.T) {
	path := writeTempConfig(t, `
default = "only"

[[profile]]
name = "only"
one_us = 37
fm_split = 112
mfm_split_lo = 93
mfm_split_hi = 131
`)
	p, err := config.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "only" {
		t.Errorf("got profile %q, want %q", p.Name, "only")
	}
}

func TestLoadUnknownProfileFails(t *testing.T) {
	path := writeTempConfig(t, `
default = "a"

[[profile]]
name = "a"
one_us = 37
fm_split = 112
mfm_split_lo = 93
mfm_split_hi = 131
`)
	if _, err := config.Load(path, "nonexistent"); err == nil {
		t.Errorf("expected an error for an unknown profile name")
	}
}

func TestLoadInvalidThresholdsRejected(t *testing.T) {
	path := writeTempConfig(t, `
default = "bad"

[[profile]]
name = "bad"
one_us = 37
fm_split = 112
mfm_split_lo = 93
mfm_split_hi = 0
`)
	if _, err := config.Load(path, "bad"); err == nil {
		t.Errorf("expected an error for mfm_split_hi <= mfm_split_lo")
	}
}
