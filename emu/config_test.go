package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nsfplay/hw/hwdefs"
)

func TestConfigMissingFile(t *testing.T) {
	cfg := loadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	want := DefaultConfig()
	want.Audio.SampleRate = 48000
	want.Audio.Backend = "oto"
	want.Audio.Volume = 0.5
	want.Emulation.Region = "pal"

	if err := saveConfig(path, want); err != nil {
		t.Fatal(err)
	}
	got := loadConfig(path)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got.Region() != hwdefs.PAL {
		t.Errorf("Region() = %v, want pal", got.Region())
	}
}

func TestConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	buf := []byte("[audio]\nbackend = \"portaudio\"\n")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Audio.Backend = "portaudio"
	if diff := cmp.Diff(want, loadConfig(path)); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	buf := []byte(`[audio]
sample_rate = 10
backend = "alsa"
volume = 3.0
buffer_size = 1

[emulation]
region = "secam"
`)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(DefaultConfig(), loadConfig(path)); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[audio\nvolume ="), 0644); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(DefaultConfig(), loadConfig(path)); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
