package emu

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nsfplay/audio"
	"nsfplay/emu/log"
	"nsfplay/hw/hwdefs"
)

type Config struct {
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`
}

type AudioConfig struct {
	SampleRate int     `toml:"sample_rate"`
	Backend    string  `toml:"backend"`
	Volume     float64 `toml:"volume"`
	BufferSize int     `toml:"buffer_size"` // in samples
}

type EmulationConfig struct {
	Region string `toml:"region"` // ntsc or pal
}

// DefaultConfig returns the configuration used when none has been saved.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate: 44100,
			Backend:    "sdl",
			Volume:     0.8,
			BufferSize: 2048,
		},
		Emulation: EmulationConfig{
			Region: hwdefs.NTSC.String(),
		},
	}
}

// Check replaces invalid values with their defaults.
func (cfg *Config) Check() {
	def := DefaultConfig()

	if cfg.Audio.SampleRate < 8000 || cfg.Audio.SampleRate > 192000 {
		log.ModEmu.WarnZ("invalid sample rate, using default").
			Int("rate", cfg.Audio.SampleRate).
			Int("default", def.Audio.SampleRate).
			End()
		cfg.Audio.SampleRate = def.Audio.SampleRate
	}
	if !audio.ValidBackend(cfg.Audio.Backend) {
		log.ModEmu.WarnZ("invalid audio backend, using default").
			String("backend", cfg.Audio.Backend).
			String("default", def.Audio.Backend).
			End()
		cfg.Audio.Backend = def.Audio.Backend
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		log.ModEmu.WarnZ("invalid volume, using default").
			Float64("volume", cfg.Audio.Volume).
			Float64("default", def.Audio.Volume).
			End()
		cfg.Audio.Volume = def.Audio.Volume
	}
	if cfg.Audio.BufferSize < 64 || cfg.Audio.BufferSize > 32768 {
		log.ModEmu.WarnZ("invalid buffer size, using default").
			Int("size", cfg.Audio.BufferSize).
			Int("default", def.Audio.BufferSize).
			End()
		cfg.Audio.BufferSize = def.Audio.BufferSize
	}
	if _, ok := hwdefs.ParseRegion(cfg.Emulation.Region); !ok {
		log.ModEmu.WarnZ("invalid region, using default").
			String("region", cfg.Emulation.Region).
			String("default", def.Emulation.Region).
			End()
		cfg.Emulation.Region = def.Emulation.Region
	}
}

// Region returns the configured region.
func (cfg *Config) Region() hwdefs.Region {
	r, _ := hwdefs.ParseRegion(cfg.Emulation.Region)
	return r
}

var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("nsfplay")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.FatalZ("failed to create config directory").
			String("dir", dir).
			Error("err", err).
			End()
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the nsfplay config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	return loadConfig(filepath.Join(ConfigDir(), cfgFilename))
}

func loadConfig(path string) Config {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			log.ModEmu.WarnZ("failed to load config, using defaults").
				String("path", path).
				Error("err", err).
				End()
		}
		return DefaultConfig()
	}
	cfg.Check()
	return cfg
}

// SaveConfig into nsfplay config directory.
func SaveConfig(cfg Config) error {
	return saveConfig(filepath.Join(ConfigDir(), cfgFilename), cfg)
}

func saveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}
