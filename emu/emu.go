package emu

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"nsfplay/audio"
	"nsfplay/emu/log"
)

// Emulator plays the output of a Player on an audio device.
type Emulator struct {
	Player *Player
	dev    audio.Device

	// Accessed concurrently by the playback loop and the caller.
	quit   atomic.Bool
	played atomic.Int64 // in samples

	sampleRate int

	tail     int // samples to play once all events are replayed
	rendered int // samples rendered since the end of the events
}

// Launch opens the audio device described by cfg. It doesn't start the
// playback, call Run() for that.
func Launch(p *Player, cfg AudioConfig, tailSeconds float64) (*Emulator, error) {
	dev, err := audio.Open(cfg.Backend, cfg.SampleRate, cfg.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("audio init failed: %s", err)
	}
	log.ModEmu.InfoZ("Audio enabled").
		String("backend", cfg.Backend).
		Int("rate", cfg.SampleRate).
		End()

	return newEmulator(p, dev, cfg.SampleRate, int(tailSeconds*float64(cfg.SampleRate))), nil
}

func newEmulator(p *Player, dev audio.Device, sampleRate, tail int) *Emulator {
	return &Emulator{
		Player:     p,
		dev:        dev,
		sampleRate: sampleRate,
		tail:       tail,
	}
}

// Run blocks until all events have been replayed and the tail has been
// played, or Stop is called.
func (e *Emulator) Run() error {
	err := e.dev.Play(&emuReader{e: e, r: e.Player.Reader()})
	log.ModEmu.InfoZ("Playback loop exited").
		Uint64("cycle", e.Player.Cycle()).
		End()

	if cerr := e.dev.Close(); err == nil {
		err = cerr
	}
	return err
}

// Stop ends the playback as soon as possible. Safe for concurrent use.
func (e *Emulator) Stop() { e.quit.Store(true) }

// Played returns the duration of audio sent to the device so far. Safe for
// concurrent use.
func (e *Emulator) Played() time.Duration {
	return time.Duration(e.played.Load()) * time.Second / time.Duration(e.sampleRate)
}

func (e *Emulator) shouldStop() bool {
	if e.quit.Load() {
		return true
	}
	return e.Player.Done() && e.rendered >= e.tail
}

// emuReader cuts the player output once the emulator should stop.
type emuReader struct {
	e *Emulator
	r io.Reader
}

func (er *emuReader) Read(p []byte) (int, error) {
	e := er.e
	if e.shouldStop() {
		return 0, io.EOF
	}
	done := e.Player.Done()
	if done {
		// Only play what's left of the tail.
		if rem := 2 * (e.tail - e.rendered); len(p) > rem {
			p = p[:rem]
		}
	}

	n, err := er.r.Read(p)
	e.played.Add(int64(n / 2))
	if done {
		e.rendered += n / 2
	}
	if err != nil && !errors.Is(err, io.EOF) {
		log.ModEmu.WarnZ("playback stopped").Error("err", err).End()
	}
	return n, err
}
