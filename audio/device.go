package audio

import (
	"fmt"
	"io"
	"slices"
)

// A Device plays little-endian 16-bit mono PCM.
type Device interface {
	// Play pulls samples from r until r returns an error, and blocks until
	// they've all been played. io.EOF is not reported.
	Play(r io.Reader) error
	Close() error
}

// Backends lists the available audio backends.
var Backends = []string{"sdl", "oto", "portaudio"}

// Open opens the default output device of the given backend.
func Open(backend string, sampleRate, bufferSize int) (Device, error) {
	switch backend {
	case "sdl":
		return OpenSDL(sampleRate, bufferSize)
	case "oto":
		return OpenOto(sampleRate, bufferSize)
	case "portaudio":
		return OpenPortAudio(sampleRate, bufferSize)
	}
	return nil, fmt.Errorf("unknown audio backend %q, valid backends are %v", backend, Backends)
}

// ValidBackend reports whether name is a known audio backend.
func ValidBackend(name string) bool {
	return slices.Contains(Backends, name)
}
