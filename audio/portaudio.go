package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"

	"nsfplay/emu/log"
)

// PortAudioDevice plays samples on the default PortAudio output device, using
// blocking writes.
type PortAudioDevice struct {
	sampleRate int
	frames     int
}

func OpenPortAudio(sampleRate, bufferSize int) (*PortAudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to init portaudio: %w", err)
	}
	return &PortAudioDevice{sampleRate: sampleRate, frames: bufferSize}, nil
}

func (d *PortAudioDevice) Play(r io.Reader) error {
	out := make([]int16, d.frames)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(d.sampleRate), len(out), out)
	if err != nil {
		return fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}
	defer stream.Stop()

	log.ModAudio.InfoZ("portaudio stream started").
		Int("rate", d.sampleRate).
		Int("frames", d.frames).
		End()

	buf := make([]byte, 2*len(out))
	for {
		n, rerr := io.ReadFull(r, buf)
		if n == 0 && rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return nil
			}
			return rerr
		}

		clear(out)
		for i := range n / 2 {
			out[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("portaudio write: %w", err)
		}

		if errors.Is(rerr, io.ErrUnexpectedEOF) {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

func (d *PortAudioDevice) Close() error {
	return portaudio.Terminate()
}
