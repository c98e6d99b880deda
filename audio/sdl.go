package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/veandco/go-sdl2/sdl"

	"nsfplay/emu/log"
)

const (
	sdlFormat   = sdl.AUDIO_S16LSB
	sdlChannels = 1
)

// SDLDevice plays samples through the SDL2 audio queue.
type SDLDevice struct {
	id      sdl.AudioDeviceID
	bufsize int // in samples
}

func OpenSDL(sampleRate, bufferSize int) (*SDLDevice, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to init SDL audio: %w", err)
	}

	spec := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdlFormat,
		Channels: sdlChannels,
		Samples:  uint16(bufferSize),
	}
	id, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("failed to open SDL audio device: %w", err)
	}

	log.ModAudio.InfoZ("SDL audio device opened").
		Int("rate", sampleRate).
		Int("samples", bufferSize).
		End()

	sdl.PauseAudioDevice(id, false)
	return &SDLDevice{id: id, bufsize: bufferSize}, nil
}

func (d *SDLDevice) Play(r io.Reader) error {
	buf := make([]byte, d.bufsize*2)
	for {
		// Keep at most 2 buffers queued.
		for sdl.GetQueuedAudioSize(d.id) > uint32(2*len(buf)) {
			sdl.Delay(1)
		}

		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if qerr := sdl.QueueAudio(d.id, buf[:n&^1]); qerr != nil {
				return fmt.Errorf("failed to queue audio buffer: %w", qerr)
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	// Drain
	for sdl.GetQueuedAudioSize(d.id) > 0 {
		sdl.Delay(10)
	}
	return nil
}

func (d *SDLDevice) Close() error {
	sdl.CloseAudioDevice(d.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
