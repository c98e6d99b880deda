package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"

	"nsfplay/emu/log"
)

// OtoDevice plays samples through an oto context.
type OtoDevice struct {
	ctx *oto.Context
}

func OpenOto(sampleRate, bufferSize int) (*OtoDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	log.ModAudio.InfoZ("oto context ready").
		Int("rate", sampleRate).
		Duration("buffer", op.BufferSize).
		End()

	return &OtoDevice{ctx: ctx}, nil
}

func (d *OtoDevice) Play(r io.Reader) error {
	player := d.ctx.NewPlayer(r)
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Err()
}

// Close suspends the context. An oto context lives until the process exits.
func (d *OtoDevice) Close() error {
	return d.ctx.Suspend()
}
