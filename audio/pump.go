// Package audio turns the APU output into PCM samples, and sends them to WAV
// files or audio devices.
package audio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/arl/blip"

	"nsfplay/emu/log"
)

// A Source is clocked once per CPU cycle and provides the current mixer
// output, in [0, 1].
type Source interface {
	Tick() error
	Output() float64
}

// maxChunk is the maximum number of samples produced per blip time frame.
const maxChunk = 2048

// amplitude of the full scale mixer output.
const amplitude = 30000

// Pump resamples the output of a Source, clocked at the CPU rate, to
// signed 16-bit mono PCM at the output sample rate. Samples are produced on
// demand: the source is only clocked when samples are read.
type Pump struct {
	src    Source
	buf    *blip.Buffer
	volume float64

	prev  int32 // last level added to buf
	err   error // sticky source error
	clock uint64
}

// NewPump returns a pump reading from src clocked at clockRate Hz, producing
// samples at sampleRate Hz. volume scales the output, in [0, 1].
func NewPump(src Source, clockRate, sampleRate int, volume float64) *Pump {
	buf := blip.NewBuffer(maxChunk * 2)
	buf.SetRates(float64(clockRate), float64(sampleRate))

	p := &Pump{
		src:    src,
		buf:    buf,
		volume: min(max(volume, 0), 1),
	}
	// The initial output is the reference level, not a step.
	p.prev = p.level()
	return p
}

func (p *Pump) level() int32 {
	return int32(math.Round(p.src.Output() * p.volume * amplitude))
}

// Cycles returns the total number of CPU cycles the source has been clocked.
func (p *Pump) Cycles() uint64 { return p.clock }

// Read fills out with PCM samples. It only returns less than len(out) samples
// when the source fails, in which case the source error is returned.
func (p *Pump) Read(out []int16) (int, error) {
	n := 0
	for n < len(out) {
		if p.err != nil {
			return n, p.err
		}

		chunk := min(len(out)-n, maxChunk)
		if need := chunk - p.buf.SamplesAvailable(); need > 0 {
			p.run(p.buf.ClocksNeeded(need))
		}
		n += p.buf.ReadSamples(out[n:], chunk, blip.Mono)
	}
	return n, nil
}

// run clocks the source for a whole blip time frame.
func (p *Pump) run(clocks int) {
	for t := range clocks {
		if err := p.src.Tick(); err != nil {
			p.err = err
			log.ModAudio.WarnZ("source failed").Uint64("cycle", p.clock).Error("err", err).End()

			// Keep the samples produced so far.
			clocks = t
			break
		}
		p.clock++

		if level := p.level(); level != p.prev {
			p.buf.AddDelta(uint64(t), level-p.prev)
			p.prev = level
		}
	}
	p.buf.EndFrame(clocks)
}

// Reader returns an io.Reader of little-endian 16-bit PCM, as expected by
// audio devices.
func (p *Pump) Reader() io.Reader {
	return &byteReader{pump: p}
}

type byteReader struct {
	pump *Pump
	buf  []int16
}

func (r *byteReader) Read(b []byte) (int, error) {
	nsamples := len(b) / 2
	if nsamples == 0 {
		return 0, nil
	}
	if cap(r.buf) < nsamples {
		r.buf = make([]int16, nsamples)
	}
	buf := r.buf[:nsamples]

	n, err := r.pump.Read(buf)
	for i, s := range buf[:n] {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return 2 * n, err
}
