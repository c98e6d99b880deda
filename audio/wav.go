package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
)

// wavHeader is the canonical 44-byte RIFF/WAVE header of a 16-bit PCM
// stream.
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func newWAVHeader(sampleRate, channels int, dataSize uint32) wavHeader {
	blockAlign := channels * bitsPerSample / 8
	return wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     4 + (8 + 16) + (8 + dataSize),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
}

// WriteWAV writes a complete WAV file of 16-bit mono samples to w.
func WriteWAV(w io.Writer, sampleRate int, samples []int16) error {
	hdr := newWAVHeader(sampleRate, 1, uint32(2*len(samples)))
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}

var errWAVClosed = errors.New("wav writer closed")

// WAVWriter writes a WAV file of 16-bit samples of unknown length. The sizes
// in the header are patched when the writer is closed.
type WAVWriter struct {
	w          io.WriteSeeker
	sampleRate int
	channels   int
	size       uint32 // data chunk size
	closed     bool
}

// NewWAVWriter writes a provisional WAV header to w.
func NewWAVWriter(w io.WriteSeeker, sampleRate, channels int) (*WAVWriter, error) {
	ww := &WAVWriter{
		w:          w,
		sampleRate: sampleRate,
		channels:   channels,
	}
	hdr := newWAVHeader(sampleRate, channels, 0)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to write wav header: %w", err)
	}
	return ww, nil
}

// WriteSamples appends samples to the data chunk. For stereo files, samples
// are interleaved.
func (ww *WAVWriter) WriteSamples(samples []int16) error {
	if ww.closed {
		return errWAVClosed
	}
	if err := binary.Write(ww.w, binary.LittleEndian, samples); err != nil {
		return err
	}
	ww.size += uint32(2 * len(samples))
	return nil
}

// Write appends raw little-endian PCM bytes to the data chunk.
func (ww *WAVWriter) Write(p []byte) (int, error) {
	if ww.closed {
		return 0, errWAVClosed
	}
	n, err := ww.w.Write(p)
	ww.size += uint32(n)
	return n, err
}

// Frames returns the number of sample frames written so far.
func (ww *WAVWriter) Frames() int {
	return int(ww.size) / (ww.channels * bitsPerSample / 8)
}

// Close patches the header with the final sizes. It doesn't close the
// underlying writer.
func (ww *WAVWriter) Close() error {
	if ww.closed {
		return nil
	}
	ww.closed = true

	if _, err := ww.w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to patch wav header: %w", err)
	}
	hdr := newWAVHeader(ww.sampleRate, ww.channels, ww.size)
	if err := binary.Write(ww.w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("failed to patch wav header: %w", err)
	}
	if _, err := ww.w.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	return nil
}
