// Package nsf implements a reader for the NES Sound Format (NSF), used for
// the distribution of music ripped from NES games.
package nsf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"nsfplay/emu/log"
)

const (
	Magic      = "NESM\x1a"
	HeaderSize = 0x80
)

var (
	ErrTruncated = errors.New("nsf: truncated data")
	ErrBadMagic  = errors.New("nsf: invalid magic number")
	ErrBadText   = errors.New("nsf: embedded NUL in text field")
)

type File struct {
	Header
	Data []byte // Program data, loaded at Header.LoadAddr.
}

// Open loads a NSF file.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nsf := new(File)
	if _, err := nsf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nsf, nil
}

// ReadFrom implements io.ReaderFrom interface
func (nsf *File) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return int64(len(buf)), err
	}

	hdr, err := Decode(buf)
	if err != nil {
		return int64(len(buf)), fmt.Errorf("failed to decode header: %w", err)
	}

	data := buf[HeaderSize:]
	if hdr.DataLength != 0 {
		if int(hdr.DataLength) > len(data) {
			return int64(len(buf)), fmt.Errorf("incomplete program data, want %d bytes, got %d: %w", hdr.DataLength, len(data), ErrTruncated)
		}
		data = data[:hdr.DataLength]
	}

	nsf.Header = hdr
	nsf.Data = data

	log.ModNSF.DebugZ("loaded nsf").
		String("name", hdr.SongName).
		Uint8("songs", hdr.TotalSongs).
		Hex16("load", hdr.LoadAddr).
		Int("size", len(data)).
		End()

	return int64(len(buf)), nil
}

// Decode decodes the 128-byte NSF header at the start of p.
func Decode(p []byte) (Header, error) {
	if len(p) < HeaderSize {
		return Header{}, fmt.Errorf("header needs %d bytes, got %d: %w", HeaderSize, len(p), ErrTruncated)
	}
	if string(p[:5]) != Magic {
		return Header{}, ErrBadMagic
	}

	var (
		hdr Header
		err error
	)

	hdr.Version = p[0x05]
	hdr.TotalSongs = p[0x06]
	hdr.StartingSong = p[0x07]
	hdr.LoadAddr = binary.LittleEndian.Uint16(p[0x08:])
	hdr.InitAddr = binary.LittleEndian.Uint16(p[0x0A:])
	hdr.PlayAddr = binary.LittleEndian.Uint16(p[0x0C:])

	if hdr.SongName, err = decodeText(p[0x0E:0x2E]); err != nil {
		return Header{}, fmt.Errorf("song name: %w", err)
	}
	if hdr.Artist, err = decodeText(p[0x2E:0x4E]); err != nil {
		return Header{}, fmt.Errorf("artist: %w", err)
	}
	if hdr.Copyright, err = decodeText(p[0x4E:0x6E]); err != nil {
		return Header{}, fmt.Errorf("copyright: %w", err)
	}

	hdr.PlaySpeedNTSC = binary.LittleEndian.Uint16(p[0x6E:])
	copy(hdr.Bankswitch[:], p[0x70:0x78])
	hdr.PlaySpeedPAL = binary.LittleEndian.Uint16(p[0x78:])
	hdr.PALNTSC = p[0x7A]
	hdr.ExtraSound = p[0x7B]
	hdr.NSF2Reserved = p[0x7C]
	hdr.DataLength = uint32(p[0x7D]) | uint32(p[0x7E])<<8 | uint32(p[0x7F])<<16

	return hdr, nil
}

// decodeText decodes a fixed size text field. The trailing NUL bytes are
// stripped. Any other NUL is an error.
func decodeText(p []byte) (string, error) {
	end := len(p)
	for end > 0 && p[end-1] == 0 {
		end--
	}
	for _, c := range p[:end] {
		if c == 0 {
			return "", ErrBadText
		}
	}
	return string(p[:end]), nil
}
