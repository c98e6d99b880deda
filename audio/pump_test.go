package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

const (
	testClockRate  = 1789773
	testSampleRate = 44100
)

// squareSource toggles its output every halfPeriod cycles.
type squareSource struct {
	halfPeriod int
	count      int
	high       bool
	failAfter  int // 0 to never fail
	ticks      int
}

var errSourceFailed = errors.New("source failed")

func (s *squareSource) Tick() error {
	s.ticks++
	if s.failAfter != 0 && s.ticks > s.failAfter {
		return errSourceFailed
	}
	s.count++
	if s.count == s.halfPeriod {
		s.count = 0
		s.high = !s.high
	}
	return nil
}

func (s *squareSource) Output() float64 {
	if s.high {
		return 1
	}
	return 0
}

func TestPumpRead(t *testing.T) {
	src := &squareSource{halfPeriod: 2029}
	p := NewPump(src, testClockRate, testSampleRate, 1)

	out := make([]int16, 2*testSampleRate)
	n, err := p.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(out) {
		t.Fatalf("Read() = %d, want %d", n, len(out))
	}

	cycles := int64(p.Cycles())
	if want := int64(2 * testClockRate); cycles < want-100 || cycles > want+100 {
		t.Errorf("source clocked %d cycles, want about %d", cycles, want)
	}

	// Count the square periods in the second second, once the high-pass
	// filter has settled.
	var crossings int
	sec := out[testSampleRate:]
	for i := 1; i < len(sec); i++ {
		if sec[i-1] < 0 && sec[i] >= 0 {
			crossings++
		}
	}
	// 1789773 / (2 * 2029) = 441Hz
	if crossings < 439 || crossings > 443 {
		t.Errorf("got %d periods in 1s, want 441", crossings)
	}
}

func TestPumpSilence(t *testing.T) {
	src := &squareSource{halfPeriod: 1 << 30}
	p := NewPump(src, testClockRate, testSampleRate, 1)

	out := make([]int16, 1000)
	if _, err := p.Read(out); err != nil {
		t.Fatal(err)
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d = %d, want silence", i, s)
		}
	}
}

func TestPumpSourceError(t *testing.T) {
	src := &squareSource{halfPeriod: 100, failAfter: 10000}
	p := NewPump(src, testClockRate, testSampleRate, 1)

	out := make([]int16, testSampleRate)
	n, err := p.Read(out)
	if !errors.Is(err, errSourceFailed) {
		t.Fatalf("Read() error = %v, want %v", err, errSourceFailed)
	}
	if n >= len(out) {
		t.Errorf("Read() = %d, want less than %d", n, len(out))
	}

	// The error is sticky.
	if _, err := p.Read(out); !errors.Is(err, errSourceFailed) {
		t.Errorf("second Read() error = %v, want %v", err, errSourceFailed)
	}
}

func TestPumpReader(t *testing.T) {
	p1 := NewPump(&squareSource{halfPeriod: 1000}, testClockRate, testSampleRate, 0.5)
	p2 := NewPump(&squareSource{halfPeriod: 1000}, testClockRate, testSampleRate, 0.5)

	samples := make([]int16, 5000)
	if _, err := p1.Read(samples); err != nil {
		t.Fatal(err)
	}

	raw := make([]byte, 2*len(samples))
	r := p2.Reader()
	for off := 0; off < len(raw); {
		n, err := r.Read(raw[off:min(off+777, len(raw))])
		if err != nil {
			t.Fatal(err)
		}
		off += n
	}

	var want bytes.Buffer
	binary.Write(&want, binary.LittleEndian, samples)
	if !bytes.Equal(want.Bytes(), raw) {
		t.Errorf("Reader() output differs from Read()")
	}
}
