package trace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/go-faster/jx"

	"nsfplay/emu/log"
)

// Reader decodes events from a JSON-lines trace.
type Reader struct {
	sc    *bufio.Scanner
	line  int
	last  uint64
	fault error // sticky
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Reader{sc: sc}
}

// Next returns the next event of the trace. It returns io.EOF at the end of
// the trace, and a *FaultError if the trace ends with a CPU fault. Events are
// guaranteed to be in increasing cycle order.
func (r *Reader) Next() (Event, error) {
	if r.fault != nil {
		return Event{}, r.fault
	}

	for r.sc.Scan() {
		r.line++
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := r.decode(line)
		if err != nil {
			r.fault = err
			return Event{}, err
		}
		return ev, nil
	}

	if err := r.sc.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

type field uint8

const (
	fieldCycle field = 1 << iota
	fieldAddr
	fieldVal
	fieldFault
)

func (r *Reader) decode(line []byte) (Event, error) {
	var (
		ev    Event
		fault string
		seen  field
	)

	d := jx.DecodeBytes(line)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "cycle":
			ev.Cycle, err = d.UInt64()
			seen |= fieldCycle
		case "addr":
			var v uint64
			v, err = uintN(d, 16)
			ev.Addr = uint16(v)
			seen |= fieldAddr
		case "val":
			var v uint64
			v, err = uintN(d, 8)
			ev.Val = uint8(v)
			seen |= fieldVal
		case "fault":
			fault, err = d.Str()
			seen |= fieldFault
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return Event{}, fmt.Errorf("line %d: %w: %v", r.line, ErrMalformed, err)
	}

	switch {
	case seen&fieldCycle == 0:
		return Event{}, fmt.Errorf("line %d: %w: missing cycle", r.line, ErrMalformed)
	case ev.Cycle < r.last:
		return Event{}, fmt.Errorf("line %d: %w: cycle %d after %d", r.line, ErrOutOfOrder, ev.Cycle, r.last)
	case seen&fieldFault != 0:
		log.ModTrace.WarnZ("cpu fault").Uint64("cycle", ev.Cycle).String("msg", fault).End()
		return Event{}, &FaultError{Cycle: ev.Cycle, Msg: fault}
	case seen&(fieldAddr|fieldVal) != fieldAddr|fieldVal:
		return Event{}, fmt.Errorf("line %d: %w: missing addr or val", r.line, ErrMalformed)
	}

	r.last = ev.Cycle
	log.ModTrace.DebugZ("event").
		Uint64("cycle", ev.Cycle).
		Hex16("addr", ev.Addr).
		Hex8("val", ev.Val).
		End()
	return ev, nil
}

// uintN decodes an unsigned integer that must fit on n bits.
func uintN(d *jx.Decoder, n int) (uint64, error) {
	v, err := d.UInt64()
	if err != nil {
		return 0, err
	}
	if v >= 1<<n {
		return 0, fmt.Errorf("%d overflows %d bits", v, n)
	}
	return v, nil
}

// Slice is an in-memory event source.
type Slice struct {
	Events []Event
	pos    int
}

// Next returns the next event of the slice, or io.EOF.
func (s *Slice) Next() (Event, error) {
	if s.pos >= len(s.Events) {
		return Event{}, io.EOF
	}
	ev := s.Events[s.pos]
	s.pos++
	return ev, nil
}
