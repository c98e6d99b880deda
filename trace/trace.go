// Package trace reads and writes register write traces, as recorded from a
// CPU core running a NSF player. A trace is a stream of JSON objects, one per
// line:
//
//	{"cycle":1234,"addr":16384,"val":48}
//	{"cycle":1300,"fault":"illegal opcode $02 at $8123"}
//
// A fault line ends the trace, it reports the CPU failure that stopped the
// recording.
package trace

import (
	"errors"
	"fmt"
)

// Event is a CPU write of Val at Addr, during CPU cycle Cycle.
type Event struct {
	Cycle uint64
	Addr  uint16
	Val   uint8
}

func (ev Event) String() string {
	return fmt.Sprintf("%d: $%04X <- $%02X", ev.Cycle, ev.Addr, ev.Val)
}

var (
	ErrMalformed  = errors.New("trace: malformed event")
	ErrOutOfOrder = errors.New("trace: events out of cycle order")
)

// A FaultError is a CPU fault recorded in a trace.
type FaultError struct {
	Cycle uint64
	Msg   string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("cpu fault at cycle %d: %s", e.Cycle, e.Msg)
}
