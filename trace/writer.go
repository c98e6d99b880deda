package trace

import (
	"io"

	"github.com/go-faster/jx"
)

// Writer encodes events as a JSON-lines trace.
type Writer struct {
	w io.Writer
	e jx.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (tw *Writer) WriteEvent(ev Event) error {
	tw.e.Reset()
	tw.e.ObjStart()
	tw.e.FieldStart("cycle")
	tw.e.UInt64(ev.Cycle)
	tw.e.FieldStart("addr")
	tw.e.UInt16(ev.Addr)
	tw.e.FieldStart("val")
	tw.e.UInt8(ev.Val)
	tw.e.ObjEnd()
	return tw.flush()
}

// WriteFault records a CPU fault, which terminates the trace.
func (tw *Writer) WriteFault(cycle uint64, msg string) error {
	tw.e.Reset()
	tw.e.ObjStart()
	tw.e.FieldStart("cycle")
	tw.e.UInt64(cycle)
	tw.e.FieldStart("fault")
	tw.e.Str(msg)
	tw.e.ObjEnd()
	return tw.flush()
}

func (tw *Writer) flush() error {
	_, err := tw.w.Write(append(tw.e.Bytes(), '\n'))
	return err
}
