package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry builder that does not allocate when the module is
// disabled at the requested level: every method accepts a nil receiver and
// does nothing.
//
//	log.ModSound.InfoZ("write status").Uint8("val", val).End()
type EntryZ struct {
	mod Module
	lvl Level
	msg string

	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (e *EntryZ) add(f ZField) *EntryZ {
	if e.zfidx < maxZFields {
		e.zfbuf[e.zfidx] = f
		e.zfidx++
	}
	return e
}

func (e *EntryZ) String(key, val string) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeString, Key: key, String: val})
}

func (e *EntryZ) Bool(key string, val bool) *EntryZ {
	if e == nil {
		return nil
	}
	f := ZField{Type: FieldTypeBool, Key: key}
	if val {
		f.Integer = 1
	}
	return e.add(f)
}

func (e *EntryZ) Int(key string, val int) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Float64(key string, val float64) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeFloat, Key: key, Float: val})
}

func (e *EntryZ) Uint8(key string, val uint8) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint16(key string, val uint16) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint64(key string, val uint64) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeUint, Key: key, Integer: val})
}

func (e *EntryZ) Hex8(key string, val uint8) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex16(key string, val uint16) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (e *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeDuration, Key: key, Integer: uint64(d)})
}

func (e *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Type: FieldTypeStringer, Key: key, Interface: s})
}

// End emits the entry. The entry must not be used afterwards.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	for _, c := range contexts {
		c.AddLogContext(e)
	}

	fields := make(logrus.Fields, e.zfidx+1)
	fields["_mod"] = modNames[e.mod]
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	switch e.lvl {
	case DebugLevel:
		entry.Debug(e.msg)
	case InfoLevel:
		entry.Info(e.msg)
	case WarnLevel:
		entry.Warn(e.msg)
	case ErrorLevel:
		entry.Error(e.msg)
	case FatalLevel:
		entry.Fatal(e.msg)
	case PanicLevel:
		entry.Panic(e.msg)
	}

	clear(e.zfbuf[:e.zfidx])
	entryPool.Put(e)
}
