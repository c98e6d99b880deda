package log

import (
	"fmt"
	"strconv"
	"time"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeInt
	FieldTypeUint
	FieldTypeFloat
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeDuration
	FieldTypeError
	FieldTypeStringer
)

// ZField is a single key/value pair of an EntryZ. The value is kept unformatted
// until the entry is emitted.
type ZField struct {
	Type FieldType
	Key  string

	String    string
	Integer   uint64 // Int, Uint, Hex8, Hex16, Duration and Bool (0 or 1)
	Float     float64
	Error     error
	Interface fmt.Stringer
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Integer != 0)
	case FieldTypeString:
		return f.String
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeFloat:
		return strconv.FormatFloat(f.Float, 'g', -1, 64)
	case FieldTypeHex8:
		return fmt.Sprintf("%02x", uint8(f.Integer))
	case FieldTypeHex16:
		return fmt.Sprintf("%04x", uint16(f.Integer))
	case FieldTypeDuration:
		return time.Duration(f.Integer).String()
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeStringer:
		if f.Interface == nil {
			return "<nil>"
		}
		return f.Interface.String()
	}
	return ""
}
