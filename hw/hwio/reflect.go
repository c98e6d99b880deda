package hwio

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	typeReg8   = reflect.TypeFor[Reg8]()
	typeMem    = reflect.TypeFor[Mem]()
	typeDevice = reflect.TypeFor[Device]()
)

type bankReg struct {
	offset uint16
	regPtr any
}

// parsed content of a hwio struct tag.
type tagOpts struct {
	bank   int
	offset int // -1 if missing
	size   int
	vsize  int
	reset  uint8
	rwmask int // -1 if missing

	readonly  bool
	writeonly bool

	rcb, wcb, pcb string // callback method names, empty if none
}

func parseTag(fieldName, tag string) (tagOpts, error) {
	opts := tagOpts{offset: -1, rwmask: -1}
	upper := strings.ToUpper(fieldName)

	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, val, hasval := strings.Cut(opt, "=")

		parseInt := func() (int, error) {
			if !hasval {
				return 0, fmt.Errorf("%s: missing value for %q", fieldName, key)
			}
			n, err := strconv.ParseInt(val, 0, 32)
			if err != nil {
				return 0, fmt.Errorf("%s: invalid value for %q: %w", fieldName, key, err)
			}
			return int(n), nil
		}

		var err error
		switch key {
		case "bank":
			opts.bank, err = parseInt()
		case "offset":
			opts.offset, err = parseInt()
		case "size":
			opts.size, err = parseInt()
		case "vsize":
			opts.vsize, err = parseInt()
		case "reset":
			var n int
			if n, err = parseInt(); err == nil && (n < 0 || n > 0xFF) {
				err = fmt.Errorf("%s: reset value out of range: %#x", fieldName, n)
			}
			opts.reset = uint8(n)
		case "rwmask":
			if opts.rwmask, err = parseInt(); err == nil && (opts.rwmask < 0 || opts.rwmask > 0xFF) {
				err = fmt.Errorf("%s: rwmask out of range: %#x", fieldName, opts.rwmask)
			}
		case "readonly":
			opts.readonly = true
		case "writeonly":
			opts.writeonly = true
		case "rcb":
			opts.rcb = cbName(val, "Read", upper)
		case "wcb":
			opts.wcb = cbName(val, "Write", upper)
		case "pcb":
			opts.pcb = cbName(val, "Peek", upper)
		default:
			err = fmt.Errorf("%s: unknown hwio option %q", fieldName, key)
		}
		if err != nil {
			return opts, err
		}
	}

	if opts.readonly && opts.writeonly {
		return opts, fmt.Errorf("%s: readonly and writeonly are mutually exclusive", fieldName)
	}
	return opts, nil
}

func cbName(explicit, prefix, upper string) string {
	if explicit != "" {
		return explicit
	}
	return prefix + upper
}

func (o tagOpts) flags() RWFlags {
	switch {
	case o.readonly:
		return ReadOnlyFlag
	case o.writeonly:
		return WriteOnlyFlag
	}
	return ReadWriteFlag
}

// method looks up the method named name on the value pointed to by ptr, and
// converts it to the function type of fn.
func method[F any](ptr reflect.Value, name string, fn *F) error {
	m := ptr.MethodByName(name)
	if !m.IsValid() {
		return fmt.Errorf("missing method %s on %s", name, ptr.Type())
	}
	f, ok := m.Interface().(F)
	if !ok {
		return fmt.Errorf("method %s on %s has type %s, want %T", name, ptr.Type(), m.Type(), *fn)
	}
	*fn = f
	return nil
}

// InitRegs initializes all the registers (Reg8, Mem and Device fields with a
// hwio struct tag) of the structure pointed to by data: names, reset values,
// write masks, flags and callbacks. Callbacks are methods of data, named
// after the uppercased field name (e.g. ReadSTATUS for field Status with the
// rcb option), unless explicitly named (e.g. pcb=PeekStatus).
func InitRegs(data any) error {
	ptr := reflect.ValueOf(data)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("InitRegs: expected pointer to struct, got %T", data)
	}
	val := ptr.Elem()
	typ := val.Type()

	for i := range typ.NumField() {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(field.Name, tag)
		if err != nil {
			return err
		}

		switch field.Type {
		case typeReg8:
			reg := val.Field(i).Addr().Interface().(*Reg8)
			reg.Name = field.Name
			reg.Value = opts.reset
			if opts.rwmask >= 0 {
				reg.RoMask = ^uint8(opts.rwmask)
			}
			reg.Flags = opts.flags()
			if opts.rcb != "" {
				if err := method(ptr, opts.rcb, &reg.ReadCb); err != nil {
					return err
				}
			}
			if opts.wcb != "" {
				if err := method(ptr, opts.wcb, &reg.WriteCb); err != nil {
					return err
				}
			}
			if opts.pcb != "" {
				if err := method(ptr, opts.pcb, &reg.PeekCb); err != nil {
					return err
				}
			}

		case typeDevice:
			dev := val.Field(i).Addr().Interface().(*Device)
			if opts.size <= 0 {
				return fmt.Errorf("%s: device requires a size", field.Name)
			}
			dev.Name = field.Name
			dev.Size = opts.size
			dev.Flags = opts.flags()
			if opts.rcb != "" {
				if err := method(ptr, opts.rcb, &dev.ReadCb); err != nil {
					return err
				}
			}
			if opts.wcb != "" {
				if err := method(ptr, opts.wcb, &dev.WriteCb); err != nil {
					return err
				}
			}
			if opts.pcb != "" {
				if err := method(ptr, opts.pcb, &dev.PeekCb); err != nil {
					return err
				}
			}

		case typeMem:
			mem := val.Field(i).Addr().Interface().(*Mem)
			if opts.size <= 0 {
				return fmt.Errorf("%s: mem requires a size", field.Name)
			}
			mem.Name = field.Name
			if mem.Data == nil {
				mem.Data = make([]byte, opts.size)
			}
			mem.VSize = opts.size
			if opts.vsize > 0 {
				mem.VSize = opts.vsize
			}
			if opts.readonly {
				mem.Flags = MemFlag8ReadOnly
			}
			if opts.wcb != "" {
				if err := method(ptr, opts.wcb, &mem.WriteCb); err != nil {
					return err
				}
			}

		default:
			return fmt.Errorf("%s: unsupported hwio field type %s", field.Name, field.Type)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

var errNotStructPtr = errors.New("bank must be a pointer to struct")

// bankGetRegs returns the registers of the given bank number, along with
// their offsets.
func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	ptr := reflect.ValueOf(bank)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return nil, errNotStructPtr
	}
	val := ptr.Elem()
	typ := val.Type()

	var regs []bankReg
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(field.Name, tag)
		if err != nil {
			return nil, err
		}
		if opts.offset < 0 || opts.bank != bankNum {
			continue
		}
		if opts.offset > 0xFFFF {
			return nil, fmt.Errorf("%s: offset out of range: %#x", field.Name, opts.offset)
		}
		regs = append(regs, bankReg{
			offset: uint16(opts.offset),
			regPtr: val.Field(i).Addr().Interface(),
		})
	}
	return regs, nil
}
