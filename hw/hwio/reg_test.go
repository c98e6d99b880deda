package hwio

import "testing"

func TestReg8(t *testing.T) {
	r := Reg8{Value: 0x11, RoMask: 0xF0}

	if got := r.Read8(0); got != 0x11 {
		t.Errorf("invalid read: %x", got)
	}
	if got := r.Read8(9999); got != 0x11 {
		t.Errorf("invalid read with offset: %x", got)
	}

	r.Write8(0, 0x77)
	if r.Value != 0x17 {
		t.Errorf("writemask not respected: %x", r.Value)
	}
	r.Write8(9999, 0x88)
	if r.Value != 0x18 {
		t.Errorf("writemask with offset not respected: %x", r.Value)
	}
}

func TestReg8Flags(t *testing.T) {
	var wrote bool
	ro := Reg8{Value: 0x42, Flags: ReadOnlyFlag, WriteCb: func(_, _ uint8) { wrote = true }}
	ro.Write8(0, 0xFF)
	if ro.Value != 0x42 || wrote {
		t.Errorf("readonly register was written: %v", ro)
	}

	wo := Reg8{Value: 0x42, Flags: WriteOnlyFlag}
	if got := wo.Read8(0); got != 0 {
		t.Errorf("writeonly Read8 = %02X, want 0", got)
	}
	if got := wo.Peek8(0); got != 0 {
		t.Errorf("writeonly Peek8 = %02X, want 0", got)
	}
}

func TestParseTag(t *testing.T) {
	opts, err := parseTag("Status", "offset=0x15,rcb,wcb,pcb=PeekIt,reset=0x10,rwmask=0x1F")
	if err != nil {
		t.Fatal(err)
	}
	if opts.offset != 0x15 || opts.reset != 0x10 || opts.rwmask != 0x1F {
		t.Errorf("wrong numeric options: %+v", opts)
	}
	if opts.rcb != "ReadSTATUS" || opts.wcb != "WriteSTATUS" || opts.pcb != "PeekIt" {
		t.Errorf("wrong callbacks: %+v", opts)
	}

	for _, tag := range []string{"offset", "offset=zz", "foo=1", "readonly,writeonly"} {
		if _, err := parseTag("Reg", tag); err == nil {
			t.Errorf("parseTag(%q) should fail", tag)
		}
	}
}
