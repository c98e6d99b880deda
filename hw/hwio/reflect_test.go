package hwio

import "testing"

type testBank struct {
	Ctrl   Reg8 `hwio:"offset=0x15,reset=0x23,rwmask=0x1,wcb"`
	Status Reg8 `hwio:"offset=0x17,bank=1,rcb"`
	called bool
}

func (t *testBank) WriteCTRL(old, val uint8) {
	t.called = true
}

func (t *testBank) ReadSTATUS(val uint8) uint8 {
	return val | 1
}

func TestInitRegs(t *testing.T) {
	tb := &testBank{}
	if err := InitRegs(tb); err != nil {
		t.Fatal(err)
	}

	if tb.Ctrl.Name != "Ctrl" || tb.Status.Name != "Status" {
		t.Error("invalid names:", tb.Ctrl, tb.Status)
	}
	if tb.Status.Read8(0) != 1 {
		t.Error("invalid read8:", tb.Status.Read8(0))
	}
	if val := tb.Ctrl.Read8(0); val != 0x23 {
		t.Error("invalid read8", val)
	}

	tb.Ctrl.Write8(0, 0)
	if tb.Ctrl.Value != 0x22 {
		t.Error("invalid read after rwmask", tb.Ctrl.Value)
	}
	if !tb.called {
		t.Error("callback not called")
	}
}

func TestBankGetRegs(t *testing.T) {
	tb := &testBank{}
	info, err := bankGetRegs(tb, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(info) != 1 {
		t.Fatal("wrong number of regs in bank:", len(info))
	}
	if info[0].offset != 0x15 {
		t.Errorf("invalid reg offset: %x", info[0].offset)
	}
	if rptr, ok := info[0].regPtr.(*Reg8); !ok {
		t.Errorf("invalid reg ptr type: %T", info[0].regPtr)
	} else if rptr != &tb.Ctrl {
		t.Errorf("invalid reg ptr")
	}

	info, err = bankGetRegs(tb, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(info) != 1 {
		t.Fatal("wrong number of regs in bank:", len(info))
	}
	if info[0].offset != 0x17 {
		t.Errorf("invalid reg offset: %x", info[0].offset)
	}

	if _, err := bankGetRegs(*tb, 0); err == nil {
		t.Errorf("bankGetRegs should fail on a non-pointer")
	}
}

func TestReadWriteOnly(t *testing.T) {
	type bank struct {
		Ro Reg8 `hwio:"reset=0x23,readonly"`
		Wo Reg8 `hwio:"writeonly"`
	}

	b := &bank{}
	if err := InitRegs(b); err != nil {
		t.Fatal(err)
	}

	b.Ro.Write8(0, 0) // ignored
	if b.Ro.Read8(0) != 0x23 {
		t.Error("invalid ro read:", b.Ro.Read8(0))
	}

	b.Wo.Write8(0, 0x23)
	if b.Wo.Read8(0) != 0 || b.Wo.Peek8(0) != 0 {
		t.Error("writeonly reg is readable")
	}
	if b.Wo.Value != 0x23 {
		t.Error("invalid wo value:", b.Wo.Value)
	}
}

func TestValuesTooBig(t *testing.T) {
	type bank1 struct {
		R Reg8 `hwio:"reset=0x123"`
	}
	type bank2 struct {
		R Reg8 `hwio:"rwmask=0x123"`
	}

	if err := InitRegs(&bank1{}); err == nil {
		t.Error("InitRegs should fail with reset=0x123")
	}
	if err := InitRegs(&bank2{}); err == nil {
		t.Error("InitRegs should fail with rwmask=0x123")
	}
}
