package emu

import (
	"testing"

	"nsfplay/hw/apu"
	"nsfplay/hw/hwdefs"
	"nsfplay/nsf"
)

func newTestBus() *Bus {
	return NewBus(apu.New(hwdefs.NTSC))
}

func TestBusRAMMirror(t *testing.T) {
	bus := newTestBus()

	bus.Write8(0x0001, 0x42)
	for _, addr := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		if got := bus.Read8(addr); got != 0x42 {
			t.Errorf("Read8($%04X) = $%02X, want $42", addr, got)
		}
	}

	bus.Write8(0x1FFF, 0x17)
	if got := bus.Read8(0x07FF); got != 0x17 {
		t.Errorf("Read8($07FF) = $%02X, want $17", got)
	}
}

func TestBusWRAM(t *testing.T) {
	bus := newTestBus()

	bus.Write8(0x6000, 0x01)
	bus.Write8(0x7FFF, 0x02)
	if got := bus.Read8(0x6000); got != 0x01 {
		t.Errorf("Read8($6000) = $%02X, want $01", got)
	}
	if got := bus.Read8(0x7FFF); got != 0x02 {
		t.Errorf("Read8($7FFF) = $%02X, want $02", got)
	}
}

func TestBusAPU(t *testing.T) {
	bus := newTestBus()

	bus.Write8(0x4015, 0x01)
	bus.Write8(0x4003, 0x08) // length index 1
	if got := bus.Peek8(0x4015) & 0x01; got != 0x01 {
		t.Errorf("square 1 length status = %d, want 1", got)
	}

	bus.Write8(0x4015, 0x00)
	if got := bus.Peek8(0x4015) & 0x01; got != 0 {
		t.Errorf("square 1 length status = %d after disable, want 0", got)
	}
}

func TestBusLoadLinear(t *testing.T) {
	tests := []struct {
		name string
		load uint16
		data []byte
		want map[uint16]uint8
	}{
		{
			name: "at $8000",
			load: 0x8000,
			data: []byte{0xA9, 0x01, 0x60},
			want: map[uint16]uint8{0x8000: 0xA9, 0x8001: 0x01, 0x8002: 0x60, 0x8003: 0},
		},
		{
			name: "at $C123",
			load: 0xC123,
			data: []byte{0x11, 0x22},
			want: map[uint16]uint8{0xC122: 0, 0xC123: 0x11, 0xC124: 0x22},
		},
		{
			name: "truncated",
			load: 0xFFFE,
			data: []byte{0x33, 0x44, 0x55},
			want: map[uint16]uint8{0xFFFE: 0x33, 0xFFFF: 0x44, 0x8000: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newTestBus()
			f := &nsf.File{
				Header: nsf.Header{LoadAddr: tt.load},
				Data:   tt.data,
			}
			if err := bus.Load(f); err != nil {
				t.Fatal(err)
			}
			if bus.NumBanks() != 8 {
				t.Errorf("NumBanks() = %d, want 8", bus.NumBanks())
			}
			for addr, want := range tt.want {
				if got := bus.Read8(addr); got != want {
					t.Errorf("Read8($%04X) = $%02X, want $%02X", addr, got, want)
				}
			}

			// Bank registers are ignored for linear tunes.
			bus.Write8(0x5FF8, 3)
			if got := bus.Peek8(0x5FF8); got != 0 {
				t.Errorf("bank 0 = %d, want 0", got)
			}
		})
	}
}

func TestBusLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		f    *nsf.File
	}{
		{
			name: "load below $8000",
			f:    &nsf.File{Header: nsf.Header{LoadAddr: 0x6000}, Data: []byte{0}},
		},
		{
			name: "linear without data",
			f:    &nsf.File{Header: nsf.Header{LoadAddr: 0x8000}},
		},
		{
			name: "bankswitched without data",
			f: &nsf.File{Header: nsf.Header{
				LoadAddr:   0x8000,
				Bankswitch: [8]uint8{0, 1, 2, 3, 4, 5, 6, 7},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newTestBus()
			if err := bus.Load(tt.f); err == nil {
				t.Fatal("Load should fail")
			}
			// Nothing mapped, writing the bank registers must not panic.
			bus.Write8(0x5FF8, 3)
		})
	}
}

func TestBusLoadBankswitched(t *testing.T) {
	// 2 banks, the load address is 16 bytes into the first one.
	data := make([]byte, 2*bankSize-0x10)
	data[0] = 0xAA
	data[bankSize-0x10] = 0xBB
	data[len(data)-1] = 0xCC

	f := &nsf.File{
		Header: nsf.Header{
			LoadAddr:   0x8010,
			Bankswitch: [8]uint8{0, 1, 0, 0, 0, 0, 0, 1},
		},
		Data: data,
	}

	bus := newTestBus()
	if err := bus.Load(f); err != nil {
		t.Fatal(err)
	}
	if bus.NumBanks() != 2 {
		t.Fatalf("NumBanks() = %d, want 2", bus.NumBanks())
	}

	check := func(addr uint16, want uint8) {
		t.Helper()
		if got := bus.Read8(addr); got != want {
			t.Errorf("Read8($%04X) = $%02X, want $%02X", addr, got, want)
		}
	}
	check(0x8000, 0x00) // padding
	check(0x8010, 0xAA)
	check(0x9000, 0xBB)
	check(0x9FFF, 0xCC)
	check(0xF000, 0xBB)

	// Switch bank 1 in slot 0.
	bus.Write8(0x5FF8, 1)
	check(0x8000, 0xBB)
	if got := bus.Peek8(0x5FF8); got != 1 {
		t.Errorf("bank 0 = %d, want 1", got)
	}

	// Bank numbers wrap around the number of banks.
	bus.Write8(0x5FFA, 2)
	check(0xA010, 0xAA)
	if got := bus.Peek8(0x5FFA); got != 0 {
		t.Errorf("bank 2 = %d, want 0", got)
	}

	// Program data is read-only.
	bus.Write8(0x8010, 0x00)
	check(0xA010, 0xAA)
}
