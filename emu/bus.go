package emu

import (
	"errors"
	"fmt"

	"nsfplay/emu/log"
	"nsfplay/hw/apu"
	"nsfplay/hw/hwio"
	"nsfplay/nsf"
)

const bankSize = 0x1000

// Bus is the memory map seen by the CPU of a NSF player:
//
//	$0000-$07FF  RAM, mirrored up to $1FFF
//	$4000-$4017  APU
//	$5FF8-$5FFF  bankswitch registers
//	$6000-$7FFF  work RAM
//	$8000-$FFFF  program data, as 8 banks of 4KiB
type Bus struct {
	CPU *hwio.Table
	APU *apu.APU

	RAM   hwio.Mem    `hwio:"offset=0x0000,size=0x800,vsize=0x2000"`
	Banks hwio.Device `hwio:"offset=0x5FF8,size=8,wcb,pcb"`
	WRAM  hwio.Mem    `hwio:"offset=0x6000,size=0x2000"`

	prg          []byte // program data, padded to a multiple of bankSize
	bankswitched bool
	banks        [8]uint8
}

// NewBus returns a bus with the APU mapped, and no program loaded.
func NewBus(a *apu.APU) *Bus {
	bus := &Bus{
		CPU: hwio.NewTable("cpu"),
		APU: a,
	}
	hwio.MustInitRegs(bus)

	bus.CPU.MapBank(0x0000, bus, 0)
	a.MapRegisters(bus.CPU)
	return bus
}

// Load maps the program data of f into the $8000-$FFFF area. Bankswitched
// tunes get their bankswitch registers initialized from the header.
func (b *Bus) Load(f *nsf.File) error {
	if f.LoadAddr < 0x8000 {
		return fmt.Errorf("invalid load address $%04X", f.LoadAddr)
	}
	if len(f.Data) == 0 {
		return errors.New("nsf: no program data")
	}

	b.bankswitched = f.IsBankswitched()
	if !b.bankswitched {
		// Linear load, the data can't go past $FFFF.
		b.prg = make([]byte, 8*bankSize)
		off := int(f.LoadAddr - 0x8000)
		if n := copy(b.prg[off:], f.Data); n < len(f.Data) {
			log.ModEmu.WarnZ("program data truncated").
				Int("size", len(f.Data)).
				Int("loaded", n).
				End()
		}
		b.banks = [8]uint8{0, 1, 2, 3, 4, 5, 6, 7}
	} else {
		// The data is padded so that the load address falls at the same
		// offset in the first bank.
		pad := int(f.LoadAddr & 0x0FFF)
		size := (pad + len(f.Data) + bankSize - 1) / bankSize * bankSize
		b.prg = make([]byte, size)
		copy(b.prg[pad:], f.Data)
		b.banks = f.Bankswitch
	}

	log.ModEmu.InfoZ("program loaded").
		Hex16("load", f.LoadAddr).
		Int("banks", b.NumBanks()).
		Bool("bankswitched", b.bankswitched).
		End()

	for i, bank := range b.banks {
		b.mapBank(i, bank)
	}
	return nil
}

// NumBanks returns the number of 4KiB banks of program data.
func (b *Bus) NumBanks() int {
	return len(b.prg) / bankSize
}

func (b *Bus) mapBank(slot int, bank uint8) {
	if b.NumBanks() == 0 {
		return
	}
	bank = uint8(int(bank) % b.NumBanks())
	b.banks[slot] = bank

	start := uint16(0x8000 + slot*bankSize)
	b.CPU.MapMemorySlice(start, start+bankSize-1, b.prg[int(bank)*bankSize:(int(bank)+1)*bankSize], true)
}

// BANKS: $5FF8-$5FFF
func (b *Bus) WriteBANKS(addr uint16, val uint8) {
	if !b.bankswitched {
		return
	}
	slot := int(addr - 0x5FF8)
	log.ModEmu.DebugZ("bankswitch").Int("slot", slot).Uint8("bank", val).End()
	b.mapBank(slot, val)
}

func (b *Bus) PeekBANKS(addr uint16) uint8 {
	return b.banks[addr-0x5FF8]
}

func (b *Bus) Read8(addr uint16) uint8       { return b.CPU.Read8(addr) }
func (b *Bus) Peek8(addr uint16) uint8       { return b.CPU.Peek8(addr) }
func (b *Bus) Write8(addr uint16, val uint8) { b.CPU.Write8(addr, val) }
