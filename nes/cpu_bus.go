package nes

// ╔═════════════════╤═══════╤═════════════════════════════╗
// ║ Address Range   │ Size  │ Target                      ║
// ╠═════════════════╪═══════╪═════════════════════════════╣
// ║ 0x8000 - 0xFFFF │ 32768 │ PRG ROM (16KiB carts mirror ║
// ║                 │       │ the single bank twice)      ║
// ╠═════════════════╪═══════╪═════════════════════════════╣
// ║ 0x6000 - 0x7FFF │ 8192  │ unmapped on NROM, reads 0   ║
// ╠═════════════════╪═══════╪═════════════════════════════╣
// ║ 0x4020 - 0x5FFF │ 8160  │ unmapped, reads 0           ║
// ╠═════════════════╪═══════╪═════════════════════════════╣
// ║ 0x4000 - 0x401F │ 32    │ APU / I/O ($4016 is the     ║
// ║                 │       │ first controller)           ║
// ╠═════════════════╪═══════╪═════════════════════════════╣
// ║ 0x2008 - 0x3FFF │ 8184  │ mirrors of 0x2000 - 0x2007  ║
// ╟╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╢
// ║ 0x2000 - 0x2007 │ 8     │ PPU registers               ║
// ╠═════════════════╪═══════╪═════════════════════════════╣
// ║ 0x0800 - 0x1FFF │ 6144  │ mirrors of 0x0000 - 0x07FF  ║
// ╟╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╢
// ║ 0x0000 - 0x07FF │ 2048  │ RAM (stack at 0x0100)       ║
// ╚═════════════════╧═══════╧═════════════════════════════╝
//
// CPUBus decodes cpu addresses and forwards to the owning device. It is a
// pure passthrough: it holds references, never state. Writes to rom and
// to unmapped space are honored silently; the programs of the era depend
// on that.
type CPUBus struct {
	ram       *RAM
	ppu       *PPU
	apu       *APU
	ctrl1     *Controller
	cartridge *Cartridge
}

func (b *CPUBus) Read(address uint16) byte {
	switch {
	case address < 0x2000:
		return b.ram.Read(address)

	case address < 0x4000:
		return b.ppu.ReadRegister(address)

	case address == 0x4016:
		return b.ctrl1.Read()

	case address < 0x4020:
		return b.apu.ReadRegister(address)

	case address < 0x8000:
		// Expansion rom and save ram don't exist on NROM.
		return 0

	default:
		return b.cartridge.ReadPRG(address)
	}
}

func (b *CPUBus) Write(address uint16, value byte) {
	switch {
	case address < 0x2000:
		b.ram.Write(address, value)

	case address < 0x4000:
		b.ppu.WriteRegister(address, value)

	case address == 0x4016:
		b.ctrl1.Write(value)

	case address < 0x4020:
		b.apu.WriteRegister(address, value)

	case address < 0x8000:
		// discarded

	default:
		b.cartridge.WritePRG(address, value)
	}
}
