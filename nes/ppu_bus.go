package nes

// ╔═════════════════╤═══════╤════════════════════════════════╗
// ║ Address Range   │ Size  │ Target                         ║
// ╠═════════════════╪═══════╪════════════════════════════════╣
// ║ 0x3F00 - 0x3FFF │ 256   │ palette ram, 32 bytes mirrored ║
// ╠═════════════════╪═══════╪════════════════════════════════╣
// ║ 0x3000 - 0x3EFF │ 3840  │ mirrors of 0x2000 - 0x2EFF     ║
// ╠═════════════════╪═══════╪════════════════════════════════╣
// ║ 0x2000 - 0x2FFF │ 4096  │ name + attribute tables, 2KiB  ║
// ║                 │       │ physical, cart picks the fold  ║
// ╠═════════════════╪═══════╪════════════════════════════════╣
// ║ 0x0000 - 0x1FFF │ 8192  │ pattern tables (CHR)           ║
// ╚═════════════════╧═══════╧════════════════════════════════╝
//
// PPUBus is the ppu's view of memory: character rom from the cartridge,
// the console's 2KiB of nametable ram folded according to the cartridge's
// mirroring, and palette ram. All addresses are masked to 14 bits before
// decoding, so no access can ever land out of range.
type PPUBus struct {
	cartridge  *Cartridge
	nametables [2048]byte
	palette    [32]byte
}

func (b *PPUBus) Read(address uint16) byte {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		return b.cartridge.ReadCHR(address)
	case address < 0x3F00:
		return b.nametables[b.nametableIndex(address)]
	default:
		return b.palette[paletteIndex(address)]
	}
}

func (b *PPUBus) Write(address uint16, value byte) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		b.cartridge.WriteCHR(address, value)
	case address < 0x3F00:
		b.nametables[b.nametableIndex(address)] = value
	default:
		b.palette[paletteIndex(address)] = value
	}
}

// nametableIndex folds a logical nametable address into the 2KiB of
// physical ram. The four logical tables pair up according to the
// cartridge's mirroring:
//
//	            0x2000 0x2400 0x2800 0x2C00
//	Horizontal    A      A      B      B
//	Vertical      A      B      A      B
//
// 0x3000-0x3EFF mirrors 0x2000-0x2EFF, which the modulo handles.
func (b *PPUBus) nametableIndex(address uint16) uint16 {
	address = (address - 0x2000) % 0x1000
	table := address / 0x400
	offset := address % 0x400

	switch b.cartridge.Mirror() {
	case Horizontal:
		table = table >> 1
	case Vertical:
		table = table & 1
	}

	return table*0x400 + offset
}

// paletteIndex masks palette addresses to the 32 byte ram. The sprite
// backdrop entries 0x3F10/14/18/1C are aliases of the background ones;
// the fold applies to both reads and writes.
func paletteIndex(address uint16) uint16 {
	address = (address - 0x3F00) % 32
	if address >= 16 && address%4 == 0 {
		address -= 16
	}
	return address
}
