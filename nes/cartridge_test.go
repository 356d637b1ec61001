package nes

import (
	"bytes"
	"errors"
	"testing"
)

// romImage assembles an iNES image from parts.
func romImage(prgBanks, chrBanks byte, flags6, flags7 byte, payload []byte) []byte {
	header := make([]byte, 16)
	copy(header, inesMagic)
	header[4] = prgBanks
	header[5] = chrBanks
	header[6] = flags6
	header[7] = flags7
	return append(header, payload...)
}

func TestLoadCartridge(t *testing.T) {
	prg := make([]byte, prgBankSize)
	chr := make([]byte, chrBankSize)

	tests := []struct {
		name string
		rom  []byte
		err  error
	}{
		{
			name: "valid nrom",
			rom:  romImage(1, 1, 0, 0, append(append([]byte{}, prg...), chr...)),
		},
		{
			name: "bad magic",
			rom: func() []byte {
				rom := romImage(1, 1, 0, 0, append(append([]byte{}, prg...), chr...))
				rom[0] = 'X'
				return rom
			}(),
			err: ErrBadMagic,
		},
		{
			name: "mapper 1 rejected",
			rom:  romImage(1, 1, 1<<4, 0, append(append([]byte{}, prg...), chr...)),
			err:  ErrUnsupportedMapper,
		},
		{
			name: "mapper from upper nibble rejected",
			rom:  romImage(1, 1, 0, 4<<4, append(append([]byte{}, prg...), chr...)),
			err:  ErrUnsupportedMapper,
		},
		{
			name: "zero program banks rejected",
			rom:  romImage(0, 1, 0, 0, chr),
			err:  ErrUnsupportedMapper,
		},
		{
			name: "truncated header",
			rom:  []byte{'N', 'E', 'S', 0x1A, 1},
			err:  ErrTruncated,
		},
		{
			name: "truncated program rom",
			rom:  romImage(2, 1, 0, 0, prg),
			err:  ErrTruncated,
		},
		{
			name: "truncated character rom",
			rom:  romImage(1, 1, 0, 0, append(append([]byte{}, prg...), chr[:100]...)),
			err:  ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCartridge(bytes.NewReader(tt.rom))
			if !errors.Is(err, tt.err) {
				t.Errorf("LoadCartridge() error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestCartridgeMirroring(t *testing.T) {
	prg := make([]byte, prgBankSize)
	chr := make([]byte, chrBankSize)

	horizontal, err := LoadCartridge(bytes.NewReader(romImage(1, 1, 0, 0, append(append([]byte{}, prg...), chr...))))
	if err != nil {
		t.Fatal(err)
	}
	if horizontal.Mirror() != Horizontal {
		t.Errorf("got mirror mode %v, want %v", horizontal.Mirror(), Horizontal)
	}

	vertical, err := LoadCartridge(bytes.NewReader(romImage(1, 1, f6MirrorVertical, 0, append(append([]byte{}, prg...), chr...))))
	if err != nil {
		t.Fatal(err)
	}
	if vertical.Mirror() != Vertical {
		t.Errorf("got mirror mode %v, want %v", vertical.Mirror(), Vertical)
	}
}

func TestCartridgePRGBankMirroring(t *testing.T) {
	prg := make([]byte, prgBankSize)
	prg[0] = 0x42
	chr := make([]byte, chrBankSize)

	cart, err := LoadCartridge(bytes.NewReader(romImage(1, 1, 0, 0, append(append([]byte{}, prg...), chr...))))
	if err != nil {
		t.Fatal(err)
	}

	// A single bank appears both at $8000 and $C000.
	if got := cart.ReadPRG(0x8000); got != 0x42 {
		t.Errorf("ReadPRG(0x8000) = 0x%02X, want 0x42", got)
	}
	if got := cart.ReadPRG(0xC000); got != 0x42 {
		t.Errorf("ReadPRG(0xC000) = 0x%02X, want 0x42", got)
	}

	// With two banks the upper half is its own data.
	prg2 := make([]byte, 2*prgBankSize)
	prg2[0] = 0x11
	prg2[prgBankSize] = 0x22
	cart2, err := LoadCartridge(bytes.NewReader(romImage(2, 1, 0, 0, append(append([]byte{}, prg2...), chr...))))
	if err != nil {
		t.Fatal(err)
	}
	if got := cart2.ReadPRG(0x8000); got != 0x11 {
		t.Errorf("ReadPRG(0x8000) = 0x%02X, want 0x11", got)
	}
	if got := cart2.ReadPRG(0xC000); got != 0x22 {
		t.Errorf("ReadPRG(0xC000) = 0x%02X, want 0x22", got)
	}
}

func TestCartridgeCHRRAM(t *testing.T) {
	prg := make([]byte, prgBankSize)

	// Zero CHR banks means the cart carries character ram instead.
	cart, err := LoadCartridge(bytes.NewReader(romImage(1, 0, 0, 0, prg)))
	if err != nil {
		t.Fatal(err)
	}

	cart.WriteCHR(0x0123, 0xAB)
	if got := cart.ReadCHR(0x0123); got != 0xAB {
		t.Errorf("ReadCHR(0x0123) = 0x%02X, want 0xAB", got)
	}

	// CHR rom carts discard writes.
	chr := make([]byte, chrBankSize)
	romCart, err := LoadCartridge(bytes.NewReader(romImage(1, 1, 0, 0, append(append([]byte{}, prg...), chr...))))
	if err != nil {
		t.Fatal(err)
	}
	romCart.WriteCHR(0x0123, 0xAB)
	if got := romCart.ReadCHR(0x0123); got != 0 {
		t.Errorf("ReadCHR(0x0123) = 0x%02X, want 0 after discarded write", got)
	}
}
