package nes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	prgBankSize = 1024 * 16
	chrBankSize = 1024 * 8
)

// flags6 bits.
const (
	f6MirrorVertical = 1 << iota
	f6SaveRAM
	f6Trainer
	f6FourScreen
)

var inesMagic = []byte{'N', 'E', 'S', 0x1A}

var (
	// ErrBadMagic is returned when the stream does not start with "NES\x1A".
	ErrBadMagic = errors.New("nes: invalid magic in header")

	// ErrUnsupportedMapper is returned for anything that is not plain NROM.
	ErrUnsupportedMapper = errors.New("nes: unsupported mapper")

	// ErrTruncated is returned when the stream ends before the banks the
	// header promised.
	ErrTruncated = errors.New("nes: truncated rom image")
)

type MirrorMode int

const (
	Horizontal MirrorMode = iota
	Vertical
)

// Cartridge is an NROM cart: 16 or 32KiB of program rom and 8KiB of
// character rom (or ram, when the header declares zero CHR banks).
// The contents are immutable once loaded, save for CHR ram.
type Cartridge struct {
	prg    []byte
	chr    []byte
	chrRAM bool
	mirror MirrorMode
}

// LoadCartridge parses an iNES image.
//
// Only the fields NROM needs are interpreted; the rest of the 16 byte
// header is read and discarded.
func LoadCartridge(r io.Reader) (*Cartridge, error) {
	type header struct {
		Magic    [4]byte
		PRGBanks byte // number of 16KiB program rom banks
		CHRBanks byte // number of 8KiB character rom banks
		Flags6   byte // mirroring, trainer, lower mapper nibble
		Flags7   byte // upper mapper nibble
		_        [8]byte
	}

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	if !bytes.Equal(h.Magic[:], inesMagic) {
		return nil, ErrBadMagic
	}

	mapper := h.Flags6>>4 | h.Flags7&0xF0
	if mapper != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, mapper)
	}
	if h.PRGBanks != 1 && h.PRGBanks != 2 {
		return nil, fmt.Errorf("%w: %d program banks", ErrUnsupportedMapper, h.PRGBanks)
	}
	if h.CHRBanks > 1 {
		return nil, fmt.Errorf("%w: %d character banks", ErrUnsupportedMapper, h.CHRBanks)
	}

	if h.Flags6&f6Trainer > 0 {
		if _, err := io.CopyN(io.Discard, r, 512); err != nil {
			return nil, fmt.Errorf("%w: trainer: %v", ErrTruncated, err)
		}
	}

	prg := make([]byte, int(h.PRGBanks)*prgBankSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("%w: program rom: %v", ErrTruncated, err)
	}

	chr := make([]byte, chrBankSize)
	chrRAM := h.CHRBanks == 0
	if !chrRAM {
		if _, err := io.ReadFull(r, chr); err != nil {
			return nil, fmt.Errorf("%w: character rom: %v", ErrTruncated, err)
		}
	}

	mirror := Horizontal
	if h.Flags6&f6MirrorVertical > 0 {
		mirror = Vertical
	}

	return &Cartridge{
		prg:    prg,
		chr:    chr,
		chrRAM: chrRAM,
		mirror: mirror,
	}, nil
}

func (c *Cartridge) Mirror() MirrorMode {
	return c.mirror
}

// ReadPRG maps $8000-$FFFF into program rom. A single bank cart mirrors
// $8000-$BFFF into $C000-$FFFF.
func (c *Cartridge) ReadPRG(address uint16) byte {
	return c.prg[int(address-0x8000)%len(c.prg)]
}

// WritePRG discards the write. Real programs do store to rom addresses by
// accident and the bus contract says that must be honored silently.
func (c *Cartridge) WritePRG(address uint16, value byte) {
}

func (c *Cartridge) ReadCHR(address uint16) byte {
	return c.chr[address%chrBankSize]
}

// WriteCHR sticks only on CHR ram carts.
func (c *Cartridge) WriteCHR(address uint16, value byte) {
	if c.chrRAM {
		c.chr[address%chrBankSize] = value
	}
}
