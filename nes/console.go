package nes

import (
	"fmt"
	"io"
	"os"
)

// Console owns the whole machine and drives it: one cpu instruction,
// then three ppu dots per cpu cycle. Everything is single threaded; the
// only signal between the two processors is the NMI flag Step carries
// from the ppu's Advance into the cpu before its next instruction.
type Console struct {
	cartridge *Cartridge
	ram       *RAM
	cpu       *CPU
	ppu       *PPU
	apu       *APU
	ctrl1     *Controller

	bus    *CPUBus
	ppuBus *PPUBus
}

// NewConsole builds an empty console. A cartridge must be loaded before
// stepping. trace, when non-nil, receives one disassembly line per
// instruction.
func NewConsole(trace io.Writer) *Console {
	ram := NewRAM()
	apu := &APU{}
	ctrl1 := &Controller{}

	ppuBus := &PPUBus{}
	ppu := newPPU(ppuBus)

	bus := &CPUBus{
		ram:   ram,
		ppu:   ppu,
		apu:   apu,
		ctrl1: ctrl1,
	}
	cpu := newCPU(bus, trace)

	return &Console{
		ram:    ram,
		cpu:    cpu,
		ppu:    ppu,
		apu:    apu,
		ctrl1:  ctrl1,
		bus:    bus,
		ppuBus: ppuBus,
	}
}

func (c *Console) Empty() bool {
	return c.cartridge == nil
}

// LoadPath loads an iNES image from disk.
func (c *Console) LoadPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open rom: %w", err)
	}
	defer f.Close()

	return c.Load(f)
}

// Load parses an iNES image and powers the machine up: the cartridge is
// wired into both buses and the cpu runs its reset sequence against the
// freshly mapped reset vector.
func (c *Console) Load(rom io.Reader) error {
	cartridge, err := LoadCartridge(rom)
	if err != nil {
		return err
	}

	c.cartridge = cartridge
	c.bus.cartridge = cartridge
	c.ppuBus.cartridge = cartridge
	c.cpu.reset()

	return nil
}

// Reset is the console's reset button.
func (c *Console) Reset() {
	c.cpu.reset()
	c.ppu.resetLatches()
}

// Step runs one cpu instruction and the three ppu dots each of its
// cycles paid for. An NMI the ppu raises along the way is latched on the
// cpu, which observes it at the top of its next step; vblank's effect on
// the cpu is therefore deferred by exactly one instruction.
func (c *Console) Step() (uint8, error) {
	cycles, err := c.cpu.Step()
	if err != nil {
		return 0, err
	}

	if c.ppu.Advance(3 * uint32(cycles)) {
		c.cpu.TriggerNMI()
	}

	return cycles, nil
}

// StepFrame steps until the ppu finishes the current frame.
func (c *Console) StepFrame() error {
	if c.Empty() {
		return nil
	}

	frame := c.ppu.Frame()
	for frame == c.ppu.Frame() {
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Buffer is the last composed frame: 256x240 palette indices.
func (c *Console) Buffer() []byte {
	return c.ppu.Buffer()
}

func (c *Console) Press(button Button) {
	c.ctrl1.Press(button)
}

func (c *Console) Release(button Button) {
	c.ctrl1.Release(button)
}

// Cycles and Dots expose the two time bases; they advance in a strict
// 1:3 ratio.
func (c *Console) Cycles() uint64 {
	return c.cpu.cycles
}

func (c *Console) Dots() uint64 {
	return c.ppu.Dots()
}
