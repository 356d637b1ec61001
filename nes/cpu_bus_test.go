package nes

import "testing"

func TestCPUBusRAMMirrors(t *testing.T) {
	c := testConsole(t)

	c.bus.Write(0x0000, 0x42)
	for _, addr := range []uint16{0x0000, 0x0800, 0x1000, 0x1800} {
		if got := c.bus.Read(addr); got != 0x42 {
			t.Errorf("read 0x%04X = 0x%02X, want 0x42 via the ram mirror", addr, got)
		}
	}

	// Writes through a mirror land in the same 2KiB.
	c.bus.Write(0x1FFF, 0x24)
	if got := c.bus.Read(0x07FF); got != 0x24 {
		t.Errorf("read 0x07FF = 0x%02X, want 0x24 written via 0x1FFF", got)
	}
}

func TestCPUBusPPURegisterMirrors(t *testing.T) {
	c := testConsole(t)

	// 0x2008 decodes to PPUCTRL, 0x3FF6 to PPUADDR.
	c.bus.Write(0x2008, ctrlIncrement32)
	if c.ppu.ctrl != ctrlIncrement32 {
		t.Errorf("ctrl = 0x%02X, want 0x%02X written via the mirror", c.ppu.ctrl, byte(ctrlIncrement32))
	}

	c.bus.Write(0x3FF6, 0x21)
	c.bus.Write(0x3FF6, 0x00)
	if c.ppu.vramAddr != 0x2100 {
		t.Errorf("vramAddr = 0x%04X, want 0x2100 written via the mirror", c.ppu.vramAddr)
	}
}

func TestCPUBusROMWritesDiscarded(t *testing.T) {
	c := testConsole(t, 0xEA)

	before := c.bus.Read(0x8000)
	c.bus.Write(0x8000, 0xFF)
	if got := c.bus.Read(0x8000); got != before {
		t.Errorf("read 0x8000 = 0x%02X, want 0x%02X, rom writes must be discarded", got, before)
	}
}

func TestCPUBusUnmappedRegions(t *testing.T) {
	c := testConsole(t)

	for _, addr := range []uint16{0x4000, 0x4015, 0x4017, 0x4020, 0x5000, 0x6000, 0x7FFF} {
		if got := c.bus.Read(addr); got != 0 {
			t.Errorf("read 0x%04X = 0x%02X, want 0", addr, got)
		}
		// Writes are accepted and must not blow up.
		c.bus.Write(addr, 0xFF)
	}
}

func TestCPUBusAPULatch(t *testing.T) {
	c := testConsole(t)

	c.bus.Write(0x4000, 0xBF)
	if got := c.apu.registers[0]; got != 0xBF {
		t.Errorf("apu register 0 = 0x%02X, want the write latched", got)
	}
	if got := c.bus.Read(0x4000); got != 0 {
		t.Errorf("read 0x4000 = 0x%02X, want 0, apu registers never read back", got)
	}
}

func TestCPUBusController(t *testing.T) {
	c := testConsole(t)

	c.Press(A)
	c.Press(Start)

	// Strobe, then drop it and shift the eight buttons out.
	c.bus.Write(0x4016, 1)
	c.bus.Write(0x4016, 0)

	want := []byte{1, 0, 0, 1, 0, 0, 0, 0} // A, B, Select, Start, U, D, L, R
	for i, w := range want {
		if got := c.bus.Read(0x4016); got != w {
			t.Errorf("read %d = %d, want %d", i, got, w)
		}
	}

	// Past the eighth read the register is empty.
	if got := c.bus.Read(0x4016); got != 0 {
		t.Errorf("ninth read = %d, want 0", got)
	}

	// While strobed, reads keep returning the A button.
	c.bus.Write(0x4016, 1)
	for i := 0; i < 3; i++ {
		if got := c.bus.Read(0x4016); got != 1 {
			t.Errorf("strobed read %d = %d, want 1", i, got)
		}
	}
}
