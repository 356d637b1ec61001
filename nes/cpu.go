package nes

import (
	"io"
)

// Interrupt and reset vectors.
const (
	nmiVector   = uint16(0xFFFA)
	resetVector = uint16(0xFFFC)
	irqVector   = uint16(0xFFFE)

	stackBase = uint16(0x0100)
)

// Packed layout of the status register, observable through PHP/PLP and
// the interrupt stack frames.
const (
	flagCarry     = 1 << 0
	flagZero      = 1 << 1
	flagInterrupt = 1 << 2
	flagDecimal   = 1 << 3
	flagBreak     = 1 << 4
	flagUnused    = 1 << 5
	flagOverflow  = 1 << 6
	flagNegative  = 1 << 7
)

// CPU is the 6502 core. The status flags live as individual booleans and
// are packed into a byte only at the moments the packed form is
// observable: PHP and the interrupt frame pushes. PLP and RTI unpack.
//
// nmiPending is edge triggered: the PPU (via the console) sets it, entry
// into the NMI handler clears it. irqPending is level triggered and
// masked by I; whoever asserts it keeps it asserted.
type CPU struct {
	bus *CPUBus

	a, x, y byte
	s       byte
	pc      uint16

	// Status flags. The unused bit reads back as 1 and B only exists in
	// the packed byte, so neither is stored.
	c, z, i, d, v, n bool

	nmiPending bool
	irqPending bool

	cycles uint64
	trace  io.Writer
}

func newCPU(bus *CPUBus, trace io.Writer) *CPU {
	return &CPU{bus: bus, trace: trace}
}

// reset loads PC from the reset vector and forces the power-up register
// state. The reset sequence pushes nothing.
func (c *CPU) reset() {
	c.pc = c.readAddress(resetVector)
	c.s = 0xFD
	c.c, c.z, c.d, c.v, c.n = false, false, false, false, false
	c.i = true
	c.nmiPending = false
	c.irqPending = false
}

// TriggerNMI latches a non-maskable interrupt. It is observed at the top
// of the next Step.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// AssertIRQ drives the interrupt request line low. It stays asserted
// until ClearIRQ; the I flag decides whether the cpu honors it.
func (c *CPU) AssertIRQ() {
	c.irqPending = true
}

func (c *CPU) ClearIRQ() {
	c.irqPending = false
}

// Step advances the cpu by exactly one instruction, or one interrupt
// entry, and reports the cycles that took. The only failure is hitting an
// undocumented opcode byte.
func (c *CPU) Step() (uint8, error) {
	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(nmiVector)
		c.cycles += 7
		return 7, nil
	}
	if c.irqPending && !c.i {
		c.interrupt(irqVector)
		c.cycles += 7
		return 7, nil
	}

	initialPC := c.pc
	opcode := c.read(c.pc)
	c.pc++

	in, err := decode(opcode, initialPC)
	if err != nil {
		return 0, err
	}

	addr, crossed := c.resolveAddress(in.Mode)

	if c.trace != nil {
		disassemble(c.trace, c, initialPC, opcode, in, addr)
	}

	cycles := in.Cycles
	if crossed {
		cycles += in.PageCycles
	}
	cycles += c.execute(in, addr)

	c.cycles += uint64(cycles)
	return cycles, nil
}

func (c *CPU) read(address uint16) byte {
	return c.bus.Read(address)
}

func (c *CPU) write(address uint16, value byte) {
	c.bus.Write(address, value)
}

// readAddress fetches a little-endian word. The shift is applied to the
// high byte before the or, explicitly: uint16(hi)<<8 | uint16(lo).
func (c *CPU) readAddress(address uint16) uint16 {
	lo := c.read(address)
	hi := c.read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// resolveAddress consumes the operand bytes for the mode and produces the
// effective address. crossed reports whether indexed addressing stepped
// over a page boundary relative to the unindexed base.
//
// Zero page arithmetic wraps at 8 bits: the additions happen on byte
// values before widening.
func (c *CPU) resolveAddress(mode AddressingMode) (addr uint16, crossed bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		addr = c.pc
		c.pc++
		return addr, false

	case ZeroPage:
		addr = uint16(c.read(c.pc))
		c.pc++
		return addr, false

	case ZeroPageX:
		addr = uint16(c.read(c.pc) + c.x)
		c.pc++
		return addr, false

	case ZeroPageY:
		addr = uint16(c.read(c.pc) + c.y)
		c.pc++
		return addr, false

	case Absolute:
		addr = c.readAddress(c.pc)
		c.pc += 2
		return addr, false

	case AbsoluteX:
		base := c.readAddress(c.pc)
		c.pc += 2
		addr = base + uint16(c.x)
		return addr, pageCrossed(base, addr)

	case AbsoluteY:
		base := c.readAddress(c.pc)
		c.pc += 2
		addr = base + uint16(c.y)
		return addr, pageCrossed(base, addr)

	case Relative:
		offset := c.read(c.pc)
		c.pc++
		return c.pc + uint16(int8(offset)), false

	case IndexedIndirect:
		pointer := c.read(c.pc) + c.x
		c.pc++
		lo := c.read(uint16(pointer))
		hi := c.read(uint16(pointer + 1))
		return uint16(hi)<<8 | uint16(lo), false

	case IndirectIndexed:
		pointer := c.read(c.pc)
		c.pc++
		lo := c.read(uint16(pointer))
		hi := c.read(uint16(pointer + 1))
		base := uint16(hi)<<8 | uint16(lo)
		addr = base + uint16(c.y)
		return addr, pageCrossed(base, addr)

	case AbsoluteIndirect:
		pointer := c.readAddress(c.pc)
		c.pc += 2
		lo := c.read(pointer)
		hi := c.read(pointer&0xFF00 | uint16(byte(pointer)+1))
		return uint16(hi)<<8 | uint16(lo), false
	}

	return 0, false
}

// execute runs one decoded instruction. The return value is the dynamic
// cycle adjustment, which is nonzero only for taken branches.
func (c *CPU) execute(in Instruction, addr uint16) uint8 {
	switch in.Op {
	case LDA:
		c.a = c.read(addr)
		c.setZN(c.a)
	case LDX:
		c.x = c.read(addr)
		c.setZN(c.x)
	case LDY:
		c.y = c.read(addr)
		c.setZN(c.y)

	case STA:
		c.write(addr, c.a)
	case STX:
		c.write(addr, c.x)
	case STY:
		c.write(addr, c.y)

	case TAX:
		c.x = c.a
		c.setZN(c.x)
	case TAY:
		c.y = c.a
		c.setZN(c.y)
	case TXA:
		c.a = c.x
		c.setZN(c.a)
	case TYA:
		c.a = c.y
		c.setZN(c.a)
	case TSX:
		c.x = c.s
		c.setZN(c.x)
	case TXS:
		c.s = c.x

	case ADC:
		c.add(c.read(addr))
	case SBC:
		// Subtraction is addition of the inverted operand; the carry
		// doubles as the 6502's borrow.
		c.add(c.read(addr) ^ 0xFF)

	case AND:
		c.a &= c.read(addr)
		c.setZN(c.a)
	case ORA:
		c.a |= c.read(addr)
		c.setZN(c.a)
	case EOR:
		c.a ^= c.read(addr)
		c.setZN(c.a)

	case CMP:
		c.compare(c.a, c.read(addr))
	case CPX:
		c.compare(c.x, c.read(addr))
	case CPY:
		c.compare(c.y, c.read(addr))

	case ASL:
		c.modify(in.Mode, addr, c.asl)
	case LSR:
		c.modify(in.Mode, addr, c.lsr)
	case ROL:
		c.modify(in.Mode, addr, c.rol)
	case ROR:
		c.modify(in.Mode, addr, c.ror)

	case BIT:
		v := c.read(addr)
		c.n = v&0x80 > 0
		c.v = v&0x40 > 0
		c.z = c.a&v == 0

	case INC:
		v := c.read(addr) + 1
		c.write(addr, v)
		c.setZN(v)
	case DEC:
		v := c.read(addr) - 1
		c.write(addr, v)
		c.setZN(v)
	case INX:
		c.x++
		c.setZN(c.x)
	case DEX:
		c.x--
		c.setZN(c.x)
	case INY:
		c.y++
		c.setZN(c.y)
	case DEY:
		c.y--
		c.setZN(c.y)

	case BCC:
		return c.branch(addr, !c.c)
	case BCS:
		return c.branch(addr, c.c)
	case BNE:
		return c.branch(addr, !c.z)
	case BEQ:
		return c.branch(addr, c.z)
	case BPL:
		return c.branch(addr, !c.n)
	case BMI:
		return c.branch(addr, c.n)
	case BVC:
		return c.branch(addr, !c.v)
	case BVS:
		return c.branch(addr, c.v)

	case JMP:
		c.pc = addr
	case JSR:
		c.pushAddress(c.pc - 1)
		c.pc = addr
	case RTS:
		c.pc = c.pullAddress() + 1
	case RTI:
		c.unpackFlags(c.pull())
		c.pc = c.pullAddress()

	case PHA:
		c.push(c.a)
	case PLA:
		c.a = c.pull()
		c.setZN(c.a)
	case PHP:
		// The pushed byte always has B set; only the interrupt frame
		// pushes pick between the two.
		c.push(c.packFlags(true))
	case PLP:
		c.unpackFlags(c.pull())

	case CLC:
		c.c = false
	case SEC:
		c.c = true
	case CLI:
		c.i = false
	case SEI:
		c.i = true
	case CLD:
		c.d = false
	case SED:
		c.d = true
	case CLV:
		c.v = false

	case NOP:

	case BRK:
		// The byte after the BRK opcode is padding: the pushed return
		// address skips it.
		c.pushAddress(c.pc + 1)
		c.push(c.packFlags(true))
		c.i = true
		c.pc = c.readAddress(irqVector)
	}

	return 0
}

// interrupt is the common NMI/IRQ entry: frame push with B clear, mask
// further IRQs, jump through the vector. P is pushed before I is set, so
// RTI restores the pre-interrupt mask state.
func (c *CPU) interrupt(vector uint16) {
	c.pushAddress(c.pc)
	c.push(c.packFlags(false))
	c.i = true
	c.pc = c.readAddress(vector)
}

// branch takes the jump when the condition holds: one extra cycle, two if
// the target is on a different page than the next instruction.
func (c *CPU) branch(addr uint16, take bool) uint8 {
	if !take {
		return 0
	}
	extra := uint8(1)
	if pageCrossed(c.pc, addr) {
		extra = 2
	}
	c.pc = addr
	return extra
}

// modify applies a read-modify-write operation to A or to memory,
// depending on the addressing mode.
func (c *CPU) modify(mode AddressingMode, addr uint16, op func(byte) byte) {
	if mode == Accumulator {
		c.a = op(c.a)
		return
	}
	c.write(addr, op(c.read(addr)))
}

// add implements ADC: A + M + C in 16 bits. Overflow is signed: set when
// both operands agree in sign and the result does not.
func (c *CPU) add(m byte) {
	a := uint16(c.a)
	b := uint16(m)
	carry := uint16(0)
	if c.c {
		carry = 1
	}

	result := a + b + carry

	c.c = result > 0xFF
	c.v = (a^result)&(b^result)&0x80 != 0
	c.a = byte(result)
	c.setZN(c.a)
}

func (c *CPU) compare(reg, m byte) {
	c.c = reg >= m
	c.z = reg == m
	c.n = (reg-m)&0x80 > 0
}

func (c *CPU) asl(v byte) byte {
	c.c = v&0x80 > 0
	v <<= 1
	c.setZN(v)
	return v
}

func (c *CPU) lsr(v byte) byte {
	c.c = v&0x01 > 0
	v >>= 1
	c.setZN(v)
	return v
}

func (c *CPU) rol(v byte) byte {
	carry := c.c
	c.c = v&0x80 > 0
	v <<= 1
	if carry {
		v |= 0x01
	}
	c.setZN(v)
	return v
}

func (c *CPU) ror(v byte) byte {
	carry := c.c
	c.c = v&0x01 > 0
	v >>= 1
	if carry {
		v |= 0x80
	}
	c.setZN(v)
	return v
}

func (c *CPU) setZN(v byte) {
	c.z = v == 0
	c.n = v&0x80 > 0
}

// packFlags assembles the status byte. The unused bit is always 1;
// brk distinguishes PHP/BRK pushes from interrupt frame pushes.
func (c *CPU) packFlags(brk bool) byte {
	var p byte = flagUnused
	if c.c {
		p |= flagCarry
	}
	if c.z {
		p |= flagZero
	}
	if c.i {
		p |= flagInterrupt
	}
	if c.d {
		p |= flagDecimal
	}
	if brk {
		p |= flagBreak
	}
	if c.v {
		p |= flagOverflow
	}
	if c.n {
		p |= flagNegative
	}
	return p
}

// unpackFlags scatters a pulled status byte. B and the unused bit have no
// storage, so a pull can never change them.
func (c *CPU) unpackFlags(p byte) {
	c.c = p&flagCarry > 0
	c.z = p&flagZero > 0
	c.i = p&flagInterrupt > 0
	c.d = p&flagDecimal > 0
	c.v = p&flagOverflow > 0
	c.n = p&flagNegative > 0
}

// Stack discipline: push stores then decrements, pull increments then
// loads. S wraps silently, the 6502 has no overflow trap.
func (c *CPU) push(v byte) {
	c.write(stackBase|uint16(c.s), v)
	c.s--
}

func (c *CPU) pull() byte {
	c.s++
	return c.read(stackBase | uint16(c.s))
}

func (c *CPU) pushAddress(value uint16) {
	c.push(byte(value >> 8))
	c.push(byte(value & 0xFF))
}

func (c *CPU) pullAddress() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}
