package nes

import (
	"fmt"
	"io"
	"strings"
)

// disassemble writes one nestest-style trace line for the instruction
// about to execute: address, raw bytes, mnemonic and operand, then the
// register state going in. Operand bytes are re-read from the
// instruction stream, which is safe; registers with read side effects
// never live there.
func disassemble(out io.Writer, c *CPU, pc uint16, opcode byte, in Instruction, addr uint16) {
	var strlen int

	n, _ := fmt.Fprintf(out, "%04X  ", pc)
	strlen += n

	switch in.Mode.operandSize() {
	case 0:
		n, _ = fmt.Fprintf(out, "%02X        ", opcode)
	case 1:
		n, _ = fmt.Fprintf(out, "%02X %02X     ", opcode, c.bus.Read(pc+1))
	case 2:
		n, _ = fmt.Fprintf(out, "%02X %02X %02X  ", opcode, c.bus.Read(pc+1), c.bus.Read(pc+2))
	}
	strlen += n

	n, _ = fmt.Fprint(out, in.Op, " ")
	strlen += n

	switch in.Mode {
	case Implied:
	case Accumulator:
		n, _ = fmt.Fprint(out, "A")
		strlen += n
	default:
		var arg uint16
		switch in.Mode {
		case Immediate, ZeroPage, ZeroPageX, ZeroPageY, IndexedIndirect, IndirectIndexed:
			arg = uint16(c.bus.Read(pc + 1))
		case Absolute, AbsoluteX, AbsoluteY, AbsoluteIndirect:
			arg = uint16(c.bus.Read(pc+2))<<8 | uint16(c.bus.Read(pc+1))
		case Relative:
			arg = addr
		}
		n, _ = fmt.Fprintf(out, operandFormats[in.Mode], arg)
		strlen += n
	}

	if strlen < 48 {
		fmt.Fprint(out, strings.Repeat(" ", 48-strlen))
	}
	fmt.Fprintf(out, "A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d\n",
		c.a, c.x, c.y, c.packFlags(false), c.s, c.cycles)
}

var operandFormats = map[AddressingMode]string{
	Immediate:        "#$%02X",
	ZeroPage:         "$%02X",
	ZeroPageX:        "$%02X,X",
	ZeroPageY:        "$%02X,Y",
	Absolute:         "$%04X",
	AbsoluteX:        "$%04X,X",
	AbsoluteY:        "$%04X,Y",
	Relative:         "$%04X",
	IndexedIndirect:  "($%02X,X)",
	IndirectIndexed:  "($%02X),Y",
	AbsoluteIndirect: "($%04X)",
}
