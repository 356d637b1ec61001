package nes

// APU is the audio unit's register file only. Writes are latched so the
// state is observable, but nothing is ever synthesized from them and
// reads come back empty, which is all the cpu bus contract asks for.
type APU struct {
	registers [0x20]byte
}

func (a *APU) WriteRegister(address uint16, value byte) {
	a.registers[address%0x20] = value
}

func (a *APU) ReadRegister(address uint16) byte {
	return 0
}
