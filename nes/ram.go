package nes

const ramSize = 2048

// RAM is the console's 2KiB of work memory. Addresses are masked to the
// physical size, which is also what makes the $0800-$1FFF mirrors on the
// cpu bus fall out for free.
type RAM struct {
	data [ramSize]byte
}

func NewRAM() *RAM {
	return &RAM{}
}

func (r *RAM) Read(address uint16) byte {
	return r.data[address%ramSize]
}

func (r *RAM) Write(address uint16, value byte) {
	r.data[address%ramSize] = value
}
