package cpu

const (
	MEMORY_SIZE  = 4096   // Words of memory.
	ADDRESS_MASK = 0x0fff // Mask of a 12-bit address.
	WORD_MASK    = 0xffff // Mask of a 16-bit word.
	BYTE_MASK    = 0x00ff // Mask of an 8-bit I/O latch.
)

// Memory is the 4096 word main memory.
type Memory [MEMORY_SIZE]uint16

// Read a word. The address is masked to 12 bits.
func (mem *Memory) Read(addr uint16) uint16 {
	return mem[addr&ADDRESS_MASK]
}

// Write a word. The address is masked to 12 bits.
func (mem *Memory) Write(addr uint16, value uint16) {
	mem[addr&ADDRESS_MASK] = value
}
