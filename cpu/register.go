package cpu

// Register names an architectural register.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_AC   = Register(0) // AC
	REG_PC   = Register(1) // PC
	REG_AR   = Register(2) // AR
	REG_DR   = Register(3) // DR
	REG_IR   = Register(4) // IR
	REG_TR   = Register(5) // TR
	REG_INPR = Register(6) // INPR
	REG_OUTR = Register(7) // OUTR
	REG_SC   = Register(8) // SC
)

// RegisterCount is the number of architectural registers.
const RegisterCount = 9

// Width returns the bit mask of the register.
func (reg Register) Width() uint16 {
	switch reg {
	case REG_PC, REG_AR:
		return ADDRESS_MASK
	case REG_INPR, REG_OUTR:
		return BYTE_MASK
	case REG_SC:
		return 0xf
	}
	return WORD_MASK
}

// Registers is the register file.
//
// AC is kept 16 bits wide between instructions; arithmetic is done in a
// wider temporary so that the carry out of bit 15 can be observed.
type Registers struct {
	AC   uint16 // Accumulator.
	PC   uint16 // Program counter, 12 bits.
	AR   uint16 // Address register, 12 bits.
	DR   uint16 // Data register.
	IR   uint16 // Instruction register.
	TR   uint16 // Temporary register.
	INPR uint8  // Input latch.
	OUTR uint8  // Output latch.
	SC   uint8  // Sequence counter, informational only.
}

// Reset zeroes every register.
func (regs *Registers) Reset() {
	*regs = Registers{}
}

// Get returns the value of a register.
func (regs *Registers) Get(reg Register) (value uint16) {
	switch reg {
	case REG_AC:
		value = regs.AC
	case REG_PC:
		value = regs.PC
	case REG_AR:
		value = regs.AR
	case REG_DR:
		value = regs.DR
	case REG_IR:
		value = regs.IR
	case REG_TR:
		value = regs.TR
	case REG_INPR:
		value = uint16(regs.INPR)
	case REG_OUTR:
		value = uint16(regs.OUTR)
	case REG_SC:
		value = uint16(regs.SC)
	default:
		panic("unknown register")
	}

	return
}

// Set a register, masking the value to the register width.
func (regs *Registers) Set(reg Register, value uint16) {
	value &= reg.Width()

	switch reg {
	case REG_AC:
		regs.AC = value
	case REG_PC:
		regs.PC = value
	case REG_AR:
		regs.AR = value
	case REG_DR:
		regs.DR = value
	case REG_IR:
		regs.IR = value
	case REG_TR:
		regs.TR = value
	case REG_INPR:
		regs.INPR = uint8(value)
	case REG_OUTR:
		regs.OUTR = uint8(value)
	case REG_SC:
		regs.SC = uint8(value)
	default:
		panic("unknown register")
	}
}
