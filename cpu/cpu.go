package cpu

import (
	"fmt"
	"log"
)

// Timing steps of the fixed parts of the instruction cycle.
const (
	FETCH_CYCLES     = 3 // T0-T2: AR<-PC, IR<-M[AR] PC<-PC+1, decode.
	INDIRECT_CYCLES  = 1 // T3: optional AR<-M[AR] for memory reference.
	INTERRUPT_CYCLES = 3 // RT0-RT2: interrupt entry.
)

// Cpu is the simulation context for the basic computer.
//
// Cpu is not safe for concurrent use; see the emulator package for a
// serialized driver.
type Cpu struct {
	Verbose  bool     // Set to enable verbose logging.
	Observer Observer // Notified after every instruction, if set.

	Memory    Memory    // Main memory.
	Registers Registers // Register file.
	Flags     Flags     // Status flags.

	Instructions int // Instructions and interrupt entries since load.
	Cycles       int // Timing steps since load.

	outPending bool    // OUT executed, OUTR not yet collected.
	change     *Change // Change record of the instruction in progress.
}

// NewCpu creates a new CPU with a zeroed memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Reset the CPU state.
// - Clears all registers and flags.
// - Zeros statistics counters.
// Memory is untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Flags.Reset()
	cpu.Instructions = 0
	cpu.Cycles = 0
	cpu.outPending = false
}

// Load replaces the memory image and resets the CPU.
// This is the only operation that clears the STOP flag.
func (cpu *Cpu) Load(image *Memory) {
	cpu.Memory = *image
	cpu.Reset()
}

// Halted returns true once the STOP flag is set.
func (cpu *Cpu) Halted() bool {
	return cpu.Flags.Has(FLAG_STOP)
}

// SetInput places a character in INPR and raises FGI.
func (cpu *Cpu) SetInput(value byte) {
	cpu.Registers.INPR = value
	cpu.Flags.Set(FLAG_FGI, true)
}

// InputReady returns true when INPR has been consumed by INP.
func (cpu *Cpu) InputReady() bool {
	return !cpu.Flags.Has(FLAG_FGI)
}

// Output returns OUTR, and whether an OUT has stored to it since the last
// AckOutput.
func (cpu *Cpu) Output() (value byte, ok bool) {
	return cpu.Registers.OUTR, cpu.outPending
}

// AckOutput marks OUTR as collected and raises FGO.
func (cpu *Cpu) AckOutput() {
	cpu.outPending = false
	cpu.Flags.Set(FLAG_FGO, true)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for n := range RegisterCount {
		reg := Register(n)
		text += fmt.Sprintf("% 5s: %04X\n", reg.String(), cpu.Registers.Get(reg))
	}
	text += fmt.Sprintf("% 5s: %v\n", "flags", cpu.Flags.String())

	return
}

func (cpu *Cpu) read(addr uint16) uint16 {
	return cpu.Memory.Read(addr)
}

func (cpu *Cpu) write(addr uint16, value uint16) {
	cpu.Memory.Write(addr, value)
	if cpu.change != nil {
		cpu.change.Memory = append(cpu.change.Memory, MemoryChange{Address: addr & ADDRESS_MASK, Value: value})
	}
}

// interruptPending returns true if the interrupt cycle must be entered
// instead of the next fetch.
func (cpu *Cpu) interruptPending() bool {
	return cpu.Flags.Has(FLAG_IEN) && (cpu.Flags.Has(FLAG_FGI) || cpu.Flags.Has(FLAG_FGO))
}

// CompleteInstruction runs one instruction cycle, or one interrupt entry,
// and returns the number of timing steps it took. A halted CPU does nothing
// and returns zero cycles.
//
// An operation code that matches no instruction stops the CPU and returns
// an *ErrOperation, which is also reported to the Observer.
func (cpu *Cpu) CompleteInstruction() (cycles int, err error) {
	if cpu.Halted() {
		return
	}

	regs := cpu.Registers
	flags := cpu.Flags

	change := &Change{Address: cpu.Registers.PC}
	cpu.change = change
	defer func() { cpu.change = nil }()

	if cpu.interruptPending() {
		change.Interrupt = true
		cycles = cpu.interrupt()
	} else {
		cycles, err = cpu.instruction()
	}

	cpu.Registers.SC = uint8(cycles-1) & uint8(REG_SC.Width())
	cpu.Instructions++
	cpu.Cycles += cycles

	change.Cycles = cycles
	change.Fault = err
	for n := range RegisterCount {
		reg := Register(n)
		value := cpu.Registers.Get(reg)
		if value != regs.Get(reg) {
			change.Registers = append(change.Registers, RegisterChange{Register: reg, Value: value})
		}
	}
	for flag := range flags.Changed(cpu.Flags) {
		change.Flags = append(change.Flags, FlagChange{Flag: flag, Value: cpu.Flags.Has(flag)})
	}

	if cpu.Observer != nil {
		cpu.Observer.Notify(change)
	}

	return
}

// interrupt performs the interrupt entry: the return address is saved in
// location 0 and execution continues at location 1.
func (cpu *Cpu) interrupt() (cycles int) {
	regs := &cpu.Registers

	if cpu.Verbose {
		log.Printf("cpu: interrupt at %03x", regs.PC)
	}

	// RT0
	cpu.Flags.Set(FLAG_R, true)
	regs.AR = 0
	regs.TR = regs.PC
	cycles++

	// RT1
	cpu.write(regs.AR, regs.TR)
	regs.PC = 0
	cycles++

	// RT2
	regs.PC = (regs.PC + 1) & ADDRESS_MASK
	cpu.Flags.Set(FLAG_IEN, false)
	cpu.Flags.Set(FLAG_R, false)
	cycles++

	return
}

// instruction performs fetch, decode, indirect resolution and execute.
func (cpu *Cpu) instruction() (cycles int, err error) {
	regs := &cpu.Registers

	// T0
	regs.AR = regs.PC
	cycles++

	// T1
	regs.IR = cpu.read(regs.AR)
	regs.PC = (regs.PC + 1) & ADDRESS_MASK
	cycles++

	// T2
	dec := Decode(regs.IR)
	regs.AR = dec.Address
	cpu.Flags.Set(FLAG_I, dec.Indirect)
	cycles++

	if cpu.Verbose {
		log.Printf("%03x: %04x %v", (regs.PC-1)&ADDRESS_MASK, regs.IR, Disassemble(regs.IR))
	}

	// T3
	if dec.Class() == CLASS_MEMORY {
		if dec.Indirect {
			regs.AR = cpu.read(regs.AR) & ADDRESS_MASK
		}
		cycles++
	}

	ins, ok := dec.Instruction()
	if !ok {
		cpu.Flags.Set(FLAG_STOP, true)
		err = &ErrOperation{
			Address:  (regs.PC - 1) & ADDRESS_MASK,
			Word:     regs.IR,
			AR:       regs.AR,
			Indirect: dec.Indirect,
		}
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
		return
	}

	cpu.execute(ins.Op)
	cycles += ins.Cycles

	return
}

// skip advances PC past the next instruction.
func (cpu *Cpu) skip() {
	cpu.Registers.PC = (cpu.Registers.PC + 1) & ADDRESS_MASK
}

// add sets AC to AC + value, with the carry out of bit 15 in CARRY and E.
func (cpu *Cpu) add(value uint16) {
	sum := uint32(cpu.Registers.AC) + uint32(value)
	carry := ((sum >> 16) & 1) != 0
	cpu.Flags.Set(FLAG_CARRY, carry)
	cpu.Flags.Set(FLAG_E, carry)
	cpu.Registers.AC = uint16(sum & WORD_MASK)
}

// execute performs the execute phase of a decoded instruction, with AR
// holding the effective address.
func (cpu *Cpu) execute(op Op) {
	regs := &cpu.Registers
	flags := &cpu.Flags

	switch op {
	// Memory reference
	case OP_AND:
		regs.DR = cpu.read(regs.AR)
		regs.AC &= regs.DR
	case OP_ADD:
		regs.DR = cpu.read(regs.AR)
		cpu.add(regs.DR)
	case OP_LDA:
		regs.DR = cpu.read(regs.AR)
		regs.AC = regs.DR
	case OP_STA:
		cpu.write(regs.AR, regs.AC)
	case OP_BUN:
		regs.PC = regs.AR
	case OP_BSA:
		cpu.write(regs.AR, regs.PC)
		regs.AR = (regs.AR + 1) & ADDRESS_MASK
		regs.PC = regs.AR
	case OP_ISZ:
		regs.DR = cpu.read(regs.AR)
		regs.DR++
		cpu.write(regs.AR, regs.DR)
		if regs.DR == 0 {
			cpu.skip()
		}

	// Register reference
	case OP_CLA:
		regs.AC = 0
	case OP_CLE:
		flags.Set(FLAG_E, false)
	case OP_CMA:
		regs.AC = ^regs.AC
	case OP_CME:
		flags.Toggle(FLAG_E)
	case OP_CIR:
		e := flags.Has(FLAG_E)
		flags.Set(FLAG_E, (regs.AC&1) != 0)
		regs.AC >>= 1
		if e {
			regs.AC |= 0x8000
		}
	case OP_CIL:
		e := flags.Has(FLAG_E)
		flags.Set(FLAG_E, (regs.AC&0x8000) != 0)
		regs.AC <<= 1
		if e {
			regs.AC |= 1
		}
	case OP_INC:
		cpu.add(1)
	case OP_SPA:
		if (regs.AC & 0x8000) == 0 {
			cpu.skip()
		}
	case OP_SNA:
		if (regs.AC & 0x8000) != 0 {
			cpu.skip()
		}
	case OP_SZA:
		if regs.AC == 0 {
			cpu.skip()
		}
	case OP_SZE:
		if !flags.Has(FLAG_E) {
			cpu.skip()
		}
	case OP_HLT:
		flags.Set(FLAG_STOP, true)
		if cpu.Verbose {
			log.Printf("cpu: halt")
		}

	// Input/output reference
	case OP_INP:
		regs.AC = (regs.AC & 0xff00) | uint16(regs.INPR)
		flags.Set(FLAG_FGI, false)
	case OP_OUT:
		regs.OUTR = uint8(regs.AC & BYTE_MASK)
		flags.Set(FLAG_FGO, false)
		cpu.outPending = true
	case OP_SKI:
		if flags.Has(FLAG_FGI) {
			cpu.skip()
		}
	case OP_SKO:
		if flags.Has(FLAG_FGO) {
			cpu.skip()
		}
	case OP_ION:
		flags.Set(FLAG_IEN, true)
	case OP_IOF:
		flags.Set(FLAG_IEN, false)
	default:
		panic("unknown op")
	}
}
