// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a basic computer: it owns the CPU, the program
// listing, and the input and output devices, and serializes every access to
// the machine state behind a single lock.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"sync"

	"github.com/ezrec/bcpu/cpu"
	"github.com/ezrec/bcpu/internal"
	"github.com/ezrec/bcpu/io"
)

const (
	INTERRUPT_RETURN  = 0x000 // Return address saved by interrupt entry.
	INTERRUPT_HANDLER = 0x001 // First instruction of the interrupt handler.
	OUTPUT_CAPACITY   = 4096  // Default output buffer, in characters.
)

var _emulator_defines = map[string]string{
	"INTERRUPT_RETURN":  fmt.Sprintf("%#x", INTERRUPT_RETURN),
	"INTERRUPT_HANDLER": fmt.Sprintf("%#x", INTERRUPT_HANDLER),
}

// Emulator state. CPU + program listing + I/O devices.
//
// The embedded Cpu is reachable without the emulator lock. Touch it directly
// only while no Tick or Run is in progress; otherwise use View.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Input  io.Device // Feeds INPR; may be nil.
	Output io.Device // Drains OUTR; may be nil.

	Limit int // Maximum instructions for Run; zero for no limit.

	image *cpu.Memory // Image given to the last Load.
	mutex sync.Mutex
}

// NewEmulator creates a new emulator, with no input and a temporary output
// buffer.
func NewEmulator() (emu *Emulator) {
	output := &io.Temporary{Capacity: OUTPUT_CAPACITY}
	output.Rewind()

	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Output:  output,
	}

	return
}

// Defines returns an iterator over all of the assembler defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.Defines(),
	)
}

// Close the emulator, stopping any device that reads ahead.
func (emu *Emulator) Close() (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	for _, dev := range []io.Device{emu.Input, emu.Output} {
		closer, ok := dev.(interface{ Close() error })
		if ok {
			err = errors.Join(err, closer.Close())
		}
	}

	return
}

func (emu *Emulator) rewind() {
	if emu.Input != nil {
		emu.Input.Rewind()
	}
	if emu.Output != nil {
		emu.Output.Rewind()
	}
}

// Load replaces the memory image, resets the CPU and rewinds the devices.
// The program listing is cleared, as it no longer describes memory.
func (emu *Emulator) Load(image *cpu.Memory) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.Verbose {
		log.Printf("emulator: load")
	}

	emu.image = &cpu.Memory{}
	*emu.image = *image
	emu.Program = &cpu.Program{}
	emu.Cpu.Load(image)
	emu.rewind()
}

// Reset reloads the image of the current program listing or, when there is
// no listing, the image given to the last Load.
func (emu *Emulator) Reset() {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	image := emu.image
	if emu.Program != nil && (image == nil || len(emu.Program.Opcodes) != 0) {
		image = emu.Program.Image()
	}
	if image == nil {
		image = &cpu.Memory{}
	}

	emu.Cpu.Load(image)
	emu.rewind()
}

// View calls fn with the CPU while no instruction is in progress.
// fn must not retain the CPU.
func (emu *Emulator) View(fn func(machine *cpu.Cpu)) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	fn(emu.Cpu)
}

// LineNo returns the source line number of the instruction at PC, or 0 if
// there is no listing for it.
func (emu *Emulator) LineNo() (lineno int) {
	emu.View(func(machine *cpu.Cpu) {
		lineno = emu.Program.LineNo(machine.Registers.PC)
	})

	return
}

// serviceInput feeds the next input character once INP has consumed the
// previous one.
func (emu *Emulator) serviceInput() {
	if emu.Input == nil || !emu.Cpu.InputReady() {
		return
	}

	value, ok := emu.Input.Receive()
	if !ok {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: input %#02x", value)
	}
	emu.Cpu.SetInput(value)
}

// serviceOutput collects OUTR after an OUT, and raises FGO whenever the
// output device is idle.
func (emu *Emulator) serviceOutput() (err error) {
	value, ok := emu.Cpu.Output()
	if ok && emu.Output != nil {
		if emu.Verbose {
			log.Printf("emulator: output %#02x", value)
		}
		err = emu.Output.Send(value)
		if err != nil {
			return
		}
	}

	if ok || !emu.Cpu.Flags.Has(cpu.FLAG_FGO) {
		emu.Cpu.AckOutput()
	}

	return
}

// Tick services the devices and completes a single instruction.
// done is set once the CPU has halted, whether normally or by a fault.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	address := emu.Cpu.Registers.PC
	defer func() {
		if err != nil {
			err = &ErrRuntime{
				LineNo:  emu.Program.LineNo(address),
				Address: address,
				Err:     err,
			}
		}
	}()

	if emu.Cpu.Halted() {
		done = true
		return
	}

	emu.serviceInput()
	err = emu.serviceOutput()
	if err != nil {
		return
	}

	_, err = emu.Cpu.CompleteInstruction()
	done = emu.Cpu.Halted()

	return
}

// Run ticks the emulator until the CPU halts, a fault occurs, the
// instruction limit is reached or the context is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for count := 0; ; count++ {
		if emu.Limit > 0 && count >= emu.Limit {
			err = ErrLimit
			return
		}

		err = ctx.Err()
		if err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
