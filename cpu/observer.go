package cpu

import (
	"fmt"
	"strings"
)

// MemoryChange is a memory word written during an instruction.
type MemoryChange struct {
	Address uint16
	Value   uint16
}

// RegisterChange is a register whose value changed during an instruction.
type RegisterChange struct {
	Register Register
	Value    uint16
}

// FlagChange is a flag whose state changed during an instruction.
type FlagChange struct {
	Flag  Flag
	Value bool
}

// Change summarizes the state touched by one instruction, or by one
// interrupt entry.
type Change struct {
	Address   uint16 // PC at the start of the instruction.
	Interrupt bool   // Set for an interrupt entry.
	Cycles    int    // Timing steps consumed.
	Memory    []MemoryChange
	Registers []RegisterChange
	Flags     []FlagChange
	Fault     error // Set when the instruction faulted and the machine stopped.
}

// IsFault returns true if the change reports a fault.
func (ch *Change) IsFault() bool {
	return ch.Fault != nil
}

// String returns a one line summary of the change.
func (ch *Change) String() string {
	var parts []string
	for _, mc := range ch.Memory {
		parts = append(parts, fmt.Sprintf("M[%03X]=%04X", mc.Address, mc.Value))
	}
	for _, rc := range ch.Registers {
		parts = append(parts, fmt.Sprintf("%v=%04X", rc.Register, rc.Value))
	}
	for _, fc := range ch.Flags {
		value := 0
		if fc.Value {
			value = 1
		}
		parts = append(parts, fmt.Sprintf("%v=%d", fc.Flag, value))
	}
	if ch.Fault != nil {
		parts = append(parts, fmt.Sprintf("fault: %v", ch.Fault))
	}
	return strings.Join(parts, " ")
}

// Observer receives a Change after every completed instruction.
// It must not call back into the Cpu.
type Observer interface {
	Notify(change *Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(change *Change)

func (fn ObserverFunc) Notify(change *Change) {
	fn(change)
}
