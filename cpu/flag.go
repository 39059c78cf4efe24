package cpu

import (
	"iter"
	"strings"
)

// Flag names a single status flag.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_STOP  = Flag(0) // STOP
	FLAG_IEN   = Flag(1) // IEN
	FLAG_FGI   = Flag(2) // FGI
	FLAG_FGO   = Flag(3) // FGO
	FLAG_E     = Flag(4) // E
	FLAG_CARRY = Flag(5) // CARRY
	FLAG_I     = Flag(6) // I
	FLAG_R     = Flag(7) // R
)

// FlagCount is the number of status flags.
const FlagCount = 8

// Flags is the packed flag set. Each Flag occupies its own bit; callers use
// Has and Set and never depend on the bit layout.
type Flags uint8

func (flag Flag) mask() Flags {
	return Flags(1) << uint(flag)
}

// Has returns true if the flag is set.
func (fl Flags) Has(flag Flag) bool {
	return (fl & flag.mask()) != 0
}

// Set sets or clears a flag.
func (fl *Flags) Set(flag Flag, on bool) {
	if on {
		*fl |= flag.mask()
	} else {
		*fl &^= flag.mask()
	}
}

// Toggle inverts a flag.
func (fl *Flags) Toggle(flag Flag) {
	*fl ^= flag.mask()
}

// Reset clears every flag.
func (fl *Flags) Reset() {
	*fl = 0
}

// All iterates over every flag and its state.
func (fl Flags) All() iter.Seq2[Flag, bool] {
	return func(yield func(flag Flag, on bool) bool) {
		for n := range FlagCount {
			flag := Flag(n)
			if !yield(flag, fl.Has(flag)) {
				return
			}
		}
	}
}

// Changed iterates over the flags that differ between two flag sets.
func (fl Flags) Changed(other Flags) iter.Seq[Flag] {
	return func(yield func(flag Flag) bool) {
		diff := fl ^ other
		for n := range FlagCount {
			flag := Flag(n)
			if (diff&flag.mask()) != 0 && !yield(flag) {
				return
			}
		}
	}
}

// String lists the set flags, e.g. "IEN|FGI".
func (fl Flags) String() string {
	var names []string
	for flag, on := range fl.All() {
		if on {
			names = append(names, flag.String())
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, "|")
}
