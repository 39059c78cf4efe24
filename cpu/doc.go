// Package cpu implements the control unit and assembler for the basic computer.
//
// The machine has a 4096 word memory of 16-bit words, a single accumulator
// (AC) with an extend bit (E), program counter (PC), address register (AR),
// data, instruction and temporary registers (DR, IR, TR), and two 8-bit I/O
// latches (INPR, OUTR). A single interrupt line is serviced at instruction
// boundaries when IEN is set and either I/O flag (FGI, FGO) is raised.
//
// Instructions come in three classes: memory reference (AND, ADD, LDA, STA,
// BUN, BSA, ISZ) with direct or indirect addressing, register reference and
// I/O reference, the latter two encoded as one-hot operation bits.
//
// The assembler translates line oriented basic computer assembly, with
// labels, pseudo-operations, equates and compile-time expression evaluation,
// into a Program listing and memory image.
package cpu
