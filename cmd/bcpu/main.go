// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/ezrec/bcpu/cpu"
	"github.com/ezrec/bcpu/emulator"
	"github.com/ezrec/bcpu/image"
	"github.com/ezrec/bcpu/io"
)

// openImage decodes a memory image file.
func openImage(path string, format image.Format) (mem *cpu.Memory) {
	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	mem, err = image.Decode(inf, format)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	return
}

func main() {
	var compile string
	var binary string
	var record string
	var save string
	var format string
	var input string
	var output string
	var limit int
	var listing bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&binary, "b", "", "binary-line image to load")
	flag.StringVar(&record, "r", "", "record image to load")
	flag.StringVar(&save, "s", "", "Save the image to a file, do not execute")
	flag.StringVar(&format, "f", "binary", "Saved image format (binary or record)")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to execute (0 for no limit)")
	flag.BoolVar(&listing, "l", false, "Print the assembler listing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	sources := 0
	for _, path := range []string{compile, binary, record} {
		if len(path) != 0 {
			sources++
		}
	}
	if sources != 1 {
		log.Fatalf("%v: exactly one of -c, -b or -r is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Limit = limit

	var mem *cpu.Memory

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		if listing {
			fmt.Print(prog.Listing())
		}
		emu.Program = prog
		mem = prog.Image()
	case len(binary) != 0:
		mem = openImage(binary, image.FORMAT_BINARY)
	case len(record) != 0:
		mem = openImage(record, image.FORMAT_RECORD)
	}

	if len(save) != 0 {
		saveFormat, err := image.ParseFormat(format)
		if err != nil {
			log.Fatalf("-f %v: %v", format, err)
		}
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()

		err = image.Encode(ouf, mem, saveFormat)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	tape_input := &io.Tape{}
	if input == "-" {
		tape_input.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		tape_input.Input = inf
	}
	emu.Input = tape_input

	tape_output := &io.Tape{}
	if output == "-" {
		tape_output.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		tape_output.Output = ouf
	}
	emu.Output = tape_output

	if emu.Program != nil && len(emu.Program.Opcodes) != 0 {
		emu.Reset()
	} else {
		emu.Load(mem)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := emu.Run(ctx)

	// Stop the input reader; it may still be waiting on the terminal.
	emu.Close()
	if verbose && tape_input.Err() != nil {
		log.Printf("%v: %v", input, tape_input.Err())
	}

	// Final machine state, for interactive use only.
	if term.IsTerminal(int(os.Stderr.Fd())) {
		emu.View(func(machine *cpu.Cpu) {
			fmt.Fprintf(os.Stderr, "%v", machine.String())
			fmt.Fprintf(os.Stderr, "instructions: %v cycles: %v\n", machine.Instructions, machine.Cycles)
		})
	}

	if err != nil {
		log.Fatal(err)
	}
}
