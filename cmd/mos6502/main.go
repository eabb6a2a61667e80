// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/mos6502/emulator"
)

func main() {
	var compile string
	var binary string
	var budget int
	var defines bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.StringVar(&binary, "b", "", "Binary image to load at ROM_BASE and run")
	flag.IntVar(&budget, "n", emulator.DEFAULT_BUDGET, "Instruction budget (0 for unlimited)")
	flag.BoolVar(&defines, "D", false, "List assembler predefines, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if defines {
		for key, value := range emu.Defines() {
			fmt.Printf(".equ %v %v\n", key, value)
		}
		return
	}

	switch {
	case len(compile) != 0 && len(binary) != 0:
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(binary) != 0:
		image, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		emu.SetBinary(image)
	default:
		log.Fatalf("%v: one of -c or -b is required", os.Args[0])
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	_, err = emu.Run(budget)
	if err != nil {
		fmt.Print(emu.Cpu.String())
		log.Fatal(err)
	}

	fmt.Print(emu.Cpu.String())
}
