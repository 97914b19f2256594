package main

import (
	"flag"
	"fmt"
	"os"

	"vsi16/internal/cpu"
	"vsi16/internal/debug"
	"vsi16/internal/emulator"
	"vsi16/internal/host"
	"vsi16/internal/ppu"
)

func main() {
	unlimited := flag.Bool("unlimited", false, "Run at unlimited speed (no frame limit)")
	scale := flag.Int("scale", 3, "Display scale (1-6)")
	enableLogging := flag.Bool("log", false, "Enable logging (disabled by default)")
	flag.Parse()

	romPath := flag.Arg(0)
	if romPath == "" {
		fmt.Println("Usage: vsi16 <path-to-rom>")
		fmt.Println("  -unlimited       Run at unlimited speed")
		fmt.Println("  -scale <1-6>     Display scale (default: 3)")
		fmt.Println("  -log             Enable logging (disabled by default)")
		os.Exit(0)
	}

	if *scale < 1 || *scale > 6 {
		fmt.Fprintf(os.Stderr, "Error: scale must be between 1 and 6\n")
		os.Exit(1)
	}

	romData, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ROM file: %v\n", err)
		os.Exit(1)
	}

	var emu *emulator.Emulator
	if *enableLogging {
		logger := debug.NewLogger(10000)
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetComponentEnabled(debug.ComponentPPU, true)
		logger.SetComponentEnabled(debug.ComponentMemory, true)
		logger.SetComponentEnabled(debug.ComponentSystem, true)
		emu = emulator.NewEmulatorWithLogger(logger)
		if adapter, ok := emu.CPU.Log.(*cpu.CPULoggerAdapter); ok {
			adapter.SetLevel(cpu.CPULogInstructions)
		}
	} else {
		emu = emulator.NewEmulator()
	}

	if err := emu.LoadROM(romData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM: %v\n", err)
		os.Exit(1)
	}
	emu.SetFrameLimit(!*unlimited)

	h, err := host.New("VSI-16", ppu.ScreenWidth, emu.PPU.Height, *scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating host window: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	fmt.Println("VSI-16 Emulator")
	fmt.Printf("ROM loaded: %s\n", romPath)
	fmt.Printf("Frame limit: %v\n", !*unlimited)
	fmt.Printf("Display scale: %dx\n", *scale)

	emu.Start()
	for emu.Running {
		if h.PumpEvents() {
			emu.Stop()
			break
		}

		if err := emu.RunFrame(h.DrawPixel); err != nil {
			fmt.Fprintf(os.Stderr, "Emulation error: %v\n", err)
			os.Exit(1)
		}
		if err := h.Present(); err != nil {
			fmt.Fprintf(os.Stderr, "Render error: %v\n", err)
			os.Exit(1)
		}
		if *unlimited {
			h.TickCadence()
		}
	}

	if emu.CPU.Crashed() {
		fmt.Fprintln(os.Stderr, "CPU crashed on illegal instruction")
		os.Exit(1)
	}
}
