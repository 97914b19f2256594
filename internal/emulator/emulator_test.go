package emulator

import (
	"testing"

	"vsi16/internal/cpu"
	"vsi16/internal/ppu"
	"vsi16/internal/rom"
)

// Scenario 7, end to end: a ROM that writes palette entry 0 of tile
// palette 0 to red, then stops. One frame later, pixel (0,0) is red.
func TestScenario7PaletteRoundTripThroughAFrame(t *testing.T) {
	paletteAddr := uint16(0xD400) // tile palette 0, color 0

	b := rom.NewBuilder().
		MovImm(cpu.RegA, 0x7C00).
		MovImm(cpu.RegB, paletteAddr).
		StoreWordReg(cpu.RegA, cpu.RegB).
		Operand(rom.OperandSTOP)

	e := NewEmulator()
	if err := e.LoadROM(b.ROM("")); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	e.Start()
	e.SetFrameLimit(false)

	for i := 0; i < 20 && e.CPU.Running(); i++ {
		e.CPU.Step()
	}
	if e.CPU.Crashed() {
		t.Fatalf("CPU crashed: %s", e.CPU.DumpState())
	}

	var got ppu.Color
	if err := e.RunFrame(func(x, y int, r, g, b uint8) {
		if x == 0 && y == 0 {
			got = ppu.Color{R: r, G: g, B: b}
		}
	}); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}

	if got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("pixel (0,0) after frame = %+v, want {255 0 0}", got)
	}
}

func TestLoadROMResetsCPUToEntryPoint(t *testing.T) {
	b := rom.NewBuilder().MovImm(cpu.RegA, 5).Operand(rom.OperandSTOP)

	e := NewEmulator()
	if err := e.LoadROM(b.ROM("TestGame")); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	if e.CPU.State.Regs[cpu.RegPC] != 0x0100 {
		t.Errorf("PC = 0x%04X, want 0x0100", e.CPU.State.Regs[cpu.RegPC])
	}
}

func TestRunFrameNoopWhenNotRunning(t *testing.T) {
	e := NewEmulator()
	called := false
	if err := e.RunFrame(func(x, y int, r, g, b uint8) { called = true }); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if called {
		t.Error("RunFrame should not draw any pixels while Running is false")
	}
}
