// Package emulator drives the VSI-16 core frame by frame: render a
// scanline, raise HBlank and let the handler run to completion,
// repeat for every visible line, then raise VBlank.
package emulator

import (
	"fmt"
	"time"

	"vsi16/internal/cpu"
	"vsi16/internal/debug"
	"vsi16/internal/memory"
	"vsi16/internal/ppu"
	"vsi16/internal/rom"
)

const maxHandlerInstructions = 100000

// Emulator owns the wired-up core (CPU, bus, PPU) and the pacing
// state a host loop reads to know when to present a frame.
type Emulator struct {
	CPU *cpu.CPU
	Bus *memory.Bus
	PPU *ppu.PPU

	Logger *debug.Logger

	FrameLimitEnabled bool
	FrameTime         time.Duration
	LastFrameTime     time.Time

	FPS           float64
	FrameCount    uint64
	FPSUpdateTime time.Time

	Running bool
}

// NewEmulator creates an emulator with a fresh, disabled-by-default
// logger.
func NewEmulator() *Emulator {
	return NewEmulatorWithLogger(debug.NewLogger(10000))
}

// NewEmulatorWithLogger creates an emulator wired to the given
// logger, with no ROM loaded yet.
func NewEmulatorWithLogger(logger *debug.Logger) *Emulator {
	bus := memory.NewBus(nil)
	bus.SetLogger(logger)

	p := ppu.NewPPU(ppu.ScreenHeightTall)
	p.SetLogger(logger)
	bus.PPU = p

	cpuLogger := cpu.NewCPULoggerAdapter(logger, cpu.CPULogNone)
	c := cpu.NewCPU(bus, cpuLogger)

	return &Emulator{
		CPU:               c,
		Bus:               bus,
		PPU:               p,
		Logger:            logger,
		FrameLimitEnabled: true,
		FrameTime:         time.Second / 60,
		LastFrameTime:     time.Now(),
		FPSUpdateTime:     time.Now(),
	}
}

// LoadROM parses and installs a ROM image, resetting the CPU to its
// entry point.
func (e *Emulator) LoadROM(data []uint8) error {
	image, err := rom.Load(data)
	if err != nil {
		return fmt.Errorf("failed to load ROM: %w", err)
	}
	e.Bus.ROM = image.Bytes
	e.CPU.Reset()
	return nil
}

// DrawPixel is satisfied by the host surface; the frame driver hands
// it directly to the PPU compositor.
type DrawPixel func(x, y int, r, g, b uint8)

// RunFrame renders every scanline of one frame, servicing HBlank
// between each and VBlank at the end, then paces to the target FPS.
func (e *Emulator) RunFrame(draw DrawPixel) error {
	if !e.Running {
		return nil
	}

	height := e.PPU.Height
	for y := 0; y < height; y++ {
		e.PPU.RenderScanline(y, func(x, y int, c ppu.Color) {
			draw(x, y, c.R, c.G, c.B)
		})

		if err := e.serviceInterrupt(e.CPU.HBlank); err != nil {
			return err
		}
	}

	if err := e.serviceInterrupt(e.CPU.VBlank); err != nil {
		return err
	}

	e.tickFPS()
	e.pace()
	return nil
}

// serviceInterrupt raises the given vector, then runs the CPU one
// instruction at a time until the handler's RETI schedules
// INTERRUPT_ENABLE_NEXT, promoting the delayed enable exactly one
// instruction after that. If interrupts are disabled the raise is a
// no-op and nothing runs here; the caller's next scanline or frame
// boundary proceeds regardless.
func (e *Emulator) serviceInterrupt(raise func()) error {
	wasEnabled := e.CPU.GetFlag(cpu.FlagInterruptEnable)
	raise()
	if !wasEnabled {
		return nil
	}

	for i := 0; i < maxHandlerInstructions && e.CPU.Running(); i++ {
		e.CPU.Step()
		if e.CPU.GetFlag(cpu.FlagInterruptEnableNext) {
			e.CPU.Step()
			e.CPU.PromoteInterruptEnable()
			return nil
		}
	}
	if e.CPU.Crashed() {
		return fmt.Errorf("CPU crashed in interrupt handler: %s", e.CPU.DumpState())
	}
	return nil
}

func (e *Emulator) tickFPS() {
	e.FrameCount++
	now := time.Now()
	if now.Sub(e.FPSUpdateTime) >= time.Second {
		e.FPS = float64(e.FrameCount) / now.Sub(e.FPSUpdateTime).Seconds()
		e.FrameCount = 0
		e.FPSUpdateTime = now
	}
}

func (e *Emulator) pace() {
	now := time.Now()
	if e.FrameLimitEnabled {
		if elapsed := now.Sub(e.LastFrameTime); elapsed < e.FrameTime {
			time.Sleep(e.FrameTime - elapsed)
		}
	}
	e.LastFrameTime = time.Now()
}

// Start marks the emulator as running.
func (e *Emulator) Start() {
	e.Running = true
}

// Stop halts the frame loop (called on a host quit event).
func (e *Emulator) Stop() {
	e.Running = false
}

// SetFrameLimit toggles the 60Hz pacing sleep.
func (e *Emulator) SetFrameLimit(enabled bool) {
	e.FrameLimitEnabled = enabled
}

// GetFPS returns the most recently measured frames-per-second.
func (e *Emulator) GetFPS() float64 {
	return e.FPS
}
