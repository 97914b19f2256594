// Package cpu implements the VSI-16 instruction-set interpreter: a
// 16-register machine with a flags bitfield, decoding a 16-bit
// instruction word per step and dispatching by a variable-width
// prefix.
package cpu

import "fmt"

// Register indices. 0..13 are the general registers a..n; 14 is SP;
// 15 is PC.
const (
	RegA uint8 = iota
	RegB
	RegC
	RegD
	RegE
	RegF
	RegG
	RegH
	RegI
	RegJ
	RegK
	RegL
	RegM
	RegN
	RegSP
	RegPC
)

// Flag bits.
const (
	FlagRun uint8 = iota
	FlagCrash
	FlagCarry
	FlagZero
	FlagInterruptEnable
	FlagInterruptEnableNext
	FlagWait
)

const (
	resetPC = 0x0100
	resetSP = 0x9FFE

	vectorVBlank uint16 = 0x0080
	vectorHBlank uint16 = 0x0088
)

// CPUState is the complete, inspectable state of the machine.
type CPUState struct {
	Regs  [16]uint16
	Flags uint8
}

// MemoryInterface is the memory fabric the CPU fetches instructions
// and operands through.
type MemoryInterface interface {
	LoadByte(addr uint16) uint8
	StoreByte(addr uint16, value uint8)
	LoadWord(addr uint16) uint16
	StoreWord(addr uint16, value uint16)
}

// LoggerInterface receives a notification after every executed
// instruction, for CPULoggerAdapter (or a test double) to act on.
type LoggerInterface interface {
	LogCPU(instruction uint16, state CPUState)
}

// CPU is the emulated VSI-16 interpreter.
type CPU struct {
	State CPUState
	Mem   MemoryInterface
	Log   LoggerInterface
}

// NewCPU creates a CPU wired to the given memory fabric and reset to
// its initial state.
func NewCPU(mem MemoryInterface, log LoggerInterface) *CPU {
	c := &CPU{Mem: mem, Log: log}
	c.Reset()
	return c
}

// Reset returns the CPU to its power-on state: PC at $0100, SP at
// $9FFE, general registers zeroed, RUN and INTERRUPT_ENABLE set.
func (c *CPU) Reset() {
	c.State.Regs = [16]uint16{}
	c.State.Regs[RegPC] = resetPC
	c.State.Regs[RegSP] = resetSP
	c.State.Flags = 0
	c.SetFlag(FlagRun, true)
	c.SetFlag(FlagInterruptEnable, true)
}

// GetFlag reports whether a flag bit is set.
func (c *CPU) GetFlag(flag uint8) bool {
	return c.State.Flags&(1<<flag) != 0
}

// SetFlag sets or clears a flag bit.
func (c *CPU) SetFlag(flag uint8, value bool) {
	if value {
		c.State.Flags |= 1 << flag
	} else {
		c.State.Flags &^= 1 << flag
	}
}

func (c *CPU) raiseFlag(flag uint8) {
	c.State.Flags |= 1 << flag
}

// Crashed reports whether the CPU has halted on an illegal
// instruction or operand.
func (c *CPU) Crashed() bool {
	return c.GetFlag(FlagCrash)
}

// Running reports whether the fetch loop should keep stepping this
// CPU (RUN set, not crashed).
func (c *CPU) Running() bool {
	return c.GetFlag(FlagRun) && !c.GetFlag(FlagCrash)
}

func (c *CPU) crash() {
	c.SetFlag(FlagCrash, true)
	c.SetFlag(FlagRun, false)
}

// Push decrements SP by 2 and stores value at the new SP.
func (c *CPU) Push(value uint16) {
	c.State.Regs[RegSP] -= 2
	c.Mem.StoreWord(c.State.Regs[RegSP], value)
}

// Pop loads the value at SP and increments SP by 2.
func (c *CPU) Pop() uint16 {
	value := c.Mem.LoadWord(c.State.Regs[RegSP])
	c.State.Regs[RegSP] += 2
	return value
}

// Step fetches, decodes, and executes one instruction. A crashed or
// stopped CPU does nothing. A WAIT'd CPU skips execution without
// consuming an instruction (the frame driver still advances the
// PPU); any delivered interrupt clears WAIT.
func (c *CPU) Step() {
	if !c.Running() {
		return
	}
	if c.GetFlag(FlagWait) {
		return
	}

	pc := c.State.Regs[RegPC]
	instr := c.Mem.LoadWord(pc)

	switch {
	case instr&0x8000 != 0:
		c.execArith(pc, instr)
	case instr&0x4000 != 0:
		c.execJump(pc, instr)
	case instr&0x2000 != 0:
		c.execLoadStore(pc, instr)
	case instr&0x1000 == 0:
		c.execMisc(pc, instr)
	default:
		c.crash()
	}

	if c.Log != nil {
		c.Log.LogCPU(instr, c.State)
	}
}

// Interrupt delivers an interrupt to the given vector if
// INTERRUPT_ENABLE is set: pushes PC, clears INTERRUPT_ENABLE and
// WAIT, and jumps to addr. A no-op when interrupts are disabled.
func (c *CPU) Interrupt(addr uint16) {
	if !c.GetFlag(FlagInterruptEnable) {
		return
	}
	c.Push(c.State.Regs[RegPC])
	c.SetFlag(FlagInterruptEnable, false)
	c.SetFlag(FlagWait, false)
	c.State.Regs[RegPC] = addr
}

// VBlank delivers the VBlank interrupt.
func (c *CPU) VBlank() {
	c.Interrupt(vectorVBlank)
}

// HBlank delivers the HBlank interrupt.
func (c *CPU) HBlank() {
	c.Interrupt(vectorHBlank)
}

// PromoteInterruptEnable promotes a pending INTERRUPT_ENABLE_NEXT
// (set by EI or RETI) to INTERRUPT_ENABLE. The frame driver calls
// this after exactly one instruction has executed following the set.
func (c *CPU) PromoteInterruptEnable() {
	if c.GetFlag(FlagInterruptEnableNext) {
		c.SetFlag(FlagInterruptEnableNext, false)
		c.SetFlag(FlagInterruptEnable, true)
	}
}

// DumpState renders the register file and flags for diagnostics,
// the Go-native form of the original interpreter's end-of-run
// register dump.
func (c *CPU) DumpState() string {
	names := [16]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "sp", "pc"}
	s := ""
	for i, name := range names {
		s += fmt.Sprintf("%s=%04X ", name, c.State.Regs[i])
	}
	return s + fmt.Sprintf("flags=%07b", c.State.Flags)
}
