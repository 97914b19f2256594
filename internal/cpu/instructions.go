package cpu

import "vsi16/internal/bitops"

// Arithmetic/logic opcodes (prefix 1, field op[5]).
const (
	opMOV  uint8 = 0x00
	opADD  uint8 = 0x01
	opSUB  uint8 = 0x02
	opMULU uint8 = 0x03
	opMULS uint8 = 0x04
	opDIVU uint8 = 0x05
	opDIVS uint8 = 0x06
	opMODU uint8 = 0x07
	opMODS uint8 = 0x08
	opAND  uint8 = 0x09
	opOR   uint8 = 0x0A
	opXOR  uint8 = 0x0B
	opNOT  uint8 = 0x0C
	opNEG  uint8 = 0x0D
	opINC  uint8 = 0x0E
	opDEC  uint8 = 0x0F
	opSHL  uint8 = 0x10
	opSHR  uint8 = 0x11
	opSAR  uint8 = 0x12
	opROL  uint8 = 0x13
	opROR  uint8 = 0x14
	opBIT  uint8 = 0x15
	opADC  uint8 = 0x16
	opSBC  uint8 = 0x17
	opMULC uint8 = 0x18
	opCMPU uint8 = 0x1E
	opCMPS uint8 = 0x1F
)

const (
	srcImmWord uint8 = 0x20
	srcMinus1  uint8 = 0x21
)

// execArith decodes and runs the arithmetic/logic form: 1 ooooo dddd
// ssssss. Flags CARRY and ZERO are cleared before dispatch; carryIn
// is captured before that reset so ADC/SBC/MULC see the previous
// step's carry.
func (c *CPU) execArith(pc uint16, instr uint16) {
	op := uint8((instr >> 10) & 0x1F)
	destIdx := uint8((instr >> 6) & 0xF)
	srcField := uint8(instr & 0x3F)

	pcIncrement := uint16(2)
	var src uint16
	switch {
	case srcField < 0x10:
		src = c.State.Regs[srcField]
	case srcField < 0x20:
		src = uint16(srcField & 0xF)
	case srcField == srcImmWord:
		src = c.Mem.LoadWord(pc + 2)
		pcIncrement += 2
	case srcField == srcMinus1:
		src = 0xFFFF
	default:
		c.crash()
		return
	}

	carryIn := uint16(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 1
	}
	c.State.Flags &^= (1<<FlagCarry | 1<<FlagZero)

	destVal := c.State.Regs[destIdx]
	result := destVal
	write := true

	switch op {
	case opMOV:
		result = src
	case opADD:
		result = c.flagADD(destVal, src)
	case opSUB:
		result = c.flagSUB(destVal, src)
	case opMULU:
		result = c.flagMULU(destVal, src)
	case opMULS:
		result = c.flagMULS(destVal, src)
	case opDIVU:
		if src == 0 {
			c.crash()
			return
		}
		result = destVal / src
	case opDIVS:
		if src == 0 {
			c.crash()
			return
		}
		result = uint16(int16(destVal) / int16(src))
	case opMODU:
		if src == 0 {
			c.crash()
			return
		}
		result = ((destVal % src) + src) % src
	case opMODS:
		if src == 0 {
			c.crash()
			return
		}
		s := int16(src)
		result = uint16(((int16(destVal) % s) + s) % s)
	case opAND:
		result = destVal & src
	case opOR:
		result = destVal | src
	case opXOR:
		result = destVal ^ src
	case opNOT:
		result = ^destVal
	case opNEG:
		result = -destVal
	case opINC:
		if destVal == 0xFFFF {
			c.raiseFlag(FlagCarry)
		}
		result = destVal + 1
	case opDEC:
		if destVal == 0 {
			c.raiseFlag(FlagCarry)
		}
		result = destVal - 1
	case opSHL:
		if destVal&0x8000 != 0 {
			c.raiseFlag(FlagCarry)
		}
		result = destVal << (src & 0xF)
	case opSHR:
		result = bitops.SRL(destVal, uint(src))
	case opSAR:
		result = bitops.SRA(destVal, uint(src))
	case opROL:
		result = rotl16(destVal, uint(src))
	case opROR:
		result = rotr16(destVal, uint(src))
	case opBIT:
		if destVal&(1<<(src&0xF)) == 0 {
			c.raiseFlag(FlagZero)
		}
		write = false
	case opADC:
		result = c.flagADC(destVal, src, carryIn)
	case opSBC:
		result = c.flagSBC(destVal, src, carryIn)
	case opMULC:
		result = c.flagMULC(destVal, src, carryIn)
	case opCMPU:
		if destVal < src {
			c.raiseFlag(FlagCarry)
		}
		if destVal == src {
			c.raiseFlag(FlagZero)
		}
		write = false
	case opCMPS:
		if int16(destVal) < int16(src) {
			c.raiseFlag(FlagCarry)
		}
		if destVal == src {
			c.raiseFlag(FlagZero)
		}
		write = false
	default:
		c.crash()
		return
	}

	if write {
		c.State.Regs[destIdx] = result
	} else {
		result = destVal
	}
	if op < opCMPU && result == 0 {
		c.raiseFlag(FlagZero)
	}

	c.State.Regs[RegPC] = pc + pcIncrement
}

func (c *CPU) flagADD(dest, src uint16) uint16 {
	sum := uint32(dest) + uint32(src)
	if sum > 0xFFFF {
		c.raiseFlag(FlagCarry)
	}
	return uint16(sum)
}

func (c *CPU) flagSUB(dest, src uint16) uint16 {
	if int32(dest)-int32(src) < 0 {
		c.raiseFlag(FlagCarry)
	}
	return dest - src
}

func (c *CPU) flagMULU(dest, src uint16) uint16 {
	prod := uint32(dest) * uint32(src)
	if prod > 0xFFFF {
		c.raiseFlag(FlagCarry)
	}
	return uint16(prod)
}

// flagMULS multiplies as signed values, truncated to the low 16
// bits. Carry is set iff the 32-bit signed product does not fit in
// 16-bit signed range, the authoritative (non-ambiguous) rule.
func (c *CPU) flagMULS(dest, src uint16) uint16 {
	product := int32(int16(dest)) * int32(int16(src))
	if product < -32768 || product > 32767 {
		c.raiseFlag(FlagCarry)
	}
	return uint16(int16(product))
}

func (c *CPU) flagADC(dest, src, carryIn uint16) uint16 {
	sum := uint32(dest) + uint32(src) + uint32(carryIn)
	if sum > 0xFFFF {
		c.raiseFlag(FlagCarry)
	}
	return uint16(sum)
}

func (c *CPU) flagSBC(dest, src, carryIn uint16) uint16 {
	diff := int32(dest) - int32(src) - int32(carryIn)
	if diff < 0 {
		c.raiseFlag(FlagCarry)
	}
	return uint16(diff)
}

func (c *CPU) flagMULC(dest, src, carryIn uint16) uint16 {
	product := uint32(dest)*uint32(src) + uint32(carryIn)
	if product > 0xFFFF {
		c.raiseFlag(FlagCarry)
	}
	return uint16(product)
}

func rotl16(v uint16, amt uint) uint16 {
	amt &= 0xF
	if amt == 0 {
		return v
	}
	return (v << amt) | (v >> (16 - amt))
}

func rotr16(v uint16, amt uint) uint16 {
	amt &= 0xF
	if amt == 0 {
		return v
	}
	return (v >> amt) | (v << (16 - amt))
}

// Jump condition codes (prefix 01).
const (
	jmpAlways uint8 = 0x0
	jmpZ      uint8 = 0x1
	jmpNZ     uint8 = 0x2
	jmpC      uint8 = 0x3
	jmpNC     uint8 = 0x4
	jmpZorC   uint8 = 0x5
	jmpNotZC  uint8 = 0x6
	jmpCall   uint8 = 0xF
)

// execJump decodes and runs the jump form: 01 oooo aaaaaaaaaa.
func (c *CPU) execJump(pc uint16, instr uint16) {
	op := uint8((instr >> 10) & 0xF)
	offsetField := instr & 0x3FF

	taken := false
	switch op {
	case jmpAlways, jmpCall:
		taken = true
	case jmpZ:
		taken = c.GetFlag(FlagZero)
	case jmpNZ:
		taken = !c.GetFlag(FlagZero)
	case jmpC:
		taken = c.GetFlag(FlagCarry)
	case jmpNC:
		taken = !c.GetFlag(FlagCarry)
	case jmpZorC:
		taken = c.GetFlag(FlagZero) || c.GetFlag(FlagCarry)
	case jmpNotZC:
		taken = !(c.GetFlag(FlagZero) || c.GetFlag(FlagCarry))
	default:
		c.crash()
		return
	}

	if offsetField != 0 {
		soffset := signExtend10(offsetField)
		if taken {
			if op == jmpCall {
				c.Push(pc + 2)
			}
			c.State.Regs[RegPC] = uint16(int32(pc) + 2*int32(soffset))
		} else {
			c.State.Regs[RegPC] = pc + 2
		}
		return
	}

	// Absolute form: target is the word following the instruction.
	if !taken {
		c.State.Regs[RegPC] = pc + 4
		return
	}
	target := c.Mem.LoadWord(pc + 2)
	if op == jmpCall {
		c.Push(pc + 4)
	}
	c.State.Regs[RegPC] = target
}

func signExtend10(v uint16) int16 {
	v &= 0x3FF
	if v&0x200 != 0 {
		return int16(v) - 0x400
	}
	return int16(v)
}

// Load/store opcodes (prefix 001).
const (
	memLoadWord  uint8 = 0x0
	memLoadByte  uint8 = 0x1
	memStoreWord uint8 = 0x2
	memStoreByte uint8 = 0x3
)

// execLoadStore decodes and runs the load/store form: 001oo rrrr 0
// mmmmmm.
func (c *CPU) execLoadStore(pc uint16, instr uint16) {
	op := uint8((instr >> 11) & 0x3)
	reg := uint8((instr >> 7) & 0xF)
	memField := uint8(instr & 0x3F)

	pcIncrement := uint16(2)
	var addr uint16
	switch {
	case memField < 0x10:
		addr = c.State.Regs[memField]
	case memField < 0x20:
		imm := c.Mem.LoadWord(pc + 2)
		pcIncrement += 2
		addr = c.State.Regs[memField&0xF] + imm
	case memField == 0x20:
		addr = c.Mem.LoadWord(pc + 2)
		pcIncrement += 2
	default:
		c.crash()
		return
	}

	switch op {
	case memLoadWord:
		c.State.Regs[reg] = c.Mem.LoadWord(addr)
	case memLoadByte:
		c.State.Regs[reg] = uint16(c.Mem.LoadByte(addr))
	case memStoreWord:
		c.Mem.StoreWord(addr, c.State.Regs[reg])
	case memStoreByte:
		c.Mem.StoreByte(addr, uint8(c.State.Regs[reg]&0xFF))
	}

	c.State.Regs[RegPC] = pc + pcIncrement
}

// Misc subcodes (prefix 0000).
const (
	miscOperand uint8 = 0x0
	miscPush    uint8 = 0x1
	miscPop     uint8 = 0x2
	miscJumpReg uint8 = 0x3
	miscSwap    uint8 = 0x4
)

// Operand-byte values under subcode 0.
const (
	operandNOP  uint8 = 0x01
	operandHALT uint8 = 0x02
	operandRET  uint8 = 0xAA
	operandRETI uint8 = 0xAB
	operandDI   uint8 = 0xDD
	operandEI   uint8 = 0xEE
	operandSTOP uint8 = 0xFF
)

// execMisc decodes and runs the miscellaneous form: 0000 ssss
// rrrrrrrr.
func (c *CPU) execMisc(pc uint16, instr uint16) {
	subcode := uint8((instr >> 8) & 0xF)
	operand := uint8(instr & 0xFF)

	switch subcode {
	case miscOperand:
		c.execOperand(pc, operand)
	case miscPush:
		reg := (operand >> 4) & 0xF
		c.Push(c.State.Regs[reg])
		c.State.Regs[RegPC] = pc + 2
	case miscPop:
		reg := (operand >> 4) & 0xF
		c.State.Regs[reg] = c.Pop()
		c.State.Regs[RegPC] = pc + 2
	case miscJumpReg:
		reg := (operand >> 4) & 0xF
		c.State.Regs[RegPC] = c.State.Regs[reg]
	case miscSwap:
		regX := (operand >> 4) & 0xF
		regY := operand & 0xF
		c.State.Regs[regX], c.State.Regs[regY] = c.State.Regs[regY], c.State.Regs[regX]
		c.State.Regs[RegPC] = pc + 2
	default:
		c.crash()
	}
}

func (c *CPU) execOperand(pc uint16, operand uint8) {
	switch operand {
	case operandNOP:
		c.State.Regs[RegPC] = pc + 2
	case operandHALT:
		c.SetFlag(FlagWait, true)
		c.State.Regs[RegPC] = pc + 2
	case operandRET:
		c.State.Regs[RegPC] = c.Pop()
	case operandRETI:
		c.State.Regs[RegPC] = c.Pop()
		c.SetFlag(FlagInterruptEnableNext, true)
	case operandDI:
		c.SetFlag(FlagInterruptEnable, false)
		c.State.Regs[RegPC] = pc + 2
	case operandEI:
		c.SetFlag(FlagInterruptEnableNext, true)
		c.State.Regs[RegPC] = pc + 2
	case operandSTOP:
		c.SetFlag(FlagRun, false)
		c.State.Regs[RegPC] = pc + 2
	default:
		c.crash()
	}
}
