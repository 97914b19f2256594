// Package rom loads VSI-16 ROM images and provides a test-fixture
// builder for encoding instruction byte sequences in memory, without
// touching disk, for use by this repo's own tests.
package rom

import "fmt"

const (
	titleOffset = 2
	titleLength = 30
	headerSize  = 0x0100
	maxROMSize  = 0x10000
)

// Image is a loaded VSI-16 ROM: the raw byte image plus its decoded
// title. Execution begins at $0100 within Bytes.
type Image struct {
	Title string
	Bytes []uint8
}

// Load parses a raw ROM file. Bytes 2..31 hold a null-padded title;
// code and data begin at $0100.
func Load(data []uint8) (*Image, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("rom: image too small: %d bytes, need at least %d for the header", len(data), headerSize)
	}
	if len(data) > maxROMSize {
		return nil, fmt.Errorf("rom: image too large: %d bytes, max %d", len(data), maxROMSize)
	}

	title := data[titleOffset : titleOffset+titleLength]
	end := len(title)
	for end > 0 && title[end-1] == 0 {
		end--
	}

	return &Image{
		Title: string(title[:end]),
		Bytes: data,
	}, nil
}

// Arithmetic/logic opcodes (prefix 1, field op[5]).
const (
	OpMOV  uint8 = 0x00
	OpADD  uint8 = 0x01
	OpSUB  uint8 = 0x02
	OpMULU uint8 = 0x03
	OpMULS uint8 = 0x04
	OpDIVU uint8 = 0x05
	OpDIVS uint8 = 0x06
	OpMODU uint8 = 0x07
	OpMODS uint8 = 0x08
	OpAND  uint8 = 0x09
	OpOR   uint8 = 0x0A
	OpXOR  uint8 = 0x0B
	OpNOT  uint8 = 0x0C
	OpNEG  uint8 = 0x0D
	OpINC  uint8 = 0x0E
	OpDEC  uint8 = 0x0F
	OpSHL  uint8 = 0x10
	OpSHR  uint8 = 0x11
	OpSAR  uint8 = 0x12
	OpROL  uint8 = 0x13
	OpROR  uint8 = 0x14
	OpBIT  uint8 = 0x15
	OpADC  uint8 = 0x16
	OpSBC  uint8 = 0x17
	OpMULC uint8 = 0x18
	OpCMPU uint8 = 0x1E
	OpCMPS uint8 = 0x1F
)

// Source field encodings for the arithmetic/logic form.
const (
	srcImmWord uint8 = 0x20
	srcMinus1  uint8 = 0x21
)

// Jump condition codes (prefix 01).
const (
	JmpAlways uint8 = 0x0
	JmpZ      uint8 = 0x1
	JmpNZ     uint8 = 0x2
	JmpC      uint8 = 0x3
	JmpNC     uint8 = 0x4
	JmpZorC   uint8 = 0x5
	JmpNotZC  uint8 = 0x6
	JmpCall   uint8 = 0xF
)

// Load/store opcodes (prefix 001).
const (
	MemLoadWord  uint8 = 0x0
	MemLoadByte  uint8 = 0x1
	MemStoreWord uint8 = 0x2
	MemStoreByte uint8 = 0x3
)

// Misc subcodes (prefix 0000).
const (
	miscOperand uint8 = 0x0
	miscPush    uint8 = 0x1
	miscPop     uint8 = 0x2
	miscJumpReg uint8 = 0x3
	miscSwap    uint8 = 0x4
)

// Misc operand-byte values under subcode 0.
const (
	OperandNOP  uint8 = 0x01
	OperandHALT uint8 = 0x02
	OperandRET  uint8 = 0xAA
	OperandRETI uint8 = 0xAB
	OperandDI   uint8 = 0xDD
	OperandEI   uint8 = 0xEE
	OperandSTOP uint8 = 0xFF
)

func arithWord(op, dest, src uint8) uint16 {
	return 0x8000 | (uint16(op)&0x1F)<<10 | (uint16(dest)&0xF)<<6 | (uint16(src) & 0x3F)
}

func loadStoreWord(op, reg, mem uint8) uint16 {
	return 0x2000 | (uint16(op)&0x3)<<11 | (uint16(reg)&0xF)<<7 | (uint16(mem) & 0x3F)
}

func jumpWord(op uint8, offset uint16) uint16 {
	return 0x4000 | (uint16(op)&0xF)<<10 | (offset & 0x3FF)
}

func miscWord(subcode, operand uint8) uint16 {
	return (uint16(subcode)&0xF)<<8 | uint16(operand)
}

// Builder accumulates instruction words (and their trailing
// immediates) for a ROM's code region, starting logically at $0100.
type Builder struct {
	words []uint16
}

// NewBuilder creates an empty instruction builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Word appends a raw 16-bit word, for instructions this builder has
// no dedicated helper for.
func (b *Builder) Word(w uint16) *Builder {
	b.words = append(b.words, w)
	return b
}

// ArithReg encodes `op dest, src` where src is a register index.
func (b *Builder) ArithReg(op, dest, src uint8) *Builder {
	return b.Word(arithWord(op, dest, src&0xF))
}

// ArithImm4 encodes `op dest, #imm` for a 4-bit immediate (0..15).
func (b *Builder) ArithImm4(op, dest, imm uint8) *Builder {
	return b.Word(arithWord(op, dest, 0x10|(imm&0xF)))
}

// ArithImm16 encodes `op dest, #imm` for a full 16-bit immediate,
// which consumes a following word.
func (b *Builder) ArithImm16(op, dest uint8, imm uint16) *Builder {
	return b.Word(arithWord(op, dest, srcImmWord)).Word(imm)
}

// ArithMinus1 encodes `op dest, #-1` using the literal -1 source.
func (b *Builder) ArithMinus1(op, dest uint8) *Builder {
	return b.Word(arithWord(op, dest, srcMinus1))
}

// MovImm is shorthand for ArithImm16(OpMOV, dest, imm).
func (b *Builder) MovImm(dest uint8, imm uint16) *Builder {
	return b.ArithImm16(OpMOV, dest, imm)
}

// LoadWordReg encodes a word load from the address in register memReg.
func (b *Builder) LoadWordReg(reg, memReg uint8) *Builder {
	return b.Word(loadStoreWord(MemLoadWord, reg, memReg&0xF))
}

// StoreWordReg encodes a word store to the address in register memReg.
func (b *Builder) StoreWordReg(reg, memReg uint8) *Builder {
	return b.Word(loadStoreWord(MemStoreWord, reg, memReg&0xF))
}

// StoreWordAbs encodes a word store to a fixed 16-bit address.
func (b *Builder) StoreWordAbs(reg uint8, addr uint16) *Builder {
	return b.Word(loadStoreWord(MemStoreWord, reg, 0x20)).Word(addr)
}

// LoadWordAbs encodes a word load from a fixed 16-bit address.
func (b *Builder) LoadWordAbs(reg uint8, addr uint16) *Builder {
	return b.Word(loadStoreWord(MemLoadWord, reg, 0x20)).Word(addr)
}

// Push encodes PUSH reg.
func (b *Builder) Push(reg uint8) *Builder {
	return b.Word(miscWord(miscPush, reg<<4))
}

// Pop encodes POP reg.
func (b *Builder) Pop(reg uint8) *Builder {
	return b.Word(miscWord(miscPop, reg<<4))
}

// JumpToReg encodes PC <- R[reg].
func (b *Builder) JumpToReg(reg uint8) *Builder {
	return b.Word(miscWord(miscJumpReg, reg<<4))
}

// Swap encodes a register-register swap.
func (b *Builder) Swap(regA, regB uint8) *Builder {
	return b.Word(miscWord(miscSwap, (regA<<4)|(regB&0xF)))
}

// Operand encodes one of the fixed miscellaneous operand-byte ops
// (NOP, HALT, RET, RETI, DI, EI, STOP).
func (b *Builder) Operand(op uint8) *Builder {
	return b.Word(miscWord(miscOperand, op))
}

// JumpAbs encodes an absolute jump/call to target.
func (b *Builder) JumpAbs(cond uint8, target uint16) *Builder {
	return b.Word(jumpWord(cond, 0)).Word(target)
}

// JumpRel encodes a PC-relative jump by wordDelta words (PC += 2*wordDelta).
func (b *Builder) JumpRel(cond uint8, wordDelta int16) *Builder {
	return b.Word(jumpWord(cond, uint16(wordDelta)&0x3FF))
}

// ROM renders the accumulated code into a full ROM image: a 256-byte
// header (title at bytes 2..31) followed by the code starting at
// $0100, as big-endian words.
func (b *Builder) ROM(title string) []uint8 {
	data := make([]uint8, headerSize+len(b.words)*2)
	copy(data[titleOffset:titleOffset+titleLength], title)

	for i, w := range b.words {
		offset := headerSize + i*2
		data[offset] = uint8(w >> 8)
		data[offset+1] = uint8(w & 0xFF)
	}

	return data
}
