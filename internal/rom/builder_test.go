package rom

import "testing"

func TestLoadExtractsNullPaddedTitle(t *testing.T) {
	data := make([]uint8, headerSize)
	copy(data[titleOffset:], "PONG")
	img, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if img.Title != "PONG" {
		t.Errorf("Title = %q, want %q", img.Title, "PONG")
	}
}

func TestLoadRejectsImageSmallerThanHeader(t *testing.T) {
	_, err := Load(make([]uint8, 10))
	if err == nil {
		t.Fatal("expected error for undersized ROM image")
	}
}

func TestLoadRejectsImageLargerThan64K(t *testing.T) {
	_, err := Load(make([]uint8, maxROMSize+1))
	if err == nil {
		t.Fatal("expected error for oversized ROM image")
	}
}

func TestBuilderEncodesMovImmScenario1(t *testing.T) {
	b := NewBuilder().MovImm(0, 5).Operand(OperandSTOP)
	rom := b.ROM("")

	if got := uint16(rom[headerSize])<<8 | uint16(rom[headerSize+1]); got != 0x8020 {
		t.Errorf("MOV a,#5 word = 0x%04X, want 0x8020", got)
	}
	if got := uint16(rom[headerSize+2])<<8 | uint16(rom[headerSize+3]); got != 0x0005 {
		t.Errorf("MOV immediate = 0x%04X, want 0x0005", got)
	}
	if got := uint16(rom[headerSize+4])<<8 | uint16(rom[headerSize+5]); got != 0x00FF {
		t.Errorf("STOP word = 0x%04X, want 0x00FF", got)
	}
}

func TestBuilderEncodesAddImmScenario2(t *testing.T) {
	b := NewBuilder().ArithImm16(OpADD, 0, 0xFFFF)
	rom := b.ROM("")
	if got := uint16(rom[headerSize])<<8 | uint16(rom[headerSize+1]); got != 0x8420 {
		t.Errorf("ADD a,#0xFFFF word = 0x%04X, want 0x8420", got)
	}
}

func TestBuilderEncodesCallAbsolute(t *testing.T) {
	b := NewBuilder().JumpAbs(JmpCall, 0x0200)
	rom := b.ROM("")
	if got := uint16(rom[headerSize])<<8 | uint16(rom[headerSize+1]); got != 0x7C00 {
		t.Errorf("CALL word = 0x%04X, want 0x7C00", got)
	}
	if got := uint16(rom[headerSize+2])<<8 | uint16(rom[headerSize+3]); got != 0x0200 {
		t.Errorf("CALL target = 0x%04X, want 0x0200", got)
	}
}
