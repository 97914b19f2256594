package memory

import "testing"

func TestWordRoundTripInRAM(t *testing.T) {
	b := NewBus(make([]uint8, 0x10000))
	b.StoreWord(0x8000, 0xBEEF)
	if got := b.LoadWord(0x8000); got != 0xBEEF {
		t.Errorf("LoadWord(0x8000) = 0x%04X, want 0xBEEF", got)
	}
}

func TestWordIsBigEndianOnTheBus(t *testing.T) {
	b := NewBus(make([]uint8, 0x10000))
	b.StoreWord(0x8000, 0x1234)
	if got := b.LoadByte(0x8000); got != 0x12 {
		t.Errorf("high byte at addr = 0x%02X, want 0x12", got)
	}
	if got := b.LoadByte(0x8001); got != 0x34 {
		t.Errorf("low byte at addr+1 = 0x%02X, want 0x34", got)
	}
}

func TestWritesToROMAreIgnored(t *testing.T) {
	b := NewBus([]uint8{0xAA, 0xBB})
	b.StoreByte(0x0000, 0xFF)
	if got := b.LoadByte(0x0000); got != 0xAA {
		t.Errorf("ROM byte at $0000 = 0x%02X, want unmodified 0xAA", got)
	}
}

func TestUnalignedWordAccessIsNoop(t *testing.T) {
	b := NewBus(make([]uint8, 0x10000))
	b.StoreWord(0x8000, 0x5555)
	b.StoreWord(0x8001, 0x9999) // odd address, must be rejected
	if got := b.LoadWord(0x8000); got != 0x5555 {
		t.Errorf("aligned word clobbered by unaligned store: got 0x%04X", got)
	}
	if got := b.LoadWord(0x8001); got != 0 {
		t.Errorf("unaligned LoadWord should return 0, got 0x%04X", got)
	}
}

func TestBankSelectRegistersAreIdempotent(t *testing.T) {
	b := NewBus(make([]uint8, 0x10000))
	b.StoreByte(0xFD00, 3)
	if got := b.LoadByte(0xFD00); got != 3 {
		t.Errorf("rom_bank readback = %d, want 3", got)
	}
	b.StoreByte(0xFD01, 5)
	if got := b.LoadByte(0xFD01); got != 5 {
		t.Errorf("ram_bank readback = %d, want 5", got)
	}
}

func TestBankedROMWindowSelectsChunk(t *testing.T) {
	rom := make([]uint8, 0x10000)
	rom[0x4000] = 0xAB // bank 1 starts at offset 0x4000
	b := NewBus(rom)
	b.RomBank = 1
	if got := b.LoadByte(0x4000); got != 0xAB {
		t.Errorf("banked ROM byte = 0x%02X, want 0xAB", got)
	}
}

func TestRAMBank0AliasesFixedRAM(t *testing.T) {
	b := NewBus(make([]uint8, 0x10000))
	b.StoreByte(0x8000, 0x42)
	b.RamBank = 0
	if got := b.LoadByte(0xA000); got != 0x42 {
		t.Errorf("RAM bank 0 at $A000 = 0x%02X, want 0x42 (alias of $8000)", got)
	}
}

func TestRAMBankedWindowIsIndependentPerBank(t *testing.T) {
	b := NewBus(make([]uint8, 0x10000))
	b.RamBank = 1
	b.StoreByte(0xA000, 0x11)
	b.RamBank = 2
	b.StoreByte(0xA000, 0x22)
	b.RamBank = 1
	if got := b.LoadByte(0xA000); got != 0x11 {
		t.Errorf("RAM bank 1 at $A000 = 0x%02X, want 0x11", got)
	}
}

func TestUnmappedReadReturnsZero(t *testing.T) {
	b := NewBus(make([]uint8, 0x10000))
	if got := b.LoadByte(0xD600); got != 0 {
		t.Errorf("reserved region read = 0x%02X, want 0", got)
	}
}

func TestPPUWindowRoutesToAttachedHandler(t *testing.T) {
	h := &fakeIOHandler{}
	b := NewBus(make([]uint8, 0x10000))
	b.PPU = h
	b.StoreByte(0xD400, 0x7C)
	if h.lastWriteOffset != 0x1400 || h.lastWriteValue != 0x7C {
		t.Errorf("PPU write offset/value = 0x%04X/0x%02X, want 0x1400/0x7C", h.lastWriteOffset, h.lastWriteValue)
	}
}

type fakeIOHandler struct {
	lastWriteOffset uint16
	lastWriteValue  uint8
}

func (f *fakeIOHandler) Read8(offset uint16) uint8 { return 0 }
func (f *fakeIOHandler) Write8(offset uint16, value uint8) {
	f.lastWriteOffset = offset
	f.lastWriteValue = value
}
