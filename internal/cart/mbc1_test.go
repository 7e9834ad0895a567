package cart

import "testing"

func TestMBC1_ROMBanking(t *testing.T) {
	// Build a 128KB ROM with distinct bytes per bank at start of each bank
	rom := make([]byte, 128*1024)
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC1(rom, 0)

	// Bank0 region reads from bank 0 in mode 0
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}

	// Switchable bank defaults to 1
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}

	// Select bank 3
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}

	// Writing 0 maps to 1
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
}

func TestMBC1_RAMBanking_Mode1(t *testing.T) {
	rom := make([]byte, 128*1024)
	m := NewMBC1(rom, 32*1024)

	// Enable RAM
	m.Write(0x0000, 0x0A)

	// Select mode 1 (RAM banking)
	m.Write(0x6000, 0x01)
	// Select RAM bank 2 via high bits
	m.Write(0x4000, 0x02)

	// Write/read in A000-BFFF should go to bank 2
	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
}

// The ROM-bank high bits and the RAM bank number are separate registers on
// real MBC1: a write to 0x4000-0x5FFF while in ROM mode must not be visible
// as a RAM bank selection after switching to RAM mode without rewriting it.
func TestMBC1_ROMHighBitsAndRAMBankAreIndependent(t *testing.T) {
	rom := make([]byte, 1024*1024)
	m := NewMBC1(rom, 32*1024)
	m.Write(0x0000, 0x0A) // RAM enable

	// In ROM mode, write high bits = 2 (selects ROM bank 0x41 alongside low5=1).
	m.Write(0x4000, 0x02)

	// Switch to RAM mode without touching 0x4000-0x5FFF again.
	m.Write(0x6000, 0x01)

	// RAM bank must still be its reset value (0), not the stale ROM-mode write.
	m.Write(0xA000, 0x55)
	if got := m.Read(0xA000); got != 0x55 {
		t.Fatalf("RAM bank0 RW failed: got %02X", got)
	}

	// Bank 2's region must remain untouched.
	off := 2*0x2000 + 0
	if m.ram[off] != 0 {
		t.Fatalf("write leaked into RAM bank2: got %02X", m.ram[off])
	}
}
