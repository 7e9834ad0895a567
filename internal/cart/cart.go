package cart

import "fmt"

// Cartridge is the tagged variant of ROM-only and MBC1. Addresses are
// CPU addresses: ROM at 0x0000-0x7FFF, external RAM at 0xA000-0xBFFF.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// UnsupportedCartridgeError reports a header cartridge-type byte
// outside the ROM-only/MBC1 tag union this package implements.
type UnsupportedCartridgeError struct {
	CartType byte
}

func (e *UnsupportedCartridgeError) Error() string {
	return fmt.Sprintf("unsupported cartridge type %#02x", e.CartType)
}

// NewCartridge picks an implementation based on the ROM header. A
// header that names anything other than ROM-only or an MBC1 variant
// is a construction-time fault: this package has nowhere to send the
// banking writes.
func NewCartridge(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom), nil
	case 0x01, 0x02, 0x03: // MBC1, MBC1+RAM, MBC1+RAM+BATTERY
		return NewMBC1(rom, h.RAMSizeBytes), nil
	default:
		return nil, &UnsupportedCartridgeError{CartType: h.CartType}
	}
}
