// Package decode classifies primary and CB-prefixed opcodes as valid or
// invalid, and breaks an opcode byte into the (x,y,z,p,q) bitfields the
// CPU's dispatch switches use to pick a register/condition operand out
// of a case covering several related opcodes.
package decode

// invalidPrimary lists the eleven undefined primary opcodes.
var invalidPrimary = map[byte]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

// ValidPrimary reports whether b is a defined primary (unprefixed) opcode.
func ValidPrimary(b byte) bool { return !invalidPrimary[b] }

// ValidPrefixed reports whether b is a defined CB-prefixed opcode. The
// CB table is dense: every one of the 256 values is a real rotate/
// shift/swap (x=0), BIT (x=1), RES (x=2), or SET (x=3) instruction.
func ValidPrefixed(b byte) bool { return true }

// Fields decomposes an opcode byte into the bitfields the primary and
// CB-prefixed decode tables are built from.
type Fields struct {
	X, Y, Z, P, Q byte
}

// Decompose extracts (x, y, z, p, q) from an opcode byte:
// x = bits 7..6, y = bits 5..3, z = bits 2..0, p = bits 5..4, q = bit 3.
func Decompose(b byte) Fields {
	return Fields{
		X: (b >> 6) & 0x03,
		Y: (b >> 3) & 0x07,
		Z: b & 0x07,
		P: (b >> 4) & 0x03,
		Q: (b >> 3) & 0x01,
	}
}
