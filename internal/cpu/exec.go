package cpu

import "github.com/adtennant/gb/internal/decode"

// getR/setR read or write one of the eight (x,y,z)-field operand
// positions; 6 always means "via (HL)" and costs its own m-cycle
// through read8/write8.
func (c *CPU) getR(idx byte) byte {
	switch idx {
	case 0:
		return c.r.B
	case 1:
		return c.r.C
	case 2:
		return c.r.D
	case 3:
		return c.r.E
	case 4:
		return c.r.H
	case 5:
		return c.r.L
	case 6:
		return c.read8(c.r.HL())
	default:
		return c.r.A
	}
}

func (c *CPU) setR(idx byte, v byte) {
	switch idx {
	case 0:
		c.r.B = v
	case 1:
		c.r.C = v
	case 2:
		c.r.D = v
	case 3:
		c.r.E = v
	case 4:
		c.r.H = v
	case 5:
		c.r.L = v
	case 6:
		c.write8(c.r.HL(), v)
	default:
		c.r.A = v
	}
}

// execute runs the primary opcode op. Invalid opcodes and STOP are
// fatal, per the interpreter's error-handling design.
func (c *CPU) execute(op byte) {
	if !decode.ValidPrimary(op) {
		c.fault(op, "invalid opcode")
	}

	switch op {
	case 0x00: // NOP

	case 0x10: // STOP
		c.fault(op, "STOP is not implemented")

	// 8-bit immediate loads
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		c.setR(decode.Decompose(op).Y, c.fetch8())

	// LD r,r' / LD (HL),r / LD r,(HL) / HALT
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		f := decode.Decompose(op)
		c.setR(f.Y, c.getR(f.Z))

	case 0x76: // HALT
		c.halted = true

	// 16-bit immediate loads
	case 0x01:
		c.r.SetBC(c.fetch16())
	case 0x11:
		c.r.SetDE(c.fetch16())
	case 0x21:
		c.r.SetHL(c.fetch16())
	case 0x31:
		c.r.SP = c.fetch16()
	case 0x08: // LD (a16),SP
		addr := c.fetch16()
		c.write16(addr, c.r.SP)

	// LD (BC)/(DE),A and A,(BC)/(DE)
	case 0x02:
		c.write8(c.r.BC(), c.r.A)
	case 0x12:
		c.write8(c.r.DE(), c.r.A)
	case 0x0A:
		c.r.A = c.read8(c.r.BC())
	case 0x1A:
		c.r.A = c.read8(c.r.DE())

	// LD (HL+/-),A and A,(HL+/-)
	case 0x22:
		hl := c.r.HL()
		c.write8(hl, c.r.A)
		c.r.SetHL(hl + 1)
	case 0x2A:
		hl := c.r.HL()
		c.r.A = c.read8(hl)
		c.r.SetHL(hl + 1)
	case 0x32:
		hl := c.r.HL()
		c.write8(hl, c.r.A)
		c.r.SetHL(hl - 1)
	case 0x3A:
		hl := c.r.HL()
		c.r.A = c.read8(hl)
		c.r.SetHL(hl - 1)

	// LDH
	case 0xE0:
		n := uint16(c.fetch8())
		c.write8(0xFF00+n, c.r.A)
	case 0xF0:
		n := uint16(c.fetch8())
		c.r.A = c.read8(0xFF00 + n)
	case 0xE2:
		c.write8(0xFF00+uint16(c.r.C), c.r.A)
	case 0xF2:
		c.r.A = c.read8(0xFF00 + uint16(c.r.C))
	case 0xEA:
		addr := c.fetch16()
		c.write8(addr, c.r.A)
	case 0xFA:
		addr := c.fetch16()
		c.r.A = c.read8(addr)

	// Rotate-accumulator and flag ops (x=0,z=7)
	case 0x07: // RLCA
		c.r.A = c.rlc(c.r.A)
		c.r.F &^= flagZ
	case 0x0F: // RRCA
		c.r.A = c.rrc(c.r.A)
		c.r.F &^= flagZ
	case 0x17: // RLA
		c.r.A = c.rl(c.r.A)
		c.r.F &^= flagZ
	case 0x1F: // RRA
		c.r.A = c.rr(c.r.A)
		c.r.F &^= flagZ
	case 0x27:
		c.daa()
	case 0x2F:
		c.cpl()
	case 0x37:
		c.scf()
	case 0x3F:
		c.ccf()

	// 8-bit INC/DEC
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		y := decode.Decompose(op).Y
		c.setR(y, c.inc8(c.getR(y)))
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		y := decode.Decompose(op).Y
		c.setR(y, c.dec8(c.getR(y)))

	// ALU A,r / A,(HL) / A,d8
	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87:
		c.r.A = c.add8(c.r.A, c.getR(decode.Decompose(op).Z))
	case 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F:
		c.r.A = c.adc8(c.r.A, c.getR(decode.Decompose(op).Z))
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97:
		c.r.A = c.sub8(c.r.A, c.getR(decode.Decompose(op).Z))
	case 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F:
		c.r.A = c.sbc8(c.r.A, c.getR(decode.Decompose(op).Z))
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7:
		c.r.A = c.and8(c.r.A, c.getR(decode.Decompose(op).Z))
	case 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF:
		c.r.A = c.xor8(c.r.A, c.getR(decode.Decompose(op).Z))
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7:
		c.r.A = c.or8(c.r.A, c.getR(decode.Decompose(op).Z))
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF:
		c.cp8(c.r.A, c.getR(decode.Decompose(op).Z))

	case 0xC6:
		c.r.A = c.add8(c.r.A, c.fetch8())
	case 0xCE:
		c.r.A = c.adc8(c.r.A, c.fetch8())
	case 0xD6:
		c.r.A = c.sub8(c.r.A, c.fetch8())
	case 0xDE:
		c.r.A = c.sbc8(c.r.A, c.fetch8())
	case 0xE6:
		c.r.A = c.and8(c.r.A, c.fetch8())
	case 0xEE:
		c.r.A = c.xor8(c.r.A, c.fetch8())
	case 0xF6:
		c.r.A = c.or8(c.r.A, c.fetch8())
	case 0xFE:
		c.cp8(c.r.A, c.fetch8())

	// Jumps
	case 0xC3:
		c.r.PC = c.fetch16()
		c.bus.TickMCycle()
	case 0xE9:
		c.r.PC = c.r.HL()
	case 0xC2, 0xCA, 0xD2, 0xDA:
		addr := c.fetch16()
		if c.condTaken(op) {
			c.r.PC = addr
			c.bus.TickMCycle()
		}
	case 0x18:
		off := int8(c.fetch8())
		c.bus.TickMCycle()
		c.r.PC = uint16(int32(c.r.PC) + int32(off))
	case 0x20, 0x28, 0x30, 0x38:
		off := int8(c.fetch8())
		if c.condTaken(op) {
			c.bus.TickMCycle()
			c.r.PC = uint16(int32(c.r.PC) + int32(off))
		}

	// CALL / RET
	case 0xCD:
		addr := c.fetch16()
		c.push16(c.r.PC)
		c.r.PC = addr
	case 0xC4, 0xCC, 0xD4, 0xDC:
		addr := c.fetch16()
		if c.condTaken(op) {
			c.push16(c.r.PC)
			c.r.PC = addr
		}
	case 0xC9:
		c.r.PC = c.pop16()
		c.bus.TickMCycle()
	case 0xD9:
		c.r.PC = c.pop16()
		c.bus.TickMCycle()
		c.ime = true
	case 0xC0, 0xC8, 0xD0, 0xD8:
		c.bus.TickMCycle()
		if c.condTaken(op) {
			c.r.PC = c.pop16()
			c.bus.TickMCycle()
		}

	// RST
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		c.push16(c.r.PC)
		c.r.PC = uint16(op &^ 0xC7)

	// 16-bit INC/DEC
	case 0x03:
		c.r.SetBC(c.r.BC() + 1)
		c.bus.TickMCycle()
	case 0x13:
		c.r.SetDE(c.r.DE() + 1)
		c.bus.TickMCycle()
	case 0x23:
		c.r.SetHL(c.r.HL() + 1)
		c.bus.TickMCycle()
	case 0x33:
		c.r.SP++
		c.bus.TickMCycle()
	case 0x0B:
		c.r.SetBC(c.r.BC() - 1)
		c.bus.TickMCycle()
	case 0x1B:
		c.r.SetDE(c.r.DE() - 1)
		c.bus.TickMCycle()
	case 0x2B:
		c.r.SetHL(c.r.HL() - 1)
		c.bus.TickMCycle()
	case 0x3B:
		c.r.SP--
		c.bus.TickMCycle()

	// ADD HL,rr
	case 0x09:
		c.r.SetHL(c.add16(c.r.HL(), c.r.BC()))
		c.bus.TickMCycle()
	case 0x19:
		c.r.SetHL(c.add16(c.r.HL(), c.r.DE()))
		c.bus.TickMCycle()
	case 0x29:
		c.r.SetHL(c.add16(c.r.HL(), c.r.HL()))
		c.bus.TickMCycle()
	case 0x39:
		c.r.SetHL(c.add16(c.r.HL(), c.r.SP))
		c.bus.TickMCycle()

	// SP-relative ops
	case 0xE8: // ADD SP,d8
		d := int8(c.fetch8())
		c.r.SP = c.addSPSigned(d)
		c.bus.TickMCycle()
		c.bus.TickMCycle()
	case 0xF8: // LD HL,SP+d8
		d := int8(c.fetch8())
		c.r.SetHL(c.addSPSigned(d))
		c.bus.TickMCycle()
	case 0xF9: // LD SP,HL
		c.r.SP = c.r.HL()
		c.bus.TickMCycle()

	// PUSH/POP
	case 0xF5:
		c.push16(c.r.AF())
	case 0xC5:
		c.push16(c.r.BC())
	case 0xD5:
		c.push16(c.r.DE())
	case 0xE5:
		c.push16(c.r.HL())
	case 0xF1:
		c.r.SetAF(c.pop16())
	case 0xC1:
		c.r.SetBC(c.pop16())
	case 0xD1:
		c.r.SetDE(c.pop16())
	case 0xE1:
		c.r.SetHL(c.pop16())

	// EI/DI
	case 0xF3:
		c.ime = false
	case 0xFB:
		c.ime = true

	case 0xCB:
		c.executePrefixed(c.fetch8())

	default:
		c.fault(op, "unimplemented opcode")
	}
}

// condTaken evaluates the condition field for JR/JP/CALL/RET cc forms.
func (c *CPU) condTaken(op byte) bool {
	switch decode.Decompose(op).Y & 3 {
	case 0:
		return !c.r.flagSet(flagZ)
	case 1:
		return c.r.flagSet(flagZ)
	case 2:
		return !c.r.flagSet(flagC)
	default:
		return c.r.flagSet(flagC)
	}
}

// executePrefixed runs a CB-prefixed opcode; the table is total, so
// no fault path exists here.
func (c *CPU) executePrefixed(op byte) {
	f := decode.Decompose(op)
	reg, group, y := f.Z, f.X, f.Y

	switch group {
	case 0: // rotate/shift/swap
		v := c.getR(reg)
		switch y {
		case 0:
			v = c.rlc(v)
		case 1:
			v = c.rrc(v)
		case 2:
			v = c.rl(v)
		case 3:
			v = c.rr(v)
		case 4:
			v = c.sla(v)
		case 5:
			v = c.sra(v)
		case 6:
			v = c.swap(v)
		case 7:
			v = c.srl(v)
		}
		c.setR(reg, v)
	case 1: // BIT y,r
		c.bit(c.getR(reg), y)
	case 2: // RES y,r
		c.setR(reg, res(c.getR(reg), y))
	default: // SET y,r
		c.setR(reg, set(c.getR(reg), y))
	}
}
