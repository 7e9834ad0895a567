// Package bus wires the CPU-visible address space to the cartridge,
// work/high RAM, and the timer/PPU/serial/joypad/interrupt peripherals,
// implementing the m-cycle tick pump: every read, write, and internal
// CPU delay advances every peripheral by exactly one m-cycle.
package bus

import (
	"github.com/adtennant/gb/internal/cart"
	"github.com/adtennant/gb/internal/host"
	"github.com/adtennant/gb/internal/interrupt"
	"github.com/adtennant/gb/internal/joypad"
	"github.com/adtennant/gb/internal/ppu"
	"github.com/adtennant/gb/internal/serial"
	"github.com/adtennant/gb/internal/timer"
)

// Bus implements cpu.Bus over the full DMG memory map.
type Bus struct {
	cart cart.Cartridge
	host host.Host

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ppu    *ppu.PPU
	timer  *timer.Timer
	serial *serial.Port
	joypad *joypad.Pad
	ic     *interrupt.Controller

	dma byte // FF46, last value written (read back verbatim)

	mcycles       uint64
	vblankLatched bool // set on the dot the PPU enters VBlank; StepFrame consumes it
}

// New wires a Bus around the given cartridge and host. host may be nil
// for headless CPU-only use (e.g. instruction-level test harnesses);
// in that case PPU pixel output and joypad/serial input are no-ops.
func New(c cart.Cartridge, h host.Host) *Bus {
	b := &Bus{
		cart:   c,
		host:   h,
		ppu:    ppu.New(),
		timer:  timer.New(),
		serial: serial.New(),
		joypad: joypad.New(),
		ic:     &interrupt.Controller{},
	}
	if h != nil {
		b.serial.SetCallback(h.SerialCallback)
	}
	return b
}

// PPU exposes the PPU for host-facing debug/trace tooling.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

func isTimerReg(addr uint16) bool {
	return addr >= 0xFF04 && addr <= 0xFF07
}

// ReadMCycle ticks every peripheral by one m-cycle, then returns the
// byte at addr.
func (b *Bus) ReadMCycle(addr uint16) byte {
	b.ic.Request(b.tickAll())
	return b.rawRead(addr)
}

// WriteMCycle ticks every peripheral by one m-cycle, then applies the
// write, except for the four timer registers: there, peripherals other
// than the timer are ticked first, the write is applied to the timer,
// and only then is the timer itself ticked. This ordering matters
// because a timer-register write can itself cause a falling-edge
// increment that the same m-cycle's tick must see.
func (b *Bus) WriteMCycle(addr uint16, value byte) {
	if isTimerReg(addr) {
		b.mcycles++
		irq := b.tickPeripheralsExceptTimer()
		b.writeTimerReg(addr, value)
		irq |= b.timer.TickMCycle()
		if irq&interrupt.VBlank != 0 {
			b.vblankLatched = true
		}
		b.ic.Request(irq)
		return
	}
	b.ic.Request(b.tickAll())
	b.rawWrite(addr, value)
}

// TickMCycle advances every peripheral by one m-cycle with no memory
// access, for the CPU's internal delay cycles.
func (b *Bus) TickMCycle() {
	b.ic.Request(b.tickAll())
}

func (b *Bus) IE() byte       { return b.ic.IE() }
func (b *Bus) IF() byte       { return b.ic.IF() }
func (b *Bus) SetIF(v byte)   { b.ic.SetIF(v) }

// MCycles returns the total number of m-cycles elapsed since
// construction, for frame-pacing callers such as Emulator.StepFrame.
func (b *Bus) MCycles() uint64 { return b.mcycles }

func (b *Bus) tickAll() byte {
	b.mcycles++
	irq := b.tickPeripheralsExceptTimer()
	irq |= b.timer.TickMCycle()
	if irq&interrupt.VBlank != 0 {
		b.vblankLatched = true
	}
	return irq
}

// ConsumeVBlank reports whether the PPU has entered VBlank since the
// last call, clearing the latch. StepFrame uses this to stop exactly on
// the enter-VBlank transition instead of a fixed m-cycle budget.
func (b *Bus) ConsumeVBlank() bool {
	v := b.vblankLatched
	b.vblankLatched = false
	return v
}

func (b *Bus) tickPeripheralsExceptTimer() byte {
	var irq byte
	irq |= b.ppu.TickMCycle(b.host)
	irq |= b.serial.TickMCycle()
	if b.host != nil {
		irq |= b.joypad.TickMCycle(b.host)
	}
	return irq
}

func (b *Bus) writeTimerReg(addr uint16, value byte) {
	switch addr {
	case 0xFF04:
		b.timer.WriteDIV()
	case 0xFF05:
		b.timer.WriteTIMA(value)
	case 0xFF06:
		b.timer.WriteTMA(value)
	case 0xFF07:
		b.timer.WriteTAC(value)
	}
}

// rawRead/rawWrite decode the address space without advancing any
// peripheral; ReadMCycle/WriteMCycle already did that, and OAM DMA
// source reads must not recursively tick.
func (b *Bus) rawRead(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.ppu.CPURead(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFF00:
		return b.joypad.ReadJOYP(b.host)
	case addr == 0xFF01:
		return b.serial.ReadSB()
	case addr == 0xFF02:
		return b.serial.ReadSC()
	case addr == 0xFF04:
		return b.timer.ReadDIV()
	case addr == 0xFF05:
		return b.timer.ReadTIMA()
	case addr == 0xFF06:
		return b.timer.ReadTMA()
	case addr == 0xFF07:
		return b.timer.ReadTAC()
	case addr == 0xFF0F:
		return b.ic.IF()
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr == 0xFF50:
		return 0xFF
	case addr == 0xFFFF:
		return b.ic.IE()
	default:
		return 0xFF
	}
}

func (b *Bus) rawWrite(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFF00:
		b.joypad.WriteJOYP(value)
	case addr == 0xFF01:
		b.serial.WriteSB(value)
	case addr == 0xFF02:
		b.serial.WriteSC(value)
	case addr == 0xFF0F:
		b.ic.SetIF(value)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	case addr == 0xFF46:
		b.dma = value
		b.runDMA(uint16(value) << 8)
	case addr == 0xFF50:
		// Boot-ROM disable latch; no boot ROM is mapped so this is a no-op.
	case addr == 0xFFFF:
		b.ic.SetIE(value)
	}
}

// runDMA copies all 160 OAM bytes from src in one step: the transfer is
// modeled as instantaneous at the point of the 0xFF46 write rather than
// progressing one byte per m-cycle, and the source read goes through
// rawRead so it sees the same address space the CPU does (cartridge,
// WRAM, or even HRAM) without re-ticking peripherals that ReadMCycle/
// WriteMCycle already ticked for this m-cycle.
func (b *Bus) runDMA(src uint16) {
	var data [0xA0]byte
	for i := range data {
		data[i] = b.rawRead(src + uint16(i))
	}
	b.ppu.DMATransfer(data)
}
