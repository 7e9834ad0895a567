// Package emu assembles the CPU, bus, and cartridge into the public
// emulator surface: construct a machine from ROM bytes and a host,
// then drive it one instruction or one frame at a time.
package emu

import (
	"github.com/adtennant/gb/internal/bus"
	"github.com/adtennant/gb/internal/cart"
	"github.com/adtennant/gb/internal/cpu"
	"github.com/adtennant/gb/internal/host"
)

// ScreenWidth and ScreenHeight are the DMG's fixed LCD dimensions.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// mcyclesPerFrame is 70224 dots (one full frame, 144 visible lines
// plus 10 VBlank lines at 456 dots each) expressed in m-cycles.
const mcyclesPerFrame = 70224 / 4

// Emulator wires a CPU to a Bus built around one cartridge and host.
type Emulator struct {
	cpu *cpu.CPU
	bus *bus.Bus
}

// Construct builds an Emulator from raw ROM bytes and a host
// implementation. It fails if the ROM header names a cartridge type
// outside the ROM-only/MBC1 tag union this package supports.
func Construct(rom []byte, h host.Host) (*Emulator, error) {
	c, err := cart.NewCartridge(rom)
	if err != nil {
		return nil, err
	}
	b := bus.New(c, h)
	return &Emulator{cpu: cpu.New(b), bus: b}, nil
}

// Step executes exactly one CPU instruction (or one m-cycle while
// halted) and services at most one pending interrupt. A fault (an
// invalid opcode or STOP) panics with a *cpu.FaultError; real hardware
// has no recovery from either condition.
func (e *Emulator) Step() { e.cpu.Step() }

// StepFrame runs Step repeatedly until the PPU crosses into VBlank,
// which is how a host paces itself to the display's refresh rate. The
// mcyclesPerFrame budget is only a stall-safety fallback: it bounds how
// long StepFrame can run when the LCD is disabled (LCDC bit 7 clear),
// since VBlank never fires in that state.
func (e *Emulator) StepFrame() {
	e.bus.ConsumeVBlank() // drop any edge latched before this call
	deadline := e.bus.MCycles() + mcyclesPerFrame
	for {
		e.Step()
		if e.bus.ConsumeVBlank() {
			return
		}
		if e.bus.MCycles() >= deadline {
			return
		}
	}
}

// PC exposes the program counter for tracing tools.
func (e *Emulator) PC() uint16 { return e.cpu.PC() }

// Registers exposes a register-file snapshot for tracing tools.
func (e *Emulator) Registers() cpu.Registers { return e.cpu.Registers() }

// Halted reports whether the CPU is currently halted.
func (e *Emulator) Halted() bool { return e.cpu.Halted() }
