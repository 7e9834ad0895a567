// Package joypad models the JOYP register: two write-only row-select
// bits and four active-low, host-sampled input bits, with edge
// detection driving the Joypad interrupt.
package joypad

import (
	"github.com/adtennant/gb/internal/host"
	"github.com/adtennant/gb/internal/interrupt"
)

// Pad holds the row selection and the last-sampled input state.
type Pad struct {
	selectBits byte // JOYP bits 5..4 as last written
	prevLower4 byte // previous sampled active-low nibble, for edge detection
}

// New returns a Pad with neither row selected.
func New() *Pad { return &Pad{selectBits: 0x30, prevLower4: 0x0F} }

// WriteJOYP updates the row-select bits; the four input bits are
// never writable.
func (p *Pad) WriteJOYP(v byte) { p.selectBits = v & 0x30 }

// sample computes the active-low input nibble for the currently
// selected row(s), ANDing both rows together when both are selected.
// A nil host reads as nothing pressed.
func (p *Pad) sample(h host.Host) byte {
	lower := byte(0x0F)
	if h == nil {
		return lower
	}
	if p.selectBits&0x10 == 0 { // P14 low selects D-pad
		if h.IsJoypadPressed(host.Right) {
			lower &^= 0x01
		}
		if h.IsJoypadPressed(host.Left) {
			lower &^= 0x02
		}
		if h.IsJoypadPressed(host.Up) {
			lower &^= 0x04
		}
		if h.IsJoypadPressed(host.Down) {
			lower &^= 0x08
		}
	}
	if p.selectBits&0x20 == 0 { // P15 low selects buttons
		if h.IsJoypadPressed(host.A) {
			lower &^= 0x01
		}
		if h.IsJoypadPressed(host.B) {
			lower &^= 0x02
		}
		if h.IsJoypadPressed(host.Select) {
			lower &^= 0x04
		}
		if h.IsJoypadPressed(host.Start) {
			lower &^= 0x08
		}
	}
	return lower
}

// ReadJOYP returns the register as the CPU observes it.
func (p *Pad) ReadJOYP(h host.Host) byte {
	return 0xC0 | p.selectBits | p.sample(h)
}

// TickMCycle resamples the input rows and raises the Joypad interrupt
// on any high-to-low (pressed) transition of the four input bits.
func (p *Pad) TickMCycle(h host.Host) byte {
	lower := p.sample(h)
	falling := p.prevLower4 &^ lower // bits that were 1 and are now 0
	p.prevLower4 = lower
	if falling != 0 {
		return interrupt.Joypad
	}
	return 0
}
