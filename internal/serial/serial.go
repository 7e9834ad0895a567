// Package serial models the DMG serial port: SB/SC and a one-m-cycle
// transfer driven through a host callback. No Serial interrupt is
// raised (see the repository's open-question notes).
package serial

// Callback hands an outbound byte to the host and receives the
// simultaneously-shifted-in inbound byte.
type Callback func(out byte) (in byte)

// Port holds the SB data register and the SC control register.
type Port struct {
	sb byte
	sc byte // bit7 transfer-start, bit0 clock source

	cb Callback
}

// New returns a Port with no callback attached; SetCallback wires one in.
func New() *Port { return &Port{} }

// SetCallback installs the host's transfer callback.
func (p *Port) SetCallback(cb Callback) { p.cb = cb }

// ReadSB returns SB.
func (p *Port) ReadSB() byte { return p.sb }

// WriteSB sets SB.
func (p *Port) WriteSB(v byte) { p.sb = v }

// ReadSC returns SC with its unused bits forced high.
func (p *Port) ReadSC() byte { return 0x7E | (p.sc & 0x81) }

// WriteSC sets SC. Setting bit 7 arms a transfer that completes on the
// next TickMCycle.
func (p *Port) WriteSC(v byte) { p.sc = v & 0x81 }

// TickMCycle completes an armed transfer, if any, always returning 0
// (no interrupt bit); the 8x128 m-cycle shift-clock timing of real
// hardware is not modeled.
func (p *Port) TickMCycle() byte {
	if p.sc&0x80 == 0 {
		return 0
	}
	out := p.sb
	if p.cb != nil {
		p.sb = p.cb(out)
	}
	p.sc &^= 0x80
	return 0
}
