// Package host declares the capability set an embedder supplies to
// the emulator core: input polling, a pixel sink, and a serial
// transfer callback.
package host

// Button identifies one of the eight joypad inputs.
type Button int

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Color is one of the four DMG shades, palette index order light to dark.
type Color int

const (
	White Color = iota
	LightGrey
	DarkGrey
	Black
)

// RGBA returns the canonical DMG palette color as (r, g, b, a) bytes.
func (c Color) RGBA() (r, g, b, a uint8) {
	switch c {
	case White:
		return 155, 188, 15, 255
	case LightGrey:
		return 139, 172, 15, 255
	case DarkGrey:
		return 48, 98, 48, 255
	default: // Black
		return 15, 56, 15, 255
	}
}

// Host is the capability set consumed by the PPU, Joypad, and Serial
// peripherals. The emulator never retains a Host reference across
// Step calls; a single value supplied at construction is enough.
type Host interface {
	// IsJoypadPressed reports whether the given button is currently held.
	IsJoypadPressed(b Button) bool
	// PutPixel delivers one rendered pixel; line in [0,143], x in [0,159].
	PutPixel(line, x int, color Color)
	// SerialCallback hands the outbound serial byte to the host and
	// receives the byte to shift in.
	SerialCallback(out byte) (in byte)
}
