package bus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adtennant/gb/internal/cart"
	"github.com/adtennant/gb/internal/host"
)

type stubHost struct {
	pressed map[host.Button]bool
	serial  func(out byte) byte
}

func newStubHost() *stubHost { return &stubHost{pressed: map[host.Button]bool{}} }

func (h *stubHost) IsJoypadPressed(b host.Button) bool { return h.pressed[b] }
func (h *stubHost) PutPixel(line, x int, c host.Color) {}
func (h *stubHost) SerialCallback(out byte) byte {
	if h.serial != nil {
		return h.serial(out)
	}
	return 0xFF
}

func newTestBus() *Bus {
	c, err := cart.NewCartridge(make([]byte, 0x8000))
	if err != nil {
		panic(err)
	}
	return New(c, newStubHost())
}

func TestROMAndRAM(t *testing.T) {
	b := newTestBus()

	b.WriteMCycle(0xC000, 0x99)
	require.Equal(t, byte(0x99), b.ReadMCycle(0xC000))

	// Echo RAM mirrors C000-DDFF
	b.WriteMCycle(0xE000, 0x55)
	require.Equal(t, byte(0x55), b.ReadMCycle(0xC000), "echo write did not mirror to WRAM")

	b.WriteMCycle(0xFF80, 0xAB)
	require.Equal(t, byte(0xAB), b.ReadMCycle(0xFF80))

	require.Equal(t, byte(0xFF), b.ReadMCycle(0xA123), "ext RAM (ROM-only)")
}

func TestVRAMOAMAndInterruptRegs(t *testing.T) {
	b := newTestBus()

	b.WriteMCycle(0x8000, 0x11)
	require.Equal(t, byte(0x11), b.ReadMCycle(0x8000))

	b.WriteMCycle(0xFE00, 0x22)
	require.Equal(t, byte(0x22), b.ReadMCycle(0xFE00))

	b.WriteMCycle(0xFF0F, 0x3F)
	require.Equal(t, byte(0xE0|0x1F), b.ReadMCycle(0xFF0F))

	b.WriteMCycle(0xFFFF, 0x1B)
	require.Equal(t, byte(0x1B), b.ReadMCycle(0xFFFF))
}

func TestJOYPReflectsHostInput(t *testing.T) {
	b := newTestBus()
	sh := b.host.(*stubHost)

	require.Equal(t, byte(0x0F), b.ReadMCycle(0xFF00)&0x0F, "JOYP default lower bits")

	b.WriteMCycle(0xFF00, 0x20) // select D-pad (P14=0)
	sh.pressed[host.Right] = true
	sh.pressed[host.Up] = true
	require.Equal(t, byte(0x0A), b.ReadMCycle(0xFF00)&0x0F, "JOYP D-pad")

	b.WriteMCycle(0xFF00, 0x10) // select buttons (P15=0)
	sh.pressed[host.A] = true
	sh.pressed[host.Start] = true
	require.Equal(t, byte(0x06), b.ReadMCycle(0xFF00)&0x0F, "JOYP buttons")
}

func TestTimerRegistersRoundTrip(t *testing.T) {
	b := newTestBus()

	b.WriteMCycle(0xFF04, 0x12) // any write resets DIV to 0
	require.Equal(t, byte(0x00), b.ReadMCycle(0xFF04))

	b.WriteMCycle(0xFF05, 0x77)
	require.Equal(t, byte(0x77), b.ReadMCycle(0xFF05))

	b.WriteMCycle(0xFF06, 0x88)
	require.Equal(t, byte(0x88), b.ReadMCycle(0xFF06))

	b.WriteMCycle(0xFF07, 0xFD)
	require.Equal(t, byte(0xF8|(0xFD&0x07)), b.ReadMCycle(0xFF07))
}

func TestSerialTransferUsesHostCallback(t *testing.T) {
	b := newTestBus()
	var got []byte
	sh := b.host.(*stubHost)
	sh.serial = func(out byte) byte {
		got = append(got, out)
		return 0x00
	}

	b.WriteMCycle(0xFF01, 0x41)
	b.WriteMCycle(0xFF02, 0x81) // start, internal clock
	b.TickMCycle()              // the transfer completes on the next m-cycle

	require.Equal(t, []byte{0x41}, got)
	require.Zero(t, b.ReadMCycle(0xFF02)&0x80, "serial control bit7 not cleared after transfer")
	require.Zero(t, b.ReadMCycle(0xFF0F)&(1<<3), "serial must never request an interrupt")
}

func TestOAMDMACopiesFromSource(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 0xA0; i++ {
		b.wram[0xD000-0xC000+i] = byte(i)
	}

	b.WriteMCycle(0xFF46, 0xD0) // source = 0xD000, copied in full immediately

	for i := 0; i < 0xA0; i++ {
		require.Equal(t, byte(i), b.ReadMCycle(0xFE00+uint16(i)), "OAM byte %d", i)
	}
}
