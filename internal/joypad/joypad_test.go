package joypad

import (
	"testing"

	"github.com/adtennant/gb/internal/host"
	"github.com/adtennant/gb/internal/interrupt"
)

type fakeHost struct {
	pressed map[host.Button]bool
}

func (f *fakeHost) IsJoypadPressed(b host.Button) bool { return f.pressed[b] }
func (f *fakeHost) PutPixel(line, x int, c host.Color)  {}
func (f *fakeHost) SerialCallback(out byte) byte        { return 0xFF }

func TestDPadSelectionReflectsPressedState(t *testing.T) {
	h := &fakeHost{pressed: map[host.Button]bool{host.Right: true}}
	p := New()
	p.WriteJOYP(0x20) // select D-pad (bit4=0), buttons deselected (bit5=1)
	v := p.ReadJOYP(h)
	if v&0x01 != 0 {
		t.Fatalf("expected Right bit low (pressed), got JOYP=%#x", v)
	}
	if v&0x02 == 0 {
		t.Fatalf("expected Left bit high (not pressed), got JOYP=%#x", v)
	}
}

func TestBothRowsSelectedANDsTogether(t *testing.T) {
	h := &fakeHost{pressed: map[host.Button]bool{host.Right: true}}
	p := New()
	p.WriteJOYP(0x00) // both rows selected
	v := p.ReadJOYP(h)
	if v&0x01 != 0 {
		t.Fatalf("expected bit0 low from D-pad Right even with both rows selected, got %#x", v)
	}
}

func TestHighToLowTransitionRaisesInterrupt(t *testing.T) {
	h := &fakeHost{pressed: map[host.Button]bool{}}
	p := New()
	p.WriteJOYP(0x20) // select D-pad
	if req := p.TickMCycle(h); req != 0 {
		t.Fatalf("expected no interrupt with nothing pressed, got %#x", req)
	}
	h.pressed[host.Down] = true
	if req := p.TickMCycle(h); req&interrupt.Joypad == 0 {
		t.Fatalf("expected Joypad interrupt on press edge")
	}
	if req := p.TickMCycle(h); req != 0 {
		t.Fatalf("expected no further interrupt while held, got %#x", req)
	}
}
