// Package ppu models the DMG picture processing unit: VRAM/OAM storage,
// the LCDC/STAT/scroll/palette registers, the four-mode scanline state
// machine, and the background/window/sprite scanline renderer.
package ppu

import (
	"github.com/adtennant/gb/internal/host"
	"github.com/adtennant/gb/internal/interrupt"
)

const (
	modeHBlank byte = 0
	modeVBlank byte = 1
	modeOAM    byte = 2
	modeVRAM   byte = 3

	dotsOAM      = 80
	dotsVRAM     = 172
	dotsLine     = dotsOAM + dotsVRAM + 204 // 456
	linesVisible = 144
	linesTotal   = 154
)

// PPU models VRAM/OAM, LCDC/STAT regs, LY/LYC, and scanline timing. It
// exposes CPU-facing CPURead/CPUWrite for VRAM/OAM/IO registers and a
// TickMCycle that advances four dots and renders completed scanlines.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte // FF40
	stat byte // FF41
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	dot        int // dot within the current line, 0..455
	windowLine int // internal window row counter; advances only on lines the window is drawn
}

// New constructs a PPU with all registers and memories zeroed, matching
// the console state before the cartridge's boot sequence programs LCDC.
func New() *PPU { return &PPU{} }

// Read implements VRAMReader so the scanline fetcher and sprite
// composer can pull tile data directly from live VRAM.
func (p *PPU) Read(addr uint16) byte { return p.vram[addr-0x8000] }

// CPURead returns bytes for VRAM, OAM, and PPU IO registers.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.stat&0x03 == modeVRAM {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.stat & 0x03; m == modeOAM || m == modeVRAM {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// DMATransfer overwrites all of OAM in one step, the way the DMA
// controller drives it: unlike a CPU write, it ignores the current PPU
// mode, since the real hardware path bypasses the OAM bus arbiter.
func (p *PPU) DMATransfer(data [0xA0]byte) { p.oam = data }

// CPUWrite handles writes to VRAM, OAM, and PPU IO registers.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.stat&0x03 != modeVRAM {
			p.vram[addr-0x8000] = value
		}
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.stat & 0x03; m != modeOAM && m != modeVRAM {
			p.oam[addr-0xFE00] = value
		}
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if p.lcdc&0x80 == 0 && prev&0x80 != 0 {
			p.ly, p.dot, p.windowLine = 0, 0, 0
			p.setMode(modeHBlank)
			p.updateLYC()
		} else if p.lcdc&0x80 != 0 && prev&0x80 == 0 {
			p.ly, p.dot, p.windowLine = 0, 0, 0
			p.setMode(modeOAM)
			p.updateLYC()
		}
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		p.ly, p.dot = 0, 0
		p.updateLYC()
		if p.lcdc&0x80 != 0 {
			p.setMode(modeOAM)
		}
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// TickMCycle advances the PPU by one m-cycle (four dots), rendering any
// scanline that completes its visible window along the way, and
// returns the OR of any interrupt bits the m-cycle raised.
func (p *PPU) TickMCycle(h host.Host) byte {
	var irq byte
	for i := 0; i < 4; i++ {
		irq |= p.tickDot(h)
	}
	return irq
}

func (p *PPU) tickDot(h host.Host) byte {
	if p.lcdc&0x80 == 0 {
		return 0
	}
	var irq byte
	p.dot++

	if p.ly < linesVisible {
		switch {
		case p.dot == dotsOAM:
			irq |= p.setMode(modeVRAM)
		case p.dot == dotsOAM+dotsVRAM:
			p.renderLine(h)
			irq |= p.setMode(modeHBlank)
		}
	}

	if p.dot >= dotsLine {
		p.dot = 0
		p.ly++
		switch {
		case p.ly == linesVisible:
			irq |= interrupt.VBlank
			irq |= p.setMode(modeVBlank)
		case p.ly >= linesTotal:
			p.ly = 0
			p.windowLine = 0
			irq |= p.setMode(modeOAM)
		case p.ly < linesVisible:
			irq |= p.setMode(modeOAM)
		}
		irq |= p.updateLYC()
	}
	return irq
}

func (p *PPU) setMode(mode byte) byte {
	if p.stat&0x03 == mode {
		return 0
	}
	p.stat = (p.stat &^ 0x03) | mode
	switch mode {
	case modeHBlank:
		if p.stat&(1<<3) != 0 {
			return interrupt.LCD
		}
	case modeOAM:
		if p.stat&(1<<5) != 0 {
			return interrupt.LCD
		}
	case modeVBlank:
		if p.stat&(1<<4) != 0 {
			return interrupt.LCD
		}
	}
	return 0
}

func (p *PPU) updateLYC() byte {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
		if p.stat&(1<<6) != 0 {
			return interrupt.LCD
		}
	} else {
		p.stat &^= 1 << 2
	}
	return 0
}

// renderLine composes the background, window, and sprite layers for
// the current LY and pushes all 160 pixels to the host.
func (p *PPU) renderLine(h host.Host) {
	if h == nil {
		return
	}

	var bgci [160]byte
	tileData8000 := p.lcdc&0x10 != 0
	if p.lcdc&0x01 != 0 {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		bgci = renderBackgroundLine(p, mapBase, tileData8000, p.scx, p.scy, p.ly)

		if p.lcdc&0x20 != 0 && p.wy <= p.ly && p.wx <= 166 {
			winMapBase := uint16(0x9800)
			if p.lcdc&0x40 != 0 {
				winMapBase = 0x9C00
			}
			wxStart := int(p.wx) - 7
			win := renderWindowLine(p, winMapBase, tileData8000, wxStart, byte(p.windowLine))
			start := wxStart
			if start < 0 {
				start = 0
			}
			for x := start; x < 160; x++ {
				bgci[x] = win[x]
			}
			p.windowLine++
		}
	}

	sprites := p.visibleSprites()
	var spriteLine [160]byte
	if p.lcdc&0x02 != 0 {
		spriteLine = ComposeSpriteLine(p, sprites, p.ly, bgci, false)
	}

	for x := 0; x < 160; x++ {
		ci := bgci[x]
		palette := p.bgp
		if spriteLine[x] != 0 {
			ci = spriteLine[x]
			palette = p.obp0
			if s, ok := spriteCovering(sprites, x); ok && s.Attr&0x10 != 0 {
				palette = p.obp1
			}
		}
		shade := (palette >> (ci * 2)) & 0x03
		h.PutPixel(int(p.ly), x, host.Color(shade))
	}
}

func spriteCovering(sprites []Sprite, x int) (Sprite, bool) {
	for _, s := range sprites {
		if x >= s.X && x < s.X+8 {
			return s, true
		}
	}
	return Sprite{}, false
}

// visibleSprites scans OAM for the up to ten sprites that intersect
// the current scanline, in OAM order, with screen-space coordinates.
func (p *PPU) visibleSprites() []Sprite {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	var out []Sprite
	for i := 0; i < 40 && len(out) < 10; i++ {
		base := i * 4
		rawY := p.oam[base]
		rawX := p.oam[base+1]
		tile := p.oam[base+2]
		attr := p.oam[base+3]

		y := int(rawY) - 16
		if int(p.ly) < y || int(p.ly) >= y+height {
			continue
		}
		out = append(out, Sprite{
			X:        int(rawX) - 8,
			Y:        y,
			Tile:     tile,
			Height:   height,
			Attr:     attr,
			OAMIndex: i,
		})
	}
	return out
}

// Expose palettes and scroll for renderer/debug convenience.
func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }
func (p *PPU) LY() byte   { return p.ly }
