package ppu

import "sort"

// Sprite is one OAM entry already resolved to on-screen coordinates: X
// and Y are the sprite's top-left screen position (OAM's raw -8/-16
// offsets have already been applied by the caller), Tile is the raw
// 0x8000-unsigned tile index from OAM (for 8x16 sprites this is the
// unmasked index; the top/bottom half is selected per-row), Height is
// 8 or 16 per LCDC bit 2, and Attr is the raw OAM attribute byte (bit7
// BG-over-OBJ priority, bit6 Y-flip, bit5 X-flip, bit4 palette on DMG).
type Sprite struct {
	X, Y     int
	Tile     byte
	Height   int
	Attr     byte
	OAMIndex int
}

const (
	spriteAttrPriority = 1 << 7
	spriteAttrYFlip    = 1 << 6
	spriteAttrXFlip    = 1 << 5
)

// ComposeSpriteLine overlays up to the given sprites onto bgci, the
// already-rendered background+window color-index line for ly, and
// returns the resulting 160-wide sprite color-index line (0 where no
// sprite contributes). A zero Sprite.Height is treated as 8 so callers
// built before 8x16 support still compose correctly; cgb is accepted
// for a future tile-bank/OBJ-palette extension and is unused on DMG.
func ComposeSpriteLine(mem VRAMReader, sprites []Sprite, ly byte, bgci [160]byte, cgb bool) [160]byte {
	_ = cgb
	var out [160]byte

	ordered := make([]Sprite, len(sprites))
	copy(ordered, sprites)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].X != ordered[j].X {
			return ordered[i].X < ordered[j].X
		}
		return ordered[i].OAMIndex < ordered[j].OAMIndex
	})

	resolved := make([]bool, 160)
	for _, s := range ordered {
		height := s.Height
		if height == 0 {
			height = 8
		}
		row := int(ly) - s.Y
		if row < 0 || row >= height {
			continue
		}
		if s.Attr&spriteAttrYFlip != 0 {
			row = height - 1 - row
		}
		tile := s.Tile
		if height == 16 {
			tile = (tile &^ 0x01) + byte(row/8)
			row %= 8
		}
		base := uint16(0x8000) + uint16(tile)*16 + uint16(row)*2
		lo := mem.Read(base)
		hi := mem.Read(base + 1)
		for col := 0; col < 8; col++ {
			x := s.X + col
			if x < 0 || x >= 160 || resolved[x] {
				continue
			}
			srcCol := col
			if s.Attr&spriteAttrXFlip != 0 {
				srcCol = 7 - col
			}
			bit := byte(7 - srcCol)
			ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
			resolved[x] = true
			if ci == 0 {
				continue
			}
			if s.Attr&spriteAttrPriority != 0 && bgci[x] != 0 {
				continue
			}
			out[x] = ci
		}
	}
	return out
}
