package ppu

// fetchColumn points f at the map column (mapY, tileX) and decodes it into
// q, the shared refill step both scanline renderers below run whenever
// their queue runs dry mid-line.
func fetchColumn(f *tileFetcher, mapBase uint16, tileData8000 bool, mapY, tileX uint16, fineY byte) {
	f.Configure(mapBase, tileData8000, mapBase+mapY*32+tileX, fineY)
	f.Fetch()
}

// renderBackgroundLine renders 160 BG color indices for scanline ly, given
// the active tile map base, addressing mode, and scroll registers.
func renderBackgroundLine(mem VRAMReader, mapBase uint16, tileData8000 bool, scx, scy, ly byte) [160]byte {
	var out [160]byte

	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapY := (bgY >> 3) & 31

	startX := uint16(scx)
	tileX := (startX >> 3) & 31
	fineX := int(startX & 7)

	var q pixelQueue
	f := newTileFetcher(mem, &q)
	fetchColumn(f, mapBase, tileData8000, mapY, tileX, fineY)

	// Discard the partial tile's leading pixels the scroll offset hides.
	for i := 0; i < fineX; i++ {
		_, _ = q.Pop()
	}

	for x := 0; x < 160; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			fetchColumn(f, mapBase, tileData8000, mapY, tileX, fineY)
		}
		px, _ := q.Pop()
		out[x] = px
	}
	return out
}

// renderWindowLine renders the window layer for one scanline, writing
// color indices from wxStart (WX-7) onward; winLine is the window's own
// line counter, not LY. Pixels left of wxStart stay 0 so the caller can
// blend them against the BG layer underneath.
func renderWindowLine(mem VRAMReader, mapBase uint16, tileData8000 bool, wxStart int, winLine byte) [160]byte {
	var out [160]byte
	if wxStart >= 160 {
		return out
	}
	if wxStart < 0 {
		wxStart = 0
	}

	mapY := (uint16(winLine) >> 3) & 31
	fineY := winLine & 7
	tileX := uint16(0)

	var q pixelQueue
	f := newTileFetcher(mem, &q)
	fetchColumn(f, mapBase, tileData8000, mapY, tileX, fineY)

	for x := wxStart; x < 160; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			fetchColumn(f, mapBase, tileData8000, mapY, tileX, fineY)
		}
		px, _ := q.Pop()
		out[x] = px
	}
	return out
}
