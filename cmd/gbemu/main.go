// Command gbemu is a minimal interactive front end: it reads a ROM,
// opens an ebiten window, and drives the emulator core one frame per
// tick, feeding it keyboard input and drawing its pixel output.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/adtennant/gb/internal/cart"
	"github.com/adtennant/gb/internal/emu"
	"github.com/adtennant/gb/internal/host"
)

// window wires an ebiten game loop to the emulator core through the
// host.Host interface: it answers input queries, accumulates pixels
// into an RGBA framebuffer, and ignores serial (no link cable here).
type window struct {
	emu *emu.Emulator
	fb  []byte // 160*144*4 RGBA, written by PutPixel
	tex *ebiten.Image
}

var keyBindings = map[host.Button]ebiten.Key{
	host.Right:  ebiten.KeyRight,
	host.Left:   ebiten.KeyLeft,
	host.Up:     ebiten.KeyUp,
	host.Down:   ebiten.KeyDown,
	host.A:      ebiten.KeyZ,
	host.B:      ebiten.KeyX,
	host.Start:  ebiten.KeyEnter,
	host.Select: ebiten.KeyShiftRight,
}

func newWindow() *window {
	return &window{fb: make([]byte, emu.ScreenWidth*emu.ScreenHeight*4)}
}

func (w *window) IsJoypadPressed(b host.Button) bool {
	return ebiten.IsKeyPressed(keyBindings[b])
}

func (w *window) PutPixel(line, x int, c host.Color) {
	r, g, b, a := c.RGBA()
	i := (line*emu.ScreenWidth + x) * 4
	w.fb[i+0], w.fb[i+1], w.fb[i+2], w.fb[i+3] = r, g, b, a
}

// SerialCallback has nothing attached to the link port; the cartridge
// reads back an idle high line.
func (w *window) SerialCallback(out byte) byte { return 0xFF }

func (w *window) Update() error {
	w.emu.StepFrame()
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	if w.tex == nil {
		w.tex = ebiten.NewImage(emu.ScreenWidth, emu.ScreenHeight)
	}
	w.tex.WritePixels(w.fb)
	screen.DrawImage(w.tex, nil)
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return emu.ScreenWidth, emu.ScreenHeight
}

func newRootCmd() *cobra.Command {
	var (
		romPath string
		scale   int
		title   string
	)

	cmd := &cobra.Command{
		Use:   "gbemu",
		Short: "Play a Game Boy ROM",
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("read ROM: %w", err)
			}

			if h, err := cart.ParseHeader(rom); err == nil {
				log.Printf("ROM: %q type=%s banks=%d ram=%dB logo=%t checksum=%t",
					h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes, h.LogoValid, h.ChecksumValid)
			}

			w := newWindow()
			e, err := emu.Construct(rom, w)
			if err != nil {
				return fmt.Errorf("construct emulator: %w", err)
			}
			w.emu = e

			ebiten.SetWindowTitle(title)
			ebiten.SetWindowSize(emu.ScreenWidth*scale, emu.ScreenHeight*scale)
			return ebiten.RunGame(w)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&romPath, "rom", "", "path to ROM (.gb)")
	flags.IntVar(&scale, "scale", 3, "window scale")
	flags.StringVar(&title, "title", "gbemu", "window title")
	cmd.MarkFlagRequired("rom")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
