// Command cpurunner drives a ROM headlessly and watches its serial
// output for a pass/fail banner, the way test ROM suites (Blargg,
// mooneye) report results over the link cable.
package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/adtennant/gb/internal/emu"
	"github.com/adtennant/gb/internal/host"
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// serialCapture is a headless host that records serial output and
// answers joypad/video queries with nothing held/drawn.
type serialCapture struct {
	out strings.Builder
}

func (h *serialCapture) IsJoypadPressed(b host.Button) bool { return false }
func (h *serialCapture) PutPixel(line, x int, c host.Color) {}
func (h *serialCapture) SerialCallback(out byte) byte {
	h.out.WriteByte(out)
	return 0xFF
}

var failRe = regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)

func newRootCmd() *cobra.Command {
	var (
		romPath string
		steps   int
		trace   bool
		until   string
		auto    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "cpurunner",
		Short: "Run a Game Boy ROM headlessly and watch serial output",
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("read rom: %w", err)
			}

			ser := &serialCapture{}
			e, err := emu.Construct(rom, ser)
			if err != nil {
				return fmt.Errorf("construct emulator: %w", err)
			}

			start := time.Now()
			var deadline time.Time
			if timeout > 0 {
				deadline = start.Add(timeout)
			}

			for i := 0; i < steps; i++ {
				func() {
					defer func() {
						if r := recover(); r != nil {
							fmt.Printf("%s\nfault: %v\nregisters: %s\n", failStyle.Render("FAULT"), r, spew.Sdump(e.Registers()))
							os.Exit(1)
						}
					}()
					e.Step()
				}()

				if trace {
					fmt.Printf("PC=%04X %s\n", e.PC(), spew.Sdump(e.Registers()))
				}

				s := ser.out.String()
				switch {
				case auto && strings.Contains(strings.ToLower(s), "passed"):
					fmt.Println(passStyle.Render("PASSED"))
					fmt.Printf("steps=%d elapsed=%s\n", i+1, time.Since(start).Truncate(time.Millisecond))
					return nil
				case auto && failRe.MatchString(s):
					m := failRe.FindString(s)
					fmt.Println(failStyle.Render("FAILED"), m)
					fmt.Printf("steps=%d elapsed=%s\n", i+1, time.Since(start).Truncate(time.Millisecond))
					os.Exit(1)
				case !auto && until != "" && strings.Contains(strings.ToLower(s), strings.ToLower(until)):
					fmt.Printf("detected %q in serial output\n", until)
					fmt.Printf("steps=%d elapsed=%s\n", i+1, time.Since(start).Truncate(time.Millisecond))
					return nil
				}

				if !deadline.IsZero() && time.Now().After(deadline) {
					fmt.Printf("timeout after %s\n", time.Since(start).Truncate(time.Millisecond))
					os.Exit(2)
				}
			}

			fmt.Printf("steps=%d elapsed=%s (no banner seen)\n", steps, time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&romPath, "rom", "", "path to ROM (.gb)")
	flags.IntVar(&steps, "steps", 5_000_000, "max CPU steps to run")
	flags.BoolVar(&trace, "trace", false, "print PC/registers per step")
	flags.StringVar(&until, "until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	flags.BoolVar(&auto, "auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1")
	flags.DurationVar(&timeout, "timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	cmd.MarkFlagRequired("rom")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
