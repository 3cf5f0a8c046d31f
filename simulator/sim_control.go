package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/accel-robotics/vexkit/internal/controller"
)

// simPad is a scriptable button source: scenarios flip levels and the
// controller poll loop picks up the edges.
type simPad struct {
	mu     sync.Mutex
	levels map[controller.Button]bool
}

func newSimPad() *simPad {
	return &simPad{levels: make(map[controller.Button]bool)}
}

func (p *simPad) set(b controller.Button, pressed bool) {
	p.mu.Lock()
	p.levels[b] = pressed
	p.mu.Unlock()
}

func (p *simPad) ReadDigital(b controller.Button) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.levels[b]
}

// consoleLink prints the pad traffic the queue would send over the slow
// serial link.
type consoleLink struct{}

func (consoleLink) EraseDisplay()             { fmt.Println("pad: erase display") }
func (consoleLink) SendRumble(pattern string) { fmt.Printf("pad: rumble %q\n", pattern) }
func (consoleLink) SendText(row, col int, msg string) {
	fmt.Printf("pad: text %d,%d %q\n", row, col, msg)
}

// seedStorage builds the in-memory SD card: a valid indexed logo plus a
// truncated file for the error scenario.
func seedStorage() afero.Fs {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "logo.bin", buildLogo(64, 32), 0o644)
	_ = afero.WriteFile(fs, "truncated.bin", []byte{0, 64, 0, 32, 0xff}, 0o644)
	return fs
}

// buildLogo generates a w x h indexed bitmap: 2-byte big-endian width and
// height, a 256-entry RGBA palette, then row-major palette indices. Entry 0
// is transparent, entry 1 opaque white, entry 2 opaque blue; the image is a
// blue field with a white border.
func buildLogo(w, h int) []byte {
	buf := make([]byte, 0, 4+256*4+w*h)
	buf = append(buf, byte(w>>8), byte(w), byte(h>>8), byte(h))

	palette := make([]byte, 256*4)
	copy(palette[4:], []byte{0xff, 0xff, 0xff, 0xff}) // 1: white
	copy(palette[8:], []byte{0x20, 0x40, 0xa0, 0xff}) // 2: blue
	buf = append(buf, palette...)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x == 0 || y == 0 || x == w-1 || y == h-1:
				buf = append(buf, 1)
			default:
				buf = append(buf, 2)
			}
		}
	}
	return buf
}

func savePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
