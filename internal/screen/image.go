package screen

import "io"

// Anchor sentinels for image placement. A non-negative coordinate is an
// absolute offset, Center centers on that axis, and a negative value is an
// offset from the far edge.
const (
	AnchorLeft   = 0
	AnchorTop    = 0
	AnchorRight  = -1
	AnchorBottom = -1
	Center       = 65535
)

const (
	imageChunkSize = 2048
	paletteEntries = 256
	paletteBytes   = paletteEntries * 4
	imageHeader    = 4 + paletteBytes
)

// DrawImage blits an indexed bitmap from the storage medium: a 2-byte
// big-endian width, 2-byte big-endian height, a 256-entry RGBA palette,
// then row-major palette indices. Palette alpha is blended once per entry
// against bgcolor; entries with alpha zero are skipped entirely. Failures
// are reported on screen and never returned to the caller.
func (d *Display) DrawImage(path string, x, y int, bgcolor Color) {
	const errColor = Color(0xff0000)

	if d.storage == nil {
		d.Print(11, 0, errColor, "SD Card not found!")
		return
	}

	f, err := d.storage.Open(path)
	if err != nil {
		d.Logger.Errorf("screen", "image open %s: %v", path, err)
		d.Print(11, 0, errColor, "File not found!")
		return
	}
	defer f.Close()

	buf := make([]byte, imageChunkSize)
	n, _ := io.ReadFull(f, buf)
	if n < imageHeader {
		d.Logger.Errorf("screen", "image %s: short read %d", path, n)
		d.Print(11, 0, errColor, "Invalid image file!")
		return
	}
	w := int(buf[0])<<8 | int(buf[1])
	h := int(buf[2])<<8 | int(buf[3])

	x0 := resolveAnchor(x, w, Width)
	y0 := resolveAnchor(y, h, Height)

	// Fill behind the image unless the caller keeps the current background.
	oldEraser := d.dev.Eraser()
	if bgcolor != NoColor {
		d.dev.SetEraser(bgcolor)
		d.dev.EraseRect(x0, y0, x0+w-1, y0+h-1)
		d.dev.SetEraser(oldEraser)
	} else {
		bgcolor = oldEraser
	}

	// Pre-blend each palette entry against the background once; a single
	// blended color then serves every pixel referencing the entry.
	var palette [paletteEntries]Color
	var alpha [paletteEntries]uint8
	for i := 0; i < paletteEntries; i++ {
		entry := buf[4+i*4 : 4+i*4+4]
		a := entry[3]
		alpha[i] = a
		r, g, b := entry[0], entry[1], entry[2]
		if a != 255 {
			r = blend(r, bgcolor.r(), a)
			g = blend(g, bgcolor.g(), a)
			b = blend(b, bgcolor.b(), a)
		}
		palette[i] = Color(r)<<16 | Color(g)<<8 | Color(b)
	}

	// Pixel indices are consumed linearly across chunk boundaries; no row
	// alignment is assumed.
	col, row := 0, 0
	start := imageHeader
	for row < h {
		for i := start; i < n && row < h; i++ {
			index := buf[i]
			if alpha[index] != 0 {
				d.dev.SetPen(palette[index])
				d.dev.DrawPixel(col+x0, row+y0)
			}
			col++
			if col >= w {
				col = 0
				row++
			}
		}
		if row >= h {
			break
		}
		start = 0
		n, _ = f.Read(buf)
		if n <= 0 {
			break
		}
	}
}

func blend(src, bg, a uint8) uint8 {
	return uint8((int(src)*int(a) + int(bg)*(255-int(a))) / 255)
}

func resolveAnchor(v, size, span int) int {
	switch {
	case v == Center:
		return (span - size) / 2
	case v >= 0:
		return v
	default:
		return span + v - size
	}
}
