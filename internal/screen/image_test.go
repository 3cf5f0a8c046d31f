package screen

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// buildImage assembles the indexed bitmap format: big-endian width and
// height, 256 RGBA palette entries, then row-major palette indices.
func buildImage(w, h int, palette map[byte][4]byte, pixels []byte) []byte {
	data := make([]byte, 4+paletteBytes, 4+paletteBytes+len(pixels))
	data[0] = byte(w >> 8)
	data[1] = byte(w)
	data[2] = byte(h >> 8)
	data[3] = byte(h)
	for idx, entry := range palette {
		copy(data[4+int(idx)*4:], entry[:])
	}
	return append(data, pixels...)
}

func newImageDisplay(t *testing.T, path string, data []byte) (*Display, *mockDevice) {
	t.Helper()
	dev := newMockDevice()
	d := New(dev)
	fs := afero.NewMemMapFs()
	if data != nil {
		if err := afero.WriteFile(fs, path, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	d.SetStorage(fs)
	return d, dev
}

func hasErrorText(dev *mockDevice, msg string) bool {
	for _, op := range dev.ops {
		if strings.HasPrefix(op, "text:") && strings.HasSuffix(op, msg) {
			return true
		}
	}
	return false
}

func TestDrawImageOpaquePaletteIgnoresBackground(t *testing.T) {
	// Entry 0 is pure red at full alpha; the magenta background must not
	// bleed into it. Entry 1 is fully transparent.
	data := buildImage(2, 2, map[byte][4]byte{
		0: {255, 0, 0, 255},
		1: {0, 255, 0, 0},
	}, []byte{0, 1, 1, 1})
	d, dev := newImageDisplay(t, "logo.img", data)

	d.DrawImage("logo.img", 5, 6, 0xff00ff)

	if got, ok := dev.pixels[[2]int{5, 6}]; !ok || got != 0xff0000 {
		t.Fatalf("pixel (5,6) = %06x (present=%v), want ff0000", uint32(got), ok)
	}
	// Transparent entries leave the underlying background untouched.
	for _, p := range [][2]int{{6, 6}, {5, 7}, {6, 7}} {
		if _, ok := dev.pixels[p]; ok {
			t.Errorf("transparent pixel %v was drawn", p)
		}
	}
}

func TestDrawImagePreBlendsPaletteOnce(t *testing.T) {
	// Half-alpha red over a pure blue background:
	// r = 255*128/255 = 128, g = 0, b = 0 + 255*127/255 = 127.
	data := buildImage(1, 1, map[byte][4]byte{
		0: {255, 0, 0, 128},
	}, []byte{0})
	d, dev := newImageDisplay(t, "img", data)

	d.DrawImage("img", 0, 0, 0x0000ff)

	want := Color(0x80007f)
	if got := dev.pixels[[2]int{0, 0}]; got != want {
		t.Fatalf("blended pixel = %06x, want %06x", uint32(got), uint32(want))
	}
}

func TestDrawImageFillsBackgroundRect(t *testing.T) {
	data := buildImage(2, 2, map[byte][4]byte{0: {1, 2, 3, 255}}, []byte{0, 0, 0, 0})
	d, dev := newImageDisplay(t, "img", data)

	d.DrawImage("img", 10, 20, 0xff00ff)

	found := false
	for _, op := range dev.ops {
		if op == "rect:10,20,11,21:ff00ff" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected background erase rect, got %v", dev.ops)
	}
	if dev.eraser != 0 {
		t.Errorf("eraser not restored, got %06x", uint32(dev.eraser))
	}
}

func TestDrawImageNoColorKeepsBackground(t *testing.T) {
	data := buildImage(1, 1, map[byte][4]byte{0: {255, 0, 0, 128}}, []byte{0})
	d, dev := newImageDisplay(t, "img", data)

	// With NoColor the current eraser is the blend background.
	dev.eraser = 0x0000ff
	d.DrawImage("img", 0, 0, NoColor)

	for _, op := range dev.ops {
		if strings.HasPrefix(op, "rect:") {
			t.Fatalf("expected no background fill for NoColor, got %v", dev.ops)
		}
	}
	if got := dev.pixels[[2]int{0, 0}]; got != 0x80007f {
		t.Fatalf("blend background should be the current eraser, pixel = %06x", uint32(got))
	}
}

func TestDrawImageAnchors(t *testing.T) {
	data := buildImage(2, 2, map[byte][4]byte{0: {9, 9, 9, 255}}, []byte{0, 0, 0, 0})

	tests := []struct {
		name   string
		x, y   int
		wantX  int
		wantY  int
	}{
		{"centered", Center, Center, (Width - 2) / 2, (Height - 2) / 2},
		{"absolute", 7, 9, 7, 9},
		{"from far edge", -10, -10, Width - 10 - 2, Height - 10 - 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, dev := newImageDisplay(t, "img", data)
			d.DrawImage("img", tc.x, tc.y, NoColor)
			if _, ok := dev.pixels[[2]int{tc.wantX, tc.wantY}]; !ok {
				t.Errorf("expected top-left pixel at (%d,%d); drawn: %v", tc.wantX, tc.wantY, dev.pixels)
			}
		})
	}
}

func TestDrawImagePixelsCrossChunkBoundaries(t *testing.T) {
	// 45x50 pixels: the first 2048-byte chunk carries 1020 indices, which
	// is not a whole number of 45-pixel rows, so later chunks start
	// mid-row.
	const w, h = 45, 50
	pixels := make([]byte, w*h)
	data := buildImage(w, h, map[byte][4]byte{0: {10, 20, 30, 255}}, pixels)
	d, dev := newImageDisplay(t, "img", data)

	d.DrawImage("img", 0, 0, NoColor)

	if len(dev.pixels) != w*h {
		t.Fatalf("expected %d pixels drawn, got %d", w*h, len(dev.pixels))
	}
	if _, ok := dev.pixels[[2]int{w - 1, h - 1}]; !ok {
		t.Error("expected bottom-right pixel to be drawn")
	}
	if _, ok := dev.pixels[[2]int{w, h}]; ok {
		t.Error("pixel outside image bounds was drawn")
	}
}

func TestDrawImageTruncatedPixelDataStopsQuietly(t *testing.T) {
	// Header and palette are complete but only two of four pixels exist.
	data := buildImage(2, 2, map[byte][4]byte{0: {9, 9, 9, 255}}, []byte{0, 0})
	d, dev := newImageDisplay(t, "img", data)

	d.DrawImage("img", 0, 0, NoColor)

	if len(dev.pixels) != 2 {
		t.Fatalf("expected 2 pixels drawn, got %d", len(dev.pixels))
	}
	for _, msg := range []string{"SD Card not found!", "File not found!", "Invalid image file!"} {
		if hasErrorText(dev, msg) {
			t.Errorf("unexpected error message %q", msg)
		}
	}
}

func TestDrawImageMissingMedium(t *testing.T) {
	dev := newMockDevice()
	d := New(dev)

	d.DrawImage("img", 0, 0, NoColor)
	if !hasErrorText(dev, "SD Card not found!") {
		t.Fatalf("expected on-screen medium error, got %v", dev.ops)
	}
}

func TestDrawImageMissingFile(t *testing.T) {
	d, dev := newImageDisplay(t, "other.img", buildImage(1, 1, nil, []byte{0}))

	d.DrawImage("nope.img", 0, 0, NoColor)
	if !hasErrorText(dev, "File not found!") {
		t.Fatalf("expected on-screen file error, got %v", dev.ops)
	}
	if len(dev.pixels) != 0 {
		t.Error("no pixels may be drawn on error")
	}
}

func TestDrawImageShortFile(t *testing.T) {
	d, dev := newImageDisplay(t, "img", make([]byte, 100))

	d.DrawImage("img", 0, 0, NoColor)
	if !hasErrorText(dev, "Invalid image file!") {
		t.Fatalf("expected on-screen format error, got %v", dev.ops)
	}
	if len(dev.pixels) != 0 {
		t.Error("no pixels may be drawn on error")
	}
}

func TestDrawQR(t *testing.T) {
	dev := newMockDevice()
	d := New(dev)

	if err := d.DrawQR("https://example.org/diag", 0, 0, 64); err != nil {
		t.Fatal(err)
	}
	if len(dev.pixels) == 0 {
		t.Fatal("expected dark modules to be drawn")
	}
	found := false
	for _, op := range dev.ops {
		if strings.HasPrefix(op, "rect:") {
			found = true
		}
	}
	if !found {
		t.Error("expected quiet-zone background rect")
	}
}

func TestDrawQREmptyPayload(t *testing.T) {
	dev := newMockDevice()
	d := New(dev)

	if err := d.DrawQR("", 0, 0, 64); err != nil {
		t.Fatal(err)
	}
	if len(dev.ops) != 0 || len(dev.pixels) != 0 {
		t.Fatal("empty payload must draw nothing")
	}
}
