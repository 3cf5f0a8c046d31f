package fbdev

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/accel-robotics/vexkit/internal/screen"
)

// Font point sizes chosen to approximate the 10x20 and 20x32 cell models on
// the logical canvas.
const (
	mediumFontSize = 16
	largeFontSize  = 28
)

// CanvasDevice implements the screen primitives on an offscreen image.RGBA
// canvas. It is the drawing core shared by the framebuffer backend and the
// headless simulator.
type CanvasDevice struct {
	mu     sync.Mutex
	canvas *image.RGBA
	pen    screen.Color
	eraser screen.Color

	faceMedium font.Face
	faceLarge  font.Face

	touchX, touchY int
	onPress        func()
	onRelease      func()
}

func NewCanvasDevice() *CanvasDevice {
	return &CanvasDevice{
		canvas:     image.NewRGBA(image.Rect(0, 0, screen.Width, screen.Height)),
		pen:        0xffffff,
		faceMedium: basicfont.Face7x13,
		faceLarge:  basicfont.Face7x13,
	}
}

// LoadFont installs a TTF for both font presets. Parse failures keep the
// basicfont fallback and are returned for logging.
func (c *CanvasDevice) LoadFont(ttf []byte) error {
	fnt, err := truetype.Parse(ttf)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faceMedium = truetype.NewFace(fnt, &truetype.Options{Size: mediumFontSize})
	c.faceLarge = truetype.NewFace(fnt, &truetype.Options{Size: largeFontSize})
	return nil
}

func (c *CanvasDevice) SetPen(col screen.Color) {
	c.mu.Lock()
	c.pen = col
	c.mu.Unlock()
}

func (c *CanvasDevice) SetEraser(col screen.Color) {
	c.mu.Lock()
	c.eraser = col
	c.mu.Unlock()
}

func (c *CanvasDevice) Eraser() screen.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eraser
}

func (c *CanvasDevice) EraseRect(x1, y1, x2, y2 int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Inclusive coordinates.
	rect := image.Rect(x1, y1, x2+1, y2+1).Intersect(c.canvas.Bounds())
	draw.Draw(c.canvas, rect, &image.Uniform{C: rgba(c.eraser)}, image.Point{}, draw.Src)
}

func (c *CanvasDevice) EraseCircle(x, y, radius int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col := rgba(c.eraser)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				c.set(x+dx, y+dy, col)
			}
		}
	}
}

// DrawLine draws with integer Bresenham stepping.
func (c *CanvasDevice) DrawLine(x1, y1, x2, y2 int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col := rgba(c.pen)

	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func (c *CanvasDevice) DrawPixel(x, y int) {
	c.mu.Lock()
	c.set(x, y, rgba(c.pen))
	c.mu.Unlock()
}

// DrawText renders text with its top-left corner at (x,y).
func (c *CanvasDevice) DrawText(size screen.FontSize, x, y int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	face := c.faceMedium
	if size == screen.FontLarge {
		face = c.faceLarge
	}
	drawer := &font.Drawer{
		Dst:  c.canvas,
		Src:  &image.Uniform{C: rgba(c.pen)},
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	drawer.Dot = fixed.P(x, y+ascent)
	drawer.DrawString(text)
}

func (c *CanvasDevice) TouchStatus() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touchX, c.touchY
}

func (c *CanvasDevice) OnTouch(kind screen.TouchKind, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case screen.TouchPressed:
		c.onPress = fn
	case screen.TouchReleased:
		c.onRelease = fn
	}
}

// ReportTouch records the coordinate and fires the handler for the
// transition. Called by the evdev reader and by the simulator script.
func (c *CanvasDevice) ReportTouch(kind screen.TouchKind, x, y int) {
	c.mu.Lock()
	c.touchX, c.touchY = x, y
	var fn func()
	switch kind {
	case screen.TouchPressed:
		fn = c.onPress
	case screen.TouchReleased:
		fn = c.onRelease
	}
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Snapshot returns a copy of the current canvas.
func (c *CanvasDevice) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := image.NewRGBA(c.canvas.Bounds())
	copy(out.Pix, c.canvas.Pix)
	return out
}

func (c *CanvasDevice) set(x, y int, col color.RGBA) {
	if x < 0 || x >= screen.Width || y < 0 || y >= screen.Height {
		return
	}
	c.canvas.SetRGBA(x, y, col)
}

func rgba(c screen.Color) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xFF}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
