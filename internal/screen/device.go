package screen

// Color is a 24-bit RGB color in 0xRRGGBB form.
type Color uint32

// NoColor is the sentinel for "keep the current background" in draw calls
// that take an optional background.
const NoColor Color = 0xffffffff

func (c Color) r() uint8 { return uint8(c >> 16) }
func (c Color) g() uint8 { return uint8(c >> 8) }
func (c Color) b() uint8 { return uint8(c) }

// FontSize selects one of the two monospace presets. The emphasized preset
// is roughly double the cell width and 1.6x the cell height.
type FontSize int

const (
	FontMedium FontSize = iota
	FontLarge
)

// TouchKind distinguishes the two touch transitions a device reports.
type TouchKind int

const (
	TouchPressed TouchKind = iota
	TouchReleased
)

// Logical screen geometry and the monospace cell model for the medium font.
const (
	Width  = 480
	Height = 240

	fontW   = 10
	fontH   = 20
	offsetX = 0
	offsetY = 2
)

// Device is the narrow screen primitive capability the display draws
// through. Implementations exist for the Linux framebuffer (internal/fbdev)
// and for an in-memory canvas used by the simulator and tests.
type Device interface {
	// SetPen sets the color used by the draw calls.
	SetPen(c Color)
	// SetEraser sets the color used by the erase calls.
	SetEraser(c Color)
	// Eraser returns the current eraser color.
	Eraser() Color

	// EraseRect fills the inclusive rectangle with the eraser color.
	EraseRect(x1, y1, x2, y2 int)
	// EraseCircle fills the circle at (x,y) with the eraser color.
	EraseCircle(x, y, radius int)

	DrawLine(x1, y1, x2, y2 int)
	DrawPixel(x, y int)
	DrawText(size FontSize, x, y int, text string)

	// TouchStatus returns the last reported touch coordinate.
	TouchStatus() (x, y int)
	// OnTouch registers fn for a touch transition. The display registers
	// bound closures here so the device never needs to know its owner.
	OnTouch(kind TouchKind, fn func())
}
