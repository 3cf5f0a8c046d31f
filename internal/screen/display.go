package screen

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/accel-robotics/vexkit/internal/logging"
)

// Display owns the onboard touch screen: text and line drawing through the
// device primitives, the widget registry, and touch dispatch. One Display
// is constructed per screen and lives for the process lifetime; widgets are
// registered at construction and never removed.
type Display struct {
	Logger logging.Logger

	dev     Device
	storage afero.Fs

	mu        sync.Mutex
	onPress   func() bool
	onRelease func() bool
	widgets   []*Button
}

// New wires a Display to its device and registers the touch handlers as
// closures bound to this instance.
func New(dev Device) *Display {
	d := &Display{
		Logger: logging.NoopLogger{},
		dev:    dev,
	}
	dev.OnTouch(TouchPressed, d.touchPressed)
	dev.OnTouch(TouchReleased, d.touchReleased)
	return d
}

// SetStorage attaches the storage medium used by DrawImage. A nil medium
// is reported as absent.
func (d *Display) SetStorage(fs afero.Fs) {
	d.storage = fs
}

// Init paints the initial screen: black background, white pen, and a draw
// of every registered widget.
func (d *Display) Init() {
	d.ClearScreen(0x000000)
	d.dev.SetPen(0xffffff)
	for _, w := range d.snapshotWidgets() {
		w.Draw()
	}
}

// ClearScreen fills the whole screen with color.
func (d *Display) ClearScreen(color Color) {
	d.dev.SetEraser(color)
	d.dev.EraseRect(0, 0, Width-1, Height-1)
}

// Print renders formatted text at a row/column cell position using the
// medium font. Fractional rows and columns are allowed for fine placement.
func (d *Display) Print(row, col float64, color Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	x := int(col*fontW) + offsetX
	y := int(row*fontH) + offsetY
	d.dev.SetPen(color)
	d.dev.DrawText(FontMedium, x, y, msg)
}

// PrintLarge renders formatted text with the emphasized font. The cell
// model doubles in width and grows 1.6x in height.
func (d *Display) PrintLarge(row, col float64, color Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	x := int(col*fontW*2) + offsetX
	y := int(row*fontH*1.6) + offsetY
	d.dev.SetPen(color)
	d.dev.DrawText(FontLarge, x, y, msg)
}

// DrawLine draws a line. NoColor keeps the current pen.
func (d *Display) DrawLine(x1, y1, x2, y2 int, color Color) {
	if color != NoColor {
		d.dev.SetPen(color)
	}
	d.dev.DrawLine(x1, y1, x2, y2)
}

// OnPress registers the whole-screen press pre-filter. Returning false
// suppresses widget dispatch for that touch event.
func (d *Display) OnPress(fn func() bool) {
	d.mu.Lock()
	d.onPress = fn
	d.mu.Unlock()
}

// OnRelease registers the whole-screen release pre-filter.
func (d *Display) OnRelease(fn func() bool) {
	d.mu.Lock()
	d.onRelease = fn
	d.mu.Unlock()
}

func (d *Display) register(b *Button) {
	d.mu.Lock()
	d.widgets = append(d.widgets, b)
	d.mu.Unlock()
}

func (d *Display) snapshotWidgets() []*Button {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Button, len(d.widgets))
	copy(out, d.widgets)
	return out
}

func (d *Display) touchPressed() {
	d.mu.Lock()
	filter := d.onPress
	d.mu.Unlock()
	if filter != nil && !filter() {
		return
	}

	x, y := d.dev.TouchStatus()
	for _, w := range d.snapshotWidgets() {
		if w.Contains(x, y) {
			if cb := w.pressHandler(); cb != nil {
				cb()
			}
			return
		}
	}
}

func (d *Display) touchReleased() {
	d.mu.Lock()
	filter := d.onRelease
	d.mu.Unlock()
	if filter != nil && !filter() {
		return
	}

	x, y := d.dev.TouchStatus()
	for _, w := range d.snapshotWidgets() {
		if w.Contains(x, y) {
			if cb := w.releaseHandler(); cb != nil {
				cb()
			}
			return
		}
	}
}
