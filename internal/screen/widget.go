package screen

import (
	"strings"
	"sync"
)

// Button is a touchable rectangle with optionally rounded corners and
// centered multi-line text. Construction registers the button into its
// display's widget list; there is no removal.
type Button struct {
	display *Display
	dev     Device

	mu        sync.Mutex
	x1, y1    int
	x2, y2    int
	radius    int
	big       bool
	text      string
	color     Color
	bgcolor   Color
	onPress   func()
	onRelease func()
}

// NewButton creates a button covering the w x h rectangle at (x,y) and
// registers it with the display. The corner radius is clamped to at most
// half the smaller side and floored at zero.
func NewButton(d *Display, text string, color, bgcolor Color, x, y, w, h, radius int, big bool) *Button {
	switch {
	case radius < 0:
		radius = 0
	case radius > w/2 || radius > h/2:
		radius = min(w/2, h/2)
	}

	b := &Button{
		display: d,
		dev:     d.dev,
		x1:      x,
		y1:      y,
		x2:      x + w - 1,
		y2:      y + h - 1,
		radius:  radius,
		big:     big,
		text:    text,
		color:   color,
		bgcolor: bgcolor,
	}
	d.register(b)
	return b
}

// Draw erases the button rectangle with the background color and renders
// the text centered, then restores the previous eraser.
func (b *Button) Draw() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draw()
}

func (b *Button) draw() {
	oldEraser := b.dev.Eraser()
	b.dev.SetEraser(b.bgcolor)
	if b.radius > 1 {
		// Four quarter-circle corners plus two rectangles spanning the
		// straight edges.
		b.dev.EraseCircle(b.x1+b.radius, b.y1+b.radius, b.radius-1)
		b.dev.EraseCircle(b.x2-b.radius, b.y1+b.radius, b.radius-1)
		b.dev.EraseCircle(b.x1+b.radius, b.y2-b.radius, b.radius-1)
		b.dev.EraseCircle(b.x2-b.radius, b.y2-b.radius, b.radius-1)
		b.dev.EraseRect(b.x1+b.radius, b.y1, b.x2-b.radius, b.y2)
		b.dev.EraseRect(b.x1, b.y1+b.radius, b.x2, b.y2-b.radius)
	} else {
		b.dev.EraseRect(b.x1, b.y1, b.x2, b.y2)
	}

	if len(b.text) == 0 {
		b.dev.SetEraser(oldEraser)
		return
	}

	cellW := fontW
	lineH := fontH - 2
	size := FontMedium
	if b.big {
		cellW = fontW * 2
		lineH = int(fontH*1.6) - 2
		size = FontLarge
	}

	b.dev.SetPen(b.color)
	lines := strings.Split(b.text, "\n")
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		x0 := b.x1 + (b.x2-b.x1+1-len(line)*cellW)/2
		y0 := b.y1 + (b.y2-b.y1+1-len(lines)*lineH)/2 + i*lineH + 2
		b.dev.DrawText(size, x0, y0, line)
	}
	b.dev.SetEraser(oldEraser)
}

// SetText replaces the label and redraws immediately.
func (b *Button) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.draw()
}

// SetColor replaces the text color and redraws immediately.
func (b *Button) SetColor(c Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = c
	b.draw()
}

// SetBGColor replaces the background color and redraws immediately.
func (b *Button) SetBGColor(c Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bgcolor = c
	b.draw()
}

// OnPress registers the press callback, replacing any previous one.
func (b *Button) OnPress(fn func()) {
	b.mu.Lock()
	b.onPress = fn
	b.mu.Unlock()
}

// OnRelease registers the release callback, replacing any previous one.
func (b *Button) OnRelease(fn func()) {
	b.mu.Lock()
	b.onRelease = fn
	b.mu.Unlock()
}

// Contains reports whether (x,y) falls within the button rectangle,
// bounds inclusive.
func (b *Button) Contains(x, y int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return x >= b.x1 && x <= b.x2 && y >= b.y1 && y <= b.y2
}

func (b *Button) pressHandler() func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.onPress
}

func (b *Button) releaseHandler() func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.onRelease
}
