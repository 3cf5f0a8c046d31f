package controller

import "sync"

// Button identifies one of the twelve digital buttons on the handheld
// controller.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonL1
	ButtonL2
	ButtonR1
	ButtonR2

	numButtons = 12
)

func (b Button) String() string {
	names := [numButtons]string{
		"A", "B", "X", "Y", "Up", "Down", "Left", "Right",
		"L1", "L2", "R1", "R2",
	}
	if b < 0 || int(b) >= numButtons {
		return "Unknown"
	}
	return names[b]
}

type buttonState struct {
	id        Button
	lastState bool
	onPress   func()
	onRelease func()
}

// edgeDetector tracks the last observed level of every button and fires the
// registered callback exactly once per transition. Steady levels fire
// nothing, and registration alone fires nothing.
type edgeDetector struct {
	mu      sync.Mutex
	buttons [numButtons]buttonState
}

func newEdgeDetector() *edgeDetector {
	d := &edgeDetector{}
	for i := range d.buttons {
		d.buttons[i].id = Button(i)
	}
	return d
}

// setPress replaces the press callback for id. Unknown ids are ignored.
func (d *edgeDetector) setPress(id Button, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.buttons {
		if d.buttons[i].id == id {
			d.buttons[i].onPress = fn
			return
		}
	}
}

// setRelease replaces the release callback for id. Unknown ids are ignored.
func (d *edgeDetector) setRelease(id Button, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.buttons {
		if d.buttons[i].id == id {
			d.buttons[i].onRelease = fn
			return
		}
	}
}

// poll samples every button once and fires callbacks for observed edges.
// Edges faster than the polling cadence are coalesced or missed; that is an
// accepted limit of sampled input. Callbacks run outside the lock so a
// callback may re-register handlers.
func (d *edgeDetector) poll(read func(Button) bool) {
	for i := range d.buttons {
		d.mu.Lock()
		b := &d.buttons[i]
		state := read(b.id)
		var fire func()
		if state && !b.lastState {
			fire = b.onPress
			b.lastState = state
		} else if !state && b.lastState {
			fire = b.onRelease
			b.lastState = state
		}
		d.mu.Unlock()
		if fire != nil {
			fire()
		}
	}
}
