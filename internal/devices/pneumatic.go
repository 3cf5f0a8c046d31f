package devices

// DigitalWriter sets the level of one digital output line.
type DigitalWriter interface {
	SetValue(v bool)
}

// Pneumatic drives a solenoid through a digital output, with an optional
// polarity reversal for plumbing that actuates on the low level.
type Pneumatic struct {
	out      DigitalWriter
	reversed bool
	current  bool
}

func NewPneumatic(out DigitalWriter) *Pneumatic {
	return &Pneumatic{out: out}
}

// Reverse sets the output polarity. It does not rewrite the line; the next
// Press/Release/Toggle applies the new polarity.
func (p *Pneumatic) Reverse(status bool) {
	p.reversed = status
}

// Press actuates the cylinder.
func (p *Pneumatic) Press() {
	p.out.SetValue(!p.reversed)
	p.current = true
}

// Release retracts the cylinder.
func (p *Pneumatic) Release() {
	p.out.SetValue(p.reversed)
	p.current = false
}

// Toggle flips between pressed and released.
func (p *Pneumatic) Toggle() {
	p.current = !p.current
	v := p.current
	if p.reversed {
		v = !v
	}
	p.out.SetValue(v)
}
