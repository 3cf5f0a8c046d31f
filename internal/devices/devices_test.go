package devices

import (
	"math"
	"testing"
	"time"
)

type mockPresence struct {
	installed map[int]Kind
}

func (m *mockPresence) IsInstalled(port int, kind Kind) bool {
	k, ok := m.installed[port]
	return ok && k == kind
}

func TestSelfCheckAllPresent(t *testing.T) {
	p := &mockPresence{installed: map[int]Kind{
		1:  KindMotor,
		10: KindIMU,
		20: KindDistance,
	}}
	list := []Info{
		{Port: 1, Kind: KindMotor, Name: "left drive"},
		{Port: 10, Kind: KindIMU, Name: "imu"},
		{Port: 20, Kind: KindDistance, Name: "wall sensor"},
	}
	if got := SelfCheck(p, list); got != "" {
		t.Fatalf("SelfCheck = %q, want empty", got)
	}
}

func TestSelfCheckReportsFirstMissing(t *testing.T) {
	p := &mockPresence{installed: map[int]Kind{1: KindMotor}}
	list := []Info{
		{Port: 1, Kind: KindMotor, Name: "left drive"},
		{Port: 2, Kind: KindMotor, Name: "right drive"},
		{Port: 10, Kind: KindIMU, Name: "imu"},
	}
	if got := SelfCheck(p, list); got != "Err: [2] right drive" {
		t.Fatalf("SelfCheck = %q, want first missing device", got)
	}
}

func TestSelfCheckNegativePortProbesAbsolute(t *testing.T) {
	p := &mockPresence{installed: map[int]Kind{3: KindMotor}}
	list := []Info{{Port: -3, Kind: KindMotor, Name: "reversed drive"}}
	if got := SelfCheck(p, list); got != "" {
		t.Fatalf("SelfCheck = %q, want empty for reversed motor port", got)
	}

	list = []Info{{Port: -4, Kind: KindMotor, Name: "missing"}}
	if got := SelfCheck(p, list); got != "Err: [4] missing" {
		t.Fatalf("SelfCheck = %q, want absolute port in message", got)
	}
}

func TestSelfCheckKindMismatchIsMissing(t *testing.T) {
	p := &mockPresence{installed: map[int]Kind{5: KindOptical}}
	list := []Info{{Port: 5, Kind: KindRotation, Name: "lift encoder"}}
	if got := SelfCheck(p, list); got != "Err: [5] lift encoder" {
		t.Fatalf("SelfCheck = %q, want kind mismatch reported", got)
	}
}

type mockDistance struct {
	installed bool
	readings  []float64
	next      int
}

func (m *mockDistance) Installed() bool { return m.installed }

func (m *mockDistance) ReadMM() float64 {
	v := m.readings[m.next%len(m.readings)]
	m.next++
	return v
}

func newTestSensor(r DistanceReader) *DistanceSensor {
	s := NewDistanceSensor(r)
	s.Sleep = func(time.Duration) {}
	return s
}

func TestInchesConvertsMillimeters(t *testing.T) {
	s := newTestSensor(&mockDistance{installed: true, readings: []float64{254}})
	if got := s.Inches(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("Inches = %v, want 10", got)
	}
}

func TestInchesAbsentSensor(t *testing.T) {
	s := newTestSensor(&mockDistance{installed: false, readings: []float64{254}})
	if got := s.Inches(); got != 9999.0 {
		t.Fatalf("Inches = %v, want 9999 for missing sensor", got)
	}
}

func TestToWallDropsExtremes(t *testing.T) {
	// Eight samples of 254mm (10in) plus one low and one high outlier.
	readings := []float64{254, 254, 25.4, 254, 254, 2540, 254, 254, 254, 254}
	s := newTestSensor(&mockDistance{installed: true, readings: readings})
	if got := s.ToWall(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("ToWall = %v, want 10 with outliers dropped", got)
	}
}

func TestToWallSleepsBetweenSamples(t *testing.T) {
	slept := 0
	s := NewDistanceSensor(&mockDistance{installed: true, readings: []float64{254}})
	s.Sleep = func(d time.Duration) {
		if d != 5*time.Millisecond {
			t.Fatalf("sleep %v, want 5ms", d)
		}
		slept++
	}
	s.ToWall()
	if slept != 10 {
		t.Fatalf("slept %d times, want 10", slept)
	}
}

type mockLine struct {
	writes []bool
}

func (m *mockLine) SetValue(v bool) { m.writes = append(m.writes, v) }

func TestPneumaticPressRelease(t *testing.T) {
	line := &mockLine{}
	p := NewPneumatic(line)

	p.Press()
	p.Release()
	want := []bool{true, false}
	if len(line.writes) != 2 || line.writes[0] != want[0] || line.writes[1] != want[1] {
		t.Fatalf("writes = %v, want %v", line.writes, want)
	}
}

func TestPneumaticReversedPolarity(t *testing.T) {
	line := &mockLine{}
	p := NewPneumatic(line)
	p.Reverse(true)

	p.Press()
	p.Release()
	want := []bool{false, true}
	if len(line.writes) != 2 || line.writes[0] != want[0] || line.writes[1] != want[1] {
		t.Fatalf("writes = %v, want %v", line.writes, want)
	}
}

func TestPneumaticToggle(t *testing.T) {
	line := &mockLine{}
	p := NewPneumatic(line)

	p.Toggle()
	p.Toggle()
	p.Toggle()
	want := []bool{true, false, true}
	for i := range want {
		if line.writes[i] != want[i] {
			t.Fatalf("writes = %v, want %v", line.writes, want)
		}
	}
}

func TestPneumaticToggleTracksPress(t *testing.T) {
	line := &mockLine{}
	p := NewPneumatic(line)

	p.Press()
	p.Toggle()
	if got := line.writes[len(line.writes)-1]; got != false {
		t.Fatalf("toggle after press wrote %v, want false", got)
	}
}

func TestKindString(t *testing.T) {
	if KindMotor.String() != "motor" || KindDistance.String() != "distance" {
		t.Error("unexpected kind names")
	}
	if Kind(42).String() != "unknown" {
		t.Error("out-of-range kind should read unknown")
	}
}
