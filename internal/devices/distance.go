package devices

import (
	"math"
	"time"
)

// DistanceReader is the raw sensor capability: presence and a single
// millimeter reading.
type DistanceReader interface {
	Installed() bool
	ReadMM() float64
}

// absentReading is returned when the sensor does not answer, large enough
// that range checks treat it as "nothing in sight".
const absentReading = 9999.0

// DistanceSensor wraps a raw reader with unit conversion and a smoothed
// wall-distance measurement.
type DistanceSensor struct {
	Reader DistanceReader

	// Sleep is the inter-sample delay hook, time.Sleep unless replaced in
	// tests.
	Sleep func(time.Duration)
}

func NewDistanceSensor(r DistanceReader) *DistanceSensor {
	return &DistanceSensor{Reader: r, Sleep: time.Sleep}
}

// Inches returns the current reading in inches, or absentReading when the
// sensor is not installed.
func (s *DistanceSensor) Inches() float64 {
	if !s.Reader.Installed() {
		return absentReading
	}
	return s.Reader.ReadMM() / 25.4
}

// ToWall takes ten samples 5ms apart and returns their mean with the
// single lowest and highest sample dropped, smoothing sensor jitter when
// squaring up against a field wall.
func (s *DistanceSensor) ToWall() float64 {
	var sum float64
	min, max := math.Inf(1), math.Inf(-1)
	for i := 0; i < 10; i++ {
		d := s.Inches()
		sum += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
		s.Sleep(5 * time.Millisecond)
	}
	return (sum - min - max) / 8
}
