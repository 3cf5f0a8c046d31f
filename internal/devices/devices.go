package devices

import "fmt"

// Kind enumerates the smart device types the self-check can probe.
type Kind int

const (
	KindMotor Kind = iota
	KindIMU
	KindOptical
	KindRotation
	KindDistance
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindMotor:
		return "motor"
	case KindIMU:
		return "imu"
	case KindOptical:
		return "optical"
	case KindRotation:
		return "rotation"
	case KindDistance:
		return "distance"
	default:
		return "unknown"
	}
}

// Presence reports whether a device of the given kind answers on a port.
type Presence interface {
	IsInstalled(port int, kind Kind) bool
}

// Info names one expected device on the robot.
type Info struct {
	Port int
	Kind Kind
	Name string
}

// SelfCheck probes every listed device and returns an empty string when all
// are present, or an error line for the first missing one. Negative port
// numbers (reversed motors) probe the absolute port.
func SelfCheck(p Presence, devices []Info) string {
	for _, d := range devices {
		port := d.Port
		if port < 0 {
			port = -port
		}
		if !p.IsInstalled(port, d.Kind) {
			return fmt.Sprintf("Err: [%d] %s", port, d.Name)
		}
	}
	return ""
}
