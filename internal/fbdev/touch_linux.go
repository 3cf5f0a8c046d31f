//go:build linux

package fbdev

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/accel-robotics/vexkit/internal/screen"
)

// startTouch opens the first touch-capable evdev device and polls it in a
// goroutine, reporting press and release transitions onto the canvas.
// Absence of a touch device is not fatal: the screen simply has no touch.
func (d *Device) startTouch(ctx context.Context) {
	t, err := openEvdevTouch(screen.Width, screen.Height)
	if err != nil {
		d.Logger.Errorf("fbdev", "touch device unavailable: %v", err)
		return
	}
	d.touch = t
	d.Logger.Infof("fbdev", "touch device open: %s", t.devPath)

	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.poll(d.CanvasDevice)
			}
		}
	}()
}

// evdevTouch reads single-finger touches from a Linux evdev node. It
// understands ABS_X/ABS_Y and the multitouch position axes, uses BTN_TOUCH
// or the tracking id for down/up, and commits a frame on SYN_REPORT.
type evdevTouch struct {
	fd      int
	devPath string

	screenW int
	screenH int

	absMinX, absMaxX int32
	absMinY, absMaxY int32

	curX, curY int
	isDown     bool
	lastDown   bool
	hasPos     bool
}

func openEvdevTouch(screenW, screenH int) (*evdevTouch, error) {
	path, err := findTouchDevice()
	if err != nil {
		return nil, err
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open touch device %s: %w", path, err)
	}
	t := &evdevTouch{
		fd:      fd,
		devPath: path,
		screenW: screenW,
		screenH: screenH,
	}

	// Absolute axis ranges map raw coordinates onto the logical canvas.
	minX, maxX := int32(0), int32(screenW-1)
	minY, maxY := int32(0), int32(screenH-1)
	if ax, err := ioctlGetAbs(fd, absMTPositionX); err == nil {
		minX, maxX = ax.Minimum, ax.Maximum
	} else if ax, err := ioctlGetAbs(fd, absX); err == nil {
		minX, maxX = ax.Minimum, ax.Maximum
	}
	if ay, err := ioctlGetAbs(fd, absMTPositionY); err == nil {
		minY, maxY = ay.Minimum, ay.Maximum
	} else if ay, err := ioctlGetAbs(fd, absY); err == nil {
		minY, maxY = ay.Minimum, ay.Maximum
	}
	if maxX <= minX {
		maxX = minX + 1
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	t.absMinX, t.absMaxX = minX, maxX
	t.absMinY, t.absMaxY = minY, maxY
	return t, nil
}

func (t *evdevTouch) Close() error {
	if t.fd >= 0 {
		_ = unix.Close(t.fd)
		t.fd = -1
	}
	return nil
}

// poll drains pending input events and reports touch transitions.
func (t *evdevTouch) poll(c *CanvasDevice) {
	if t.fd < 0 {
		return
	}
	for {
		var ev inputEvent
		n, err := unix.Read(t.fd, (*(*[unsafe.Sizeof(inputEvent{})]byte)(unsafe.Pointer(&ev)))[:])
		if err != nil || n != int(unsafe.Sizeof(inputEvent{})) {
			return
		}
		t.handle(ev, c)
	}
}

func (t *evdevTouch) handle(ev inputEvent, c *CanvasDevice) {
	switch ev.Type {
	case evAbs:
		switch ev.Code {
		case absX, absMTPositionX:
			t.curX = mapAxis(ev.Value, t.absMinX, t.absMaxX, t.screenW)
			t.hasPos = true
		case absY, absMTPositionY:
			t.curY = mapAxis(ev.Value, t.absMinY, t.absMaxY, t.screenH)
			t.hasPos = true
		case absMTTrackingID:
			t.isDown = ev.Value >= 0
		}
	case evKey:
		if ev.Code == btnTouch {
			t.isDown = ev.Value != 0
		}
	case evSyn:
		if ev.Code == synReport {
			t.commit(c)
		}
	}
}

func (t *evdevTouch) commit(c *CanvasDevice) {
	if t.isDown && !t.lastDown {
		c.ReportTouch(screen.TouchPressed, t.curX, t.curY)
	} else if !t.isDown && t.lastDown {
		c.ReportTouch(screen.TouchReleased, t.curX, t.curY)
	}
	t.lastDown = t.isDown
	t.hasPos = false
}

func mapAxis(v, min, max int32, out int) int {
	if out <= 1 {
		return 0
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	num := int64(v - min)
	den := int64(max - min)
	if den <= 0 {
		return 0
	}
	return int(num * int64(out-1) / den)
}

func findTouchDevice() (string, error) {
	cands, _ := filepath.Glob("/dev/input/event*")
	best := ""
	for _, p := range cands {
		name := ""
		if fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NONBLOCK, 0); err == nil {
			if n, e := ioctlGetName(fd); e == nil {
				name = n
			}
			_ = unix.Close(fd)
		}
		if strings.Contains(strings.ToLower(name), "touch") {
			return p, nil
		}
		if best == "" && name != "" {
			best = p
		}
	}
	if best != "" {
		return best, nil
	}
	return "", fmt.Errorf("no touch device found under /dev/input")
}

// linux input event structs and the few ioctls needed.

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputAbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0

	btnTouch = 0x014a

	absX            = 0x00
	absY            = 0x01
	absMTPositionX  = 0x35
	absMTPositionY  = 0x36
	absMTTrackingID = 0x39
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	const (
		nrBits   = 8
		typeBits = 8
		sizeBits = 14

		nrShift   = 0
		typeShift = nrShift + nrBits
		sizeShift = typeShift + typeBits
		dirShift  = sizeShift + sizeBits
	)
	return (dir << dirShift) | (typ << typeShift) | (nr << nrShift) | (size << sizeShift)
}

const iocRead = 2

func eviocgName(len int) uintptr { return ioc(iocRead, 'E', 0x06, uintptr(len)) }
func eviocgAbs(axis int) uintptr {
	return ioc(iocRead, 'E', 0x40+uintptr(axis), uintptr(unsafe.Sizeof(inputAbsInfo{})))
}

func ioctlGetName(fd int) (string, error) {
	buf := make([]byte, 256)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), eviocgName(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}

func ioctlGetAbs(fd, axis int) (*inputAbsInfo, error) {
	var info inputAbsInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), eviocgAbs(axis), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return nil, errno
	}
	return &info, nil
}
