// Package system holds console plumbing for running the display on a bare
// Linux framebuffer without a blinking text cursor on top of it.
package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h.
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// SetGraphicsMode switches the active virtual terminal to graphics mode so
// the kernel stops drawing the text cursor over the framebuffer.
func SetGraphicsMode() error {
	return setConsoleMode(kdGraphics)
}

// RestoreTextMode returns the console to text mode on shutdown.
func RestoreTextMode() error {
	return setConsoleMode(kdText)
}

func setConsoleMode(mode int) error {
	var lastErr error
	for _, p := range []string{"/dev/tty", "/dev/tty0"} {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE on %s: %w", p, err)
			continue
		}
		return nil
	}
	return lastErr
}

// HideCursor writes the ANSI escape that hides the cursor on the active VT.
func HideCursor() error { return writeVT("\x1b[?25l") }

// ShowCursor makes the cursor visible again.
func ShowCursor() error { return writeVT("\x1b[?25h") }

func writeVT(s string) error {
	var lastErr error
	for _, p := range []string{"/dev/tty", "/dev/tty0"} {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write to VT: %w", lastErr)
}
