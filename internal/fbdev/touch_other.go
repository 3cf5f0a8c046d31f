//go:build !linux

package fbdev

import "context"

// Touch input is only wired up on Linux evdev systems.
func (d *Device) startTouch(ctx context.Context) {
	d.Logger.Infof("fbdev", "touch input not supported on this platform")
}

type evdevTouch struct{}

func (t *evdevTouch) Close() error { return nil }
