package fbdev

import (
	"context"
	"image/color"
	"os"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"

	"github.com/accel-robotics/vexkit/internal/logging"
	"github.com/accel-robotics/vexkit/internal/screen"
)

const blitRate = time.Second / 30

// Device drives a Linux framebuffer from the offscreen logical canvas and
// feeds touch input back from an evdev device. It is the production
// implementation of the screen primitive capability.
type Device struct {
	*CanvasDevice

	Logger logging.Logger

	// FBPath is the framebuffer device, /dev/fb0 by default.
	FBPath string
	// FontPath optionally points at a TTF; without it the builtin
	// basicfont is used.
	FontPath string

	fbDev   *fb.Device
	touch   *evdevTouch
	running atomic.Bool
	cancel  context.CancelFunc
}

func New() *Device {
	return &Device{
		CanvasDevice: NewCanvasDevice(),
		Logger:       logging.NoopLogger{},
		FBPath:       "/dev/fb0",
	}
}

// Start opens the framebuffer and launches the blit and touch loops. The
// loops run until ctx is cancelled or Stop is called.
func (d *Device) Start(ctx context.Context) error {
	dev, err := fb.Open(d.FBPath)
	if err != nil {
		return err
	}
	d.fbDev = dev
	bounds := dev.Bounds()
	d.Logger.Infof("fbdev", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())

	if d.FontPath != "" {
		ttf, err := os.ReadFile(d.FontPath)
		if err != nil {
			d.Logger.Errorf("fbdev", "font read failed, using basicfont: %v", err)
		} else if err := d.LoadFont(ttf); err != nil {
			d.Logger.Errorf("fbdev", "font parse failed, using basicfont: %v", err)
		} else {
			d.Logger.Infof("fbdev", "loaded TTF font from %s", d.FontPath)
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	go d.runBlitLoop(loopCtx)
	d.startTouch(loopCtx)
	return nil
}

func (d *Device) Stop() error {
	d.running.Store(false)
	if d.cancel != nil {
		d.cancel()
	}
	if d.touch != nil {
		_ = d.touch.Close()
	}
	if d.fbDev != nil {
		d.fbDev.Close()
	}
	return nil
}

// runBlitLoop copies the logical canvas to the physical framebuffer at
// ~30 FPS with nearest-neighbor scaling.
func (d *Device) runBlitLoop(ctx context.Context) {
	ticker := time.NewTicker(blitRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if d.running.Load() {
				d.blit()
			}
		}
	}
}

func (d *Device) blit() {
	canvas := d.Snapshot()
	bounds := d.fbDev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	for y := 0; y < fbHeight; y++ {
		sy := (y * screen.Height) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * screen.Width) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			d.fbDev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
