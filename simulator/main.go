// Headless simulator: runs the display and controller stack against an
// offscreen canvas and an in-memory SD card, scripts a few touches and
// button presses, and writes PNG snapshots so the screen flow can be
// inspected without robot hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/accel-robotics/vexkit/internal/controller"
	"github.com/accel-robotics/vexkit/internal/fbdev"
	"github.com/accel-robotics/vexkit/internal/logging"
	"github.com/accel-robotics/vexkit/internal/screen"
)

func main() {
	outDir := flag.String("out", "/tmp/vexkit-sim", "directory for PNG snapshots")
	scenario := flag.String("scenario", "demo", "simulator scenario: demo | image-error")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Println("output dir error:", err)
		os.Exit(2)
	}

	logger := logging.NewFileLogger(os.Stdout)

	dev := fbdev.NewCanvasDevice()
	disp := screen.New(dev)
	disp.Logger = logger
	disp.SetStorage(seedStorage())
	disp.Init()

	pad := newSimPad()
	link := &consoleLink{}
	ctl := controller.New(pad, link)
	ctl.Logger = logger
	ctl.PollInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := ctl.Start(ctx); err != nil {
		fmt.Println("controller start error:", err)
		os.Exit(1)
	}

	run := runDemo
	if *scenario == "image-error" {
		run = runImageError
	}
	run(disp, dev, ctl, pad)

	if err := savePNG(filepath.Join(*outDir, *scenario+".png"), dev.Snapshot()); err != nil {
		fmt.Println("snapshot error:", err)
		os.Exit(1)
	}
	fmt.Println("snapshot written to", filepath.Join(*outDir, *scenario+".png"))
}

// runDemo walks the same boot flow the real binary uses: logo, status text,
// a touch button, and pad traffic driven by scripted input edges.
func runDemo(disp *screen.Display, dev *fbdev.CanvasDevice, ctl *controller.Controller, pad *simPad) {
	disp.DrawImage("logo.bin", screen.Center, 10, screen.NoColor)
	disp.Print(0, 0, 0xffffff, "simulator boot")
	disp.PrintLarge(3, 0, 0x00ff00, "READY")
	if err := disp.DrawQR("https://github.com/accel-robotics/vexkit", 340, 110, 120); err != nil {
		fmt.Println("qr error:", err)
	}

	presses := 0
	var btn *screen.Button
	btn = screen.NewButton(disp, "press\nme", 0xffffff, 0x2040a0, 20, 120, 120, 80, 8, false)
	btn.OnPress(func() {
		presses++
		btn.SetText(fmt.Sprintf("pressed\n%d", presses))
	})
	btn.Draw()

	// Scripted touch inside the button, then one outside it.
	dev.ReportTouch(screen.TouchPressed, 60, 150)
	dev.ReportTouch(screen.TouchReleased, 60, 150)
	dev.ReportTouch(screen.TouchPressed, 400, 20)
	dev.ReportTouch(screen.TouchReleased, 400, 20)

	ctl.OnPress(controller.ButtonA, func() {
		ctl.Print(0, 0, "A pressed")
	})
	ctl.OnRelease(controller.ButtonA, func() {
		ctl.Rumble(".")
	})

	pad.set(controller.ButtonA, true)
	time.Sleep(50 * time.Millisecond)
	pad.set(controller.ButtonA, false)
	time.Sleep(50 * time.Millisecond)
}

// runImageError exercises the on-screen error reporting for bad image files.
func runImageError(disp *screen.Display, dev *fbdev.CanvasDevice, ctl *controller.Controller, pad *simPad) {
	disp.Print(0, 0, 0xffffff, "image error scenario")
	disp.DrawImage("missing.bin", 0, 30, screen.NoColor)
	disp.DrawImage("truncated.bin", 0, 60, screen.NoColor)
}
