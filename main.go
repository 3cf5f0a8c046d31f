package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/accel-robotics/vexkit/internal/buildstamp"
	"github.com/accel-robotics/vexkit/internal/controller"
	"github.com/accel-robotics/vexkit/internal/devices"
	"github.com/accel-robotics/vexkit/internal/fbdev"
	"github.com/accel-robotics/vexkit/internal/logging"
	"github.com/accel-robotics/vexkit/internal/screen"
	"github.com/accel-robotics/vexkit/internal/system"
)

// Overridden at build time:
//
//	go build -ldflags "-X main.buildDate=$(date '+%b %e %Y') -X main.buildTime=$(date +%T)"
var (
	buildDate = "Jan  1 2026"
	buildTime = "00:00:00"
)

// expectedDevices is the port map this demo rig checks at boot.
var expectedDevices = []devices.Info{
	{Port: 1, Kind: devices.KindMotor, Name: "left drive"},
	{Port: 2, Kind: devices.KindMotor, Name: "right drive"},
	{Port: 10, Kind: devices.KindIMU, Name: "imu"},
	{Port: 20, Kind: devices.KindDistance, Name: "wall sensor"},
}

// logLink stands in for the serial link to the handheld pad on boards that
// have none attached; the queued traffic goes to the log instead.
type logLink struct {
	log logging.Logger
}

func (l logLink) EraseDisplay()                   { l.log.Infof("pad", "erase display") }
func (l logLink) SendRumble(pattern string)       { l.log.Infof("pad", "rumble %q", pattern) }
func (l logLink) SendText(row, col int, msg string) {
	l.log.Infof("pad", "text %d,%d %q", row, col, msg)
}

// stubPad reports every button released. Replace with a real pad driver when
// one is wired up.
type stubPad struct{}

func (stubPad) ReadDigital(controller.Button) bool { return false }

// stubPresence answers the self-check; with no smart-port bus on this board
// everything reads as missing unless -assume-devices is set.
type stubPresence struct {
	present bool
}

func (p stubPresence) IsInstalled(int, devices.Kind) bool { return p.present }

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to ./vexkit-debug.log")
	fbPath := flag.String("fb", "/dev/fb0", "framebuffer device")
	fontPath := flag.String("font", "", "TTF font for on-screen text (builtin bitmap font if empty)")
	sdRoot := flag.String("sd", "", "directory served as the SD card (image assets)")
	logo := flag.String("logo", "", "indexed bitmap to draw at boot, relative to -sd")
	assumeDevices := flag.Bool("assume-devices", false, "treat all expected devices as present")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via VEXKIT_STDIO_LOG")
	flag.Parse()

	// Redirect stdout/stderr early so panic traces survive the console being
	// switched to graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("VEXKIT_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger logging.Logger = logging.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./vexkit-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			logger = logging.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := system.SetGraphicsMode(); err != nil {
		logger.Errorf("main", "console graphics mode: %v", err)
	}
	if err := system.HideCursor(); err != nil {
		logger.Errorf("main", "hide cursor: %v", err)
	}
	defer func() {
		_ = system.ShowCursor()
		_ = system.RestoreTextMode()
	}()

	dev := fbdev.New()
	dev.Logger = logger
	dev.FBPath = *fbPath
	dev.FontPath = *fontPath
	if err := dev.Start(ctx); err != nil {
		logger.Errorf("main", "framebuffer start: %v", err)
		fmt.Println("framebuffer start error:", err)
		return
	}
	defer dev.Stop()

	disp := screen.New(dev)
	disp.Logger = logger
	if *sdRoot != "" {
		disp.SetStorage(afero.NewBasePathFs(afero.NewOsFs(), *sdRoot))
	}
	disp.Init()

	if *logo != "" {
		disp.DrawImage(*logo, screen.Center, screen.Center, screen.NoColor)
	}
	disp.Print(0, 0, 0xffffff, "vexkit %s", buildstamp.Format(buildDate, buildTime))

	if report := devices.SelfCheck(stubPresence{present: *assumeDevices}, expectedDevices); report != "" {
		disp.Print(1, 0, 0xff0000, "%s", report)
		logger.Errorf("main", "self check: %s", report)
	} else {
		disp.Print(1, 0, 0x00ff00, "all devices ok")
	}

	pad := controller.New(stubPad{}, logLink{log: logger})
	pad.Logger = logger
	if err := pad.Start(ctx); err != nil {
		logger.Errorf("main", "controller start: %v", err)
	}
	pad.Clear()
	pad.Print(0, 0, "vexkit up")

	presses := 0
	var counter *screen.Button
	counter = screen.NewButton(disp, "press\nme", 0xffffff, 0x2040a0, 20, 80, 120, 80, 8, false)
	counter.OnPress(func() {
		presses++
		counter.SetText(fmt.Sprintf("pressed\n%d", presses))
		pad.Print(1, 0, "presses: %d", presses)
	})

	quit := screen.NewButton(disp, "QUIT", 0xffffff, 0xa02020, 340, 80, 120, 80, 8, true)
	quit.OnPress(func() {
		pad.Rumble("..")
		stop()
	})

	counter.Draw()
	quit.Draw()

	logger.Infof("main", "running")
	<-ctx.Done()
	logger.Infof("main", "shutting down")
}
