package controller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/accel-robotics/vexkit/internal/logging"
)

// Link is the slow output side of the handheld controller. The physical
// link refreshes only a few times per second; all calls are forwarded by
// the poller, never by application code directly.
type Link interface {
	EraseDisplay()
	SendRumble(pattern string)
	SendText(row, col int, msg string)
}

// ButtonReader reads the current level of one digital button.
type ButtonReader interface {
	ReadDigital(b Button) bool
}

const defaultPollInterval = 25 * time.Millisecond

// Controller couples edge-detected button input with the deferred,
// bandwidth-limited output queue. Buttons are sampled every cycle; the
// output queue is drained every second cycle, halving the refresh rate of
// the slow link relative to input polling.
type Controller struct {
	Logger logging.Logger

	// PollInterval is the cycle period. Zero means the 25ms default.
	PollInterval time.Duration

	input ButtonReader
	link  Link

	queue   outputQueue
	edges   *edgeDetector
	started atomic.Bool
}

func New(input ButtonReader, link Link) *Controller {
	return &Controller{
		Logger: logging.NoopLogger{},
		input:  input,
		link:   link,
		edges:  newEdgeDetector(),
	}
}

// IsPressed reports the current level of b.
func (c *Controller) IsPressed(b Button) bool {
	return c.input.ReadDigital(b)
}

// OnPress registers fn to fire once per released-to-pressed transition of b,
// replacing any previous handler. Unknown ids are ignored.
func (c *Controller) OnPress(b Button, fn func()) {
	c.edges.setPress(b, fn)
}

// OnRelease registers fn to fire once per pressed-to-released transition of
// b, replacing any previous handler. Unknown ids are ignored.
func (c *Controller) OnRelease(b Button, fn func()) {
	c.edges.setRelease(b, fn)
}

// Clear enqueues a full display erase. Dropped silently when the queue is
// full.
func (c *Controller) Clear() {
	c.queue.write(command{kind: cmdClear})
}

// ClearRow blanks a single display row. A row clear is indistinguishable
// from printing blanks, so it is enqueued as 28 spaces at column 0 rather
// than as an erase command.
func (c *Controller) ClearRow(row int) {
	c.Print(row, 0, "%28s", "")
}

// Print renders the message and enqueues it for the given display cell.
// The rendered text is truncated to the slot payload size. Dropped silently
// when the queue is full.
func (c *Controller) Print(row, col int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.queue.write(command{
		kind: cmdText,
		row:  int8(row),
		col:  int8(col),
		msg:  truncateMsg(msg),
	})
}

// Rumble enqueues a vibration pattern ("." short, "-" long, " " pause).
// Dropped silently when the queue is full.
func (c *Controller) Rumble(pattern string) {
	c.queue.write(command{kind: cmdRumble, msg: truncateMsg(pattern)})
}

// Start launches the background poll loop. A second Start while the loop is
// running is a no-op. The loop runs until ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return nil
	}
	c.Logger.Infof("controller", "poll loop starting")
	go c.run(ctx)
	return nil
}

func (c *Controller) run(ctx context.Context) {
	defer c.started.Store(false)

	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	dispCnt := 0
	for {
		c.step(dispCnt)
		dispCnt = (dispCnt + 1) % 2

		select {
		case <-ctx.Done():
			c.Logger.Infof("controller", "poll loop stopped: %v", ctx.Err())
			return
		case <-time.After(interval):
		}
	}
}

// step runs one poll cycle: sample all buttons, and on even cycles forward
// at most one queued output command to the link.
func (c *Controller) step(dispCnt int) {
	c.edges.poll(c.input.ReadDigital)
	if dispCnt == 0 {
		c.queue.drainOne(c.link)
	}
}
