package controller

import "sync"

const (
	// queueCapacity is the number of ring slots. One slot is sacrificed to
	// tell full from empty without a separate counter, so at most
	// queueCapacity-1 commands are ever pending.
	queueCapacity = 8

	// maxTextLen bounds the rendered payload stored in a slot. Longer
	// messages are truncated, never rejected.
	maxTextLen = 32
)

type commandKind uint8

const (
	cmdClear commandKind = iota + 1
	cmdRumble
	cmdText
)

// command is one pending output to the handheld controller. The message is
// rendered by the producer before enqueue; the queue never formats.
type command struct {
	kind commandKind
	row  int8
	col  int8
	msg  string
}

// outputQueue decouples callers from the slow controller link. Writers never
// block: when the ring is full the command is dropped. Multiple producers
// are allowed; a single consumer (the poller) drains. A mutex guards the
// indices so producers on any goroutine race safely with the drain.
type outputQueue struct {
	mu  sync.Mutex
	buf [queueCapacity]command
	rd  int
	wr  int
}

func (q *outputQueue) full() bool  { return (q.wr+1)%queueCapacity == q.rd }
func (q *outputQueue) empty() bool { return q.rd == q.wr }

// write enqueues cmd, dropping it silently when the ring is full.
func (q *outputQueue) write(cmd command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full() {
		return
	}
	q.buf[q.wr] = cmd
	q.wr = (q.wr + 1) % queueCapacity
}

// drainOne pops the oldest pending command and forwards it to the link.
// The link call happens outside the lock; only the poller drains.
func (q *outputQueue) drainOne(link Link) {
	q.mu.Lock()
	if q.empty() {
		q.mu.Unlock()
		return
	}
	cmd := q.buf[q.rd]
	q.rd = (q.rd + 1) % queueCapacity
	q.mu.Unlock()

	switch cmd.kind {
	case cmdClear:
		link.EraseDisplay()
	case cmdRumble:
		link.SendRumble(cmd.msg)
	case cmdText:
		link.SendText(int(cmd.row), int(cmd.col), cmd.msg)
	}
}

func (q *outputQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return (q.wr - q.rd + queueCapacity) % queueCapacity
}

func truncateMsg(s string) string {
	if len(s) > maxTextLen {
		return s[:maxTextLen]
	}
	return s
}
