package window

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bigscroll/bigscroll/internal/csync"
)

// notifier coalesces change notifications: however many snapshots are
// published inside one delay window, subscribers hear exactly once, with the
// latest one. A non-positive delay delivers inline.
type notifier struct {
	delay time.Duration
	subs  *csync.Map[string, func(Snapshot)]

	mu      sync.Mutex
	latest  Snapshot
	pending bool
	timer   *time.Timer
}

func newNotifier(delay time.Duration) *notifier {
	return &notifier{
		delay: delay,
		subs:  csync.NewMap[string, func(Snapshot)](),
	}
}

func (n *notifier) subscribe(fn func(Snapshot)) (cancel func()) {
	id := uuid.NewString()
	n.subs.Set(id, fn)
	return func() {
		n.subs.Del(id)
	}
}

func (n *notifier) publish(s Snapshot) {
	if n.delay <= 0 {
		n.mu.Lock()
		n.latest = s
		n.mu.Unlock()
		n.deliver(s)
		return
	}
	n.mu.Lock()
	n.latest = s
	if !n.pending {
		n.pending = true
		n.timer = time.AfterFunc(n.delay, n.flush)
	}
	n.mu.Unlock()
}

// flush delivers the pending snapshot now, if there is one.
func (n *notifier) flush() {
	n.mu.Lock()
	if !n.pending {
		n.mu.Unlock()
		return
	}
	n.pending = false
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	s := n.latest
	n.mu.Unlock()
	n.deliver(s)
}

func (n *notifier) deliver(s Snapshot) {
	for _, fn := range n.subs.Seq2() {
		fn(s)
	}
}
