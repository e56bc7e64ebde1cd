package library

import (
	"context"
	"sync"
	"time"
)

// Debouncer keeps at most one pending task per input stream. A newer call to
// Wait supersedes the pending one.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending chan struct{}
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Wait blocks for the quiet period and reports whether the caller is still the
// latest. Superseded callers return false as soon as they are replaced.
func (d *Debouncer) Wait(ctx context.Context) bool {
	d.mu.Lock()
	if d.pending != nil {
		close(d.pending)
	}
	mine := make(chan struct{})
	d.pending = mine
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-mine:
		return false
	case <-ctx.Done():
		d.release(mine)
		return false
	}
	return d.release(mine)
}

// release clears the pending slot if it still belongs to mine.
func (d *Debouncer) release(mine chan struct{}) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != mine {
		return false
	}
	d.pending = nil
	return true
}
