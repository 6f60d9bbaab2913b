package overview

import (
	"sync"
	"time"
)

// Poller owns the single monitor refresh timer. Replacing the interval
// always stops the previous timer first, so at most one poll loop is
// ever active.
type Poller struct {
	mu   sync.Mutex
	stop chan struct{}
}

// SetInterval restarts polling at the given interval, invoking fn on
// each tick. A non-positive interval just stops polling.
func (p *Poller) SetInterval(d time.Duration, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	if d <= 0 {
		return
	}
	stop := make(chan struct{})
	p.stop = stop
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// Stop cancels any active poll loop.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// Active reports whether a poll loop is currently running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}
