package uthread

import (
	"sync"
	"sync/atomic"
)

// signalGate is the scoped critical section every read or write to
// the thread table, ready queue, sleep wheel or scheduler globals
// runs under. pendingTicks is bumped directly by the tick source,
// outside the gate, so a real signal handler never has to block: only
// the drain, at a checkpoint, takes the mutex.
type signalGate struct {
	mu           sync.Mutex
	pendingTicks atomic.Uint64
}

func (g *signalGate) lock() {
	g.mu.Lock()
}

func (g *signalGate) unlock() {
	g.mu.Unlock()
}

// tick is called from the tick source; it never blocks, matching the
// "use the signal handler only to set a flag" design.
func (g *signalGate) tick() {
	g.pendingTicks.Add(1)
}

// drainTicks atomically takes and zeroes the pending tick count. Must
// be called with the gate held, since the caller is about to act on
// it under the same critical section that owns the sleep wheel.
func (g *signalGate) drainTicks() uint64 {
	return g.pendingTicks.Swap(0)
}
