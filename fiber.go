package uthread

import "context"

// fiber is the goroutine-backed "boxed continuation" standing in for
// a captured machine context. Exactly one fiber across the whole table
// is ever not blocked on resume; every other one is parked there,
// which is all the single-flow-of-execution invariant needs from Go's
// own scheduler.
//
// Exit cancels ctx whenever it destroys the slot. Entry functions are
// not given ctx, so nothing observes the cancellation: a thread
// destroyed by Exit from another thread keeps its goroutine parked on
// resume, which is never restored. ctx/cancel carry no part of the
// abstract thread state tracked elsewhere.
type fiber struct {
	resume chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func newFiber() *fiber {
	ctx, cancel := context.WithCancel(context.Background())
	return &fiber{
		resume: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
}

// restore hands the baton to this fiber: the goroutine parked
// receiving from resume proceeds. Buffered by one so a restore that
// races a not-yet-parked trampoline is never lost.
func (f *fiber) restore() {
	select {
	case f.resume <- struct{}{}:
	default:
	}
}

// capture parks the calling goroutine until it is next restored. It
// is only ever called by a fiber's own goroutine, on itself.
func (f *fiber) capture() {
	<-f.resume
}
