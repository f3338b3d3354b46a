package uthread

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

// Scheduler owns every piece of process-wide mutable state: the
// thread table, ready queue, sleep wheel and the current tid, all
// under one signalGate ("encapsulate this as one state object
// protected by a mask-guard abstraction rather than scatter globals").
type Scheduler struct {
	log Logger

	gate  signalGate
	table threadTable
	queue readyQueue
	wheel sleepWheel

	currentTID  int
	initialized bool
	quantum     time.Duration
	tick        TickSource
}

func newScheduler(log Logger, tick TickSource) *Scheduler {
	return &Scheduler{log: log, tick: tick}
}

// systemInit implements uthread_system_init.
func (s *Scheduler) systemInit(quantumUsec int) error {
	s.gate.lock()
	defer s.gate.unlock()

	if s.initialized {
		return errAlreadyInit
	}
	if quantumUsec < MinQuantumUsec || quantumUsec > MaxQuantumUsec {
		return errInvalidQuantum
	}

	s.table.reset()
	s.queue = readyQueue{}
	s.wheel = sleepWheel{}

	s.table.slots[0] = thread{tid: 0, occupied: true, state: Running, contextValid: true}
	s.currentTID = 0
	s.quantum = time.Duration(quantumUsec) * time.Microsecond
	s.initialized = true

	if err := s.tick.Start(s.quantum, s.gate.tick); err != nil {
		s.initialized = false
		return fmt.Errorf("uthread: starting tick source: %w", err)
	}

	s.log.Info("system.init", "quantum_usec", quantumUsec)
	return nil
}

// create implements uthread_create.
func (s *Scheduler) create(entry func()) (int, error) {
	s.gate.lock()

	if !s.initialized {
		s.gate.unlock()
		return -1, errNotInitialized
	}
	if entry == nil {
		s.gate.unlock()
		return -1, errNilEntry
	}

	tid := s.table.freeSlot()
	if tid == -1 {
		s.gate.unlock()
		return -1, errTableFull
	}

	f := newFiber()
	s.table.slots[tid] = thread{
		tid:          tid,
		occupied:     true,
		state:        Ready,
		entry:        entry,
		stack:        make([]byte, StackBytes),
		contextValid: false,
		fiber:        f,
	}
	s.queue.enqueue(&s.table, tid)

	s.gate.unlock()

	go s.trampoline(tid, f)

	s.log.Info("thread.create", "tid", tid)
	return tid, nil
}

// exit implements uthread_exit.
func (s *Scheduler) exit(tid int) error {
	s.gate.lock()

	if !s.initialized {
		s.gate.unlock()
		return errNotInitialized
	}
	slot, err := s.table.get(tid)
	if err != nil {
		s.gate.unlock()
		return err
	}

	if tid == 0 {
		s.log.Info("system.exit.main")
		s.gate.unlock()
		os.Exit(0)
		return nil // unreachable
	}

	if fib := slot.fiber; fib != nil {
		fib.cancel()
	}
	self := tid == s.currentTID
	s.queue.remove(tid)
	s.wheel.clear(tid)
	s.table.release(tid)

	s.log.Info("thread.exit", "tid", tid)

	if self {
		// The exiting thread never resumes, so there is no context to
		// capture: schedule skips the capture step entirely and transfers
		// directly, releasing the gate as part of the handoff. This
		// goroutine's job ends the instant schedule returns: Goexit
		// terminates it so that nothing of the caller runs again, since
		// the fiber is already gone from the table.
		s.schedule(true)
		runtime.Goexit()
		return nil // unreachable
	}

	s.gate.unlock()
	return nil
}

// block implements uthread_block.
func (s *Scheduler) block(tid int) error {
	s.gate.lock()

	if !s.initialized {
		s.gate.unlock()
		return errNotInitialized
	}
	slot, err := s.table.get(tid)
	if err != nil {
		s.gate.unlock()
		return err
	}
	if tid == 0 {
		s.gate.unlock()
		return errMainThread
	}

	self := tid == s.currentTID
	slot.state = Blocked
	s.queue.remove(tid)

	s.log.Info("thread.block", "tid", tid)

	if self {
		s.schedule(false)
		s.log.Debug("thread.block.resumed", "tid", tid)
		return nil
	}

	s.gate.unlock()
	return nil
}

// unblock implements uthread_unblock.
func (s *Scheduler) unblock(tid int) error {
	s.gate.lock()
	defer s.gate.unlock()

	if !s.initialized {
		return errNotInitialized
	}
	slot, err := s.table.get(tid)
	if err != nil {
		return err
	}

	// Success with no effect on an already ready/running thread is the
	// chosen contract.
	if slot.state == Running || slot.state == Ready {
		s.log.Debug("thread.unblock.noop", "tid", tid)
		return nil
	}

	slot.state = Ready
	s.wheel.clear(tid)
	s.queue.enqueue(&s.table, tid)

	s.log.Info("thread.unblock", "tid", tid)
	return nil
}

// sleepQuantums implements uthread_sleep_quantums.
func (s *Scheduler) sleepQuantums(n int) error {
	s.gate.lock()

	if !s.initialized {
		s.gate.unlock()
		return errNotInitialized
	}
	if n <= 0 {
		s.gate.unlock()
		return errInvalidQuantums
	}
	if s.currentTID == 0 {
		s.gate.unlock()
		return errMainThread
	}

	tid := s.currentTID
	slot, err := s.table.get(tid)
	if err != nil {
		s.gate.unlock()
		return err
	}

	// Ticks that fired before this call are accounted here, while the
	// caller is still Running, so they do not count toward its sleep.
	for pending := s.gate.drainTicks(); pending > 0; pending-- {
		for _, woken := range s.wheel.tick(&s.table) {
			s.table.slots[woken].state = Ready
			s.queue.enqueue(&s.table, woken)
		}
	}

	slot.state = Blocked
	s.wheel.set(tid, n)
	s.queue.remove(tid)

	s.log.Info("thread.sleep", "tid", tid, "quantums", n)

	s.schedule(false)

	s.log.Debug("thread.sleep.resumed", "tid", tid)
	return nil
}

// yield is the added cooperative checkpoint: it acts on a pending tick
// if one is pending, otherwise returns immediately.
func (s *Scheduler) yield() {
	s.gate.lock()
	if !s.initialized || s.gate.pendingTicks.Load() == 0 {
		s.gate.unlock()
		return
	}
	s.schedule(false)
}

// schedule is the unified tick/yield entry. It must be called with the
// gate held; it releases the gate itself, either on an early return
// (nothing to do) or just before transferring control to another
// fiber.
//
// skipCapture is true only for exit(self): a thread that will never
// resume has nothing to capture.
func (s *Scheduler) schedule(skipCapture bool) {
	// Step 1: sleep accounting, once per pending tick.
	pending := s.gate.drainTicks()
	for i := uint64(0); i < pending; i++ {
		for _, tid := range s.wheel.tick(&s.table) {
			s.table.slots[tid].state = Ready
			s.queue.enqueue(&s.table, tid)
		}
	}

	// Step 2: preempt current, unless it already transitioned away
	// from Running (a voluntary yield already did this).
	cur := &s.table.slots[s.currentTID]
	preempting := cur.occupied && cur.state == Running
	if preempting {
		cur.state = Ready
		s.queue.enqueue(&s.table, s.currentTID)
	}

	// Step 4: pick next.
	next := s.queue.popNextLive(&s.table)
	if next == -1 {
		s.log.Error("scheduler.no_runnable_thread", errRunnableSetEmpty)
		s.gate.unlock()
		os.Exit(1)
		return
	}

	fromTID := s.currentTID
	var fromFiber *fiber
	if fromTID == 0 {
		fromFiber = s.mainFiber()
	} else {
		fromFiber = s.table.slots[fromTID].fiber
	}

	s.table.slots[next].state = Running
	s.currentTID = next
	nextSlot := &s.table.slots[next]

	s.log.Debug("scheduler.transfer", "from", fromTID, "to", next)

	// Step 5: transfer. Whether this is a resume (context_valid) or a
	// first-time bootstrap onto the trampoline makes no difference to
	// the handoff itself: both are the same fiber's goroutine parked
	// on its resume channel (capture in trampoline.go mirrors capture
	// here). Only the bookkeeping flag differs.
	nextSlot.contextValid = true
	var nextFiber *fiber
	if next == 0 {
		nextFiber = s.mainFiber()
	} else {
		nextFiber = nextSlot.fiber
	}
	s.gate.unlock()
	nextFiber.restore()

	if skipCapture {
		return
	}

	// Step 3 (capture), done after unmasking for the thread we just
	// left: park here until some future schedule() restores us. The
	// main thread (fromTID == 0) runs on the process's own goroutine
	// and blocks on the resume channel of slot 0's fiber, which
	// mainFiber allocated above while the gate was still held.
	if fromFiber != nil {
		fromFiber.capture()
	}
}

// mainFiber lazily allocates the main thread's fiber the first time
// it needs to park. It must be called with the gate held. The main
// thread has no stack of its own to
// bootstrap, but it still needs a resume channel to wait on while
// another thread runs.
func (s *Scheduler) mainFiber() *fiber {
	slot := &s.table.slots[0]
	if slot.fiber == nil {
		slot.fiber = newFiber()
	}
	return slot.fiber
}
