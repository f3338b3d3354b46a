package uthread

// trampoline is the first-time entry point for a newly created
// thread's fiber goroutine. It is started once, by Create, and never
// returns: it waits to be scheduled, runs the user's entry function,
// and self-exits.
//
// Grounded on uthread.C's thread_func_wrapper: fetch the entry for
// the current tid, invoke it, then call uthread_exit on return.
func (s *Scheduler) trampoline(tid int, f *fiber) {
	f.capture() // wait for the Scheduler to first hand us the baton

	s.log.Debug("trampoline.start", "tid", tid)

	s.gate.lock()
	slot, err := s.table.get(tid)
	entry := func() {}
	if err == nil && slot.entry != nil {
		entry = slot.entry
	}
	s.gate.unlock()

	entry()

	s.log.Debug("trampoline.return", "tid", tid)
	_ = s.exit(tid)
	// exit(tid) with tid == currentTID transfers control away from
	// this fiber as its last act and then ends this goroutine; it does
	// not return here.
}
