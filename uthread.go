package uthread

// global is the package-level Scheduler backing the six functions
// below, mirroring uthread.C's file-scope statics (threads[],
// current_tid, initialized) collapsed into one guarded object.
var global = newScheduler(packageLogger{}, newItimerTickSource())

func fail(err error) int {
	if err == nil {
		return 0
	}
	global.log.Error("uthread.precondition_failed", err)
	return -1
}

// SystemInit initializes the threading system. Must be called before
// any other function; sets up the main thread (tid 0) as Running and
// arms the tick source. Returns 0 on success, -1 on failure (already
// initialized, or quantumUsec outside [MinQuantumUsec, MaxQuantumUsec]).
func SystemInit(quantumUsec int) int {
	return fail(global.systemInit(quantumUsec))
}

// Create schedules entry to run as a new thread and returns its tid,
// or -1 on failure (not initialized, nil entry, or the table is full).
func Create(entry func()) int {
	tid, err := global.create(entry)
	if err != nil {
		return fail(err)
	}
	return tid
}

// Exit terminates tid, releasing its slot. Exiting the main thread
// (tid 0) terminates the process. Exiting the calling thread enters
// the scheduler and does not return to the caller. Returns 0 on
// success, -1 on failure (not initialized, or tid unoccupied).
func Exit(tid int) int {
	return fail(global.exit(tid))
}

// Block moves tid to the Blocked state. Blocking the main thread
// fails. Blocking the calling thread enters the scheduler and returns
// once some later Unblock resumes it. Returns 0 on success, -1 on
// failure.
func Block(tid int) int {
	return fail(global.block(tid))
}

// Unblock moves a Blocked tid to Ready. It is a no-op (success) if tid
// is already Running or Ready. Returns 0 on success, -1 on failure
// (not initialized, or tid unoccupied).
func Unblock(tid int) int {
	return fail(global.unblock(tid))
}

// SleepQuantums puts the calling thread to sleep for n quantum ticks.
// The main thread may not call this. Returns 0 once the sleep has
// elapsed and the thread has resumed, -1 on failure.
func SleepQuantums(n int) int {
	return fail(global.sleepQuantums(n))
}

// Yield is the cooperative checkpoint added by this translation: it
// gives the scheduler a chance to act on a pending tick, returning
// immediately if none is pending. A thread that loops without ever
// calling Block, SleepQuantums, Exit or Yield cannot be preempted
// mid-loop, since safe Go has no async-preemption primitive for
// arbitrary running code (see DESIGN.md).
func Yield() {
	global.yield()
}
