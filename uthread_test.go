package uthread

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPublicAPIEndToEnd drives the six package-level functions (plus
// Yield) through one complete session against the shared global
// Scheduler. It is written as a single test, rather than split into
// independent ones, because global is process-wide singleton state:
// SystemInit may only be called once per process, so every
// precondition-error case that depends on "already initialized" has
// to share one SystemInit call.
func TestPublicAPIEndToEnd(t *testing.T) {
	// Swap in a fake tick source for the duration of this test so it
	// never depends on a real interval timer. global is a package var,
	// so this test owns it for its own lifetime (no other test in this
	// package calls SystemInit on global).
	global = newScheduler(packageLogger{}, &manualTickSource{})
	m := global.tick.(*manualTickSource)

	require.Equal(t, 0, SystemInit(1000))
	require.Equal(t, -1, SystemInit(1000)) // already initialized

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	var tidWorker int
	workerDone := make(chan struct{})
	worker := func() {
		record("worker:start")
		if Block(tidWorker) != 0 {
			t.Error("worker could not block itself")
		}
		record("worker:resumed")
		close(workerDone)
	}

	tidWorker = Create(worker)
	require.Greater(t, tidWorker, 0)

	m.onTick()
	Yield() // hands off to worker, which blocks itself and returns control here

	require.Equal(t, []string{"worker:start"}, order)
	require.Equal(t, 0, Unblock(tidWorker))

	m.onTick()
	Yield() // worker resumes, finishes, and exits
	<-workerDone
	require.Equal(t, []string{"worker:start", "worker:resumed"}, order)

	var tidSleeper int
	sleeperWoke := make(chan struct{})
	sleeper := func() {
		if SleepQuantums(1) != 0 {
			t.Error("sleeper could not sleep")
		}
		close(sleeperWoke)
	}
	tidSleeper = Create(sleeper)
	require.Greater(t, tidSleeper, 0)

	m.onTick()
	Yield() // sleeper runs, sleeps for 1 quantum, control returns here
	select {
	case <-sleeperWoke:
		t.Fatal("sleeper woke before its quantum elapsed")
	default:
	}

	m.onTick()
	Yield() // the pending tick satisfies the sleep; sleeper wakes and returns
	<-sleeperWoke

	// Precondition-error table: every one of these must fail without
	// disturbing the live session above.
	require.Equal(t, -1, Block(0))         // main thread can't block
	require.Equal(t, -1, SleepQuantums(0)) // must be positive
	require.Equal(t, -1, Exit(99))         // unoccupied tid
	require.Equal(t, -1, Unblock(99))      // unoccupied tid
	require.Equal(t, -1, Create(nil))      // nil entry

	_ = tidSleeper
}

func TestFailTranslatesErrorToStatus(t *testing.T) {
	require.Equal(t, 0, fail(nil))
	require.Equal(t, -1, fail(errNotInitialized))
}
