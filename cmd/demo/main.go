// Command demo drives the uthread package through the full scenario
// set from the original comprehensive test program: four worker
// threads exercising sleep, block/unblock, early exit and ordinary
// round-robin execution, followed by the precondition-error table.
//
// Grounded on original_source/part1/main.c's thread_func1-4 and main,
// with zerolog wired in as structured output in place of the
// original's raw printf tracing.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/upwind-systems/uthread"
)

func busyWork(label string, iterations int, tag string) {
	for i := 0; i < iterations; i++ {
		fmt.Printf("[%s] %s iteration %d\n", label, tag, i)
		// A tight loop can't be preempted by a signal-free Go runtime
		// (DESIGN.md: "the preemption gap"), so each iteration yields
		// at a checkpoint the way the original's SIGVTALRM would have
		// landed mid-loop.
		for j := 0; j < 200; j++ {
			uthread.Yield()
		}
	}
}

// thread1 sleeps mid-run, the way the original's T1 tests
// uthread_sleep_quantums.
func thread1() {
	fmt.Println("[T1] started")
	busyWork("T1", 3, "working before sleep")

	fmt.Println("[T1] sleeping for 2 quantums")
	if uthread.SleepQuantums(2) == 0 {
		fmt.Println("[T1] woke up")
	} else {
		fmt.Println("[T1] ERROR: sleep failed")
	}

	busyWork("T1", 2, "post-sleep work")
	fmt.Println("[T1] exiting normally")
}

// thread2 blocks itself and waits for main to unblock it, the way the
// original's T2 tests uthread_block/uthread_unblock.
var tid2 int

func thread2() {
	fmt.Println("[T2] started")
	busyWork("T2", 2, "initial work")

	fmt.Println("[T2] blocking myself")
	if uthread.Block(tid2) == 0 {
		fmt.Println("[T2] resumed after unblock")
	} else {
		fmt.Println("[T2] ERROR: block failed")
	}

	busyWork("T2", 3, "post-unblock work")
	fmt.Println("[T2] exiting normally")
}

// thread3 runs long enough that main can terminate it early with Exit.
func thread3() {
	fmt.Println("[T3] started")
	busyWork("T3", 10, "long running work (may be terminated early)")
	fmt.Println("[T3] exiting normally (if not terminated)")
}

// thread4 is a plain worker demonstrating ordinary round-robin
// scheduling alongside the other three.
func thread4() {
	fmt.Println("[T4] started")
	busyWork("T4", 4, "regular work")
	fmt.Println("[T4] exiting normally")
}

func main() {
	uthread.SetLogger(uthread.NewZerologLogger(zerolog.New(os.Stdout).With().Timestamp().Logger()))

	fmt.Println("=== uthread demo: create, exit, block, unblock, sleep ===")

	fmt.Println("[MAIN] SystemInit(100000)")
	if uthread.SystemInit(100000) != 0 {
		fmt.Fprintln(os.Stderr, "FAILED: SystemInit")
		os.Exit(1)
	}

	fmt.Println("[MAIN] creating four threads")
	tid1 := uthread.Create(thread1)
	tid2 = uthread.Create(thread2)
	tid3 := uthread.Create(thread3)
	tid4 := uthread.Create(thread4)
	if tid1 < 0 || tid2 < 0 || tid3 < 0 || tid4 < 0 {
		fmt.Fprintln(os.Stderr, "FAILED: Create")
		os.Exit(1)
	}
	fmt.Printf("[MAIN] T1=%d T2=%d T3=%d T4=%d\n", tid1, tid2, tid3, tid4)

	fmt.Println("[MAIN] letting threads start")
	for i := 0; i < 50; i++ {
		time.Sleep(time.Millisecond)
		uthread.Yield()
	}

	fmt.Printf("[MAIN] unblocking T2 (%d)\n", tid2)
	if uthread.Unblock(tid2) == 0 {
		fmt.Println("[MAIN] Unblock(T2) succeeded")
	} else {
		fmt.Println("[MAIN] Unblock(T2) failed")
	}

	for i := 0; i < 80; i++ {
		time.Sleep(time.Millisecond)
		uthread.Yield()
	}

	fmt.Printf("[MAIN] terminating T3 (%d) early\n", tid3)
	if uthread.Exit(tid3) == 0 {
		fmt.Println("[MAIN] Exit(T3) succeeded")
	} else {
		fmt.Println("[MAIN] Exit(T3) failed")
	}

	busyWork("MAIN", 3, "main thread work")

	fmt.Println("[MAIN] allowing remaining threads to finish")
	for i := 0; i < 150; i++ {
		time.Sleep(time.Millisecond)
		uthread.Yield()
	}

	fmt.Println("[MAIN] testing invalid operations (should all fail)")
	check := func(name string, got int) {
		if got == -1 {
			fmt.Printf("  - %s: failed as expected\n", name)
		} else {
			fmt.Printf("  - %s: should have failed, got %d\n", name, got)
		}
	}
	check("Block(0)", uthread.Block(0))
	check("SleepQuantums(1) from main", uthread.SleepQuantums(1))
	check("Exit(99)", uthread.Exit(99))
	check("Unblock(99)", uthread.Unblock(99))

	fmt.Println("=== demo complete ===")
}
