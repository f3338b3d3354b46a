// Package uthread is a user-level cooperative-preemptive threading
// library: it multiplexes N user threads onto a single flow of
// execution by combining a periodic quantum tick with explicit
// context switching between fiber goroutines.
//
// SystemInit must be called once before any other function. Threads
// are created with Create, which schedules entry to run and returns a
// thread id (tid). A thread voluntarily gives up the CPU by calling
// Block on itself, SleepQuantums, Exit on itself, or the cooperative
// Yield; it is also liable to be preempted the next time any thread
// reaches one of those checkpoints after a quantum has elapsed.
package uthread

// MaxThreads is the fixed capacity of the thread table and ready
// queue. Thread 0 is always the main thread.
const MaxThreads = 10

// StackBytes is the size of the stack region bookkept for each
// non-main thread slot.
const StackBytes = 4096

// MinQuantumUsec and MaxQuantumUsec bound the valid quantum argument
// to SystemInit.
const (
	MinQuantumUsec = 1
	MaxQuantumUsec = 1_000_000
)
