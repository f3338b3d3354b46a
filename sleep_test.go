package uthread

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSleepWheelTickDecrementsOnlyBlockedPositive(t *testing.T) {
	table := readyTable()
	table.slots[1] = thread{tid: 1, occupied: true, state: Blocked}
	table.slots[2] = thread{tid: 2, occupied: true, state: Ready} // positive but not Blocked: ignored
	table.slots[3] = thread{tid: 3, occupied: true, state: Blocked}

	var w sleepWheel
	w.set(1, 2)
	w.set(2, 5)
	w.set(3, 1)

	woken := w.tick(table)
	require.Equal(t, []int{3}, woken) // tid 3 reached zero on this tick
	require.Equal(t, 1, w.remaining[1])
	require.Equal(t, 5, w.remaining[2]) // untouched: Ready, not Blocked

	woken = w.tick(table)
	require.Equal(t, []int{1}, woken)
	require.Equal(t, 0, w.remaining[1])
}

func TestSleepWheelSetAndClear(t *testing.T) {
	var w sleepWheel
	w.set(4, 10)
	require.Equal(t, 10, w.remaining[4])
	w.clear(4)
	require.Equal(t, 0, w.remaining[4])
}
