package uthread

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func readyTable() *threadTable {
	t := &threadTable{}
	t.reset()
	return t
}

func TestReadyQueueEnqueueDedupAndFilters(t *testing.T) {
	table := readyTable()
	table.slots[1] = thread{tid: 1, occupied: true, state: Ready}
	table.slots[2] = thread{tid: 2, occupied: true, state: Blocked}

	var q readyQueue
	q.enqueue(table, 1)
	q.enqueue(table, 1) // duplicate, silently ignored
	q.enqueue(table, 2) // not Ready, silently ignored
	q.enqueue(table, 5) // not occupied, silently ignored

	require.Equal(t, []int{1}, q.tids)
}

func TestReadyQueuePopNextLiveSkipsDead(t *testing.T) {
	table := readyTable()
	table.slots[1] = thread{tid: 1, occupied: true, state: Ready}
	table.slots[2] = thread{tid: 2, occupied: true, state: Ready}

	var q readyQueue
	q.tids = []int{1, 2}

	// tid 1 becomes unoccupied between enqueue and pop (e.g. a racing
	// exit on tick preemption).
	table.release(1)

	require.Equal(t, 2, q.popNextLive(table))
	require.Equal(t, -1, q.popNextLive(table))
}

func TestReadyQueueRemove(t *testing.T) {
	table := readyTable()
	table.slots[1] = thread{tid: 1, occupied: true, state: Ready}
	table.slots[2] = thread{tid: 2, occupied: true, state: Ready}

	var q readyQueue
	q.enqueue(table, 1)
	q.enqueue(table, 2)
	q.remove(1)

	require.False(t, q.contains(1))
	require.True(t, q.contains(2))
}

func TestThreadTableFreeSlotSkipsMain(t *testing.T) {
	table := readyTable()
	require.Equal(t, 1, table.freeSlot())

	for i := 1; i < MaxThreads; i++ {
		table.slots[i].occupied = true
	}
	require.Equal(t, -1, table.freeSlot())
}

func TestThreadTableGetBoundsAndOccupancy(t *testing.T) {
	table := readyTable()
	_, err := table.get(-1)
	require.ErrorIs(t, err, errInvalidTID)

	_, err = table.get(MaxThreads)
	require.ErrorIs(t, err, errInvalidTID)

	_, err = table.get(1)
	require.ErrorIs(t, err, errSlotUnoccupied)

	table.slots[1].occupied = true
	slot, err := table.get(1)
	require.NoError(t, err)
	require.Equal(t, 1, slot.tid)
}
