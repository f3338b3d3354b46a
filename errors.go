package uthread

import "errors"

var (
	errNotInitialized  = errors.New("uthread: system not initialized")
	errAlreadyInit     = errors.New("uthread: system already initialized")
	errInvalidQuantum  = errors.New("uthread: quantum out of range")
	errNilEntry        = errors.New("uthread: entry function is nil")
	errTableFull       = errors.New("uthread: thread table full")
	errInvalidTID      = errors.New("uthread: tid out of range")
	errSlotUnoccupied  = errors.New("uthread: slot not occupied")
	errMainThread      = errors.New("uthread: operation not permitted on the main thread")
	errNotBlocked      = errors.New("uthread: thread not blocked")
	errInvalidQuantums = errors.New("uthread: num_quantums must be positive")
	errRunnableSetEmpty = errors.New("uthread: no runnable thread remains")
)
