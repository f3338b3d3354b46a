package uthread

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// TickSource fires a periodic tick. Start arms it with the handler to
// call on every tick; the handler must not block (it is expected to
// be signalGate.tick, which only bumps a counter). Stop disarms it and
// releases any OS resources.
type TickSource interface {
	Start(quantum time.Duration, onTick func()) error
	Stop()
}

// itimerTickSource is the production backend: a real virtual-time
// interval timer delivering SIGVTALRM. Grounded on the itimer/
// sigaction plumbing visible in PazerOP-gosmopolitan's forked runtime
// (os_cosmo_amd64.go, sigaction_cosmo.go).
type itimerTickSource struct {
	sigCh chan os.Signal
	done  chan struct{}
}

func newItimerTickSource() *itimerTickSource {
	return &itimerTickSource{}
}

func (s *itimerTickSource) Start(quantum time.Duration, onTick func()) error {
	usec := quantum.Microseconds()
	it := unix.Itimerval{
		Value:    unix.Timeval{Sec: usec / 1_000_000, Usec: usec % 1_000_000},
		Interval: unix.Timeval{Sec: usec / 1_000_000, Usec: usec % 1_000_000},
	}

	s.sigCh = make(chan os.Signal, 1)
	s.done = make(chan struct{})
	signal.Notify(s.sigCh, syscall.SIGVTALRM)

	go func() {
		for {
			select {
			case <-s.sigCh:
				onTick()
			case <-s.done:
				return
			}
		}
	}()

	return unix.Setitimer(unix.ITIMER_VIRTUAL, &it, nil)
}

func (s *itimerTickSource) Stop() {
	zero := unix.Itimerval{}
	_ = unix.Setitimer(unix.ITIMER_VIRTUAL, &zero, nil)
	signal.Stop(s.sigCh)
	close(s.done)
}

// tickerTickSource is a portable backend driven by a plain
// time.Ticker instead of a virtual-time signal. No test in this module
// uses it: the scheduler tests drive ticks by hand through
// manualTickSource.
type tickerTickSource struct {
	ticker *time.Ticker
	done   chan struct{}
}

func newTickerTickSource() *tickerTickSource {
	return &tickerTickSource{}
}

func (s *tickerTickSource) Start(quantum time.Duration, onTick func()) error {
	s.ticker = time.NewTicker(quantum)
	s.done = make(chan struct{})
	go func() {
		for {
			select {
			case <-s.ticker.C:
				onTick()
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

func (s *tickerTickSource) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	if s.done != nil {
		close(s.done)
	}
}
