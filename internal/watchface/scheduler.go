package watchface

import "time"

// InteractiveInterval is the redraw period while the face is visible and interactive.
const InteractiveInterval = time.Second

// Ticket is one pending deferred call.
type Ticket interface {
	Stop() bool
}

// Executor runs f once after d on some goroutine.
type Executor interface {
	AfterFunc(d time.Duration, f func()) Ticket
}

// RealExecutor is backed by time.AfterFunc.
type RealExecutor struct{}

func (RealExecutor) AfterFunc(d time.Duration, f func()) Ticket {
	return time.AfterFunc(d, f)
}

// NextDelay returns the time from now to the next multiple of interval since
// the Unix epoch, in whole milliseconds. The result is in (0, interval].
func NextDelay(now time.Time, interval time.Duration) time.Duration {
	iv := interval.Milliseconds()
	if iv <= 0 {
		return 0
	}
	ms := now.UnixMilli()
	rem := ((ms % iv) + iv) % iv
	return time.Duration(iv-rem) * time.Millisecond
}

// Scheduler keeps at most one pending redraw ticket. Its methods must be
// called from the engine goroutine; the executor only posts TimerFired back
// to the engine queue.
type Scheduler struct {
	executor  Executor
	interval  time.Duration
	shouldRun func() bool
	redraw    func()
	post      func(Event) bool
	now       func() time.Time

	ticket Ticket
	seq    uint64
	closed bool
}

func NewScheduler(executor Executor, shouldRun func() bool, redraw func(), post func(Event) bool, now func() time.Time) *Scheduler {
	if executor == nil {
		executor = RealExecutor{}
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		executor:  executor,
		interval:  InteractiveInterval,
		shouldRun: shouldRun,
		redraw:    redraw,
		post:      post,
		now:       now,
	}
}

// UpdateTimer cancels any pending ticket and arms an immediate one when the
// face should be running. Safe to call any number of times, and after Close.
func (s *Scheduler) UpdateTimer() {
	if s.closed {
		return
	}
	s.cancel()
	if s.shouldRun() {
		s.arm(0)
	}
}

// Fire handles a TimerFired message. Tickets superseded by UpdateTimer or
// Close may still deliver; their sequence no longer matches and they are dropped.
func (s *Scheduler) Fire(seq uint64) {
	if s.closed || s.ticket == nil || seq != s.seq {
		return
	}
	s.ticket = nil
	s.redraw()
	if s.shouldRun() {
		s.arm(NextDelay(s.now(), s.interval))
	}
}

// Pending reports whether a ticket is outstanding.
func (s *Scheduler) Pending() bool { return s.ticket != nil }

// Close cancels the pending ticket; the scheduler stays idle afterwards.
func (s *Scheduler) Close() {
	s.cancel()
	s.closed = true
}

func (s *Scheduler) cancel() {
	if s.ticket != nil {
		s.ticket.Stop()
		s.ticket = nil
	}
}

func (s *Scheduler) arm(delay time.Duration) {
	s.seq++
	seq := s.seq
	s.ticket = s.executor.AfterFunc(delay, func() {
		s.post(TimerFired{seq: seq})
	})
}
