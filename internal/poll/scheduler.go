package poll

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrAlreadyStarted is returned by Start on a scheduler that is
	// running or has already run.
	ErrAlreadyStarted = errors.New("scheduler already started")

	// ErrNotRunning is returned by Stop unless the scheduler is running.
	ErrNotRunning = errors.New("scheduler not running")
)

const (
	schedIdle = iota
	schedRunning
	schedStopped
)

// Scheduler drives the engine on a single goroutine: an immediate first
// cycle, then one cycle per poll interval. Cycles never overlap; a cycle
// that outlives the interval delays the next tick instead of queueing a
// burst. The interval is re-read from the runtime settings each time the
// timer is re-armed, so a patched value takes effect after the next cycle.
type Scheduler struct {
	engine *Engine

	// now is replaced in tests.
	now func() time.Time

	mu    sync.Mutex
	state int

	stop    chan struct{}
	done    chan struct{}
	refresh chan struct{}
}

// NewScheduler creates a scheduler for the given engine.
func NewScheduler(engine *Engine) *Scheduler {
	return &Scheduler{
		engine:  engine,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		refresh: make(chan struct{}, 1),
	}
}

// Start launches the polling loop. A scheduler runs at most once.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != schedIdle {
		return ErrAlreadyStarted
	}
	s.state = schedRunning

	go s.loop()
	return nil
}

// Stop halts the loop and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.state != schedRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = schedStopped
	close(s.stop)
	s.mu.Unlock()

	<-s.done
	return nil
}

// Refresh asks the loop to publish the current snapshot without waiting
// for the next tick and without fetching. Non-blocking; pending requests
// coalesce into one.
func (s *Scheduler) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)

	ctx := context.Background()
	s.engine.RunCycle(ctx, s.now())

	timer := time.NewTimer(s.interval())
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-s.refresh:
			s.engine.PublishCurrent(s.now())
		case <-timer.C:
			s.engine.RunCycle(ctx, s.now())
			timer.Reset(s.interval())
		}
	}
}

func (s *Scheduler) interval() time.Duration {
	return s.engine.Settings.Get().PollInterval
}
