package services

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bufstash/bufstash-cli/internal/core/ports/driving"
	"github.com/bufstash/bufstash-cli/internal/logger"
)

// SchedulerState describes the scheduler lifecycle.
type SchedulerState string

// Scheduler states.
const (
	// StateIdle means Start has not been called yet.
	StateIdle SchedulerState = "idle"

	// StateRunning means passes are being fired on schedule.
	StateRunning SchedulerState = "running"

	// StateStopped means the scheduler shut down cleanly.
	StateStopped SchedulerState = "stopped"

	// StateFaulted means a pass error escalated via stop-on-error.
	StateFaulted SchedulerState = "faulted"
)

// SchedulerConfig holds periodic scheduler configuration.
type SchedulerConfig struct {
	// Interval is the fixed rate at which passes fire.
	Interval time.Duration

	// InitialDelay is the wait before the first pass.
	InitialDelay time.Duration

	// StopOnError escalates a failed pass, terminating the scheduler.
	StopOnError bool

	// KeyboardOnError pauses for an Enter keypress after a failed pass
	// before the error is handled further.
	KeyboardOnError bool
}

// Ensure PeriodicScheduler implements the interface.
var _ driving.Scheduler = (*PeriodicScheduler)(nil)

// PeriodicScheduler fires backup passes at a fixed rate. Ticks are not
// pushed back by a slow pass; each pass runs in its own goroutine, so a
// pass outlasting the interval can overlap the next one. That matches the
// fixed-rate contract and is an accepted limitation, not a serialisation
// guarantee.
//
// All pass errors are caught at the tick boundary and logged. None
// propagate out of Start unless stop-on-error is configured.
type PeriodicScheduler struct {
	config  SchedulerConfig
	runner  driving.BackupRunner
	cleanup func()

	// keyboard is where the keyboard-on-error pause reads from.
	// Defaults to os.Stdin; replaceable in tests.
	keyboard io.Reader

	mu       sync.Mutex
	state    SchedulerState
	running  bool
	stopping bool
	stopCh   chan struct{}
	faultCh  chan error
	wg       sync.WaitGroup
}

// NewPeriodicScheduler creates a scheduler driving runner. cleanup is run
// once on stop or fault; pass the writer's dangling-handle cleanup here.
func NewPeriodicScheduler(config SchedulerConfig, runner driving.BackupRunner, cleanup func()) *PeriodicScheduler {
	return &PeriodicScheduler{
		config:   config,
		runner:   runner,
		cleanup:  cleanup,
		keyboard: os.Stdin,
		state:    StateIdle,
	}
}

// SetKeyboard overrides the reader used for the keyboard-on-error pause.
func (s *PeriodicScheduler) SetKeyboard(r io.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyboard = r
}

// State returns the current lifecycle state.
func (s *PeriodicScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins firing backup passes. It blocks until the context is
// cancelled, Stop is called, or a pass fails with stop-on-error set.
func (s *PeriodicScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopping = false
	s.state = StateRunning
	s.stopCh = make(chan struct{})
	s.faultCh = make(chan error, 1)
	s.mu.Unlock()

	logger.Debug("scheduler: starting, interval %s, initial delay %s",
		s.config.Interval, s.config.InitialDelay)

	// Initial delay before the first pass.
	delay := time.NewTimer(s.config.InitialDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		s.finish(StateStopped)
		return ctx.Err()
	case <-s.stopCh:
		return nil
	case <-delay.C:
	}

	s.firePass(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.finish(StateStopped)
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case err := <-s.faultCh:
			s.finish(StateFaulted)
			return err
		case <-ticker.C:
			s.firePass(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler and runs cleanup.
func (s *PeriodicScheduler) Stop() error {
	s.mu.Lock()
	if !s.running || s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	close(s.stopCh)
	s.mu.Unlock()

	s.finish(StateStopped)
	return nil
}

// finish waits for in-flight passes, runs cleanup, and records the final
// state. Safe to call from both the Stop path and the loop's exit paths.
func (s *PeriodicScheduler) finish(state SchedulerState) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	// Wait for in-flight passes to complete.
	s.wg.Wait()

	if s.cleanup != nil {
		s.cleanup()
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	logger.Debug("scheduler: %s", state)
}

// firePass launches one backup pass. Errors are handled at this boundary
// so a failed pass never terminates future ticks by itself.
func (s *PeriodicScheduler) firePass(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if _, err := s.runner.RunPass(ctx); err != nil {
			s.handleFault(err)
		}
	}()
}

// handleFault logs a failed pass and applies the configured error policy.
func (s *PeriodicScheduler) handleFault(err error) {
	logger.Error("scheduler: backup pass failed: %v", err)

	if s.config.KeyboardOnError {
		s.pauseForKeypress()
	}

	if s.config.StopOnError {
		select {
		case s.faultCh <- err:
		default:
			// A fault is already pending; the scheduler is coming down.
		}
	}
}

// pauseForKeypress blocks until a newline arrives on the keyboard reader.
func (s *PeriodicScheduler) pauseForKeypress() {
	s.mu.Lock()
	r := s.keyboard
	s.mu.Unlock()
	if r == nil {
		return
	}

	logger.Error("scheduler: press Enter to continue")
	_, _ = bufio.NewReader(r).ReadString('\n')
}
