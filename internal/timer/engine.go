package timer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"tickdown/internal/logger"
)

const (
	// DefaultTickInterval is how often a running countdown recomputes and
	// reports its remaining time.
	DefaultTickInterval = 100 * time.Millisecond

	// DefaultRingTimeout is how long the alarm state persists before the
	// engine silences itself.
	DefaultRingTimeout = 60 * time.Second
)

var (
	ErrNotStopped      = errors.New("timer is not stopped")
	ErrNotRunning      = errors.New("timer is not running")
	ErrNotPaused       = errors.New("timer is not paused")
	ErrNotRinging      = errors.New("timer is not ringing")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// State is the countdown lifecycle position.
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
	StateRinging
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateRinging:
		return "ringing"
	default:
		return "unknown"
	}
}

// Snapshot is an atomic read of the engine.
type Snapshot struct {
	State     State
	Total     time.Duration
	Remaining time.Duration
	StartedAt time.Time
}

// Options tune an Engine. Zero values fall back to the defaults.
type Options struct {
	TickInterval time.Duration
	RingTimeout  time.Duration

	// Clock overrides the time source. Tests use it; production leaves
	// it nil for time.Now.
	Clock func() time.Time
}

// Engine drives one countdown: Stopped -> Running <-> Paused, Running ->
// Ringing when the countdown hits zero, and back to Stopped on
// acknowledge, reset, or ring timeout.
//
// Remaining time is always recomputed from the start instant rather than
// decremented per tick, so a stalled ticker can never drift the
// countdown. Pausing records the pause instant; resuming shifts the
// start instant forward by the pause length, which keeps paused time out
// of the elapsed total exactly.
type Engine struct {
	mu sync.Mutex

	state     State
	total     time.Duration
	remaining time.Duration

	// startedAt is the elapsed-time origin and moves forward on resume.
	// startedWall is the wall-clock moment Start was called and does not.
	startedAt   time.Time
	startedWall time.Time
	pausedAt    time.Time

	tick        time.Duration
	ringTimeout time.Duration
	now         func() time.Time

	// run is a generation counter. Every transition bumps it, so stale
	// tick loops and ring timers notice under the lock and bail without
	// emitting anything.
	run       uint64
	ringTimer *time.Timer
	shutdown  bool

	tickHandler   func(remaining time.Duration)
	stateHandler  func(old, new State)
	finishHandler func(total time.Duration)

	log logger.Logger
}

// NewEngine creates a stopped engine armed with the given duration.
func NewEngine(total time.Duration, log logger.Logger, opts Options) *Engine {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.RingTimeout <= 0 {
		opts.RingTimeout = DefaultRingTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if log == nil {
		log = logger.NewNop()
	}
	if total < 0 {
		total = 0
	}

	return &Engine{
		state:       StateStopped,
		total:       total,
		remaining:   total,
		tick:        opts.TickInterval,
		ringTimeout: opts.RingTimeout,
		now:         opts.Clock,
		log:         log,
	}
}

// SetTickHandler registers the remaining-time callback. Handlers are
// invoked outside the engine lock.
func (e *Engine) SetTickHandler(handler func(remaining time.Duration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickHandler = handler
}

// SetStateHandler registers the transition callback.
func (e *Engine) SetStateHandler(handler func(old, new State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stateHandler = handler
}

// SetFinishHandler registers the countdown-reached-zero callback. It
// fires exactly once per run, before the Running -> Ringing transition
// is reported.
func (e *Engine) SetFinishHandler(handler func(total time.Duration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.finishHandler = handler
}

// SetDuration arms a new total. Only legal while stopped.
func (e *Engine) SetDuration(d time.Duration) error {
	e.mu.Lock()
	if e.state != StateStopped {
		e.mu.Unlock()
		return errors.Wrapf(ErrNotStopped, "cannot set duration in state %s", e.state)
	}
	if d <= 0 {
		e.mu.Unlock()
		return errors.Wrapf(ErrInvalidDuration, "%s", d)
	}
	e.total = d
	e.remaining = d
	e.mu.Unlock()

	e.emitTick(d)
	return nil
}

// SetRingTimeout adjusts how long the ringing state lasts. Applies from
// the next finish.
func (e *Engine) SetRingTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	e.mu.Lock()
	e.ringTimeout = d
	e.mu.Unlock()
}

// Start begins the countdown.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.shutdown || e.state != StateStopped {
		e.mu.Unlock()
		return errors.Wrapf(ErrNotStopped, "cannot start in state %s", e.state)
	}
	if e.total <= 0 {
		e.mu.Unlock()
		return errors.Wrap(ErrInvalidDuration, "no duration armed")
	}

	now := e.now()
	e.startedAt = now
	e.startedWall = now
	e.remaining = e.total
	e.run++
	gen := e.run
	total := e.total
	e.state = StateRunning
	e.mu.Unlock()

	e.log.Debug("TimerEngine", "countdown started", map[string]interface{}{
		"total": total.String(),
	})

	e.emitState(StateStopped, StateRunning)
	e.emitTick(total)
	go e.loop(gen)
	return nil
}

// Pause freezes a running countdown.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return errors.Wrapf(ErrNotRunning, "cannot pause in state %s", e.state)
	}

	now := e.now()
	e.pausedAt = now
	e.remaining = e.remainingLocked(now)
	e.run++
	e.state = StatePaused
	frozen := e.remaining
	e.mu.Unlock()

	e.emitTick(frozen)
	e.emitState(StateRunning, StatePaused)
	return nil
}

// Resume continues a paused countdown. The pause length is added to the
// start instant so it never counts as elapsed time.
func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.state != StatePaused {
		e.mu.Unlock()
		return errors.Wrapf(ErrNotPaused, "cannot resume in state %s", e.state)
	}

	e.startedAt = e.startedAt.Add(e.now().Sub(e.pausedAt))
	e.run++
	gen := e.run
	e.state = StateRunning
	e.mu.Unlock()

	e.emitState(StatePaused, StateRunning)
	go e.loop(gen)
	return nil
}

// Reset returns to the stopped state from anywhere, cancelling the ring
// timer if one is armed. It is idempotent.
func (e *Engine) Reset() {
	e.mu.Lock()
	if e.state == StateStopped {
		e.remaining = e.total
		e.mu.Unlock()
		return
	}

	old := e.state
	e.state = StateStopped
	e.run++
	e.remaining = e.total
	e.stopRingTimerLocked()
	total := e.total
	e.mu.Unlock()

	e.log.Debug("TimerEngine", "countdown reset", map[string]interface{}{
		"from": old.String(),
	})

	e.emitState(old, StateStopped)
	e.emitTick(total)
}

// Acknowledge silences the alarm and returns to the stopped state.
func (e *Engine) Acknowledge() error {
	e.mu.Lock()
	if e.state != StateRinging {
		e.mu.Unlock()
		return errors.Wrapf(ErrNotRinging, "cannot acknowledge in state %s", e.state)
	}

	e.state = StateStopped
	e.run++
	e.remaining = e.total
	e.stopRingTimerLocked()
	total := e.total
	e.mu.Unlock()

	e.emitState(StateRinging, StateStopped)
	e.emitTick(total)
	return nil
}

// Snapshot reads the engine atomically. While running, the remaining
// value is recomputed live rather than reported from the last tick.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	remaining := e.remaining
	if e.state == StateRunning {
		remaining = e.remainingLocked(e.now())
	}

	return Snapshot{
		State:     e.state,
		Total:     e.total,
		Remaining: remaining,
		StartedAt: e.startedWall,
	}
}

// Shutdown stops the tick loop and ring timer. No callbacks fire after
// it returns. Safe to call more than once.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return
	}
	e.shutdown = true
	e.state = StateStopped
	e.run++
	e.stopRingTimerLocked()
	e.mu.Unlock()

	e.log.Debug("TimerEngine", "shutdown", nil)
}

func (e *Engine) loop(gen uint64) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for range ticker.C {
		if !e.advance(gen) {
			return
		}
	}
}

// advance recomputes the remaining time for one tick. It returns false
// when the loop should exit: the generation went stale or the countdown
// finished.
func (e *Engine) advance(gen uint64) bool {
	e.mu.Lock()
	if e.run != gen || e.state != StateRunning {
		e.mu.Unlock()
		return false
	}

	remaining := e.remainingLocked(e.now())
	e.remaining = remaining

	if remaining > 0 {
		e.mu.Unlock()
		e.emitTick(remaining)
		return true
	}

	// Countdown finished: ring, and arm the auto-silence timer.
	e.state = StateRinging
	e.run++
	ringGen := e.run
	total := e.total
	timeout := e.ringTimeout
	e.ringTimer = time.AfterFunc(timeout, func() {
		e.ringTimeoutFired(ringGen)
	})
	e.mu.Unlock()

	e.log.Info("TimerEngine", "countdown finished", map[string]interface{}{
		"total":        total.String(),
		"ring_timeout": timeout.String(),
	})

	e.emitTick(0)
	e.emitFinish(total)
	e.emitState(StateRunning, StateRinging)
	return false
}

func (e *Engine) ringTimeoutFired(gen uint64) {
	e.mu.Lock()
	if e.run != gen || e.state != StateRinging {
		e.mu.Unlock()
		return
	}

	e.state = StateStopped
	e.run++
	e.remaining = e.total
	e.ringTimer = nil
	total := e.total
	e.mu.Unlock()

	e.log.Info("TimerEngine", "alarm auto-silenced", nil)

	e.emitState(StateRinging, StateStopped)
	e.emitTick(total)
}

// remainingLocked computes total minus elapsed, saturating at zero.
// Callers hold e.mu.
func (e *Engine) remainingLocked(now time.Time) time.Duration {
	remaining := e.total - now.Sub(e.startedAt)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (e *Engine) stopRingTimerLocked() {
	if e.ringTimer != nil {
		e.ringTimer.Stop()
		e.ringTimer = nil
	}
}

func (e *Engine) emitTick(remaining time.Duration) {
	e.mu.Lock()
	handler := e.tickHandler
	e.mu.Unlock()

	if handler != nil {
		handler(remaining)
	}
}

func (e *Engine) emitState(old, new State) {
	e.mu.Lock()
	handler := e.stateHandler
	e.mu.Unlock()

	if handler != nil {
		handler(old, new)
	}
}

func (e *Engine) emitFinish(total time.Duration) {
	e.mu.Lock()
	handler := e.finishHandler
	e.mu.Unlock()

	if handler != nil {
		handler(total)
	}
}
