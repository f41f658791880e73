package timeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
)

// DefaultInterval is the auto-advance period used when none is configured.
const DefaultInterval = 2500 * time.Millisecond

// ErrStepOutOfRange is returned by Seek for indexes outside the timeline.
var ErrStepOutOfRange = errors.New("timeline: step index out of range")

// State is the player's position in its play/pause state machine.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stopper cancels a pending timer callback. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// AfterFunc arms a one-shot timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Option customizes Player construction.
type Option func(*Player)

// WithInterval overrides the auto-advance period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithObserver registers a callback invoked with the new current step after
// every transition. It runs while the player lock is held, in transition
// order, and must not call back into the player.
func WithObserver(fn func(Step)) Option {
	return func(p *Player) {
		if fn != nil {
			p.observer = fn
		}
	}
}

// WithAfterFunc swaps the timer factory; tests use it to fire ticks by hand.
func WithAfterFunc(fn AfterFunc) Option {
	return func(p *Player) {
		if fn != nil {
			p.after = fn
		}
	}
}

// WithLogger attaches a structured logger for transition tracing.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// Player replays a Timeline. All methods are safe for concurrent use; the
// auto-advance timer is the only background activity and there is at most one
// per player.
type Player struct {
	mu       sync.Mutex
	timeline Timeline
	index    int
	playing  bool
	closed   bool

	interval time.Duration
	after    AfterFunc
	timer    Stopper
	// generation invalidates callbacks from timers that were cancelled after
	// they had already started firing.
	generation uint64

	observer func(Step)
	logger   *slog.Logger
}

// NewPlayer prepares a player positioned at the first step.
func NewPlayer(tl Timeline, opts ...Option) (*Player, error) {
	if len(tl.Steps) == 0 {
		return nil, fmt.Errorf("timeline: player requires at least one step")
	}
	p := &Player{
		timeline: tl,
		interval: DefaultInterval,
		after:    realAfterFunc,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Current returns the step the player is positioned on.
func (p *Player) Current() Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeline.Steps[p.index]
}

// Index returns the current step index.
func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Len returns the number of steps.
func (p *Player) Len() int {
	return len(p.timeline.Steps)
}

// Steps returns the full, immutable step sequence.
func (p *Player) Steps() []Step {
	return p.timeline.Steps
}

// Timeline returns the timeline being replayed.
func (p *Player) Timeline() Timeline {
	return p.timeline
}

// Interval returns the auto-advance period.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Summary returns the aggregate metrics of the finished schedule.
func (p *Player) Summary() sjf.Metrics {
	return p.timeline.Schedule.Metrics
}

// Terminal returns the final step together with the aggregate metrics.
func (p *Player) Terminal() (Step, sjf.Metrics) {
	return p.timeline.Steps[p.last()], p.Summary()
}

// State reports Idle, Playing or Finished.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// IsPlaying reports whether auto-advance is active.
func (p *Player) IsPlaying() bool {
	return p.State() == StatePlaying
}

// IsFinished reports whether the player is on the terminal step.
func (p *Player) IsFinished() bool {
	return p.State() == StateFinished
}

// Play starts auto-advance. It is a no-op when already playing, finished or
// closed.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.playing || p.index >= p.last() {
		return
	}
	p.playing = true
	p.arm()
	p.logger.Debug("playback started", "step", p.index, "interval", p.interval)
}

// Pause stops auto-advance. No transition happens after Pause returns.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.playing = false
	p.cancel()
	p.logger.Debug("playback paused", "step", p.index)
}

// Toggle pauses a playing player and plays a paused one.
func (p *Player) Toggle() {
	if p.IsPlaying() {
		p.Pause()
		return
	}
	p.Play()
}

// Next advances one step and reports whether it moved. At the terminal step it
// is a no-op.
func (p *Player) Next() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.index >= p.last() {
		return false
	}
	p.advance()
	if p.index >= p.last() && p.playing {
		p.playing = false
		p.cancel()
	}
	return true
}

// Reset cancels auto-advance and returns to the first step.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.cancel()
	p.index = 0
	p.logger.Debug("playback reset")
	p.notify()
}

// Seek cancels auto-advance and jumps to step i.
func (p *Player) Seek(i int) error {
	if i < 0 || i > p.last() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrStepOutOfRange, i, p.last())
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.cancel()
	p.index = i
	p.notify()
	return nil
}

// Close cancels any pending timer. Play and Next are no-ops on a closed
// player; Reset and Seek still reposition it.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.playing = false
	p.cancel()
}

func (p *Player) last() int {
	return len(p.timeline.Steps) - 1
}

func (p *Player) stateLocked() State {
	switch {
	case p.index >= p.last():
		return StateFinished
	case p.playing:
		return StatePlaying
	default:
		return StateIdle
	}
}

// arm replaces any pending timer with a fresh one. Callers hold p.mu.
func (p *Player) arm() {
	p.cancel()
	gen := p.generation
	p.timer = p.after(p.interval, func() { p.tick(gen) })
}

// cancel stops the pending timer and bumps the generation so a callback that
// is already running becomes a no-op. Callers hold p.mu.
func (p *Player) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.generation++
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation || !p.playing || p.closed {
		return
	}
	p.timer = nil
	p.advance()
	if p.index >= p.last() {
		p.playing = false
		p.generation++
		p.logger.Debug("playback finished", "step", p.index)
		return
	}
	p.arm()
}

func (p *Player) advance() {
	p.index++
	p.logger.Debug("step advanced", "step", p.index, "time", p.timeline.Steps[p.index].Time)
	p.notify()
}

func (p *Player) notify() {
	if p.observer != nil {
		p.observer(p.timeline.Steps[p.index])
	}
}
