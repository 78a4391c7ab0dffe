// Package countdown implements the two-phase wait shown while a status
// lookup is in flight: a short countdown that, when nobody updates the
// caller's message slot in time, falls through to a longer extension.
package countdown

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/ffajobchange/ffa-status/internal/validate"
)

const (
	DefaultInterval         = time.Second
	DefaultExtensionSeconds = 90

	InitialMessage  = "Reflecting in about"
	ExtendedMessage = "The server may be asleep... please wait a little longer"
)

var (
	ErrInvalidDuration = errors.New("countdown duration must be at least 1 second")
	ErrNilMessage      = errors.New("countdown requires a message slot")
	ErrClosed          = errors.New("countdown controller closed")
)

// Phase is the controller's position in the countdown state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountingDown
	PhaseExtended
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountingDown:
		return "counting down"
	case PhaseExtended:
		return "extended"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// State is what a display surface reads to render the countdown.
type State struct {
	Remaining int
	Visible   bool
	Phase     Phase
}

// run is one Start call's tick source and completion.
type run struct {
	seq      uint64
	ticker   Ticker
	stop     chan struct{}
	stopOnce sync.Once
	done     *Completion
}

func (r *run) cancel() {
	r.stopOnce.Do(func() {
		r.ticker.Stop()
		close(r.stop)
	})
}

// Controller owns the countdown state and at most one live tick source.
type Controller struct {
	mu     sync.Mutex
	state  State
	cur    *run
	seq    uint64
	closed bool

	clock            Clock
	interval         time.Duration
	extensionSeconds int
	initialMessage   string
	extendedMessage  string

	obsMu     sync.Mutex
	observers map[int64]func(State)
	nextObsID *atomic.Int64

	// deliverMu orders deliveries; delivered is the newest run seen by observers.
	deliverMu sync.Mutex
	delivered uint64

	log *logrus.Entry
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the tick source factory.
func WithClock(c Clock) Option {
	return func(ctl *Controller) {
		if c != nil {
			ctl.clock = c
		}
	}
}

// WithInterval sets the time between ticks.
func WithInterval(d time.Duration) Option {
	return func(ctl *Controller) {
		if d > 0 {
			ctl.interval = d
		}
	}
}

// WithExtensionSeconds sets the length of the extension phase.
func WithExtensionSeconds(n int) Option {
	return func(ctl *Controller) {
		if n > 0 {
			ctl.extensionSeconds = n
		}
	}
}

// WithMessages overrides the initial and extension messages. Empty values keep the defaults.
func WithMessages(initial, extended string) Option {
	return func(ctl *Controller) {
		if initial != "" {
			ctl.initialMessage = initial
		}
		if extended != "" {
			ctl.extendedMessage = extended
		}
	}
}

// NewController returns an idle controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		clock:            SystemClock,
		interval:         DefaultInterval,
		extensionSeconds: DefaultExtensionSeconds,
		initialMessage:   InitialMessage,
		extendedMessage:  ExtendedMessage,
		observers:        make(map[int64]func(State)),
		nextObsID:        atomic.NewInt64(0),
		log:              logrus.WithField("component", "countdown"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InitialMessage returns the sentinel written into the slot on Start.
func (c *Controller) InitialMessage() string { return c.initialMessage }

// ExtendedMessage returns the message written when the extension begins.
func (c *Controller) ExtendedMessage() string { return c.extendedMessage }

// State returns a snapshot of the current countdown state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers fn to receive every state change. The returned func unregisters it.
// fn runs on the goroutine that changed the state, must not block for long
// and must not call Start.
func (c *Controller) OnChange(fn func(State)) (unbind func()) {
	id := c.nextObsID.Inc()
	c.obsMu.Lock()
	c.observers[id] = fn
	c.obsMu.Unlock()
	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// notify delivers s, taken from run seq, to every observer. Snapshots from a
// run older than one already delivered are dropped.
func (c *Controller) notify(seq uint64, s State) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	if seq < c.delivered {
		return
	}
	c.delivered = seq

	c.obsMu.Lock()
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

// Start cancels any running countdown and begins a new one of durationSeconds.
// The returned Completion fires once: when the short phase ends, or when the
// extension begins because message still holds the initial message.
func (c *Controller) Start(durationSeconds int, message MessageSlot) (*Completion, error) {
	if err := validate.Var(durationSeconds, "gte=1"); err != nil {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationSeconds)
	}
	if message == nil {
		return nil, ErrNilMessage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.cur != nil {
		c.cur.cancel()
		c.log.Debug("superseded running countdown")
	}
	c.state = State{Remaining: durationSeconds, Visible: true, Phase: PhaseCountingDown}
	message.Store(c.initialMessage)
	c.seq++
	r := &run{
		seq:    c.seq,
		ticker: c.clock.NewTicker(c.interval),
		stop:   make(chan struct{}),
		done:   newCompletion(),
	}
	c.cur = r
	snap := c.state
	c.mu.Unlock()

	c.log.WithField("seconds", durationSeconds).Debug("countdown started")
	c.notify(r.seq, snap)
	go c.loop(r, message)
	return r.done, nil
}

// Close stops the live tick source. Later Start calls return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cur != nil {
		c.cur.cancel()
		c.cur = nil
	}
}

func (c *Controller) loop(r *run, message MessageSlot) {
	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.C():
			if !c.tick(r, message) {
				return
			}
		}
	}
}

// tick advances the state machine by one step. It returns false once r
// should stop ticking.
func (c *Controller) tick(r *run, message MessageSlot) bool {
	c.mu.Lock()
	if c.cur != r {
		// Superseded between the tick firing and acquiring the lock.
		c.mu.Unlock()
		return false
	}

	keep := true
	switch {
	case c.state.Remaining > 1:
		c.state.Remaining--
	case c.state.Remaining == 1 && c.state.Phase == PhaseCountingDown &&
		message.CompareAndSwap(c.initialMessage, c.extendedMessage):
		c.state.Remaining = c.extensionSeconds
		c.state.Phase = PhaseExtended
		r.done.fire(OutcomeExtended)
		c.log.WithField("seconds", c.extensionSeconds).Info("no update yet, extending countdown")
	default:
		if r.done.fire(OutcomeFinished) {
			c.log.Debug("countdown finished")
		}
		c.state.Phase = PhaseFinished
		r.cancel()
		keep = false
	}
	snap := c.state
	c.mu.Unlock()

	c.notify(r.seq, snap)
	return keep
}
