package countdown

import (
	"context"

	"go.uber.org/atomic"
)

// Outcome describes how a countdown's short phase ended.
type Outcome int

const (
	// OutcomeFinished means the short phase ran out after an external update.
	OutcomeFinished Outcome = iota
	// OutcomeExtended means no update arrived in time and the extension phase began.
	OutcomeExtended
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// Completion is a single-fire signal returned by Controller.Start.
// Done is closed at most once; a countdown superseded by a later Start
// never fires.
type Completion struct {
	fired   *atomic.Bool
	done    chan struct{}
	outcome Outcome
}

func newCompletion() *Completion {
	return &Completion{
		fired: atomic.NewBool(false),
		done:  make(chan struct{}),
	}
}

// fire closes Done with o. Only the first call has any effect.
func (c *Completion) fire(o Outcome) bool {
	if !c.fired.CompareAndSwap(false, true) {
		return false
	}
	c.outcome = o
	close(c.done)
	return true
}

// Done returns a channel closed when the completion fires.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Fired reports whether the completion has fired.
func (c *Completion) Fired() bool { return c.fired.Load() }

// Outcome blocks until the completion fires and returns how it ended.
func (c *Completion) Outcome() Outcome {
	<-c.done
	return c.outcome
}

// Wait blocks until the completion fires or ctx is done.
func (c *Completion) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-c.done:
		return c.outcome, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
