// Package lookup runs one character status lookup: it shows the countdown
// while the backend is queried and records the outcome.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ffajobchange/ffa-status/internal/api"
	"github.com/ffajobchange/ffa-status/internal/config"
	"github.com/ffajobchange/ffa-status/internal/countdown"
	"github.com/ffajobchange/ffa-status/internal/storage"
	"github.com/ffajobchange/ffa-status/internal/validate"
)

// Messages the runner writes into the slot once the fetch settles.
const (
	UpdatedMessage = "Status updated"
	FailedPrefix   = "Lookup failed: "
)

var ErrInvalidCharacterID = errors.New("invalid character id")

// Recorder persists finished lookups. *storage.Storage satisfies it.
type Recorder interface {
	Record(l storage.Lookup) error
}

// Result is the outcome of one Run.
type Result struct {
	RequestID   string
	CharacterID string
	Status      api.StatusData
	Message     string // slot text once the lookup settled
	Extended    bool
	Elapsed     time.Duration
}

// Runner ties a fetcher to a countdown controller.
type Runner struct {
	fetcher   api.StatusFetcher
	countdown *countdown.Controller
	message   *countdown.Message
	shortWait int
	recorder  Recorder
	log       *logrus.Entry
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder records every finished lookup.
func WithRecorder(r Recorder) RunnerOption {
	return func(rn *Runner) { rn.recorder = r }
}

// WithShortWait sets the first countdown phase length in seconds.
func WithShortWait(seconds int) RunnerOption {
	return func(rn *Runner) {
		if seconds > 0 {
			rn.shortWait = seconds
		}
	}
}

// NewRunner returns a Runner that drives ctl while fetching through f.
func NewRunner(f api.StatusFetcher, ctl *countdown.Controller, opts ...RunnerOption) *Runner {
	r := &Runner{
		fetcher:   f,
		countdown: ctl,
		message:   countdown.NewMessage(""),
		shortWait: config.DefaultShortWaitSeconds,
		log:       logrus.WithField("component", "lookup"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Message is the slot the countdown and runner write into; display surfaces read it.
func (r *Runner) Message() *countdown.Message { return r.message }

// Countdown returns the controller driven by the runner.
func (r *Runner) Countdown() *countdown.Controller { return r.countdown }

type fetchResult struct {
	data api.StatusData
	err  error
}

// Run fetches characterID's status while the countdown runs. It returns
// once both the fetch has settled and the countdown has signalled
// completion, or when ctx ends. The fetch error, if any, is returned.
func (r *Runner) Run(ctx context.Context, characterID string) (Result, error) {
	res := Result{CharacterID: characterID, RequestID: uuid.NewString()}
	if err := validate.CharacterID(characterID); err != nil {
		return res, fmt.Errorf("%w: %q", ErrInvalidCharacterID, characterID)
	}
	log := r.log.WithFields(logrus.Fields{"character": characterID, "request_id": res.RequestID})

	start := time.Now()
	done, err := r.countdown.Start(r.shortWait, r.message)
	if err != nil {
		return res, err
	}

	fetched := make(chan fetchResult, 1)
	go func() {
		data, err := r.fetcher.FetchCharacterData(api.WithRequestID(ctx, res.RequestID), characterID)
		fetched <- fetchResult{data: data, err: err}
	}()

	var fr fetchResult
	select {
	case fr = <-fetched:
	case <-ctx.Done():
		return res, ctx.Err()
	}
	if fr.err != nil {
		r.message.Store(FailedPrefix + fr.err.Error())
		log.WithError(fr.err).Debug("fetch failed")
	} else {
		r.message.Store(UpdatedMessage)
		log.Debug("fetch succeeded")
	}

	outcome, err := done.Wait(ctx)
	if err != nil {
		return res, err
	}
	res.Status = fr.data
	res.Message = r.message.Load()
	res.Extended = outcome == countdown.OutcomeExtended
	res.Elapsed = time.Since(start)

	r.record(res, fr.err)
	return res, fr.err
}

func (r *Runner) record(res Result, fetchErr error) {
	if r.recorder == nil {
		return
	}
	l := storage.Lookup{
		ID:          res.RequestID,
		CharacterID: res.CharacterID,
		FetchedAt:   time.Now().UTC(),
		Status:      res.Status,
		Extended:    res.Extended,
	}
	if fetchErr != nil {
		l.Error = fetchErr.Error()
	}
	if err := r.recorder.Record(l); err != nil {
		r.log.WithError(err).Warn("could not record lookup")
	}
}
