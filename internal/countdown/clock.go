package countdown

import "time"

// Ticker is the tick source driving a countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tick sources. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the default Clock backed by time.Ticker.
//
//nolint:gochecknoglobals // stateless default implementation.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }
