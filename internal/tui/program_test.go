package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffajobchange/ffa-status/internal/api"
	"github.com/ffajobchange/ffa-status/internal/countdown"
	"github.com/ffajobchange/ffa-status/internal/lookup"
)

// gatedFetcher answers once release is closed.
type gatedFetcher struct {
	release chan struct{}
}

func (g *gatedFetcher) FetchCharacterData(ctx context.Context, _ string) (api.StatusData, error) {
	select {
	case <-g.release:
		return api.StatusData{"status": "ok"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// A backend that answers only after the extension began must still end on
// the updated message, not the extension text.
func TestModel_SlowLookupEndsOnUpdatedMessage(t *testing.T) {
	ctl := countdown.NewController(countdown.WithInterval(5 * time.Millisecond))
	t.Cleanup(ctl.Close)
	f := &gatedFetcher{release: make(chan struct{})}
	r := lookup.NewRunner(f, ctl, lookup.WithShortWait(2))

	// Record what the program bridge would forward.
	var (
		mu   sync.Mutex
		msgs []countdownMsg
		once sync.Once
	)
	unbind := ctl.OnChange(func(s countdown.State) {
		mu.Lock()
		msgs = append(msgs, countdownMsg{State: s, Message: r.Message().Load()})
		mu.Unlock()
		if s.Phase == countdown.PhaseExtended {
			once.Do(func() { close(f.release) })
		}
	})
	defer unbind()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := r.Run(ctx, "12345")
	require.NoError(t, err)
	require.True(t, res.Extended)

	m := newTestModel()
	mu.Lock()
	seen := append([]countdownMsg(nil), msgs...)
	mu.Unlock()
	for _, msg := range seen {
		m, _ = update(t, m, msg)
	}
	m, _ = update(t, m, resultMsg{Result: res})

	view := m.View()
	assert.Contains(t, view, "✓ "+lookup.UpdatedMessage)
	assert.NotContains(t, view, countdown.ExtendedMessage)
	assert.Contains(t, view, "wake up")
}
