package main

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/ffajobchange/ffa-status/internal/api"
	"github.com/ffajobchange/ffa-status/internal/countdown"
)

// newStatusTestCmd points the status flags and files at a temp HOME and
// captures the controller runStatus creates.
func newStatusTestCmd(t *testing.T, base string) (*cobra.Command, *bytes.Buffer, **countdown.Controller) {
	t.Helper()
	home := tempHome(t)

	prevStorage, prevConfig, prevNew := storageFile, configFile, newController
	prevJSON, prevTUI := jsonOutput, tuiMode
	t.Cleanup(func() {
		storageFile, configFile, newController = prevStorage, prevConfig, prevNew
		jsonOutput, tuiMode = prevJSON, prevTUI
	})
	storageFile = filepath.Join(home, "history.json")
	configFile = filepath.Join(home, "missing.yaml")
	jsonOutput, tuiMode = false, false

	var ctl *countdown.Controller
	newController = func(opts ...countdown.Option) *countdown.Controller {
		ctl = countdown.NewController(opts...)
		return ctl
	}

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "")
	cmd.Flags().IntVar(&shortWait, "wait", 0, "")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "")
	require.NoError(t, cmd.Flags().Set("base-url", base))
	require.NoError(t, cmd.Flags().Set("wait", "1"))
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out, &ctl
}

func TestRunStatus_ClosesCountdownOnFetchError(t *testing.T) {
	base := statusServer(t, http.StatusNotFound, `{"error":"character not found"}`, 0)
	cmd, out, ctl := newStatusTestCmd(t, base)

	err := runStatus(cmd, []string{"42"})
	require.ErrorIs(t, err, api.ErrFetchFailed)
	assert.Equal(t, "character not found", err.Error())
	assert.Empty(t, out.String())

	require.NotNil(t, *ctl)
	_, err = (*ctl).Start(1, countdown.NewMessage(""))
	assert.ErrorIs(t, err, countdown.ErrClosed)
}

func TestRunStatus_PrintsResultAndCloses(t *testing.T) {
	base := statusServer(t, http.StatusOK, `{"status":"ok"}`, 0)
	cmd, out, ctl := newStatusTestCmd(t, base)

	start := time.Now()
	require.NoError(t, runStatus(cmd, []string{"42"}))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, out.String(), "Character 42")

	_, err := (*ctl).Start(1, countdown.NewMessage(""))
	assert.ErrorIs(t, err, countdown.ErrClosed)
}

func TestRunStatus_NoCharacterRemembered(t *testing.T) {
	cmd, _, ctl := newStatusTestCmd(t, "http://127.0.0.1:1/api")

	err := runStatus(cmd, nil)
	require.ErrorIs(t, err, errNoCharacterID)
	assert.Nil(t, *ctl, "no countdown is created without a character")
}
