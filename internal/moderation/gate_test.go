package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_ConfirmSuccessCloses(t *testing.T) {
	g := NewGate()
	calls := 0
	require.NoError(t, g.Request("sure?", func(context.Context) error {
		calls++
		return nil
	}))
	assert.Equal(t, GateOpen, g.State())
	assert.Equal(t, "sure?", g.Warning())

	require.NoError(t, g.Confirm(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, GateClosed, g.State())
	assert.Empty(t, g.Warning())
}

func TestGate_ConfirmFailureStaysOpen(t *testing.T) {
	g := NewGate()
	boom := errors.New("boom")
	require.NoError(t, g.Request("sure?", func(context.Context) error { return boom }))

	err := g.Confirm(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, GateOpen, g.State())
}

func TestGate_CancelRunsNothing(t *testing.T) {
	g := NewGate()
	called := false
	require.NoError(t, g.Request("sure?", func(context.Context) error {
		called = true
		return nil
	}))

	require.NoError(t, g.Cancel())
	assert.False(t, called)
	assert.Equal(t, GateClosed, g.State())
	assert.ErrorIs(t, g.Confirm(context.Background()), ErrGateClosed)
}

func TestGate_RequestWhilePending(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.Request("first", func(context.Context) error { return nil }))
	assert.ErrorIs(t, g.Request("second", func(context.Context) error { return nil }), ErrGateOpen)
	assert.Equal(t, "first", g.Warning())
}

func TestGate_BusyRefusesReentry(t *testing.T) {
	g := NewGate()
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	require.NoError(t, g.Request("sure?", func(context.Context) error {
		calls++
		close(started)
		<-release
		return nil
	}))

	done := make(chan error, 1)
	go func() { done <- g.Confirm(context.Background()) }()
	<-started

	assert.Equal(t, GateBusy, g.State())
	assert.ErrorIs(t, g.Confirm(context.Background()), ErrGateBusy)
	assert.ErrorIs(t, g.Cancel(), ErrGateBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
	assert.Equal(t, GateClosed, g.State())
}
