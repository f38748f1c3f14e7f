package moderation

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrGateOpen   = errors.New("confirmation already pending")
	ErrGateClosed = errors.New("no confirmation pending")
	ErrGateBusy   = errors.New("confirmed action still in flight")
)

type GateState string

const (
	GateClosed GateState = "closed"
	GateOpen   GateState = "open"
	GateBusy   GateState = "busy"
)

// GateAction is the destructive operation behind a confirmation.
type GateAction func(ctx context.Context) error

// Gate holds one pending destructive action until the user confirms it.
// The gate dismisses itself only when the confirmed action succeeds; a
// failed action leaves it open so the user can retry or cancel.
type Gate struct {
	mu      sync.Mutex
	state   GateState
	warning string
	action  GateAction
}

func NewGate() *Gate {
	return &Gate{state: GateClosed}
}

func (g *Gate) Request(warning string, action GateAction) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GateClosed {
		return ErrGateOpen
	}
	g.state = GateOpen
	g.warning = warning
	g.action = action
	return nil
}

// Confirm runs the pending action exactly once. While it runs the gate is
// busy and further confirmations are refused.
func (g *Gate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	switch g.state {
	case GateClosed:
		g.mu.Unlock()
		return ErrGateClosed
	case GateBusy:
		g.mu.Unlock()
		return ErrGateBusy
	}
	g.state = GateBusy
	action := g.action
	g.mu.Unlock()

	err := action(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = GateOpen
		return err
	}
	g.reset()
	return nil
}

// Cancel dismisses a pending confirmation without running it. An action in
// flight cannot be cancelled.
func (g *Gate) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GateBusy {
		return ErrGateBusy
	}
	g.reset()
	return nil
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Warning() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.warning
}

func (g *Gate) reset() {
	g.state = GateClosed
	g.warning = ""
	g.action = nil
}
