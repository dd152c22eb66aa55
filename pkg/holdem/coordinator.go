package holdem

import (
	"sync"
	"time"

	"github.com/weedbox/timebank"
)

// TurnCoordinator enforces the per-actor time budget. At most one timer is
// armed per table. On expiry it hands the armed scope to the callback, which
// must submit the synthesized fold through the table's single-writer path;
// the engine rejects the fold if the scope no longer matches.
type TurnCoordinator struct {
	timeout time.Duration
	expired func(TurnScope)

	mu    sync.Mutex
	bank  *timebank.TimeBank
	armed *TurnScope
}

// NewTurnCoordinator returns a coordinator that calls expired after timeout
// elapses without the armed decision being made
func NewTurnCoordinator(timeout time.Duration, expired func(TurnScope)) *TurnCoordinator {
	return &TurnCoordinator{
		timeout: timeout,
		expired: expired,
		bank:    timebank.NewTimeBank(),
	}
}

// Arm starts the single-shot timer for the given decision, cancelling any
// previously armed timer. Re-arming the same scope is a no-op so an actor's
// clock is not reset by unrelated state changes.
func (tc *TurnCoordinator) Arm(scope TurnScope) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.armed != nil && *tc.armed == scope {
		return
	}

	tc.cancelLocked()
	tc.armed = &scope

	_ = tc.bank.NewTask(tc.timeout, func(isCancelled bool) {
		if isCancelled {
			return
		}

		tc.mu.Lock()
		tc.armed = nil
		tc.mu.Unlock()

		tc.expired(scope)
	})
}

// Cancel stops the armed timer, if any
func (tc *TurnCoordinator) Cancel() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cancelLocked()
}

func (tc *TurnCoordinator) cancelLocked() {
	if tc.armed == nil {
		return
	}

	tc.bank.Cancel()
	tc.bank = timebank.NewTimeBank()
	tc.armed = nil
}
