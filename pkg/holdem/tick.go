package holdem

import (
	"fmt"
	"time"
)

type pendingPhase struct {
	next  Phase
	after time.Time
}

func (g *Game) setPendingPhase(next Phase, hold time.Duration) {
	g.pendingPhase = &pendingPhase{
		next:  next,
		after: time.Now().Add(hold),
	}
}

// Tick advances timed phase transitions: the winner display hold, game over,
// and the reset back to waiting. Returns true if the state changed. The
// room's run loop calls this periodically.
func (g *Game) Tick() (bool, error) {
	if err := g.ensureRunning(); err != nil {
		return false, err
	}

	if g.pendingPhase == nil || time.Now().Before(g.pendingPhase.after) {
		return false, nil
	}

	next := g.pendingPhase.next
	g.pendingPhase = nil

	switch next {
	case PhaseReadyForNextHand:
		g.phase = PhaseReadyForNextHand
		g.removeLeavingPlayers()

		// busted players give up their seat; they can rejoin with a
		// fresh buy-in
		for _, p := range append([]*Player(nil), g.players...) {
			if p.Chips == 0 {
				g.emitEvent(EventPlayerLeft, p.Name, 0, fmt.Sprintf("%s busted", p.Name), nil)
				g.removePlayer(p)
			}
		}

	case PhaseGameOver:
		g.phase = PhaseGameOver
		g.removeLeavingPlayers()
		g.setPendingPhase(PhaseWaiting, g.options.GameOverHold)

	case PhaseWaiting:
		// game over ran its course; clear the table
		for _, p := range g.players {
			g.bankroll -= p.Chips
		}

		g.players = nil
		g.playerCards = nil
		g.tranche = nil
		g.community = nil
		g.result = nil
		g.phase = PhaseWaiting
		g.dealerPosition = 0
		g.currentPlayerIndex = 0
	}

	return true, nil
}

// Interval returns how often Tick() should be called
func (g *Game) Interval() time.Duration {
	return time.Second
}
