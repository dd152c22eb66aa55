package holdem

import (
	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/snapshot"
)

// Snapshot produces the immutable state snapshot broadcast after every
// action. Observers render it; they never mutate engine state.
func (g *Game) Snapshot() *snapshot.State {
	players := make([]snapshot.Player, len(g.players))
	for i, p := range g.players {
		players[i] = snapshot.Player{
			Name:           p.Name,
			Seat:           p.Seat,
			Chips:          p.Chips,
			Status:         string(p.Status),
			CurrentBet:     p.CurrentBet,
			TotalCommitted: p.TotalCommitted,
			LastAction:     string(p.LastAction),
		}
	}

	state := &snapshot.State{
		TableID:            g.tableID,
		HandNumber:         g.handNumber,
		Phase:              g.phase.String(),
		Pot:                g.pot,
		CurrentBet:         g.currentBet,
		DealerPosition:     g.dealerPosition,
		CurrentPlayerIndex: g.currentPlayerIndex,
		Players:            players,
		CommunityCards:     g.community,
	}

	if g.phase.InHand() || g.phase == PhaseWinner {
		state.DealtCards = &snapshot.DealtCards{
			PlayerCards:    g.playerCards,
			CommunityCards: g.tranche,
		}
	}

	if g.result != nil {
		state.Winner = &snapshot.Result{
			Winners: g.result.Winners,
			Payouts: g.result.Payouts,
			Reason:  g.result.Reason,
			Hands:   g.result.Hands,
		}

		if g.result.Reason == ReasonShowdown {
			shown := make(map[string][]*deck.Card)
			for _, p := range g.players {
				if p.inHand() {
					shown[p.Name] = p.holeCards
				}
			}

			state.ShowdownCards = shown
		}
	}

	return state
}
