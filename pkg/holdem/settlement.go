package holdem

import (
	"fmt"
	"sort"

	"pokerarena-server/pkg/poker"
)

// hand result reasons
const (
	ReasonFold     = "fold"
	ReasonShowdown = "showdown"
)

// SidePot is a portion of the pot contestable only by players who
// contributed at least its tier
type SidePot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// HandResult describes how a hand finished and who was paid
type HandResult struct {
	Winners []string          `json:"winners"`
	Payouts map[string]int    `json:"payouts"`
	Reason  string            `json:"reason"`
	Hands   map[string]string `json:"hands,omitempty"`
}

// sidePots partitions the total contributions by the distinct all-in levels,
// lowest first. The final pot covers everything above the highest all-in
// level and is open to every remaining player.
func (g *Game) sidePots() []SidePot {
	levels := make([]int, 0, len(g.players))
	seen := make(map[int]bool)
	maxCommitted := 0

	for _, p := range g.players {
		if p.TotalCommitted > maxCommitted {
			maxCommitted = p.TotalCommitted
		}

		if p.Status == StatusAllIn && !seen[p.TotalCommitted] {
			seen[p.TotalCommitted] = true
			levels = append(levels, p.TotalCommitted)
		}
	}

	sort.Ints(levels)
	if len(levels) == 0 || levels[len(levels)-1] < maxCommitted {
		levels = append(levels, maxCommitted)
	}

	pots := make([]SidePot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		amount := 0
		for _, p := range g.players {
			contribution := p.TotalCommitted
			if contribution > level {
				contribution = level
			}

			if contribution > prev {
				amount += contribution - prev
			}
		}

		eligible := make([]string, 0, len(g.players))
		for _, p := range g.players {
			if p.inHand() && p.TotalCommitted >= level {
				eligible = append(eligible, p.Name)
			}
		}

		if amount > 0 && len(eligible) > 0 {
			pots = append(pots, SidePot{Amount: amount, Eligible: eligible})
		}

		prev = level
	}

	return pots
}

// showdown evaluates every remaining hand and settles each pot
// independently, splitting exact ties with any remainder chips paid
// clockwise from the dealer
func (g *Game) showdown() {
	g.phase = PhaseShowdown
	g.community = g.tranche

	ranks := make(map[string]poker.HandRank)
	hands := make(map[string]string)
	for _, p := range g.players {
		if !p.inHand() {
			continue
		}

		rank, err := poker.BestHand(p.holeCards, g.community)
		if err != nil {
			_ = g.halt(fmt.Sprintf("could not evaluate %s: %v", p.Name, err))
			return
		}

		ranks[p.Name] = rank
		hands[p.Name] = rank.String()
	}

	payouts := make(map[string]int)
	for _, pot := range g.sidePots() {
		best := ranks[pot.Eligible[0]]
		for _, name := range pot.Eligible[1:] {
			if ranks[name].Beats(best) {
				best = ranks[name]
			}
		}

		winners := make([]*Player, 0, len(pot.Eligible))
		for _, name := range pot.Eligible {
			if ranks[name].Compare(best) == 0 {
				winners = append(winners, g.playerByName(name))
			}
		}

		g.payPot(pot.Amount, winners, payouts)
	}

	g.pot = 0

	winners := make([]string, 0, len(payouts))
	for _, p := range g.clockwiseFromDealer() {
		if payouts[p.Name] > 0 {
			winners = append(winners, p.Name)
		}
	}

	g.result = &HandResult{
		Winners: winners,
		Payouts: payouts,
		Reason:  ReasonShowdown,
		Hands:   hands,
	}

	g.finishHand()
}

// payPot splits amount evenly among winners. Remainder chips go one each to
// the winners closest to the dealer's left so the total payout is exact.
func (g *Game) payPot(amount int, winners []*Player, payouts map[string]int) {
	sort.Slice(winners, func(i, j int) bool {
		return g.seatsFromDealer(winners[i].Seat) < g.seatsFromDealer(winners[j].Seat)
	})

	share := amount / len(winners)
	remainder := amount % len(winners)

	for i, winner := range winners {
		won := share
		if i < remainder {
			won++
		}

		winner.Chips += won
		payouts[winner.Name] += won
	}
}

// finishByFold awards the pot to the last player standing without a showdown
func (g *Game) finishByFold() {
	var winner *Player
	for _, p := range g.players {
		if p.inHand() {
			winner = p
			break
		}
	}

	amount := g.pot
	winner.Chips += amount
	g.pot = 0

	g.result = &HandResult{
		Winners: []string{winner.Name},
		Payouts: map[string]int{winner.Name: amount},
		Reason:  ReasonFold,
	}

	g.finishHand()
}

// finishHand moves the table to the winner display and schedules what comes
// after the hold window
func (g *Game) finishHand() {
	g.phase = PhaseWinner

	g.emitEvent(EventHandFinished, "", 0,
		fmt.Sprintf("hand #%d finished", g.handNumber), g.result)

	funded := 0
	for _, p := range g.players {
		if p.Chips > 0 && !p.leaving {
			funded++
		}
	}

	next := PhaseGameOver
	if funded >= 2 {
		next = PhaseReadyForNextHand
	}

	g.setPendingPhase(next, g.options.WinnerHold)
}

// seatsFromDealer returns the clockwise distance from the dealer's left
func (g *Game) seatsFromDealer(seat int) int {
	n := len(g.players)
	return ((seat - g.dealerPosition - 1) % n + n) % n
}

// clockwiseFromDealer returns the players ordered clockwise starting at the
// dealer's left
func (g *Game) clockwiseFromDealer() []*Player {
	players := make([]*Player, len(g.players))
	copy(players, g.players)
	sort.Slice(players, func(i, j int) bool {
		return g.seatsFromDealer(players[i].Seat) < g.seatsFromDealer(players[j].Seat)
	})

	return players
}
