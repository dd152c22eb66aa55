package holdem

import (
	"pokerarena-server/pkg/deck"
)

// Status is a player's status within the current hand
type Status string

// status constants
const (
	StatusActive Status = "active"
	StatusFolded Status = "folded"
	StatusAllIn  Status = "all-in"
	StatusOut    Status = "out"
)

// Player is a seated player. Name is the stable identity; Seat never changes
// while the player remains at the table.
type Player struct {
	Name           string
	Seat           int
	Chips          int
	Status         Status
	CurrentBet     int
	TotalCommitted int
	LastAction     Action

	holeCards []*deck.Card
	leaving   bool
}

func newPlayer(name string, seat, buyIn int) *Player {
	return &Player{
		Name:   name,
		Seat:   seat,
		Chips:  buyIn,
		Status: StatusActive,
	}
}

// HoleCards returns the player's hole cards
func (p *Player) HoleCards() []*deck.Card {
	return p.holeCards
}

// pay moves up to amount chips from the stack into the current bet. A player
// who pays their whole stack goes all-in. Returns the amount actually paid.
func (p *Player) pay(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}

	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalCommitted += amount

	if p.Chips == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}

	return amount
}

// inHand returns true if the player has not folded and is not out
func (p *Player) inHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// canAct returns true if the player can still make a decision this hand
func (p *Player) canAct() bool {
	return p.Status == StatusActive
}

// newHand resets the player's per-hand state
func (p *Player) newHand() {
	p.CurrentBet = 0
	p.TotalCommitted = 0
	p.LastAction = ""
	p.holeCards = nil

	if p.Chips > 0 {
		p.Status = StatusActive
	} else {
		p.Status = StatusOut
	}
}

// newRound resets the player's per-street state
func (p *Player) newRound() {
	p.CurrentBet = 0
	p.LastAction = ""
}
