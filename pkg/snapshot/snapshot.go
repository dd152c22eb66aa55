// Package snapshot defines the self-describing table state broadcast to
// observers. Observers never mutate engine state; they render snapshots and
// may receive the same snapshot more than once, so applying one must be
// idempotent.
package snapshot

import (
	"pokerarena-server/pkg/deck"
)

// phase names, stable across the wire
const (
	PhaseWaiting          = "waiting"
	PhasePreFlop          = "pre-flop"
	PhaseFlop             = "flop"
	PhaseTurn             = "turn"
	PhaseRiver            = "river"
	PhaseShowdown         = "showdown"
	PhaseWinner           = "winner"
	PhaseReadyForNextHand = "ready-for-next-hand"
	PhaseGameOver         = "game-over"
)

// Player is the public view of a seated player
type Player struct {
	Name           string `json:"name"`
	Seat           int    `json:"seat"`
	Chips          int    `json:"chips"`
	Status         string `json:"status"`
	CurrentBet     int    `json:"currentBet"`
	TotalCommitted int    `json:"totalCommitted"`
	LastAction     string `json:"lastAction,omitempty"`
}

// DealtCards is the full pre-dealt layout for the hand. The engine is a
// trusted authoritative process; there is no card privacy at this layer.
type DealtCards struct {
	PlayerCards    [][]*deck.Card `json:"playerCards"`
	CommunityCards []*deck.Card   `json:"communityCards"`
}

// Result describes how a hand finished
type Result struct {
	Winners []string          `json:"winners"`
	Payouts map[string]int    `json:"payouts"`
	Reason  string            `json:"reason"`
	Hands   map[string]string `json:"hands,omitempty"`
}

// State is the full table snapshot produced after every action
type State struct {
	TableID            string                   `json:"tableId"`
	HandNumber         int64                    `json:"handNumber"`
	Phase              string                   `json:"phase"`
	Pot                int                      `json:"pot"`
	CurrentBet         int                      `json:"currentBet"`
	DealerPosition     int                      `json:"dealerPosition"`
	CurrentPlayerIndex int                      `json:"currentPlayerIndex"`
	Players            []Player                 `json:"players"`
	CommunityCards     []*deck.Card             `json:"communityCards"`
	DealtCards         *DealtCards              `json:"dealtCards,omitempty"`
	Winner             *Result                  `json:"winner,omitempty"`
	ShowdownCards      map[string][]*deck.Card `json:"showdownCards,omitempty"`
}

// InHand returns true if the snapshot reports a hand in progress
func (s *State) InHand() bool {
	switch s.Phase {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver, PhaseShowdown:
		return true
	}

	return false
}

// Normalize validates the snapshot on the receiving side. An "active" phase
// reported with fewer than two players is inconsistent and is reset to
// waiting. Returns true if the snapshot was changed.
func (s *State) Normalize() bool {
	if !s.InHand() || len(s.Players) >= 2 {
		return false
	}

	s.Phase = PhaseWaiting
	s.Pot = 0
	s.CurrentBet = 0
	s.CurrentPlayerIndex = 0
	s.CommunityCards = nil
	s.DealtCards = nil
	s.Winner = nil
	s.ShowdownCards = nil

	return true
}

// IsStale returns true if s should be discarded in favor of prev
func (s *State) IsStale(prev *State) bool {
	if prev == nil {
		return false
	}

	return s.HandNumber < prev.HandNumber
}
