package holdem

import "encoding/json"

// Phase represents where the table is in the hand lifecycle
type Phase int

// constants for Phase
const (
	PhaseWaiting Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseWinner
	PhaseReadyForNextHand
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseWinner:
		return "winner"
	case PhaseReadyForNextHand:
		return "ready-for-next-hand"
	case PhaseGameOver:
		return "game-over"
	}

	return ""
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// IsBettingRound returns true if players act during the phase
func (p Phase) IsBettingRound() bool {
	return p >= PhasePreFlop && p <= PhaseRiver
}

// InHand returns true if a hand is in progress
func (p Phase) InHand() bool {
	return p >= PhasePreFlop && p <= PhaseShowdown
}

// communityCardCount is how many community cards are revealed in the phase
func (p Phase) communityCardCount() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn:
		return 4
	case PhaseRiver, PhaseShowdown, PhaseWinner:
		return 5
	}

	return 0
}
