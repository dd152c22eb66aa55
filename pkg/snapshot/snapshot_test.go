package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"pokerarena-server/pkg/deck"
)

func TestState_Normalize(t *testing.T) {
	a := assert.New(t)

	state := &State{
		TableID:        "t",
		HandNumber:     3,
		Phase:          PhaseFlop,
		Pot:            100,
		CurrentBet:     20,
		Players:        []Player{{Name: "alice", Chips: 900}},
		CommunityCards: deck.CardsFromString("2c,3d,4h"),
	}

	a.True(state.Normalize(), "single-player flop must reset")
	a.Equal(PhaseWaiting, state.Phase)
	a.Equal(0, state.Pot)
	a.Nil(state.CommunityCards)
	a.Equal(1, len(state.Players), "players are kept")

	// normalizing again changes nothing
	a.False(state.Normalize())

	valid := &State{
		Phase:   PhaseFlop,
		Players: []Player{{Name: "alice"}, {Name: "bob"}},
		Pot:     100,
	}
	a.False(valid.Normalize())
	a.Equal(100, valid.Pot)

	waiting := &State{Phase: PhaseWaiting, Players: []Player{{Name: "alice"}}}
	a.False(waiting.Normalize())
}

func TestState_IsStale(t *testing.T) {
	a := assert.New(t)

	prev := &State{HandNumber: 5}
	a.True((&State{HandNumber: 4}).IsStale(prev))
	a.False((&State{HandNumber: 5}).IsStale(prev))
	a.False((&State{HandNumber: 6}).IsStale(prev))
	a.False((&State{HandNumber: 1}).IsStale(nil))
}

func TestState_Idempotence(t *testing.T) {
	a := assert.New(t)

	state := &State{
		TableID:    "t",
		HandNumber: 1,
		Phase:      PhasePreFlop,
		Pot:        30,
		CurrentBet: 20,
		Players: []Player{
			{Name: "alice", Seat: 0, Chips: 990, Status: "active", CurrentBet: 10},
			{Name: "bob", Seat: 1, Chips: 980, Status: "active", CurrentBet: 20},
		},
	}

	// re-applying the same broadcast yields the same derived state
	b1, err := json.Marshal(state)
	a.NoError(err)

	var received State
	a.NoError(json.Unmarshal(b1, &received))
	received.Normalize()

	b2, err := json.Marshal(&received)
	a.NoError(err)
	a.JSONEq(string(b1), string(b2))
}
