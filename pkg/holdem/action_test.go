package holdem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionFromString(t *testing.T) {
	a := assert.New(t)

	action, err := ActionFromString("raise")
	a.NoError(err)
	a.Equal(ActionRaise, action)
	a.True(action.IsValid())

	_, err = ActionFromString("bluff")
	a.EqualError(err, "unknown action for identifier: bluff")
	a.False(Action("bluff").IsValid())
}

func TestAction_LogMessage(t *testing.T) {
	a := assert.New(t)
	a.Equal("folded", ActionFold.LogMessage(0))
	a.Equal("checked", ActionCheck.LogMessage(0))
	a.Equal("called 20", ActionCall.LogMessage(20))
	a.Equal("raised 40", ActionRaise.LogMessage(40))
	a.Equal("went all-in for 250", ActionAllIn.LogMessage(250))
}

func TestPhase_String(t *testing.T) {
	a := assert.New(t)
	a.Equal("waiting", PhaseWaiting.String())
	a.Equal("pre-flop", PhasePreFlop.String())
	a.Equal("flop", PhaseFlop.String())
	a.Equal("turn", PhaseTurn.String())
	a.Equal("river", PhaseRiver.String())
	a.Equal("showdown", PhaseShowdown.String())
	a.Equal("winner", PhaseWinner.String())
	a.Equal("ready-for-next-hand", PhaseReadyForNextHand.String())
	a.Equal("game-over", PhaseGameOver.String())
}

func TestPhase_MarshalJSON(t *testing.T) {
	a := assert.New(t)

	b, err := json.Marshal(PhaseFlop)
	a.NoError(err)
	a.Equal(`"flop"`, string(b))
}

func TestPhase_Predicates(t *testing.T) {
	a := assert.New(t)

	for _, phase := range []Phase{PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver} {
		a.True(phase.IsBettingRound(), phase.String())
		a.True(phase.InHand(), phase.String())
	}

	a.True(PhaseShowdown.InHand())
	a.False(PhaseShowdown.IsBettingRound())

	for _, phase := range []Phase{PhaseWaiting, PhaseWinner, PhaseReadyForNextHand, PhaseGameOver} {
		a.False(phase.IsBettingRound(), phase.String())
		a.False(phase.InHand(), phase.String())
	}
}
