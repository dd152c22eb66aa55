package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokerarena-server/pkg/holdem"
	"pokerarena-server/pkg/ledger"
	"pokerarena-server/pkg/snapshot"
)

func testPitBoss(turnTimeout time.Duration) *PitBoss {
	p := NewPitBoss(holdem.DefaultOptions(), turnTimeout, ledger.NopRecorder{})
	p.StartShift()
	return p
}

func connectedClient(t *testing.T, p *PitBoss, roomID string) *Client {
	t.Helper()

	c := NewClient(nil, p)
	p.ClientConnected(c)
	waitForKey(t, c, KeyRoomCounts)

	c.ReceivedMessage(&PayloadIn{Action: ActionJoinRoom, RoomID: roomID})
	waitForKey(t, c, KeyStatus)
	return c
}

func waitForKey(t *testing.T, c *Client, key string) *Response {
	t.Helper()

	timeout := time.After(time.Second * 2)
	for {
		select {
		case msg := <-c.SendChan():
			resp, ok := msg.(*Response)
			require.True(t, ok)
			if resp.Key == key {
				return resp
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", key)
			return nil
		}
	}
}

func waitForState(t *testing.T, c *Client, match func(*snapshot.State) bool) *snapshot.State {
	t.Helper()

	timeout := time.After(time.Second * 2)
	for {
		select {
		case msg := <-c.SendChan():
			resp, ok := msg.(*Response)
			require.True(t, ok)
			if resp.Key != KeyUpdateState {
				continue
			}

			state, ok := resp.Data.(*snapshot.State)
			require.True(t, ok)
			if match(state) {
				return state
			}
		case <-timeout:
			t.Fatal("timed out waiting for state")
			return nil
		}
	}
}

func TestDealer_JoinRoomAndSeatPlayers(t *testing.T) {
	a := assert.New(t)
	p := testPitBoss(time.Minute)
	c := connectedClient(t, p, "room-1")

	// joining a room pushes the current (empty) state
	state := waitForState(t, c, func(s *snapshot.State) bool { return true })
	a.Equal("room-1", state.TableID)
	a.Equal(snapshot.PhaseWaiting, state.Phase)

	c.ReceivedMessage(&PayloadIn{Action: ActionJoinTable, Name: "alice", BuyIn: 1000})
	state = waitForState(t, c, func(s *snapshot.State) bool { return len(s.Players) == 1 })
	a.Equal("alice", state.Players[0].Name)
	a.Equal(1000, state.Players[0].Chips)

	// validation errors go to the acting client only, state unchanged
	c.ReceivedMessage(&PayloadIn{Action: ActionJoinTable, Name: "alice", BuyIn: 1000, Context: "c-1"})
	resp := waitForKey(t, c, KeyError)
	a.Equal(holdem.ErrNameTaken.Error(), resp.Value)
	a.Equal("c-1", resp.Context)
}

func TestDealer_PlayHand(t *testing.T) {
	a := assert.New(t)
	p := testPitBoss(time.Minute)
	c := connectedClient(t, p, "room-2")
	observer := connectedClient(t, p, "room-2")

	c.ReceivedMessage(&PayloadIn{Action: ActionJoinTable, Name: "alice", BuyIn: 1000})
	c.ReceivedMessage(&PayloadIn{Action: ActionJoinTable, Name: "bob", BuyIn: 1000})
	c.ReceivedMessage(&PayloadIn{Action: ActionStartGame})

	state := waitForState(t, c, func(s *snapshot.State) bool { return s.Phase == snapshot.PhasePreFlop })
	a.Equal(int64(1), state.HandNumber)
	a.Equal(30, state.Pot)

	// observers in the room see the same broadcast
	waitForState(t, observer, func(s *snapshot.State) bool { return s.Phase == snapshot.PhasePreFlop })

	// heads-up: the dealer acts first; a fold ends the hand
	c.ReceivedMessage(&PayloadIn{Action: ActionPlayerAction, Name: "alice", Subject: "fold"})
	state = waitForState(t, c, func(s *snapshot.State) bool { return s.Phase == snapshot.PhaseWinner })
	require.NotNil(t, state.Winner)
	a.Equal([]string{"bob"}, state.Winner.Winners)

	// an unknown engine action is rejected before reaching the table
	c.ReceivedMessage(&PayloadIn{Action: ActionPlayerAction, Name: "bob", Subject: "bluff", Context: "c-2"})
	resp := waitForKey(t, c, KeyError)
	a.Equal("unknown action for identifier: bluff", resp.Value)
}

func TestDealer_TurnTimerFoldsActor(t *testing.T) {
	a := assert.New(t)
	p := testPitBoss(time.Millisecond * 50)
	c := connectedClient(t, p, "room-3")

	c.ReceivedMessage(&PayloadIn{Action: ActionJoinTable, Name: "alice", BuyIn: 1000})
	c.ReceivedMessage(&PayloadIn{Action: ActionJoinTable, Name: "bob", BuyIn: 1000})
	c.ReceivedMessage(&PayloadIn{Action: ActionStartGame})

	// alice never acts; the timer folds her and bob takes the pot
	state := waitForState(t, c, func(s *snapshot.State) bool { return s.Phase == snapshot.PhaseWinner })
	require.NotNil(t, state.Winner)
	a.Equal([]string{"bob"}, state.Winner.Winners)
	a.Equal(string(holdem.StatusFolded), state.Players[0].Status)
}

func TestDealer_ResetRoom(t *testing.T) {
	a := assert.New(t)
	p := testPitBoss(time.Minute)
	c := connectedClient(t, p, "room-4")

	c.ReceivedMessage(&PayloadIn{Action: ActionJoinTable, Name: "alice", BuyIn: 1000})
	waitForState(t, c, func(s *snapshot.State) bool { return len(s.Players) == 1 })

	c.ReceivedMessage(&PayloadIn{Action: ActionResetRoom})
	state := waitForState(t, c, func(s *snapshot.State) bool { return len(s.Players) == 0 })
	a.Equal(snapshot.PhaseWaiting, state.Phase)
}

func TestDealer_GetState(t *testing.T) {
	a := assert.New(t)
	p := testPitBoss(time.Minute)
	c := connectedClient(t, p, "room-5")

	c.ReceivedMessage(&PayloadIn{Action: ActionGetState})
	state := waitForState(t, c, func(s *snapshot.State) bool { return true })
	a.Equal("room-5", state.TableID)
}

func TestClient_RequiresRoom(t *testing.T) {
	a := assert.New(t)
	p := testPitBoss(time.Minute)

	c := NewClient(nil, p)
	p.ClientConnected(c)
	waitForKey(t, c, KeyRoomCounts)

	c.ReceivedMessage(&PayloadIn{Action: ActionGetState, Context: "c-3"})
	resp := waitForKey(t, c, KeyError)
	a.Equal(errJoinRoomFirst.Error(), resp.Value)
	a.Equal("c-3", resp.Context)
}
