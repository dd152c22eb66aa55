package mux

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokerarena-server/pkg/holdem"
	"pokerarena-server/pkg/ledger"
	"pokerarena-server/pkg/room"
	"pokerarena-server/pkg/snapshot"
)

func testMux() *Mux {
	pitBoss := room.NewPitBoss(holdem.DefaultOptions(), time.Minute, ledger.NopRecorder{})
	pitBoss.StartShift()
	return NewMux("v1.2.3", pitBoss)
}

func TestHealthHandler(t *testing.T) {
	ts := httptest.NewServer(testMux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	a := assert.New(t)
	a.Equal(http.StatusOK, resp.StatusCode)

	var payload healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	a.Equal("OK", payload.Status)
	a.Equal("v1.2.3", payload.Version)
}

func TestRoomCountsHandler(t *testing.T) {
	ts := httptest.NewServer(testMux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/room")
	require.NoError(t, err)
	defer resp.Body.Close()

	a := assert.New(t)
	a.Equal(http.StatusOK, resp.StatusCode)

	var payload roomCountsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	a.Empty(payload.Counts)
}

type wsMessage struct {
	Key     string          `json:"key"`
	RoomID  string          `json:"roomId"`
	Value   string          `json:"value"`
	Data    json.RawMessage `json:"data"`
	Context string          `json:"context"`
}

func wsReadUntil(t *testing.T, conn *websocket.Conn, key string) *wsMessage {
	t.Helper()

	deadline := time.Now().Add(time.Second * 2)
	require.NoError(t, conn.SetReadDeadline(deadline))

	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Key == key {
			return &msg
		}
	}
}

func TestWebSocket(t *testing.T) {
	a := assert.New(t)
	ts := httptest.NewServer(testMux())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// connecting gets the current room counts
	wsReadUntil(t, conn, room.KeyRoomCounts)

	require.NoError(t, conn.WriteJSON(room.PayloadIn{Action: room.ActionJoinRoom, RoomID: "room-1", Context: "c-1"}))
	ok := wsReadUntil(t, conn, room.KeyStatus)
	a.Equal("OK", ok.Value)
	a.Equal("c-1", ok.Context)

	require.NoError(t, conn.WriteJSON(room.PayloadIn{Action: room.ActionJoinTable, Name: "alice", BuyIn: 1000}))

	var state snapshot.State
	for {
		msg := wsReadUntil(t, conn, room.KeyUpdateState)
		require.NoError(t, json.Unmarshal(msg.Data, &state))
		if len(state.Players) == 1 {
			break
		}
	}

	a.Equal("room-1", state.TableID)
	a.Equal("alice", state.Players[0].Name)
	a.Equal(1000, state.Players[0].Chips)
	a.Equal(snapshot.PhaseWaiting, state.Phase)
}
