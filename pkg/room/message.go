package room

import "pokerarena-server/pkg/snapshot"

// actions a client may send
const (
	ActionJoinRoom     = "JOIN_ROOM"
	ActionGetState     = "GET_STATE"
	ActionResetRoom    = "RESET_ROOM"
	ActionJoinTable    = "JOIN_TABLE"
	ActionLeaveTable   = "LEAVE_TABLE"
	ActionStartGame    = "START_GAME"
	ActionPlayerAction = "PLAYER_ACTION"
)

// keys on outgoing messages
const (
	KeyUpdateState = "UPDATE_STATE"
	KeyRoomCounts  = "ROOM_COUNTS"
	KeyStatus      = "status"
	KeyError       = "error"
)

// PayloadIn is the envelope we expect from the JS client. Engine actions
// ride the same envelope: Subject carries the action kind for
// PLAYER_ACTION messages.
type PayloadIn struct {
	Action  string `json:"action"`
	RoomID  string `json:"roomId,omitempty"`
	Name    string `json:"name,omitempty"`
	BuyIn   int    `json:"buyIn,omitempty"`
	Subject string `json:"subject,omitempty"`
	Amount  int    `json:"amount,omitempty"`

	// Context will be passed back on any direct response
	Context string `json:"context,omitempty"`
}

// Response is a message sent to one or more clients
type Response struct {
	Key     string      `json:"key"`
	RoomID  string      `json:"roomId,omitempty"`
	Value   string      `json:"value,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// OK returns a generic success response
func OK(ctx string) *Response {
	return &Response{
		Key:     KeyStatus,
		Value:   "OK",
		Context: ctx,
	}
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     KeyError,
		Value:   err.Error(),
		Context: ctx,
	}
}

func newStateResponse(roomID string, state *snapshot.State) *Response {
	return &Response{
		Key:    KeyUpdateState,
		RoomID: roomID,
		Data:   state,
	}
}

func newRoomCountsResponse(counts map[string]int) *Response {
	return &Response{
		Key:  KeyRoomCounts,
		Data: counts,
	}
}
