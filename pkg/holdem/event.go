package holdem

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a significant table event
type EventType string

// event type constants
const (
	EventPlayerJoined EventType = "player-joined"
	EventPlayerLeft   EventType = "player-left"
	EventHandStarted  EventType = "hand-started"
	EventBlindPosted  EventType = "blind-posted"
	EventPlayerActed  EventType = "player-acted"
	EventHandFinished EventType = "hand-finished"
)

// Event is a finalized fact about the table, emitted for the persistence
// collaborator and the table log. The UUID makes recording idempotent.
type Event struct {
	UUID       string      `json:"uuid"`
	Type       EventType   `json:"type"`
	TableID    string      `json:"tableId"`
	HandNumber int64       `json:"handNumber"`
	Player     string      `json:"player,omitempty"`
	Amount     int         `json:"amount,omitempty"`
	Message    string      `json:"message,omitempty"`
	Detail     interface{} `json:"detail,omitempty"`
	Time       time.Time   `json:"time"`
}

func (g *Game) emitEvent(eventType EventType, player string, amount int, message string, detail interface{}) {
	ev := Event{
		UUID:       uuid.New().String(),
		Type:       eventType,
		TableID:    g.tableID,
		HandNumber: g.handNumber,
		Player:     player,
		Amount:     amount,
		Message:    message,
		Detail:     detail,
		Time:       time.Now(),
	}

	// events are advisory. a full buffer must never block the game
	select {
	case g.events <- ev:
	default:
		g.log.WithField("type", eventType).Warn("event buffer full, dropping event")
	}
}

// Events returns the channel table events are emitted on
func (g *Game) Events() <-chan Event {
	return g.events
}
