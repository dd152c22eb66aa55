package ledger

import (
	"database/sql"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"pokerarena-server/pkg/holdem"
)

// Recorder records finalized table facts. Recording is best-effort: the game
// must stay correct if a recorder is slow, failing, or absent entirely.
type Recorder interface {
	// Record persists the event. It must return quickly and never block the
	// caller.
	Record(event holdem.Event)

	// Close flushes outstanding events and stops the recorder
	Close()
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

const insertEvent = `
INSERT INTO hand_events (uuid, event_type, table_id, hand_number, player, amount, message, detail, created)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (uuid) DO NOTHING`

const recorderBuffer = 512

// PostgresRecorder writes events to the hand_events table from a background
// goroutine. The insert is keyed on the event UUID, so replaying an event is
// a no-op.
type PostgresRecorder struct {
	db     execer
	log    logrus.FieldLogger
	events chan holdem.Event
	done   chan bool
}

// NewPostgresRecorder returns a recorder writing to db and starts its writer
func NewPostgresRecorder(db execer) *PostgresRecorder {
	r := &PostgresRecorder{
		db:     db,
		log:    logrus.WithField("component", "ledger"),
		events: make(chan holdem.Event, recorderBuffer),
		done:   make(chan bool),
	}

	go r.writeLoop()
	return r
}

// Record queues the event for persistence. If the buffer is full the event
// is dropped and logged; the table must never wait on the database.
func (r *PostgresRecorder) Record(event holdem.Event) {
	select {
	case r.events <- event:
	default:
		r.log.WithFields(logrus.Fields{
			"uuid": event.UUID,
			"type": event.Type,
		}).Warn("ledger buffer full, dropping event")
	}
}

// Close drains the buffer and stops the writer
func (r *PostgresRecorder) Close() {
	close(r.events)
	<-r.done
}

func (r *PostgresRecorder) writeLoop() {
	defer close(r.done)

	for event := range r.events {
		r.write(event)
	}
}

func (r *PostgresRecorder) write(event holdem.Event) {
	var detail []byte
	if event.Detail != nil {
		b, err := json.Marshal(event.Detail)
		if err != nil {
			r.log.WithError(err).WithField("uuid", event.UUID).Warn("could not marshal event detail")
		} else {
			detail = b
		}
	}

	_, err := r.db.Exec(insertEvent,
		event.UUID,
		string(event.Type),
		event.TableID,
		event.HandNumber,
		event.Player,
		event.Amount,
		event.Message,
		detail,
		event.Time,
	)

	if err != nil {
		// a lost ledger row is acceptable; a blocked table is not
		r.log.WithError(err).WithField("uuid", event.UUID).Error("could not record event")
	}
}

// NopRecorder discards every event. Used in tests and database-less runs.
type NopRecorder struct{}

// Record does nothing
func (NopRecorder) Record(holdem.Event) {}

// Close does nothing
func (NopRecorder) Close() {}
