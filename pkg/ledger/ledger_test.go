package ledger

import (
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pokerarena-server/pkg/holdem"
)

type fakeExecer struct {
	mu    sync.Mutex
	calls [][]interface{}
	err   error
}

func (f *fakeExecer) Exec(query string, args ...interface{}) (sql.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, args)
	return nil, f.err
}

func (f *fakeExecer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testEvent(uuid string) holdem.Event {
	return holdem.Event{
		UUID:       uuid,
		Type:       holdem.EventPlayerActed,
		TableID:    "table-1",
		HandNumber: 3,
		Player:     "alice",
		Amount:     20,
		Message:    "alice called 20",
		Time:       time.Now(),
	}
}

func TestPostgresRecorder(t *testing.T) {
	a := assert.New(t)
	db := &fakeExecer{}

	r := NewPostgresRecorder(db)
	r.Record(testEvent("a"))
	r.Record(testEvent("b"))
	r.Close()

	a.Equal(2, db.callCount())
	a.Equal("a", db.calls[0][0])
	a.Equal("alice", db.calls[0][4])
}

func TestPostgresRecorder_WriteFailureDoesNotBlock(t *testing.T) {
	a := assert.New(t)
	db := &fakeExecer{err: errors.New("connection refused")}

	r := NewPostgresRecorder(db)
	for i := 0; i < 10; i++ {
		r.Record(testEvent("x"))
	}
	r.Close()

	a.Equal(10, db.callCount())
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	r.Record(testEvent("a"))
	r.Close()
}
