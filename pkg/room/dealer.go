package room

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pokerarena-server/pkg/holdem"
	"pokerarena-server/pkg/ledger"
)

var errJoinRoomFirst = errors.New("join a room first")

// Dealer owns a single room. It is the one logical writer for the room's
// table: every mutation, whether it came from a client message or from an
// expired turn timer, runs as a func inside the run loop.
type Dealer struct {
	pitBoss *PitBoss
	roomID  string
	log     logrus.FieldLogger

	clients map[*Client]bool
	lock    sync.RWMutex

	game        *holdem.Game
	coordinator *holdem.TurnCoordinator
	recorder    ledger.Recorder

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer for the given room
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, roomID string, opts holdem.Options, turnTimeout time.Duration, recorder ledger.Recorder) (*Dealer, error) {
	game, err := holdem.NewGame(roomID, logrus.StandardLogger(), opts)
	if err != nil {
		return nil, err
	}

	d := &Dealer{
		pitBoss:       pitBoss,
		roomID:        roomID,
		log:           logrus.WithField("room", roomID),
		clients:       make(map[*Client]bool),
		game:          game,
		recorder:      recorder,
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}

	d.coordinator = holdem.NewTurnCoordinator(turnTimeout, d.onTurnExpired)
	return d, nil
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.log.Debug("creating dealer run loop")

	ticker := time.NewTicker(d.game.Interval())
	defer func() {
		ticker.Stop()
		d.coordinator.Cancel()
	}()

	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-ticker.C:
			changed, err := d.game.Tick()
			if err != nil {
				d.log.WithError(err).Error("tick failed")
				continue
			}

			if changed {
				d.afterMutation()
			}
		case ev := <-d.game.Events():
			d.recorder.Record(ev)
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		}
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// ClientCount returns the number of connected clients
func (d *Dealer) ClientCount() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.clients)
}

// AddClient adds a client and pushes the current state to them
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		client.Send(newStateResponse(d.roomID, d.game.Snapshot()))
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	return nClients == 0
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case ActionGetState:
		d.execInRunLoop <- func() {
			c.Send(newStateResponse(d.roomID, d.game.Snapshot()))
		}
	case ActionResetRoom:
		d.execInRunLoop <- func() {
			if err := d.resetRoom(); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			d.afterMutation()
		}
	case ActionJoinTable:
		d.mutate(c, msg, func() error {
			return d.game.JoinTable(msg.Name, msg.BuyIn)
		})
	case ActionLeaveTable:
		d.mutate(c, msg, func() error {
			return d.game.LeaveTable(msg.Name)
		})
	case ActionStartGame:
		d.mutate(c, msg, func() error {
			return d.game.StartGame()
		})
	case ActionPlayerAction:
		action, err := holdem.ActionFromString(msg.Subject)
		if err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		d.mutate(c, msg, func() error {
			return d.game.PlayerAction(msg.Name, action, msg.Amount)
		})
	default:
		d.log.WithField("action", msg.Action).Warn("unknown message")
		c.Send(newErrorResponse(msg.Context, errors.New("unknown action: "+msg.Action)))
	}
}

// mutate runs fn in the run loop. Validation errors go back to the acting
// client only; success acks the client and broadcasts the new state.
func (d *Dealer) mutate(c *Client, msg *PayloadIn, fn func() error) {
	d.execInRunLoop <- func() {
		if err := fn(); err != nil {
			c.Send(newErrorResponse(msg.Context, err))

			if holdem.IsInvariantError(err) {
				d.log.WithError(err).Error("table halted")
				d.broadcastState()
			}

			return
		}

		c.Send(OK(msg.Context))
		d.afterMutation()
	}
}

// onTurnExpired is called by the turn coordinator from its own goroutine.
// The synthesized fold is submitted through the run loop like any other
// action; the engine rejects it if the decision has already been made.
func (d *Dealer) onTurnExpired(scope holdem.TurnScope) {
	d.execInRunLoop <- func() {
		if err := d.game.TimeoutFold(scope); err != nil {
			if err != holdem.ErrStaleTimer {
				d.log.WithError(err).Error("could not apply timeout fold")
			}

			return
		}

		d.afterMutation()
	}
}

// resetRoom replaces the table with a fresh one
// NOTE: must only be called from the run loop
func (d *Dealer) resetRoom() error {
	game, err := holdem.NewGame(d.roomID, logrus.StandardLogger(), d.pitBoss.options)
	if err != nil {
		return err
	}

	d.log.Info("room reset")
	d.game = game
	return nil
}

// afterMutation re-arms the turn timer and broadcasts the new state
// NOTE: must only be called from the run loop
func (d *Dealer) afterMutation() {
	if scope, ok := d.game.TurnScope(); ok {
		d.coordinator.Arm(scope)
	} else {
		d.coordinator.Cancel()
	}

	d.broadcastState()
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcastState() {
	resp := newStateResponse(d.roomID, d.game.Snapshot())
	for _, client := range d.Clients() {
		client.Send(resp)
	}
}
