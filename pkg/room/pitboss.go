package room

import (
	"time"

	"github.com/sirupsen/logrus"

	"pokerarena-server/pkg/holdem"
	"pokerarena-server/pkg/ledger"
)

// PitBoss is responsible for dispatching clients to rooms. Dealers are
// created on demand and retired when their last client leaves.
type PitBoss struct {
	options     holdem.Options
	turnTimeout time.Duration
	recorder    ledger.Recorder

	dealers map[string]*Dealer
	clients map[*Client]bool

	connect    chan *Client
	disconnect chan *Client
	join       chan joinRequest
	countsReq  chan chan map[string]int
}

type joinRequest struct {
	client  *Client
	roomID  string
	context string
	done    chan bool
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(opts holdem.Options, turnTimeout time.Duration, recorder ledger.Recorder) *PitBoss {
	return &PitBoss{
		options:     opts,
		turnTimeout: turnTimeout,
		recorder:    recorder,
		dealers:     make(map[string]*Dealer),
		clients:     make(map[*Client]bool),
		connect:     make(chan *Client, 256),
		disconnect:  make(chan *Client, 256),
		join:        make(chan joinRequest, 256),
		countsReq:   make(chan chan map[string]int, 256),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("client", client.String()).Debug("client connected")
			p.clients[client] = true
			client.Send(newRoomCountsResponse(p.roomCounts()))
		case client := <-p.disconnect:
			logrus.WithField("client", client.String()).Debug("client disconnected")
			delete(p.clients, client)
			p.leaveCurrentRoom(client)
			p.broadcastRoomCounts()
		case req := <-p.join:
			p.handleJoin(req)
		case ch := <-p.countsReq:
			ch <- p.roomCounts()
		}
	}
}

func (p *PitBoss) handleJoin(req joinRequest) {
	defer close(req.done)

	if req.roomID == "" {
		req.client.Send(newErrorResponse(req.context, errJoinRoomFirst))
		return
	}

	p.leaveCurrentRoom(req.client)

	dealer, found := p.dealers[req.roomID]
	if !found {
		var err error
		dealer, err = NewDealer(p, req.roomID, p.options, p.turnTimeout, p.recorder)
		if err != nil {
			req.client.Send(newErrorResponse(req.context, err))
			return
		}

		dealer.StartShift()
		p.dealers[req.roomID] = dealer
	}

	dealer.AddClient(req.client)
	req.client.Send(OK(req.context))
	p.broadcastRoomCounts()
}

// leaveCurrentRoom detaches the client from its dealer, retiring the dealer
// if it was the last client
func (p *PitBoss) leaveCurrentRoom(client *Client) {
	dealer := client.dealer
	if dealer == nil {
		return
	}

	client.dealer = nil
	if dealer.RemoveClient(client) {
		dealer.EndShift()
		delete(p.dealers, dealer.roomID)
	}
}

func (p *PitBoss) roomCounts() map[string]int {
	counts := make(map[string]int, len(p.dealers))
	for roomID, dealer := range p.dealers {
		counts[roomID] = dealer.ClientCount()
	}

	return counts
}

func (p *PitBoss) broadcastRoomCounts() {
	resp := newRoomCountsResponse(p.roomCounts())
	for client := range p.clients {
		client.Send(resp)
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// JoinRoom moves the client into the given room, creating it if needed. It
// blocks until the move is complete so follow-up messages from the same
// client see the new room.
func (p *PitBoss) JoinRoom(client *Client, roomID, context string) {
	done := make(chan bool)
	p.join <- joinRequest{client: client, roomID: roomID, context: context, done: done}
	<-done
}

// RoomCounts returns the number of connected clients per room
func (p *PitBoss) RoomCounts() map[string]int {
	ch := make(chan map[string]int, 1)
	p.countsReq <- ch
	return <-ch
}
