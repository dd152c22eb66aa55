package room

import (
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	pitBoss *PitBoss
	dealer  *Dealer
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, pitBoss *PitBoss) *Client {
	return &Client{
		Conn:    conn,
		send:    make(chan interface{}, 256),
		Close:   make(chan string),
		pitBoss: pitBoss,
	}
}

// Send queues a message for the web client. A client that cannot keep up has
// its messages dropped rather than blocking the sender.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("send buffer full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel of outgoing messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the connection
func (c *Client) String() string {
	if c.Conn == nil {
		return "client"
	}

	return c.Conn.RemoteAddr().String()
}

// ReceivedMessage is called when the server receives a message from a
// connected client. JOIN_ROOM is handled by the pit boss; everything else
// goes to the dealer of the client's room.
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if msg.Action == ActionJoinRoom {
		c.pitBoss.JoinRoom(c, msg.RoomID, msg.Context)
		return
	}

	dealer := c.dealer
	if dealer == nil {
		c.Send(newErrorResponse(msg.Context, errJoinRoomFirst))
		return
	}

	dealer.ReceivedMessage(c, msg)
}
