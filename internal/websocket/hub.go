package chatws

import (
	"log"

	"github.com/google/uuid"
)

// Hub is the process-local connection registry and room router. Every socket
// registers on upgrade; identified sockets additionally join the broadcast
// room named after their identity ("user_7", "coach_3"). Senders address a
// receiver purely by computing that room name, so delivery to zero, one, or
// many sockets is the same operation.
type Hub struct {
	clients    map[*Client]struct{}
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	join       chan subscription
	broadcast  chan roomMessage
}

type subscription struct {
	client *Client
	room   string
}

type roomMessage struct {
	room    string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan subscription),
		broadcast:  make(chan roomMessage, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			h.drop(client)
		case sub := <-h.join:
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			h.leaveRoom(sub.client)
			set, ok := h.rooms[sub.room]
			if !ok {
				set = make(map[*Client]struct{})
				h.rooms[sub.room] = set
			}
			set[sub.client] = struct{}{}
			sub.client.room = sub.room
			log.Printf("chat hub: socket %s joined %s", sub.client.connID, sub.room)
		case message := <-h.broadcast:
			h.deliver(message.room, message.payload)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Join moves the client into the given room, leaving any prior one. Called
// again on re-identify; the last join wins.
func (h *Hub) Join(client *Client, room string) {
	h.join <- subscription{client: client, room: room}
}

// Broadcast fans a payload out to every socket currently in the room. A room
// with no members is a no-op, not an error; the caller has already persisted
// the message.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.broadcast <- roomMessage{room: room, payload: payload}
}

// drop removes a client from the hub. Only the hub goroutine calls it, and
// only for clients still registered, so done is closed exactly once. The
// send channel itself is never closed; writers gate on done instead, which
// keeps a late write from racing a close.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.leaveRoom(client)
	close(client.done)
}

func (h *Hub) leaveRoom(client *Client) {
	if client.room == "" {
		return
	}
	if set, ok := h.rooms[client.room]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.rooms, client.room)
		}
	}
	client.room = ""
}

func (h *Hub) deliver(room string, payload []byte) {
	set, ok := h.rooms[room]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop it rather than block the hub.
			h.drop(client)
		}
	}
}

func newConnID() string {
	return uuid.NewString()
}
