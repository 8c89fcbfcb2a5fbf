package chatws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"golang.org/x/time/rate"

	"github.com/arsalan-d/MomentumBack/internal/models"
	"github.com/arsalan-d/MomentumBack/internal/services"
)

const (
	sendTimeout = 5 * time.Second

	// Per-socket send throttle; beyond this the sender sees an error event.
	messageRate  = rate.Limit(5)
	messageBurst = 10
)

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	connID string

	// token is the identity proven by the JWT at upgrade time. identity is
	// only set once the client has sent a matching identify frame; until
	// then sends are dropped.
	token      models.Identity
	identity   models.Identity
	identified bool

	// room is owned by the hub goroutine.
	room string

	// done is closed by the hub when it drops the client (disconnect or
	// slow-consumer eviction). send stays open forever; writers select on
	// done so nothing ever sends into a dead client.
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
}

type sender interface {
	SendMessage(
		ctx context.Context,
		sender models.Identity,
		receiverID int64,
		content string,
	) (*models.ChatMessage, error)
}

// inbound carries every field a client frame may use; Type picks the event.
// Ids come as json.Number so both 7 and "7" are accepted.
type inbound struct {
	Type       string      `json:"type"`
	UserID     json.Number `json:"user_id"`
	CoachID    json.Number `json:"coach_id"`
	Role       string      `json:"role"`
	ReceiverID json.Number `json:"receiver_id"`
	Content    string      `json:"content"`
}

type identifiedEvent struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Room    string `json:"room"`
}

type messageEvent struct {
	Type string `json:"type"`
	models.ChatMessage
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewClient(hub *Hub, conn *websocket.Conn, token models.Identity) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		connID:  newConnID(),
		token:   token,
		send:    make(chan []byte, 32),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(messageRate, messageBurst),
	}
}

func (c *Client) ReadPump(service sender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame inbound
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.writeError("invalid message payload")
			continue
		}

		switch frame.Type {
		case "identify":
			c.handleIdentify(frame)
		case "send_message":
			c.handleSend(service, frame)
		default:
			c.writeError("unsupported message type")
		}
	}
}

// handleIdentify binds the socket to an identity and joins its room. The
// claimed identity is a hint only: it must match the JWT the socket
// authenticated with. Anything malformed or mismatched is logged and dropped
// without a reply; the connection stays open.
func (c *Client) handleIdentify(frame inbound) {
	if !models.ValidRole(frame.Role) {
		log.Printf("chat socket %s: identify with invalid role %q", c.connID, frame.Role)
		return
	}

	raw := frame.UserID
	if frame.Role == models.RoleCoach {
		raw = frame.CoachID
	}
	id, err := raw.Int64()
	if err != nil || id <= 0 {
		log.Printf("chat socket %s: identify with invalid id %q", c.connID, raw.String())
		return
	}

	claimed := models.Identity{ID: id, Role: frame.Role}
	if claimed != c.token {
		log.Printf("chat socket %s: identify as %s does not match token %s",
			c.connID, claimed.Room(), c.token.Room())
		return
	}

	c.identity = claimed
	c.identified = true
	c.hub.Join(c, claimed.Room())

	c.write(identifiedEvent{Type: "identified", Success: true, Room: claimed.Room()})
}

// handleSend runs one delivery attempt: authorize, persist, then broadcast
// new_message to the receiver's room and echo message_sent to this socket
// only. Nothing is broadcast unless the persist succeeded.
func (c *Client) handleSend(service sender, frame inbound) {
	if !c.identified {
		log.Printf("chat socket %s: message from unidentified socket", c.connID)
		return
	}

	receiverID, err := frame.ReceiverID.Int64()
	if err != nil || receiverID <= 0 {
		log.Printf("chat socket %s: invalid receiver id %q", c.connID, frame.ReceiverID.String())
		return
	}

	if !c.limiter.Allow() {
		c.writeError("Too many messages, slow down.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	message, err := service.SendMessage(ctx, c.identity, receiverID, frame.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotConnected):
			c.writeError("Messaging only allowed with active coaching connections.")
		case errors.Is(err, services.ErrInvalidInput):
			c.writeError("Message content is required.")
		default:
			log.Printf("chat socket %s: send failed: %v", c.connID, err)
			c.writeError("Internal messaging error.")
		}
		return
	}

	receiverRoom := c.identity.Counterpart(receiverID).Room()

	if payload, err := json.Marshal(messageEvent{Type: "new_message", ChatMessage: *message}); err == nil {
		c.hub.Broadcast(receiverRoom, payload)
	} else {
		log.Printf("chat socket %s: encode new_message: %v", c.connID, err)
	}

	c.write(messageEvent{Type: "message_sent", ChatMessage: *message})
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("chat socket %s: encode event: %v", c.connID, err)
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		// Buffer full while the client is still live; hand it to the hub
		// to evict instead of blocking the read pump.
		c.hub.Unregister(c)
	}
}

func (c *Client) writeError(message string) {
	c.write(errorEvent{Type: "error", Message: message})
}
