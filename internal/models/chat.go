package models

import "time"

const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

type ChatMessage struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	SenderType string    `json:"sender_type"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sender reconstructs the sender identity of a stored message.
func (m ChatMessage) Sender() Identity {
	return Identity{ID: m.SenderID, Role: m.SenderType}
}

// MessageView is a ChatMessage as served to one party of the conversation,
// with the direction computed server-side relative to that party.
type MessageView struct {
	ChatMessage
	Direction string `json:"direction"`
}

// Contact is a connected counterpart as shown in the caller's contact list.
type Contact struct {
	ID          int64  `json:"id"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	UnreadCount int    `json:"unread_count"`
}
