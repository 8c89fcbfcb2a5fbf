package models

import "time"

// Connection statuses. Only an active connection authorizes messaging
// between its user and coach.
const (
	ConnectionPending  = "pending"
	ConnectionActive   = "active"
	ConnectionInactive = "inactive"
	ConnectionRejected = "rejected"
)

func ValidConnectionStatus(status string) bool {
	switch status {
	case ConnectionPending, ConnectionActive, ConnectionInactive, ConnectionRejected:
		return true
	}
	return false
}

type Connection struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CoachID   int64     `json:"coach_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
