package models

import "fmt"

const (
	RoleUser  = "user"
	RoleCoach = "coach"
)

// Identity names one principal. Users and coaches are stored in separate
// tables with independent id sequences, so a bare id is ambiguous; the
// (Role, ID) pair is the only safe key for rooms and permission checks.
type Identity struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleCoach
}

// CounterpartRole returns the role on the other side of a coaching
// connection. Messages only ever flow between a user and a coach.
func CounterpartRole(role string) string {
	if role == RoleCoach {
		return RoleUser
	}
	return RoleCoach
}

// Room is the name of the broadcast group every socket identified as this
// principal joins. Senders address the receiver by computing the same name.
func (i Identity) Room() string {
	return fmt.Sprintf("%s_%d", i.Role, i.ID)
}

// Counterpart builds the identity of the other party in a conversation with
// this principal.
func (i Identity) Counterpart(otherID int64) Identity {
	return Identity{ID: otherID, Role: CounterpartRole(i.Role)}
}

// ConnectionPair maps this identity plus the other party onto the
// (userID, coachID) axes of a coaching connection.
func (i Identity) ConnectionPair(otherID int64) (userID, coachID int64) {
	if i.Role == RoleCoach {
		return otherID, i.ID
	}
	return i.ID, otherID
}
