package models

import "time"

// Account is a row in either the users or the coaches table. The two tables
// share a shape but not an id sequence; the owning role travels separately
// as an Identity.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
