package services

import "errors"

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrConflict           = errors.New("conflict")
	ErrCoachNotFound      = errors.New("coach not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrNotConnected       = errors.New("no active coaching connection")
)
