package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/arsalan-d/MomentumBack/internal/models"
)

type connectionStore interface {
	Request(ctx context.Context, userID, coachID int64) (*models.Connection, error)
	UpdateStatus(ctx context.Context, coachID, userID int64, status string) (*models.Connection, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Connection, error)
	ListForCoach(ctx context.Context, coachID int64) ([]models.Connection, error)
}

type coachReader interface {
	GetByID(ctx context.Context, role string, id int64) (*models.Account, error)
}

// ConnectionService owns the coaching-connection lifecycle: a user requests a
// coach, the coach approves, rejects, or later deactivates. The messaging
// path never goes through here; it only reads the resulting status.
type ConnectionService struct {
	connectionRepo connectionStore
	accountRepo    coachReader
}

func NewConnectionService(connectionRepo connectionStore, accountRepo coachReader) *ConnectionService {
	return &ConnectionService{
		connectionRepo: connectionRepo,
		accountRepo:    accountRepo,
	}
}

// RequestCoach opens (or re-opens) a pending connection from a user to a
// coach. Requesting an already-active connection is a conflict.
func (s *ConnectionService) RequestCoach(
	ctx context.Context,
	actor models.Identity,
	coachID int64,
) (*models.Connection, error) {
	if actor.Role != models.RoleUser {
		return nil, ErrForbidden
	}
	if coachID <= 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.accountRepo.GetByID(ctx, models.RoleCoach, coachID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}

	connection, err := s.connectionRepo.Request(ctx, actor.ID, coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return connection, nil
}

// Decide records a coach's decision on one of their connection requests.
// pending is not a decision a coach can set.
func (s *ConnectionService) Decide(
	ctx context.Context,
	actor models.Identity,
	userID int64,
	status string,
) (*models.Connection, error) {
	if actor.Role != models.RoleCoach {
		return nil, ErrForbidden
	}
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	if !models.ValidConnectionStatus(status) || status == models.ConnectionPending {
		return nil, ErrInvalidStatus
	}

	connection, err := s.connectionRepo.UpdateStatus(ctx, actor.ID, userID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}

	return connection, nil
}

// List returns the caller's connections, both directions of the pairing.
func (s *ConnectionService) List(ctx context.Context, actor models.Identity) ([]models.Connection, error) {
	switch actor.Role {
	case models.RoleUser:
		return s.connectionRepo.ListForUser(ctx, actor.ID)
	case models.RoleCoach:
		return s.connectionRepo.ListForCoach(ctx, actor.ID)
	default:
		return nil, ErrForbidden
	}
}
