package repository

import (
	"context"

	"github.com/arsalan-d/MomentumBack/internal/models"
)

// ConnectionRepository owns the user_coach_connections table. The messaging
// path only ever reads it; the lifecycle endpoints mutate it.
type ConnectionRepository struct {
	db DBTX
}

func NewConnectionRepository(db DBTX) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// IsActive reports whether the exact (user, coach) pair currently has an
// active coaching connection. Absent rows and every other status deny.
func (r *ConnectionRepository) IsActive(ctx context.Context, userID, coachID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_coach_connections
			WHERE user_id = $1 AND coach_id = $2 AND status = 'active'
		)
	`

	var active bool
	if err := r.db.QueryRow(ctx, query, userID, coachID).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

// Request creates a pending connection from a user to a coach, or re-opens a
// previously rejected or inactive one. An already-active connection is left
// untouched, which surfaces as pgx.ErrNoRows to the caller.
func (r *ConnectionRepository) Request(ctx context.Context, userID, coachID int64) (*models.Connection, error) {
	query := `
		INSERT INTO user_coach_connections (user_id, coach_id, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (user_id, coach_id)
		DO UPDATE SET status = 'pending', updated_at = NOW()
		WHERE user_coach_connections.status <> 'active'
		RETURNING id, user_id, coach_id, status, created_at, updated_at
	`

	var connection models.Connection
	err := r.db.QueryRow(ctx, query, userID, coachID).Scan(
		&connection.ID,
		&connection.UserID,
		&connection.CoachID,
		&connection.Status,
		&connection.CreatedAt,
		&connection.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &connection, nil
}

// UpdateStatus records a coach's decision on the connection with one of
// their users.
func (r *ConnectionRepository) UpdateStatus(
	ctx context.Context,
	coachID int64,
	userID int64,
	status string,
) (*models.Connection, error) {
	query := `
		UPDATE user_coach_connections
		SET status = $3, updated_at = NOW()
		WHERE coach_id = $1 AND user_id = $2
		RETURNING id, user_id, coach_id, status, created_at, updated_at
	`

	var connection models.Connection
	err := r.db.QueryRow(ctx, query, coachID, userID, status).Scan(
		&connection.ID,
		&connection.UserID,
		&connection.CoachID,
		&connection.Status,
		&connection.CreatedAt,
		&connection.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &connection, nil
}

func (r *ConnectionRepository) ListForUser(ctx context.Context, userID int64) ([]models.Connection, error) {
	query := `
		SELECT id, user_id, coach_id, status, created_at, updated_at
		FROM user_coach_connections
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

func (r *ConnectionRepository) ListForCoach(ctx context.Context, coachID int64) ([]models.Connection, error) {
	query := `
		SELECT id, user_id, coach_id, status, created_at, updated_at
		FROM user_coach_connections
		WHERE coach_id = $1
		ORDER BY updated_at DESC, id DESC
	`
	return r.list(ctx, query, coachID)
}

func (r *ConnectionRepository) list(ctx context.Context, query string, id int64) ([]models.Connection, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	connections := make([]models.Connection, 0)
	for rows.Next() {
		var connection models.Connection
		if err := rows.Scan(
			&connection.ID,
			&connection.UserID,
			&connection.CoachID,
			&connection.Status,
			&connection.CreatedAt,
			&connection.UpdatedAt,
		); err != nil {
			return nil, err
		}

		connections = append(connections, connection)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return connections, nil
}

// ContactsForUser lists the coaches a user has any connection with, plus the
// count of unread messages from each.
func (r *ConnectionRepository) ContactsForUser(ctx context.Context, userID int64) ([]models.Contact, error) {
	query := `
		SELECT c.coach_id, co.email, c.status, COALESCE(un.unread_count, 0)
		FROM user_coach_connections c
		JOIN coaches co ON co.id = c.coach_id
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages m
			WHERE m.sender_id = c.coach_id
			  AND m.sender_type = 'coach'
			  AND m.receiver_id = c.user_id
			  AND m.is_read = FALSE
		) un ON TRUE
		WHERE c.user_id = $1
		ORDER BY c.updated_at DESC, c.id DESC
	`
	return r.contacts(ctx, query, userID, models.RoleCoach)
}

// ContactsForCoach lists a coach's users the same way.
func (r *ConnectionRepository) ContactsForCoach(ctx context.Context, coachID int64) ([]models.Contact, error) {
	query := `
		SELECT c.user_id, u.email, c.status, COALESCE(un.unread_count, 0)
		FROM user_coach_connections c
		JOIN users u ON u.id = c.user_id
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages m
			WHERE m.sender_id = c.user_id
			  AND m.sender_type = 'user'
			  AND m.receiver_id = c.coach_id
			  AND m.is_read = FALSE
		) un ON TRUE
		WHERE c.coach_id = $1
		ORDER BY c.updated_at DESC, c.id DESC
	`
	return r.contacts(ctx, query, coachID, models.RoleUser)
}

func (r *ConnectionRepository) contacts(
	ctx context.Context,
	query string,
	id int64,
	contactRole string,
) ([]models.Contact, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var contact models.Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.Email,
			&contact.Status,
			&contact.UnreadCount,
		); err != nil {
			return nil, err
		}

		contact.Role = contactRole
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}
