package repository

import (
	"context"

	"github.com/arsalan-d/MomentumBack/internal/models"
)

// MessageRepository is the append-only store behind conversations. Messages
// are never updated except for the is_read flag, and never deleted.
type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message and returns it with the store-assigned id and
// timestamp. Those two fields are the authoritative ordering key for the
// conversation; client-side times are never stored.
func (r *MessageRepository) Create(
	ctx context.Context,
	sender models.Identity,
	receiverID int64,
	content string,
) (*models.ChatMessage, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, sender_type, content, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, sender_id, receiver_id, sender_type, content, is_read, created_at
	`

	var message models.ChatMessage
	err := r.db.QueryRow(ctx, query, sender.ID, receiverID, sender.Role, content).Scan(
		&message.ID,
		&message.SenderID,
		&message.ReceiverID,
		&message.SenderType,
		&message.Content,
		&message.IsRead,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ConversationBetween returns every message exchanged between the caller and
// the counterpart with the given id, oldest first. sender_type disambiguates
// the two directions even when a user id and a coach id collide numerically.
func (r *MessageRepository) ConversationBetween(
	ctx context.Context,
	caller models.Identity,
	otherID int64,
) ([]models.ChatMessage, error) {
	other := caller.Counterpart(otherID)

	query := `
		SELECT id, sender_id, receiver_id, sender_type, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND sender_type = $2 AND receiver_id = $3)
		   OR (sender_id = $3 AND sender_type = $4 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, caller.ID, caller.Role, other.ID, other.Role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var message models.ChatMessage
		if err := rows.Scan(
			&message.ID,
			&message.SenderID,
			&message.ReceiverID,
			&message.SenderType,
			&message.Content,
			&message.IsRead,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}

		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkReadFrom flips is_read on every unread message the receiver got from
// the given sender. Idempotent; a no-op when nothing is unread.
func (r *MessageRepository) MarkReadFrom(
	ctx context.Context,
	receiver models.Identity,
	senderID int64,
) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE receiver_id = $1
		  AND sender_id = $2
		  AND sender_type = $3
		  AND is_read = FALSE
	`, receiver.ID, senderID, models.CounterpartRole(receiver.Role))
	return err
}
