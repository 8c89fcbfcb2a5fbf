package services

import (
	"context"
	"strings"

	"github.com/arsalan-d/MomentumBack/internal/models"
)

type relationshipStore interface {
	IsActive(ctx context.Context, userID, coachID int64) (bool, error)
}

type messageStore interface {
	Create(ctx context.Context, sender models.Identity, receiverID int64, content string) (*models.ChatMessage, error)
	ConversationBetween(ctx context.Context, caller models.Identity, otherID int64) ([]models.ChatMessage, error)
	MarkReadFrom(ctx context.Context, receiver models.Identity, senderID int64) error
}

type contactLister interface {
	ContactsForUser(ctx context.Context, userID int64) ([]models.Contact, error)
	ContactsForCoach(ctx context.Context, coachID int64) ([]models.Contact, error)
}

// ChatService is the delivery pipeline between two connected parties:
// validate, authorize against the coaching connection, persist, and hand the
// stored message back for broadcast. It also serves conversation history with
// its mark-read side effect.
type ChatService struct {
	connections relationshipStore
	messages    messageStore
	contacts    contactLister
}

func NewChatService(
	connections relationshipStore,
	messages messageStore,
	contacts contactLister,
) *ChatService {
	return &ChatService{
		connections: connections,
		messages:    messages,
		contacts:    contacts,
	}
}

// SendMessage authorizes and persists one message. The connection status is
// checked on every send, never cached, so a deactivated coaching connection
// takes effect immediately. The message is only durable on a nil error;
// callers must not broadcast anything on a non-nil error.
func (s *ChatService) SendMessage(
	ctx context.Context,
	sender models.Identity,
	receiverID int64,
	content string,
) (*models.ChatMessage, error) {
	if !models.ValidRole(sender.Role) {
		return nil, ErrForbidden
	}
	if sender.ID <= 0 || receiverID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	userID, coachID := sender.ConnectionPair(receiverID)
	active, err := s.connections.IsActive(ctx, userID, coachID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotConnected
	}

	return s.messages.Create(ctx, sender, receiverID, trimmed)
}

// ConversationWith returns the caller's full conversation with the other
// party, oldest first, and marks everything the caller received from them as
// read. Direction is computed here from the caller identity; sender id alone
// is not enough because a user id and a coach id can collide.
func (s *ChatService) ConversationWith(
	ctx context.Context,
	caller models.Identity,
	otherID int64,
) ([]models.MessageView, error) {
	if !models.ValidRole(caller.Role) {
		return nil, ErrForbidden
	}
	if caller.ID <= 0 || otherID <= 0 {
		return nil, ErrInvalidInput
	}

	messages, err := s.messages.ConversationBetween(ctx, caller, otherID)
	if err != nil {
		return nil, err
	}

	if err := s.messages.MarkReadFrom(ctx, caller, otherID); err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, message := range messages {
		view := models.MessageView{ChatMessage: message}
		if message.Sender() == caller {
			view.Direction = models.DirectionSent
		} else {
			view.Direction = models.DirectionReceived
			view.IsRead = true
		}
		views = append(views, view)
	}

	return views, nil
}

// Contacts lists the caller's connected counterparts with unread counts.
func (s *ChatService) Contacts(ctx context.Context, caller models.Identity) ([]models.Contact, error) {
	switch caller.Role {
	case models.RoleUser:
		return s.contacts.ContactsForUser(ctx, caller.ID)
	case models.RoleCoach:
		return s.contacts.ContactsForCoach(ctx, caller.ID)
	default:
		return nil, ErrForbidden
	}
}
