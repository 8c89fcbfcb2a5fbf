package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/internal/models"
	"github.com/arsalan-d/MomentumBack/internal/services"
)

type stubMessageService struct {
	views       []models.MessageView
	viewsErr    error
	contacts    []models.Contact
	contactsErr error
	lastCaller  models.Identity
	lastOtherID int64
}

func (s *stubMessageService) ConversationWith(_ context.Context, caller models.Identity, otherID int64) ([]models.MessageView, error) {
	s.lastCaller = caller
	s.lastOtherID = otherID
	return s.views, s.viewsErr
}

func (s *stubMessageService) Contacts(_ context.Context, caller models.Identity) ([]models.Contact, error) {
	s.lastCaller = caller
	return s.contacts, s.contactsErr
}

func messageTestApp(service *stubMessageService, role, userID string) *fiber.App {
	handler := NewMessageHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("role", role)
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	app.Get("/api/v1/messages/:otherId", handler.GetConversation)
	app.Get("/api/v1/contacts", handler.ListContacts)
	return app
}

func TestGetConversationReturnsOrderedArrayWithDirection(t *testing.T) {
	created := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	service := &stubMessageService{
		views: []models.MessageView{
			{
				ChatMessage: models.ChatMessage{
					ID: 1, SenderID: 7, ReceiverID: 3,
					SenderType: "user", Content: "Hello", IsRead: true, CreatedAt: created,
				},
				Direction: models.DirectionReceived,
			},
			{
				ChatMessage: models.ChatMessage{
					ID: 2, SenderID: 3, ReceiverID: 7,
					SenderType: "coach", Content: "Hi", CreatedAt: created.Add(time.Minute),
				},
				Direction: models.DirectionSent,
			},
		},
	}
	app := messageTestApp(service, "coach", "3")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastCaller != (models.Identity{ID: 3, Role: "coach"}) || service.lastOtherID != 7 {
		t.Fatalf("unexpected service call: %+v with %d", service.lastCaller, service.lastOtherID)
	}

	var body []struct {
		ID         int64  `json:"id"`
		SenderID   int64  `json:"sender_id"`
		SenderType string `json:"sender_type"`
		Direction  string `json:"direction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(body))
	}
	if body[0].Direction != "received" || body[1].Direction != "sent" {
		t.Fatalf("unexpected directions: %+v", body)
	}
	if body[0].ID != 1 || body[1].ID != 2 {
		t.Fatalf("messages out of order: %+v", body)
	}
}

func TestGetConversationRequiresAuth(t *testing.T) {
	app := messageTestApp(&stubMessageService{}, "", "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGetConversationRejectsBadContactID(t *testing.T) {
	app := messageTestApp(&stubMessageService{}, "user", "7")

	for _, otherID := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/"+otherID, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("otherId %q: expected 400, got %d", otherID, resp.StatusCode)
		}
	}
}

func TestGetConversationMapsInternalError(t *testing.T) {
	service := &stubMessageService{viewsErr: context.DeadlineExceeded}
	app := messageTestApp(service, "user", "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestListContactsReturnsUnreadCounts(t *testing.T) {
	service := &stubMessageService{
		contacts: []models.Contact{
			{ID: 3, Role: "coach", Email: "coach@example.com", Status: "active", UnreadCount: 2},
		},
	}
	app := messageTestApp(service, "user", "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Contacts []models.Contact `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Contacts) != 1 || body.Contacts[0].UnreadCount != 2 {
		t.Fatalf("unexpected contacts: %+v", body.Contacts)
	}
}

func TestListContactsForbiddenRole(t *testing.T) {
	service := &stubMessageService{contactsErr: services.ErrForbidden}
	app := messageTestApp(service, "user", "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
