package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/internal/models"
	"github.com/arsalan-d/MomentumBack/internal/services"
)

type stubConnectionService struct {
	requestResult *models.Connection
	requestErr    error
	decideResult  *models.Connection
	decideErr     error
	listResult    []models.Connection
	lastActor     models.Identity
	lastCoachID   int64
	lastUserID    int64
	lastStatus    string
}

func (s *stubConnectionService) RequestCoach(_ context.Context, actor models.Identity, coachID int64) (*models.Connection, error) {
	s.lastActor = actor
	s.lastCoachID = coachID
	return s.requestResult, s.requestErr
}

func (s *stubConnectionService) Decide(_ context.Context, actor models.Identity, userID int64, status string) (*models.Connection, error) {
	s.lastActor = actor
	s.lastUserID = userID
	s.lastStatus = status
	return s.decideResult, s.decideErr
}

func (s *stubConnectionService) List(_ context.Context, actor models.Identity) ([]models.Connection, error) {
	s.lastActor = actor
	return s.listResult, nil
}

func connectionTestApp(service *stubConnectionService, role, userID string) *fiber.App {
	handler := NewConnectionHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/connections", handler.RequestConnection)
	app.Get("/api/v1/connections", handler.ListConnections)
	app.Put("/api/v1/connections/:userId/status", handler.DecideConnection)
	return app
}

func TestRequestConnectionCreated(t *testing.T) {
	service := &stubConnectionService{
		requestResult: &models.Connection{ID: 1, UserID: 7, CoachID: 3, Status: models.ConnectionPending},
	}
	app := connectionTestApp(service, "user", "7")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/connections", strings.NewReader(`{"coach_id":3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActor != (models.Identity{ID: 7, Role: "user"}) || service.lastCoachID != 3 {
		t.Fatalf("unexpected service call: %+v coach %d", service.lastActor, service.lastCoachID)
	}

	var body struct {
		Connection models.Connection `json:"connection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Connection.Status != models.ConnectionPending {
		t.Fatalf("unexpected connection: %+v", body.Connection)
	}
}

func TestRequestConnectionConflictWhenActive(t *testing.T) {
	service := &stubConnectionService{requestErr: services.ErrConflict}
	app := connectionTestApp(service, "user", "7")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/connections", strings.NewReader(`{"coach_id":3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestDecideConnectionUpdatesStatus(t *testing.T) {
	service := &stubConnectionService{
		decideResult: &models.Connection{ID: 1, UserID: 7, CoachID: 3, Status: models.ConnectionActive},
	}
	app := connectionTestApp(service, "coach", "3")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/connections/7/status", strings.NewReader(`{"status":"active"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUserID != 7 || service.lastStatus != "active" {
		t.Fatalf("unexpected decide call: user %d status %q", service.lastUserID, service.lastStatus)
	}
}

func TestDecideConnectionInvalidStatus(t *testing.T) {
	service := &stubConnectionService{decideErr: services.ErrInvalidStatus}
	app := connectionTestApp(service, "coach", "3")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/connections/7/status", strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDecideConnectionNotFound(t *testing.T) {
	service := &stubConnectionService{decideErr: services.ErrConnectionNotFound}
	app := connectionTestApp(service, "coach", "3")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/connections/99/status", strings.NewReader(`{"status":"rejected"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListConnectionsReturnsCallerConnections(t *testing.T) {
	service := &stubConnectionService{
		listResult: []models.Connection{
			{ID: 1, UserID: 7, CoachID: 3, Status: models.ConnectionActive},
		},
	}
	app := connectionTestApp(service, "coach", "3")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/connections", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActor != (models.Identity{ID: 3, Role: "coach"}) {
		t.Fatalf("unexpected actor: %+v", service.lastActor)
	}

	var body struct {
		Connections []models.Connection `json:"connections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Connections) != 1 {
		t.Fatalf("unexpected connections: %+v", body.Connections)
	}
}
