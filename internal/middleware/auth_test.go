package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/pkg/utils"
)

const testSecret = "middleware-test-secret"

func authTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Get("/protected", AuthRequired(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("role"),
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	token, err := utils.GenerateToken("7", "coach", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	resp := doRequest(t, authTestApp(t), "Bearer "+token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	resp := doRequest(t, authTestApp(t), "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		resp := doRequest(t, authTestApp(t), header)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.StatusCode)
		}
	}
}

func TestAuthRequiredRejectsWrongSecret(t *testing.T) {
	token, err := utils.GenerateToken("7", "user", "some-other-secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	resp := doRequest(t, authTestApp(t), "Bearer "+token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
