package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/db"
	"github.com/terraincognita07/redrecon/internal/services"
)

const testSecretKey = "test-secret-key-with-enough-length-1234"

type recordingDelivery struct {
	mu        sync.Mutex
	cancelled []string
	scheduled []services.ScheduledNotification
}

func (delivery *recordingDelivery) CancelByIdentifier(_ context.Context, key string) error {
	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	delivery.cancelled = append(delivery.cancelled, key)
	return nil
}

func (delivery *recordingDelivery) ScheduleAt(_ context.Context, notification services.ScheduledNotification) error {
	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	delivery.scheduled = append(delivery.scheduled, notification)
	return nil
}

func (delivery *recordingDelivery) scheduledKeys() []string {
	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	keys := make([]string, 0, len(delivery.scheduled))
	for _, notification := range delivery.scheduled {
		keys = append(keys, notification.Key)
	}
	return keys
}

func newTestApp(t *testing.T) (*fiber.App, *recordingDelivery) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "redrecon-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	delivery := &recordingDelivery{}
	handler, err := NewHandler(NewServices(db.NewRepositories(database), delivery), testSecretKey)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, delivery
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return response, raw
}

func decodeJSON(t *testing.T, raw []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode %q: %v", string(raw), err)
	}
}

func registerTestUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response, raw := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    email,
		"password": "Secret123",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d: %s", response.StatusCode, raw)
	}

	var payload struct {
		Token string `json:"token"`
	}
	decodeJSON(t, raw, &payload)
	if payload.Token == "" {
		t.Fatal("expected token in register response")
	}
	return payload.Token
}

func createTestPartner(t *testing.T, app *fiber.App, token string, lastPeriodStart string) {
	t.Helper()

	payload := fiber.Map{"name": "Alex"}
	if lastPeriodStart != "" {
		payload["last_period_start"] = lastPeriodStart
	}
	response, raw := doJSON(t, app, http.MethodPost, "/api/partner", token, payload)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected partner status 201, got %d: %s", response.StatusCode, raw)
	}
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	decodeJSON(t, raw, &payload)
	return payload.Error
}
