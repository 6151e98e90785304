package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lexora-lms/internal/adapters/http/middleware"
	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Seed: config.SeedConfig{
			AdminUsername: "head-librarian",
			AdminEmail:    "head@lexora.local",
			AdminPassword: "open-sesame-42",
		},
	}
	config.AppConfig = cfg
	require.NoError(t, config.SeedAdminUser(db, cfg))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg)
	return app
}

// request sends a JSON request through the app and decodes the response
// envelope. token may be empty for public routes.
func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	status, body := request(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	token := data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoanLifecycleThroughAPI(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "head-librarian", "open-sesame-42")

	// Catalog a book.
	status, body := request(t, app, http.MethodPost, "/api/v1/books", token, fiber.Map{
		"title":        "A Wizard of Earthsea",
		"author":       "Ursula K. Le Guin",
		"isbn":         "978-0547773742",
		"total_copies": 2,
	})
	require.Equal(t, http.StatusCreated, status)
	bookID := uint(body["data"].(map[string]interface{})["id"].(float64))

	// Register a member.
	status, body = request(t, app, http.MethodPost, "/api/v1/members", token, fiber.Map{
		"name":  "Ged Sparrowhawk",
		"email": "ged@example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	memberID := uint(body["data"].(map[string]interface{})["id"].(float64))

	// Borrow.
	status, body = request(t, app, http.MethodPost, "/api/v1/loans/borrow", token, fiber.Map{
		"book_id":   bookID,
		"member_id": memberID,
	})
	require.Equal(t, http.StatusCreated, status)
	loan := body["data"].(map[string]interface{})
	loanID := uint(loan["id"].(float64))
	require.Equal(t, models.LoanStatusActive, loan["status"])

	// One copy is now out.
	status, body = request(t, app, http.MethodGet,
		fmt.Sprintf("/api/v1/books/%d", bookID), token, nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 1, body["data"].(map[string]interface{})["available_copies"].(float64))

	// Return.
	status, body = request(t, app, http.MethodPost,
		fmt.Sprintf("/api/v1/loans/%d/return", loanID), token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, models.LoanStatusReturned, body["data"].(map[string]interface{})["status"])

	// The copy is back.
	status, body = request(t, app, http.MethodGet,
		fmt.Sprintf("/api/v1/books/%d", bookID), token, nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 2, body["data"].(map[string]interface{})["available_copies"].(float64))

	// Returning twice is a conflict.
	status, _ = request(t, app, http.MethodPost,
		fmt.Sprintf("/api/v1/loans/%d/return", loanID), token, nil)
	require.Equal(t, http.StatusConflict, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupTestApp(t)

	status, _ := request(t, app, http.MethodGet, "/api/v1/books", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = request(t, app, http.MethodGet, "/api/v1/books", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestMemberRoleCannotMutateCatalog(t *testing.T) {
	app := setupTestApp(t)

	status, _ := request(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": "reader1",
		"email":    "reader1@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, status)

	memberToken := login(t, app, "reader1", "correct-horse")

	// Reads are allowed.
	status, _ = request(t, app, http.MethodGet, "/api/v1/books", memberToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Mutations are not.
	status, _ = request(t, app, http.MethodPost, "/api/v1/books", memberToken, fiber.Map{
		"title":        "Forbidden",
		"author":       "Nobody",
		"isbn":         "0000000000",
		"total_copies": 1,
	})
	require.Equal(t, http.StatusForbidden, status)
}

func TestLookupRoutesAreNotSwallowedByIDRoutes(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "head-librarian", "open-sesame-42")

	status, body := request(t, app, http.MethodPost, "/api/v1/members", token, fiber.Map{
		"name":  "Tenar of Atuan",
		"email": "tenar@example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	membershipID := body["data"].(map[string]interface{})["membership_id"].(string)

	status, body = request(t, app, http.MethodGet,
		"/api/v1/members/membership/"+membershipID, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "tenar@example.com", body["data"].(map[string]interface{})["email"])
}
