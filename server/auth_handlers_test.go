package server

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"inkwell/config"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer wires a Server against an in-memory SQLite database.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret-key",
	}

	srv := NewServerWithDeps(cfg, db, nil)
	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

// authToken signs up a fresh admin and returns its bearer token.
func authToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, envelope := doJSON(t, app, "POST", "/api/auth/signup", "", map[string]string{
		"username": "admin",
		"email":    "admin@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, status)

	var token string
	require.NoError(t, json.Unmarshal(envelope["token"], &token))
	require.NotEmpty(t, token)
	return token
}

func TestSignup(t *testing.T) {
	_, app := setupTestServer(t)

	tests := []struct {
		name           string
		requestBody    map[string]string
		expectedStatus int
	}{
		{
			name: "Valid signup",
			requestBody: map[string]string{
				"username": "testuser",
				"email":    "test@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusCreated,
		},
		{
			name: "Missing username",
			requestBody: map[string]string{
				"email":    "test2@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "Missing password",
			requestBody: map[string]string{
				"username": "testuser3",
				"email":    "test3@example.com",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "Duplicate email",
			requestBody: map[string]string{
				"username": "testuser4",
				"email":    "test@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := doJSON(t, app, "POST", "/api/auth/signup", "", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, status)

			if tt.expectedStatus == fiber.StatusCreated {
				assert.NotEmpty(t, envelope["token"])
			} else {
				var success bool
				require.NoError(t, json.Unmarshal(envelope["success"], &success))
				assert.False(t, success)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	_, app := setupTestServer(t)
	authToken(t, app) // creates admin@example.com

	tests := []struct {
		name           string
		requestBody    map[string]string
		expectedStatus int
	}{
		{
			name: "Valid login",
			requestBody: map[string]string{
				"email":    "admin@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusOK,
		},
		{
			name: "Wrong password",
			requestBody: map[string]string{
				"email":    "admin@example.com",
				"password": "wrong",
			},
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name: "Unknown email",
			requestBody: map[string]string{
				"email":    "ghost@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := doJSON(t, app, "POST", "/api/auth/login", "", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, status)
			if tt.expectedStatus == fiber.StatusOK {
				assert.NotEmpty(t, envelope["token"])
			}
		})
	}
}

func TestAuthRequired_RejectsMissingAndBadTokens(t *testing.T) {
	_, app := setupTestServer(t)

	// No token
	status, _ := doJSON(t, app, "POST", "/api/posts", "", map[string]string{"title": "x"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// Garbage token
	status, _ = doJSON(t, app, "POST", "/api/posts", "not-a-jwt", map[string]string{"title": "x"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
