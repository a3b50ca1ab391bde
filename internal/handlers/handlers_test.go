package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/homechef/internal/config"
	"github.com/example/homechef/internal/database"
	"github.com/example/homechef/internal/routes"
)

// setupTestApp builds the full fiber app against an isolated in-memory
// sqlite database.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenExpires:  time.Hour,
		ResetTokenTTL: 10 * time.Minute,
	}

	app := fiber.New()
	routes.Register(app, db, cfg)
	return app, db
}

// request performs a JSON request against the app and decodes the response
// envelope.
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

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	if len(raw) > 0 {
		// Error responses from fiber's default handler are plain text.
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = map[string]interface{}{"message": string(raw)}
		}
	}

	return resp.StatusCode, payload
}

type account struct {
	ID    string
	Token string
}

// signupAndLogin registers an account and returns its ID and bearer token.
func signupAndLogin(t *testing.T, app *fiber.App, role, email string) account {
	t.Helper()

	status, payload := request(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
		"phone":      fmt.Sprintf("+1%010d", hashString(email)%10000000000),
		"role":       role,
	})
	require.Equal(t, http.StatusCreated, status, "signup failed: %v", payload)

	user := payload["user"].(map[string]interface{})

	status, payload = request(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status, "login failed: %v", payload)

	return account{
		ID:    user["id"].(string),
		Token: payload["token"].(string),
	}
}

func hashString(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// createDish adds a dish for the chef and returns its ID.
func createDish(t *testing.T, app *fiber.App, chef account, name string, price float64) string {
	t.Helper()

	status, payload := request(t, app, http.MethodPost, "/api/dishes/", chef.Token, map[string]interface{}{
		"name":              name,
		"description":       "test dish",
		"price":             price,
		"prep_time_minutes": 30,
	})
	require.Equal(t, http.StatusCreated, status, "create dish failed: %v", payload)

	data := payload["data"].(map[string]interface{})
	return data["id"].(string)
}
