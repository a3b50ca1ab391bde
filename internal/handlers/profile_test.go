package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileVisibilityRules(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	consumer := signupAndLogin(t, app, "consumer", "eater@example.com")
	otherConsumer := signupAndLogin(t, app, "consumer", "other@example.com")

	// Consumer may read any chef profile.
	status, payload := request(t, app, http.MethodGet, "/api/auth/profile/"+chef.ID, consumer.Token, nil)
	require.Equal(t, http.StatusOK, status)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "chef", data["user"].(map[string]interface{})["role"])
	assert.Contains(t, data["profile"].(map[string]interface{}), "is_verified")

	// Consumer may not read another consumer.
	status, _ = request(t, app, http.MethodGet, "/api/auth/profile/"+otherConsumer.ID, consumer.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Chef may not read a consumer.
	status, _ = request(t, app, http.MethodGet, "/api/auth/profile/"+consumer.ID, chef.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Chef may not read another chef.
	otherChef := signupAndLogin(t, app, "chef", "chef2@example.com")
	status, _ = request(t, app, http.MethodGet, "/api/auth/profile/"+otherChef.ID, chef.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Everyone reads themselves.
	status, _ = request(t, app, http.MethodGet, "/api/auth/profile/"+consumer.ID, consumer.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	// Unauthenticated access is rejected.
	status, _ = request(t, app, http.MethodGet, "/api/auth/profile/"+chef.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateProfileSelfOnly(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	consumer := signupAndLogin(t, app, "consumer", "eater@example.com")

	// Self update works and touches both the user and the role profile.
	status, _ := request(t, app, http.MethodPut, "/api/auth/profile/"+chef.ID, chef.Token, map[string]interface{}{
		"first_name": "Updated",
		"bio":        "New bio",
	})
	require.Equal(t, http.StatusOK, status)

	status, payload := request(t, app, http.MethodGet, "/api/auth/profile/"+chef.ID, chef.Token, nil)
	require.Equal(t, http.StatusOK, status)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "Updated", data["user"].(map[string]interface{})["first_name"])
	assert.Equal(t, "New bio", data["profile"].(map[string]interface{})["bio"])

	// A consumer cannot update a chef profile even though they can read it.
	status, _ = request(t, app, http.MethodPut, "/api/auth/profile/"+chef.ID, consumer.Token, map[string]interface{}{
		"first_name": "Hacked",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// Empty update is rejected.
	status, _ = request(t, app, http.MethodPut, "/api/auth/profile/"+chef.ID, chef.Token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
}
