package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarietySectionAndOptionLifecycle(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	dishID := createDish(t, app, chef, "Pizza", 10.0)
	base := "/api/dishes/" + dishID + "/sections"

	status, payload := request(t, app, http.MethodPost, base, chef.Token, map[string]interface{}{
		"name":        "Size Options",
		"description": "Choose your preferred size",
	})
	require.Equal(t, http.StatusCreated, status)
	sectionID := payload["data"].(map[string]interface{})["id"].(string)

	for _, opt := range []struct {
		name string
		adj  float64
	}{
		{"Small", 0.0},
		{"Medium", 2.0},
		{"Large", 4.0},
	} {
		status, _ = request(t, app, http.MethodPost, base+"/"+sectionID+"/options", chef.Token, map[string]interface{}{
			"name":             opt.name,
			"price_adjustment": opt.adj,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	// Public read returns the section with its three options.
	status, payload = request(t, app, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, status)
	sections := payload["data"].([]interface{})
	require.Len(t, sections, 1)
	options := sections[0].(map[string]interface{})["options"].([]interface{})
	assert.Len(t, options, 3)

	// Update an option's price.
	optionID := options[1].(map[string]interface{})["id"].(string)
	status, payload = request(t, app, http.MethodPut, base+"/"+sectionID+"/options/"+optionID, chef.Token, map[string]interface{}{
		"price_adjustment": 2.5,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.5, payload["data"].(map[string]interface{})["price_adjustment"])

	// Deleting the section removes its options too.
	status, _ = request(t, app, http.MethodDelete, base+"/"+sectionID, chef.Token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, payload = request(t, app, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, payload["data"])
}

func TestVarietyWritesOwnerGated(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	rival := signupAndLogin(t, app, "chef", "rival@example.com")
	consumer := signupAndLogin(t, app, "consumer", "eater@example.com")
	dishID := createDish(t, app, chef, "Pizza", 10.0)
	base := "/api/dishes/" + dishID + "/sections"

	// Another chef sees 404, not someone else's dish.
	status, _ := request(t, app, http.MethodPost, base, rival.Token, map[string]interface{}{
		"name": "Toppings",
	})
	assert.Equal(t, http.StatusNotFound, status)

	// Consumers are blocked by role.
	status, _ = request(t, app, http.MethodPost, base, consumer.Token, map[string]interface{}{
		"name": "Toppings",
	})
	assert.Equal(t, http.StatusForbidden, status)
}
