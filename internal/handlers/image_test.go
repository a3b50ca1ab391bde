package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagePrimaryDemotion(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	dishID := createDish(t, app, chef, "Pizza", 10.0)
	base := "/api/dishes/" + dishID + "/images"

	status, payload := request(t, app, http.MethodPost, base, chef.Token, map[string]interface{}{
		"image_url":  "https://cdn.example.com/pizza-1.jpg",
		"is_primary": true,
	})
	require.Equal(t, http.StatusCreated, status)
	firstID := payload["data"].(map[string]interface{})["id"].(string)

	// A second primary image demotes the first.
	status, _ = request(t, app, http.MethodPost, base, chef.Token, map[string]interface{}{
		"image_url":  "https://cdn.example.com/pizza-2.jpg",
		"is_primary": true,
	})
	require.Equal(t, http.StatusCreated, status)

	status, payload = request(t, app, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, status)

	images := payload["data"].([]interface{})
	require.Len(t, images, 2)

	primaries := 0
	for _, raw := range images {
		img := raw.(map[string]interface{})
		if img["is_primary"].(bool) {
			primaries++
			assert.Equal(t, "https://cdn.example.com/pizza-2.jpg", img["image_url"])
		}
	}
	assert.Equal(t, 1, primaries)

	// Primary sorts first in the public listing.
	assert.True(t, images[0].(map[string]interface{})["is_primary"].(bool))

	// The demoted image can be promoted back.
	status, payload = request(t, app, http.MethodPut, base+"/"+firstID, chef.Token, map[string]interface{}{
		"is_primary": true,
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, payload["data"].(map[string]interface{})["is_primary"].(bool))
}

func TestImageWritesOwnerGated(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	rival := signupAndLogin(t, app, "chef", "rival@example.com")
	dishID := createDish(t, app, chef, "Pizza", 10.0)
	base := "/api/dishes/" + dishID + "/images"

	status, _ := request(t, app, http.MethodPost, base, rival.Token, map[string]interface{}{
		"image_url": "https://cdn.example.com/stolen.jpg",
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, payload := request(t, app, http.MethodPost, base, chef.Token, map[string]interface{}{
		"image_url": "https://cdn.example.com/pizza.jpg",
	})
	require.Equal(t, http.StatusCreated, status)
	imageID := payload["data"].(map[string]interface{})["id"].(string)

	status, _ = request(t, app, http.MethodDelete, base+"/"+imageID, rival.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, app, http.MethodDelete, base+"/"+imageID, chef.Token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}
