package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishOwnership(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	otherChef := signupAndLogin(t, app, "chef", "rival@example.com")
	consumer := signupAndLogin(t, app, "consumer", "eater@example.com")

	dishID := createDish(t, app, chef, "Lasagna", 12.50)

	// Consumers cannot create dishes.
	status, _ := request(t, app, http.MethodPost, "/api/dishes/", consumer.Token, map[string]interface{}{
		"name":  "Sneaky Dish",
		"price": 1.0,
	})
	assert.Equal(t, http.StatusForbidden, status)

	// A different chef cannot update or delete someone else's dish.
	status, _ = request(t, app, http.MethodPut, "/api/dishes/"+dishID, otherChef.Token, map[string]interface{}{
		"price": 99.0,
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, app, http.MethodDelete, "/api/dishes/"+dishID, otherChef.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// The owner can.
	status, payload := request(t, app, http.MethodPut, "/api/dishes/"+dishID, chef.Token, map[string]interface{}{
		"price": 14.0,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 14.0, payload["data"].(map[string]interface{})["price"])

	status, _ = request(t, app, http.MethodDelete, "/api/dishes/"+dishID, chef.Token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestDishNameUniquePerChef(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	otherChef := signupAndLogin(t, app, "chef", "rival@example.com")

	createDish(t, app, chef, "Lasagna", 12.50)

	status, _ := request(t, app, http.MethodPost, "/api/dishes/", chef.Token, map[string]interface{}{
		"name":  "Lasagna",
		"price": 10.0,
	})
	assert.Equal(t, http.StatusConflict, status)

	// Same name under a different chef is fine.
	status, _ = request(t, app, http.MethodPost, "/api/dishes/", otherChef.Token, map[string]interface{}{
		"name":  "Lasagna",
		"price": 10.0,
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestDishListFilters(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	otherChef := signupAndLogin(t, app, "chef", "rival@example.com")

	cheapID := createDish(t, app, chef, "Tomato Soup", 5.00)
	createDish(t, app, chef, "Beef Wellington", 42.00)
	createDish(t, app, otherChef, "Ramen", 11.00)

	// Mark the soup unavailable.
	status, _ := request(t, app, http.MethodPut, "/api/dishes/"+cheapID, chef.Token, map[string]interface{}{
		"is_available": false,
	})
	require.Equal(t, http.StatusOK, status)

	listNames := func(query string) []string {
		status, payload := request(t, app, http.MethodGet, "/api/dishes/"+query, "", nil)
		require.Equal(t, http.StatusOK, status)
		var names []string
		for _, raw := range payload["data"].([]interface{}) {
			names = append(names, raw.(map[string]interface{})["name"].(string))
		}
		return names
	}

	assert.ElementsMatch(t, []string{"Beef Wellington", "Ramen"}, listNames("?is_available=true"))
	assert.ElementsMatch(t, []string{"Tomato Soup"}, listNames("?is_available=false"))
	assert.ElementsMatch(t, []string{"Tomato Soup", "Ramen"}, listNames("?max_price=20"))
	assert.ElementsMatch(t, []string{"Beef Wellington"}, listNames("?min_price=20"))
	assert.ElementsMatch(t, []string{"Tomato Soup", "Beef Wellington"}, listNames(fmt.Sprintf("?chef_id=%s", chef.ID)))
	assert.ElementsMatch(t, []string{"Ramen"}, listNames("?search=ram"))
}

func TestDishCategoryFilter(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")

	status, payload := request(t, app, http.MethodPost, "/api/dishes/categories", chef.Token, map[string]interface{}{
		"name":        "Soups",
		"description": "Warm things in bowls",
	})
	require.Equal(t, http.StatusCreated, status)
	categoryID := payload["data"].(map[string]interface{})["id"].(string)

	status, _ = request(t, app, http.MethodPost, "/api/dishes/", chef.Token, map[string]interface{}{
		"name":        "Minestrone",
		"price":       7.5,
		"category_id": categoryID,
	})
	require.Equal(t, http.StatusCreated, status)
	createDish(t, app, chef, "Focaccia", 4.0)

	status, payload = request(t, app, http.MethodGet, "/api/dishes/?category_id="+categoryID, "", nil)
	require.Equal(t, http.StatusOK, status)
	data := payload["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Minestrone", data[0].(map[string]interface{})["name"])
}

func TestAverageRatingComputedOnRead(t *testing.T) {
	app, _ := setupTestApp(t)

	chef := signupAndLogin(t, app, "chef", "chef@example.com")
	dishID := createDish(t, app, chef, "Paella", 18.0)

	ratings := []int{5, 3, 4}
	for i, rating := range ratings {
		reviewer := signupAndLogin(t, app, "consumer", fmt.Sprintf("reviewer%d@example.com", i))
		status, _ := request(t, app, http.MethodPost, "/api/dishes/"+dishID+"/reviews", reviewer.Token, map[string]interface{}{
			"rating":      rating,
			"review_text": "good",
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, payload := request(t, app, http.MethodGet, "/api/dishes/"+dishID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4.0, payload["data"].(map[string]interface{})["average_rating"])
}

func TestCategoryWritesChefGated(t *testing.T) {
	app, _ := setupTestApp(t)

	consumer := signupAndLogin(t, app, "consumer", "eater@example.com")

	status, _ := request(t, app, http.MethodPost, "/api/dishes/categories", consumer.Token, map[string]interface{}{
		"name": "Desserts",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// Reads are public.
	status, _ = request(t, app, http.MethodGet, "/api/dishes/categories", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
