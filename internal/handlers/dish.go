package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
	"github.com/example/homechef/internal/utils"
)

// DishHandler manages dish CRUD and filtered listing.
type DishHandler struct {
	db *gorm.DB
}

// NewDishHandler constructs DishHandler.
func NewDishHandler(db *gorm.DB) *DishHandler {
	return &DishHandler{db: db}
}

// ListDishes returns paginated dishes with optional filters. Public.
func (h *DishHandler) ListDishes(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Dish{})

	if v := c.Query("chef_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("chef_id = ?", id)
		}
	}

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}

	if v := c.Query("is_available"); v != "" {
		query = query.Where("is_available = ?", v == "true")
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var dishes []models.Dish
	if err := query.Preload("Category").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&dishes).Error; err != nil {
		return err
	}

	ratings, err := h.averageRatings(dishes)
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(dishes))
	for _, dish := range dishes {
		data = append(data, dishResponse(dish, ratings[dish.ID]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetDish loads a dish with its images, variety sections and reviews. Public.
func (h *DishHandler) GetDish(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var dish models.Dish
	if err := h.db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary desc, created_at asc")
		}).
		Preload("Reviews").
		Preload("VarietySections.Options").
		First(&dish, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "dish not found")
		}
		return err
	}

	rating, err := h.averageRating(dish.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": dishResponse(dish, rating)})
}

type dishRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	CategoryID      string  `json:"category_id"`
	Price           float64 `json:"price"`
	IsAvailable     *bool   `json:"is_available"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
}

// CreateDish adds a dish owned by the authenticated chef.
func (h *DishHandler) CreateDish(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req dishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	var existing models.Dish
	if err := h.db.Where("chef_id = ? AND name = ?", chefID, req.Name).
		First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "you already have a dish with this name")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	dish := models.Dish{
		ChefID:          chefID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		IsAvailable:     true,
		PrepTimeMinutes: req.PrepTimeMinutes,
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}

	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		var category models.Category
		if err := h.db.First(&category, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "category not found")
		}
		dish.CategoryID = &category.ID
	}

	if err := h.db.Create(&dish).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": dishResponse(dish, 0)})
}

// UpdateDish modifies a dish owned by the authenticated chef.
func (h *DishHandler) UpdateDish(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	dish, err := h.ownedDish(c.Params("id"), chefID)
	if err != nil {
		return err
	}

	var req dishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		dish.Name = req.Name
	}
	if req.Description != "" {
		dish.Description = req.Description
	}
	if req.Price > 0 {
		dish.Price = req.Price
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}
	if req.PrepTimeMinutes > 0 {
		dish.PrepTimeMinutes = req.PrepTimeMinutes
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		dish.CategoryID = &id
	}

	if err := h.db.Save(dish).Error; err != nil {
		return err
	}

	rating, err := h.averageRating(dish.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": dishResponse(*dish, rating)})
}

// DeleteDish removes a dish owned by the authenticated chef.
func (h *DishHandler) DeleteDish(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	dish, err := h.ownedDish(c.Params("id"), chefID)
	if err != nil {
		return err
	}

	if err := h.db.Delete(dish).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ownedDish loads a dish and verifies ownership. Non-owners get 404 so dish
// existence does not leak through the write endpoints.
func (h *DishHandler) ownedDish(param string, chefID uuid.UUID) (*models.Dish, error) {
	id, err := uuid.Parse(param)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var dish models.Dish
	if err := h.db.First(&dish, "id = ? AND chef_id = ?", id, chefID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "dish not found")
		}
		return nil, err
	}

	return &dish, nil
}

// averageRating computes the mean review rating for one dish at read time.
func (h *DishHandler) averageRating(dishID uuid.UUID) (float64, error) {
	var avg *float64
	err := h.db.Model(&models.DishReview{}).
		Where("dish_id = ?", dishID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// averageRatings computes mean ratings for a page of dishes in one query.
func (h *DishHandler) averageRatings(dishes []models.Dish) (map[uuid.UUID]float64, error) {
	ratings := make(map[uuid.UUID]float64, len(dishes))
	if len(dishes) == 0 {
		return ratings, nil
	}

	ids := make([]uuid.UUID, len(dishes))
	for i, d := range dishes {
		ids[i] = d.ID
	}

	var rows []struct {
		DishID uuid.UUID
		Avg    float64
	}
	err := h.db.Model(&models.DishReview{}).
		Where("dish_id IN ?", ids).
		Select("dish_id, AVG(rating) as avg").
		Group("dish_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		ratings[row.DishID] = row.Avg
	}
	return ratings, nil
}

func dishResponse(dish models.Dish, averageRating float64) fiber.Map {
	resp := fiber.Map{
		"id":                dish.ID,
		"chef_id":           dish.ChefID,
		"category_id":       dish.CategoryID,
		"name":              dish.Name,
		"description":       dish.Description,
		"price":             dish.Price,
		"is_available":      dish.IsAvailable,
		"prep_time_minutes": dish.PrepTimeMinutes,
		"average_rating":    averageRating,
		"created_at":        dish.CreatedAt,
		"updated_at":        dish.UpdatedAt,
	}
	if dish.Category != nil {
		resp["category"] = dish.Category
	}
	if dish.Images != nil {
		resp["images"] = dish.Images
	}
	if dish.Reviews != nil {
		resp["reviews"] = dish.Reviews
	}
	if dish.VarietySections != nil {
		resp["variety_sections"] = dish.VarietySections
	}
	return resp
}
