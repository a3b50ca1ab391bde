package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
	"github.com/example/homechef/internal/utils"
)

// ReviewHandler manages dish reviews.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

type createReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// CreateReview records a consumer's rating for a dish. One review per
// (dish, consumer); a second attempt conflicts.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	consumerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	role, _ := middleware.GetCurrentUserRole(c)
	if role != models.RoleConsumer {
		return fiber.NewError(fiber.StatusForbidden, "only consumers can review dishes")
	}

	dishID, err := uuid.Parse(c.Params("dish_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid dish id")
	}

	var dish models.Dish
	if err := h.db.First(&dish, "id = ?", dishID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "dish not found")
		}
		return err
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}

	var existing models.DishReview
	if err := h.db.Where("dish_id = ? AND consumer_id = ?", dishID, consumerID).
		First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "you have already reviewed this dish")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	review := models.DishReview{
		DishID:     dishID,
		ConsumerID: consumerID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}

	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": review})
}

// ListReviews returns the reviews of a dish, newest first. Public.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	dishID, err := uuid.Parse(c.Params("dish_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid dish id")
	}

	var dish models.Dish
	if err := h.db.First(&dish, "id = ?", dishID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "dish not found")
		}
		return err
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.DishReview{}).Where("dish_id = ?", dishID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var reviews []models.DishReview
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
