package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
)

// ImageHandler manages dish image attachments.
type ImageHandler struct {
	db *gorm.DB
}

// NewImageHandler constructs ImageHandler.
func NewImageHandler(db *gorm.DB) *ImageHandler {
	return &ImageHandler{db: db}
}

type imageRequest struct {
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// ListImages returns a dish's images, primary first. Public.
func (h *ImageHandler) ListImages(c *fiber.Ctx) error {
	dishID, err := uuid.Parse(c.Params("dish_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid dish id")
	}

	var images []models.DishImage
	if err := h.db.Where("dish_id = ?", dishID).
		Order("is_primary desc, created_at asc").
		Find(&images).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": images})
}

// CreateImage attaches an image to a dish owned by the authenticated chef.
// Marking an image primary demotes any existing primary.
func (h *ImageHandler) CreateImage(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	dishID, err := h.ownedDishID(c.Params("dish_id"), chefID)
	if err != nil {
		return err
	}

	var req imageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.ImageURL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "image_url is required")
	}

	image := models.DishImage{
		DishID:    dishID,
		ImageURL:  req.ImageURL,
		IsPrimary: req.IsPrimary,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsPrimary {
			if err := tx.Model(&models.DishImage{}).
				Where("dish_id = ?", dishID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&image).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": image})
}

// UpdateImage changes an image's URL or primary flag. Owner-gated.
func (h *ImageHandler) UpdateImage(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	dishID, err := h.ownedDishID(c.Params("dish_id"), chefID)
	if err != nil {
		return err
	}

	imageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var image models.DishImage
	if err := h.db.First(&image, "id = ? AND dish_id = ?", imageID, dishID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "image not found")
		}
		return err
	}

	var req imageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.ImageURL != "" {
		image.ImageURL = req.ImageURL
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsPrimary && !image.IsPrimary {
			if err := tx.Model(&models.DishImage{}).
				Where("dish_id = ?", dishID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
			image.IsPrimary = true
		}
		return tx.Save(&image).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": image})
}

// DeleteImage removes an image from an owned dish.
func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	dishID, err := h.ownedDishID(c.Params("dish_id"), chefID)
	if err != nil {
		return err
	}

	imageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Where("id = ? AND dish_id = ?", imageID, dishID).
		Delete(&models.DishImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "image not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ImageHandler) ownedDishID(param string, chefID uuid.UUID) (uuid.UUID, error) {
	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid dish id")
	}

	var dish models.Dish
	if err := h.db.First(&dish, "id = ? AND chef_id = ?", id, chefID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "dish not found")
		}
		return uuid.Nil, err
	}

	return dish.ID, nil
}
