package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
)

// VarietyHandler manages dish variety sections and their priced options.
type VarietyHandler struct {
	db *gorm.DB
}

// NewVarietyHandler constructs VarietyHandler.
func NewVarietyHandler(db *gorm.DB) *VarietyHandler {
	return &VarietyHandler{db: db}
}

type sectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  *bool  `json:"is_required"`
}

// ListSections returns a dish's variety sections with options. Public.
func (h *VarietyHandler) ListSections(c *fiber.Ctx) error {
	dishID, err := uuid.Parse(c.Params("dish_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid dish id")
	}

	var sections []models.DishVarietySection
	if err := h.db.Preload("Options").
		Where("dish_id = ?", dishID).
		Order("created_at asc").
		Find(&sections).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": sections})
}

// CreateSection adds a variety section to an owned dish.
func (h *VarietyHandler) CreateSection(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	dishID, err := h.ownedDishID(c.Params("dish_id"), chefID)
	if err != nil {
		return err
	}

	var req sectionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	section := models.DishVarietySection{
		DishID:      dishID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.IsRequired != nil {
		section.IsRequired = *req.IsRequired
	}

	if err := h.db.Create(&section).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": section})
}

// UpdateSection modifies a variety section of an owned dish.
func (h *VarietyHandler) UpdateSection(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	section, err := h.ownedSection(c, chefID)
	if err != nil {
		return err
	}

	var req sectionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		section.Name = req.Name
	}
	if req.Description != "" {
		section.Description = req.Description
	}
	if req.IsRequired != nil {
		section.IsRequired = *req.IsRequired
	}

	if err := h.db.Save(section).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": section})
}

// DeleteSection removes a variety section and its options.
func (h *VarietyHandler) DeleteSection(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	section, err := h.ownedSection(c, chefID)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", section.ID).
			Delete(&models.DishVarietyOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(section).Error
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type optionRequest struct {
	Name            string   `json:"name"`
	PriceAdjustment *float64 `json:"price_adjustment"`
	IsAvailable     *bool    `json:"is_available"`
}

// ListOptions returns a section's options. Public.
func (h *VarietyHandler) ListOptions(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("section_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid section id")
	}

	var options []models.DishVarietyOption
	if err := h.db.Where("section_id = ?", sectionID).
		Order("created_at asc").
		Find(&options).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": options})
}

// CreateOption adds a priced option to a section of an owned dish.
func (h *VarietyHandler) CreateOption(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	section, err := h.ownedSection(c, chefID)
	if err != nil {
		return err
	}

	var req optionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	option := models.DishVarietyOption{
		SectionID:   section.ID,
		Name:        req.Name,
		IsAvailable: true,
	}
	if req.PriceAdjustment != nil {
		option.PriceAdjustment = *req.PriceAdjustment
	}
	if req.IsAvailable != nil {
		option.IsAvailable = *req.IsAvailable
	}

	if err := h.db.Create(&option).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": option})
}

// UpdateOption modifies an option of an owned dish's section.
func (h *VarietyHandler) UpdateOption(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	section, err := h.ownedSection(c, chefID)
	if err != nil {
		return err
	}

	optionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var option models.DishVarietyOption
	if err := h.db.First(&option, "id = ? AND section_id = ?", optionID, section.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "option not found")
		}
		return err
	}

	var req optionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		option.Name = req.Name
	}
	if req.PriceAdjustment != nil {
		option.PriceAdjustment = *req.PriceAdjustment
	}
	if req.IsAvailable != nil {
		option.IsAvailable = *req.IsAvailable
	}

	if err := h.db.Save(&option).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": option})
}

// DeleteOption removes an option from an owned dish's section.
func (h *VarietyHandler) DeleteOption(c *fiber.Ctx) error {
	chefID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	section, err := h.ownedSection(c, chefID)
	if err != nil {
		return err
	}

	optionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Where("id = ? AND section_id = ?", optionID, section.ID).
		Delete(&models.DishVarietyOption{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "option not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ownedSection resolves :dish_id/:section_id and verifies the dish belongs to
// the chef.
func (h *VarietyHandler) ownedSection(c *fiber.Ctx, chefID uuid.UUID) (*models.DishVarietySection, error) {
	dishID, err := h.ownedDishID(c.Params("dish_id"), chefID)
	if err != nil {
		return nil, err
	}

	sectionID, err := uuid.Parse(c.Params("section_id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid section id")
	}

	var section models.DishVarietySection
	if err := h.db.First(&section, "id = ? AND dish_id = ?", sectionID, dishID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "section not found")
		}
		return nil, err
	}

	return &section, nil
}

func (h *VarietyHandler) ownedDishID(param string, chefID uuid.UUID) (uuid.UUID, error) {
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
