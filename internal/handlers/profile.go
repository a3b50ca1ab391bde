package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns a user's profile subject to the visibility rules:
// everyone may read their own profile, consumers may read any chef profile,
// every other cross-account read is denied.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	requesterID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	requesterRole, _ := middleware.GetCurrentUserRole(c)

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var target models.User
	if err := h.db.First(&target, "id = ?", targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		return err
	}

	if requesterID != target.ID {
		if !(requesterRole == models.RoleConsumer && target.Role == models.RoleChef) {
			return fiber.NewError(fiber.StatusForbidden, "access denied")
		}
	}

	data := fiber.Map{"user": userResponse(target)}

	if target.Role == models.RoleChef {
		var profile models.ChefProfile
		if err := h.db.Where("user_id = ?", target.ID).First(&profile).Error; err != nil {
			return err
		}
		data["profile"] = profile
	} else {
		var profile models.ConsumerProfile
		if err := h.db.Where("user_id = ?", target.ID).First(&profile).Error; err != nil {
			return err
		}
		data["profile"] = profile
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

type updateProfileRequest struct {
	FirstName         *string  `json:"first_name"`
	LastName          *string  `json:"last_name"`
	Phone             *string  `json:"phone"`
	ProfilePictureURL *string  `json:"profile_picture_url"`
	AddressLatitude   *float64 `json:"address_latitude"`
	AddressLongitude  *float64 `json:"address_longitude"`

	// chef-only fields
	Bio             *string `json:"bio"`
	Specialties     *string `json:"specialties"`
	ExperienceYears *int    `json:"experience_years"`

	// consumer-only fields
	DietaryPreferences *string `json:"dietary_preferences"`
	FavoriteCuisines   *string `json:"favorite_cuisines"`
}

// UpdateProfile updates a user's own account and role profile fields.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	requesterID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if requesterID != targetID {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userUpdates := map[string]interface{}{}
	if req.FirstName != nil {
		userUpdates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		userUpdates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		userUpdates["phone"] = *req.Phone
	}
	if req.ProfilePictureURL != nil {
		userUpdates["profile_picture_url"] = *req.ProfilePictureURL
	}
	if req.AddressLatitude != nil {
		userUpdates["address_latitude"] = *req.AddressLatitude
	}
	if req.AddressLongitude != nil {
		userUpdates["address_longitude"] = *req.AddressLongitude
	}

	role, _ := middleware.GetCurrentUserRole(c)

	chefUpdates := map[string]interface{}{}
	consumerUpdates := map[string]interface{}{}
	if role == models.RoleChef {
		if req.Bio != nil {
			chefUpdates["bio"] = *req.Bio
		}
		if req.Specialties != nil {
			chefUpdates["specialties"] = *req.Specialties
		}
		if req.ExperienceYears != nil {
			chefUpdates["experience_years"] = *req.ExperienceYears
		}
	} else {
		if req.DietaryPreferences != nil {
			consumerUpdates["dietary_preferences"] = *req.DietaryPreferences
		}
		if req.FavoriteCuisines != nil {
			consumerUpdates["favorite_cuisines"] = *req.FavoriteCuisines
		}
	}

	if len(userUpdates) == 0 && len(chefUpdates) == 0 && len(consumerUpdates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			userUpdates["updated_at"] = time.Now()
			if err := tx.Model(&models.User{}).Where("id = ?", targetID).
				Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(chefUpdates) > 0 {
			if err := tx.Model(&models.ChefProfile{}).Where("user_id = ?", targetID).
				Updates(chefUpdates).Error; err != nil {
				return err
			}
		}
		if len(consumerUpdates) > 0 {
			if err := tx.Model(&models.ConsumerProfile{}).Where("user_id = ?", targetID).
				Updates(consumerUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}
