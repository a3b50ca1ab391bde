package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/config"
	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
	"github.com/example/homechef/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type signupRequest struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Phone            string  `json:"phone"`
	Role             string  `json:"role"`
	AddressLatitude  float64 `json:"address_latitude"`
	AddressLongitude float64 `json:"address_longitude"`

	// chef-only fields
	Bio             string `json:"bio"`
	Specialties     string `json:"specialties"`
	ExperienceYears int    `json:"experience_years"`

	// consumer-only fields
	DietaryPreferences string `json:"dietary_preferences"`
	FavoriteCuisines   string `json:"favorite_cuisines"`
}

// Signup creates a new account with its role profile.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	role := models.Role(req.Role)
	if role != models.RoleChef && role != models.RoleConsumer {
		return fiber.NewError(fiber.StatusBadRequest, "role must be chef or consumer")
	}

	var existing models.User
	if err := h.db.Where("email = ? OR phone = ?", req.Email, req.Phone).
		First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "email or phone already in use")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		PasswordHash:     passwordHash,
		AddressLatitude:  req.AddressLatitude,
		AddressLongitude: req.AddressLongitude,
		Role:             role,
		IsActive:         false,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		switch role {
		case models.RoleChef:
			return tx.Create(&models.ChefProfile{
				UserID:          user.ID,
				Bio:             req.Bio,
				Specialties:     req.Specialties,
				ExperienceYears: req.ExperienceYears,
			}).Error
		default:
			return tx.Create(&models.ConsumerProfile{
				UserID:             user.ID,
				DietaryPreferences: req.DietaryPreferences,
				FavoriteCuisines:   req.FavoriteCuisines,
			}).Error
		}
	})
	if err != nil {
		return err
	}

	profile, err := h.roleProfile(user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userResponse(user),
		"profile": profile,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and issues a revocable bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	record := models.AuthToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(h.cfg.TokenExpires),
	}
	if err := h.db.Create(&record).Error; err != nil {
		return err
	}

	profile, err := h.roleProfile(user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userResponse(user),
		"profile": profile,
	})
}

// Logout revokes the token used for this request.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := middleware.GetCurrentToken(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.db.Where("token = ?", token).
		Delete(&models.AuthToken{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "logged out"})
}

type createCardRequest struct {
	CardNumber     string `json:"card_number"`
	CardholderName string `json:"cardholder_name"`
	ExpMonth       int    `json:"exp_month"`
	ExpYear        int    `json:"exp_year"`
	IsDefault      bool   `json:"is_default"`
}

// CreateCard stores a sanitized payment card and activates the account.
func (h *AuthHandler) CreateCard(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createCardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if len(number) < 12 || len(number) > 19 {
		return fiber.NewError(fiber.StatusBadRequest, "card number must be 12-19 digits")
	}
	if req.ExpMonth < 1 || req.ExpMonth > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid expiry month")
	}

	card := models.PaymentCard{
		UserID:         userID,
		CardholderName: req.CardholderName,
		CardLast4:      number[len(number)-4:],
		ExpMonth:       req.ExpMonth,
		ExpYear:        req.ExpYear,
		IsDefault:      req.IsDefault,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		// First card activates the account.
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("is_active", true).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": card})
}

// ListCards returns the authenticated user's stored cards.
func (h *AuthHandler) ListCards(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var cards []models.PaymentCard
	if err := h.db.Where("user_id = ?", userID).
		Order("is_default desc, created_at asc").
		Find(&cards).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cards})
}

// DeleteCard removes a card; the account deactivates when no cards remain.
func (h *AuthHandler) DeleteCard(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", cardID, userID).
			Delete(&models.PaymentCard{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "card not found")
		}

		var remaining int64
		if err := tx.Model(&models.PaymentCard{}).
			Where("user_id = ?", userID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Model(&models.User{}).Where("id = ?", userID).
				Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "card deleted"})
}

// roleProfile loads the chef or consumer profile matching the user's role.
func (h *AuthHandler) roleProfile(user models.User) (interface{}, error) {
	if user.Role == models.RoleChef {
		var profile models.ChefProfile
		if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			return nil, err
		}
		return profile, nil
	}

	var profile models.ConsumerProfile
	if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func userResponse(user models.User) fiber.Map {
	return fiber.Map{
		"id":                  user.ID,
		"email":               user.Email,
		"first_name":          user.FirstName,
		"last_name":           user.LastName,
		"phone":               user.Phone,
		"profile_picture_url": user.ProfilePictureURL,
		"address_latitude":    user.AddressLatitude,
		"address_longitude":   user.AddressLongitude,
		"role":                user.Role,
		"is_active":           user.IsActive,
		"created_at":          user.CreatedAt,
		"updated_at":          user.UpdatedAt,
	}
}
