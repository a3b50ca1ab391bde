package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/config"
	"github.com/example/homechef/internal/models"
	"github.com/example/homechef/internal/utils"
)

// PasswordResetHandler manages forgot-password endpoints.
type PasswordResetHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB, cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, cfg: cfg}
}

type resetRequest struct {
	Email string `json:"email"`
}

// RequestReset initiates the password-reset flow. The token is returned in the
// response; a deployment would mail it instead. Unknown emails get the same
// neutral answer so account existence does not leak.
func (h *PasswordResetHandler) RequestReset(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{
				"success": true,
				"message": "if that email exists, a reset token has been issued",
			})
		}
		return err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	resetToken := hex.EncodeToString(tokenBytes)

	// Expire any previous unused reset tokens for this account.
	h.db.Model(&models.PasswordResetToken{}).
		Where("email = ? AND used_at IS NULL", email).
		Update("expires_at", time.Now())

	record := models.PasswordResetToken{
		Email:     email,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(h.cfg.ResetTokenTTL),
	}
	if err := h.db.Create(&record).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create reset token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "if that email exists, a reset token has been issued",
		"token":   resetToken,
	})
}

type confirmResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ConfirmReset updates the password for a valid, unexpired, unused token.
func (h *PasswordResetHandler) ConfirmReset(c *fiber.Ctx) error {
	var req confirmResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token and new_password are required")
	}

	if len(req.NewPassword) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	var record models.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "invalid reset token")
		}
		return err
	}

	if record.UsedAt != nil {
		return fiber.NewError(fiber.StatusBadRequest, "token already used")
	}

	if record.ExpiresAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "token expired")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("email = ?", record.Email).
			Update("password_hash", hash).Error; err != nil {
			return err
		}

		now := time.Now()
		record.UsedAt = &now
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		// Changing the password signs the account out everywhere.
		var user models.User
		if err := tx.Where("email = ?", record.Email).First(&user).Error; err == nil {
			tx.Where("user_id = ?", user.ID).Delete(&models.AuthToken{})
		}

		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "password updated"})
}
