package models

import (
	"time"

	"github.com/google/uuid"
)

// Role discriminates the two account types. Every user is exactly one of them.
type Role string

const (
	RoleChef     Role = "chef"
	RoleConsumer Role = "consumer"
)

// User represents an account shared by both roles. Role-specific data lives in
// ChefProfile or ConsumerProfile, exactly one of which exists per user.
type User struct {
	BaseModel
	Email             string  `gorm:"uniqueIndex" json:"email"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Phone             string  `gorm:"uniqueIndex" json:"phone"`
	PasswordHash      string  `json:"-"`
	ProfilePictureURL string  `json:"profile_picture_url"`
	AddressLatitude   float64 `json:"address_latitude"`
	AddressLongitude  float64 `json:"address_longitude"`
	Role              Role    `gorm:"index" json:"role"`
	// IsActive flips to true once the account has at least one payment card.
	IsActive     bool          `json:"is_active"`
	PaymentCards []PaymentCard `json:"payment_cards,omitempty"`
}

// ChefProfile extends a chef user with catalog-facing fields.
type ChefProfile struct {
	BaseModel
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	User            *User     `json:"user,omitempty"`
	Bio             string    `json:"bio"`
	Specialties     string    `json:"specialties"`
	ExperienceYears int       `json:"experience_years"`
	RatingAverage   float64   `json:"rating_average"`
	RatingCount     int       `json:"rating_count"`
	IsVerified      bool      `json:"is_verified"`
}

// ConsumerProfile extends a consumer user with ordering preferences.
type ConsumerProfile struct {
	BaseModel
	UserID             uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	User               *User     `json:"user,omitempty"`
	DietaryPreferences string    `json:"dietary_preferences"`
	FavoriteCuisines   string    `json:"favorite_cuisines"`
	OrderCount         int       `json:"order_count"`
}

// PaymentCard stores a sanitized card record. Only the last four digits of the
// number are ever persisted.
type PaymentCard struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CardholderName string    `json:"cardholder_name"`
	CardLast4      string    `json:"card_last4"`
	ExpMonth       int       `json:"exp_month"`
	ExpYear        int       `json:"exp_year"`
	IsDefault      bool      `json:"is_default"`
}

// AuthToken records an issued bearer token so logout can revoke it.
type AuthToken struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetToken backs the forgot-password flow.
type PasswordResetToken struct {
	BaseModel
	Email     string     `gorm:"index" json:"email"`
	Token     string     `gorm:"uniqueIndex" json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}
