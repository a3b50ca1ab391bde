package models

import "github.com/google/uuid"

// Category groups dishes. Writes are chef-gated, reads are public.
type Category struct {
	BaseModel
	Name        string `gorm:"uniqueIndex" json:"name"`
	Description string `json:"description"`
	Dishes      []Dish `json:"dishes,omitempty"`
}

// Dish is a menu item owned by exactly one chef.
type Dish struct {
	BaseModel
	ChefID      uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_chef_dish_name" json:"chef_id"`
	Chef        *User      `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category  `json:"category,omitempty"`
	Name        string     `gorm:"uniqueIndex:idx_chef_dish_name" json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	IsAvailable bool       `json:"is_available"`
	// PrepTimeMinutes is the advertised preparation time.
	PrepTimeMinutes int                  `json:"prep_time_minutes"`
	Images          []DishImage          `json:"images,omitempty"`
	Reviews         []DishReview         `json:"reviews,omitempty"`
	VarietySections []DishVarietySection `json:"variety_sections,omitempty"`
}

// DishReview is one consumer's rating of one dish. At most one review exists
// per (dish, consumer) pair.
type DishReview struct {
	BaseModel
	DishID     uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_dish_reviewer" json:"dish_id"`
	ConsumerID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_dish_reviewer" json:"consumer_id"`
	Consumer   *User     `gorm:"foreignKey:ConsumerID" json:"consumer,omitempty"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
}

// DishImage is an ordered image attachment; primary images sort first.
type DishImage struct {
	BaseModel
	DishID    uuid.UUID `gorm:"type:uuid;index" json:"dish_id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
}

// DishVarietySection is a customization group scoped to one dish, e.g. "Size".
type DishVarietySection struct {
	BaseModel
	DishID      uuid.UUID           `gorm:"type:uuid;index" json:"dish_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	IsRequired  bool                `json:"is_required"`
	Options     []DishVarietyOption `gorm:"foreignKey:SectionID" json:"options,omitempty"`
}

// DishVarietyOption is a priced choice within a section.
type DishVarietyOption struct {
	BaseModel
	SectionID       uuid.UUID `gorm:"type:uuid;index" json:"section_id"`
	Name            string    `json:"name"`
	PriceAdjustment float64   `json:"price_adjustment"`
	IsAvailable     bool      `json:"is_available"`
}
