package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the order workflow state. Transitions are validated by the
// orderstate package.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Order ties a consumer, a chef and a list of line items together.
type Order struct {
	BaseModel
	ConsumerID uuid.UUID   `gorm:"type:uuid;index" json:"consumer_id"`
	Consumer   *User       `gorm:"foreignKey:ConsumerID" json:"consumer,omitempty"`
	ChefID     uuid.UUID   `gorm:"type:uuid;index" json:"chef_id"`
	Chef       *User       `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
	Status     OrderStatus `gorm:"index" json:"status"`
	// TotalAmount is fixed at creation from the captured unit prices.
	TotalAmount           float64     `json:"total_amount"`
	DeliveryAddress       string      `json:"delivery_address"`
	DeliveryLatitude      float64     `json:"delivery_latitude"`
	DeliveryLongitude     float64     `json:"delivery_longitude"`
	EstimatedDeliveryTime *time.Time  `json:"estimated_delivery_time"`
	SpecialInstructions   string      `json:"special_instructions"`
	Items                 []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots a dish at order time. UnitPrice is the dish price when
// the order was placed; later catalog changes never touch it.
type OrderItem struct {
	BaseModel
	OrderID         uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	DishID          uuid.UUID `gorm:"type:uuid;index" json:"dish_id"`
	Dish            *Dish     `json:"dish,omitempty"`
	DishName        string    `json:"dish_name"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	SpecialRequests string    `json:"special_requests"`
}

// Subtotal is the line total for this item.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
