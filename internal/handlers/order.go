package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
	"github.com/example/homechef/internal/orderstate"
	"github.com/example/homechef/internal/utils"
)

// OrderHandler manages the order workflow.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	DishID          string `json:"dish_id"`
	Quantity        int    `json:"quantity"`
	SpecialRequests string `json:"special_requests"`
}

type createOrderRequest struct {
	Items                 []orderItemRequest `json:"items"`
	DeliveryAddress       string             `json:"delivery_address"`
	DeliveryLatitude      float64            `json:"delivery_latitude"`
	DeliveryLongitude     float64            `json:"delivery_longitude"`
	SpecialInstructions   string             `json:"special_instructions"`
	EstimatedDeliveryTime *time.Time         `json:"estimated_delivery_time"`
}

// CreateOrder places an order. The chef is derived from the dishes, every
// item must be owned by that same chef, and unit prices are captured from the
// catalog at this moment; later dish price changes never touch the order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	consumerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	role, _ := middleware.GetCurrentUserRole(c)
	if role != models.RoleConsumer {
		return fiber.NewError(fiber.StatusForbidden, "only consumers can place orders")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order must contain at least one item")
	}
	if req.DeliveryAddress == "" {
		return fiber.NewError(fiber.StatusBadRequest, "delivery_address is required")
	}

	order := models.Order{
		ConsumerID:            consumerID,
		Status:                models.StatusPending,
		DeliveryAddress:       req.DeliveryAddress,
		DeliveryLatitude:      req.DeliveryLatitude,
		DeliveryLongitude:     req.DeliveryLongitude,
		SpecialInstructions:   req.SpecialInstructions,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var chefID uuid.UUID
		var total float64
		seen := map[uuid.UUID]bool{}

		for _, item := range req.Items {
			if item.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "item quantity must be positive")
			}

			dishID, err := uuid.Parse(item.DishID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid dish_id")
			}
			if seen[dishID] {
				return fiber.NewError(fiber.StatusBadRequest, "each dish may appear only once per order")
			}
			seen[dishID] = true

			var dish models.Dish
			if err := tx.First(&dish, "id = ?", dishID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusBadRequest, "dish not found")
				}
				return err
			}

			if !dish.IsAvailable {
				return fiber.NewError(fiber.StatusBadRequest, "dish is not available: "+dish.Name)
			}

			if chefID == uuid.Nil {
				chefID = dish.ChefID
			} else if chefID != dish.ChefID {
				return fiber.NewError(fiber.StatusBadRequest, "all dishes in an order must belong to the same chef")
			}

			orderItem := models.OrderItem{
				DishID:          dish.ID,
				DishName:        dish.Name,
				Quantity:        item.Quantity,
				UnitPrice:       dish.Price,
				SpecialRequests: item.SpecialRequests,
			}
			total += orderItem.Subtotal()
			order.Items = append(order.Items, orderItem)
		}

		order.ChefID = chefID
		order.TotalAmount = total

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Model(&models.ConsumerProfile{}).
			Where("user_id = ?", consumerID).
			UpdateColumn("order_count", gorm.Expr("order_count + 1")).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns role-scoped orders: consumers see orders they placed,
// chefs see orders assigned to them. Filterable by status and date range.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	role, _ := middleware.GetCurrentUserRole(c)

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})
	if role == models.RoleChef {
		query = query.Where("chef_id = ?", userID)
	} else {
		query = query.Where("consumer_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		if !orderstate.IsValidStatus(models.OrderStatus(status)) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown status")
		}
		query = query.Where("status = ?", status)
	}

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("created_at <= ?", t)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order visible to its consumer or chef.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.visibleOrder(c, true)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order along the workflow. Only the assigned chef may
// call this, and only transitions in the orderstate table are accepted.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	role, _ := middleware.GetCurrentUserRole(c)
	if role != models.RoleChef {
		return fiber.NewError(fiber.StatusForbidden, "only chefs can update order status")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	target := models.OrderStatus(req.Status)
	if !orderstate.IsValidStatus(target) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ? AND chef_id = ?", orderID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := orderstate.CanTransition(order.Status, target, models.RoleChef); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	order.Status = target
	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":     order.ID,
		"status": order.Status,
	}})
}

// CancelOrder lets the order's consumer cancel while it is still pending.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	role, _ := middleware.GetCurrentUserRole(c)
	if role != models.RoleConsumer {
		return fiber.NewError(fiber.StatusForbidden, "only consumers can cancel their orders")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ? AND consumer_id = ?", orderID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := orderstate.CanTransition(order.Status, models.StatusCancelled, models.RoleConsumer); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	order.Status = models.StatusCancelled
	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":     order.ID,
		"status": order.Status,
	}})
}

// Tracking returns the delivery-facing view of an order.
func (h *OrderHandler) Tracking(c *fiber.Ctx) error {
	order, err := h.visibleOrder(c, false)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":                      order.ID,
		"status":                  order.Status,
		"delivery_address":        order.DeliveryAddress,
		"delivery_latitude":       order.DeliveryLatitude,
		"delivery_longitude":      order.DeliveryLongitude,
		"estimated_delivery_time": order.EstimatedDeliveryTime,
		"updated_at":              order.UpdatedAt,
	}})
}

// visibleOrder loads :id and verifies the requester is the order's consumer
// or chef.
func (h *OrderHandler) visibleOrder(c *fiber.Ctx, withItems bool) (*models.Order, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	query := h.db.Where("id = ? AND (consumer_id = ? OR chef_id = ?)", orderID, userID, userID)
	if withItems {
		query = query.Preload("Items")
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return nil, err
	}

	return &order, nil
}
