package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/config"
	"github.com/example/homechef/internal/handlers"
	"github.com/example/homechef/internal/middleware"
	"github.com/example/homechef/internal/models"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	resetHandler := handlers.NewPasswordResetHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	dishHandler := handlers.NewDishHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	imageHandler := handlers.NewImageHandler(db)
	varietyHandler := handlers.NewVarietyHandler(db)
	orderHandler := handlers.NewOrderHandler(db)

	authRequired := middleware.AuthMiddleware(db, cfg)
	chefOnly := middleware.RequireRole(models.RoleChef)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authRequired, authHandler.Logout)
	auth.Post("/password-reset", resetHandler.RequestReset)
	auth.Post("/password-reset-confirm", resetHandler.ConfirmReset)
	auth.Post("/cards", authRequired, authHandler.CreateCard)
	auth.Get("/cards", authRequired, authHandler.ListCards)
	auth.Delete("/cards/:id", authRequired, authHandler.DeleteCard)
	auth.Get("/profile/:id", authRequired, profileHandler.GetProfile)
	auth.Put("/profile/:id", authRequired, profileHandler.UpdateProfile)

	// Catalog routes
	dishes := api.Group("/dishes")
	dishes.Get("/categories", catalogHandler.ListCategories)
	dishes.Post("/categories", authRequired, chefOnly, catalogHandler.CreateCategory)
	dishes.Get("/categories/:id", catalogHandler.GetCategory)
	dishes.Put("/categories/:id", authRequired, chefOnly, catalogHandler.UpdateCategory)
	dishes.Delete("/categories/:id", authRequired, chefOnly, catalogHandler.DeleteCategory)

	dishes.Get("/", dishHandler.ListDishes)
	dishes.Post("/", authRequired, chefOnly, dishHandler.CreateDish)
	dishes.Get("/:id", dishHandler.GetDish)
	dishes.Put("/:id", authRequired, chefOnly, dishHandler.UpdateDish)
	dishes.Delete("/:id", authRequired, chefOnly, dishHandler.DeleteDish)

	dishes.Get("/:dish_id/reviews", reviewHandler.ListReviews)
	dishes.Post("/:dish_id/reviews", authRequired, reviewHandler.CreateReview)

	dishes.Get("/:dish_id/images", imageHandler.ListImages)
	dishes.Post("/:dish_id/images", authRequired, chefOnly, imageHandler.CreateImage)
	dishes.Put("/:dish_id/images/:id", authRequired, chefOnly, imageHandler.UpdateImage)
	dishes.Delete("/:dish_id/images/:id", authRequired, chefOnly, imageHandler.DeleteImage)

	dishes.Get("/:dish_id/sections", varietyHandler.ListSections)
	dishes.Post("/:dish_id/sections", authRequired, chefOnly, varietyHandler.CreateSection)
	dishes.Put("/:dish_id/sections/:section_id", authRequired, chefOnly, varietyHandler.UpdateSection)
	dishes.Delete("/:dish_id/sections/:section_id", authRequired, chefOnly, varietyHandler.DeleteSection)

	dishes.Get("/:dish_id/sections/:section_id/options", varietyHandler.ListOptions)
	dishes.Post("/:dish_id/sections/:section_id/options", authRequired, chefOnly, varietyHandler.CreateOption)
	dishes.Put("/:dish_id/sections/:section_id/options/:id", authRequired, chefOnly, varietyHandler.UpdateOption)
	dishes.Delete("/:dish_id/sections/:section_id/options/:id", authRequired, chefOnly, varietyHandler.DeleteOption)

	// Order routes
	orders := api.Group("/orders", authRequired)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/status", orderHandler.UpdateStatus)
	orders.Post("/:id/cancel", orderHandler.CancelOrder)
	orders.Get("/:id/tracking", orderHandler.Tracking)
}
