package routes

import (
	"github.com/Mapachitomamalon/CosmoFood/controllers"
	"github.com/Mapachitomamalon/CosmoFood/middleware"
	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Catalog   *controllers.CatalogController
	Cart      *controllers.CartController
	Order     *controllers.OrderController
	Courier   *controllers.CourierController
	Complaint *controllers.ComplaintController
}

// Register mounts all routes. Browsing the menu is public; everything else
// requires a valid access token, with per-group role gates on top. Services
// re-check roles themselves, the middleware only fails fast.
func Register(r *gin.Engine, tokens services.TokenService, c Controllers) {
	auth := middleware.AuthMiddleware(tokens)

	// Public
	r.GET("/menu", c.Catalog.Menu)
	r.GET("/categories", c.Catalog.ListCategories)
	r.GET("/products", c.Catalog.SearchProducts)
	r.GET("/products/:id", c.Catalog.GetProduct)
	r.GET("/payment-methods", c.Order.PaymentMethods)

	// Sessions (rate limited)
	authRoutes := r.Group("/auth")
	authRoutes.Use(middleware.RateLimitMiddleware())
	authRoutes.POST("/register", c.Auth.Register)
	authRoutes.POST("/login", c.Auth.Login)
	authRoutes.POST("/refresh", c.Auth.Refresh)
	authRoutes.GET("/me", auth, c.Auth.Me)
	authRoutes.POST("/staff", auth, middleware.RequireRoles(models.RoleAdministrator), c.Auth.CreateStaff)

	// Cart (customers)
	cartRoutes := r.Group("/cart", auth, middleware.RequireRoles(models.RoleCustomer))
	cartRoutes.GET("", c.Cart.GetCart)
	cartRoutes.GET("/totals", c.Cart.Totals)
	cartRoutes.POST("/items", c.Cart.AddItem)
	cartRoutes.PATCH("/items/:id", c.Cart.ChangeQuantity)
	cartRoutes.DELETE("/items/:id", c.Cart.RemoveItem)

	// Orders
	orderRoutes := r.Group("/orders", auth)
	orderRoutes.POST("/checkout", middleware.RequireRoles(models.RoleCustomer), c.Order.Checkout)
	orderRoutes.GET("", c.Order.ListOrders)
	orderRoutes.GET("/:id", c.Order.GetOrder)
	orderRoutes.PATCH("/:id/status",
		middleware.RequireRoles(models.RoleAdministrator, models.RoleCourier), c.Order.UpdateStatus)
	orderRoutes.PATCH("/:id/courier",
		middleware.RequireRoles(models.RoleAdministrator), c.Order.AssignCourier)

	// Point of sale (cashiers)
	r.POST("/pos/checkout", auth,
		middleware.RequireRoles(models.RoleCashier, models.RoleAdministrator), c.Order.POSCheckout)

	// Courier self-service
	courierSelf := r.Group("/courier", auth, middleware.RequireRoles(models.RoleCourier))
	courierSelf.GET("/orders", c.Order.MyDeliveries)
	courierSelf.PATCH("/availability", c.Courier.SetOwnAvailability)

	// Fleet management
	courierRoutes := r.Group("/couriers", auth)
	courierRoutes.GET("",
		middleware.RequireRoles(models.RoleAdministrator, models.RoleCashier), c.Courier.ListCouriers)
	courierRoutes.POST("",
		middleware.RequireRoles(models.RoleAdministrator), c.Courier.CreateProfile)
	courierRoutes.PATCH("/:id/availability",
		middleware.RequireRoles(models.RoleAdministrator), c.Courier.SetAvailability)

	// Catalog administration
	adminCatalog := r.Group("", auth, middleware.RequireRoles(models.RoleAdministrator))
	adminCatalog.POST("/products", c.Catalog.CreateProduct)
	adminCatalog.PUT("/products/:id", c.Catalog.UpdateProduct)
	adminCatalog.PATCH("/products/:id/active", c.Catalog.SetProductActive)
	adminCatalog.POST("/categories", c.Catalog.CreateCategory)
	adminCatalog.PUT("/categories/:id", c.Catalog.UpdateCategory)
	adminCatalog.DELETE("/categories/:id", c.Catalog.DeleteCategory)

	r.GET("/products/low-stock", auth,
		middleware.RequireRoles(models.RoleAdministrator, models.RoleKitchen), c.Catalog.LowStock)

	// Complaints
	complaintRoutes := r.Group("/complaints", auth)
	complaintRoutes.POST("", middleware.RequireRoles(models.RoleCustomer), c.Complaint.File)
	complaintRoutes.GET("/mine", middleware.RequireRoles(models.RoleCustomer), c.Complaint.MyComplaints)
	complaintRoutes.GET("", middleware.RequireRoles(models.RoleAdministrator), c.Complaint.ListComplaints)
	complaintRoutes.PATCH("/:id", middleware.RequireRoles(models.RoleAdministrator), c.Complaint.Respond)
}
