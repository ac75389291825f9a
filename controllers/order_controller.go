package controllers

import (
	"net/http"

	"github.com/Mapachitomamalon/CosmoFood/middleware"
	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderController handles HTTP requests for checkout, the order lifecycle,
// POS sales and courier assignment.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Checkout handles POST /orders/checkout (customers).
func (oc *OrderController) Checkout(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.CreateOrderFromCart(ctx.Request.Context(), actor.ID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// POSCheckout handles POST /pos/checkout (cashiers). The register sends an
// Idempotency-Key header so a retried request returns the original sale.
func (oc *OrderController) POSCheckout(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.POSCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	req.IdempotencyKey = ctx.GetHeader("Idempotency-Key")

	order, svcErr := oc.orderService.POSCheckout(ctx.Request.Context(), actor, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), actor, id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders handles GET /orders with status and q query filters. Customers
// only ever see their own orders.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter := repository.OrderFilter{
		Status: models.OrderStatus(ctx.Query("status")),
		Query:  ctx.Query("q"),
	}

	orders, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), actor, filter)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateStatus handles PATCH /orders/:id/status (admin and couriers).
func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.ApplyTransition(ctx.Request.Context(), id, actor, req.Status)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// AssignCourier handles PATCH /orders/:id/courier (admin only). A null
// courier_id detaches the current courier.
func (oc *OrderController) AssignCourier(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		CourierID *uuid.UUID `json:"courier_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.AssignCourier(ctx.Request.Context(), id, req.CourierID, actor)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// PaymentMethods handles GET /payment-methods.
func (oc *OrderController) PaymentMethods(ctx *gin.Context) {
	methods, svcErr := oc.orderService.PaymentMethods(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

// MyDeliveries handles GET /courier/orders (couriers).
func (oc *OrderController) MyDeliveries(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, svcErr := oc.orderService.CourierOrders(ctx.Request.Context(), actor)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}
