package controllers

import (
	"net/http"

	"github.com/Mapachitomamalon/CosmoFood/middleware"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
)

// CourierController handles HTTP requests for fleet management.
type CourierController struct {
	courierService services.CourierService
}

// NewCourierController creates a new CourierController.
func NewCourierController(courierService services.CourierService) *CourierController {
	return &CourierController{courierService: courierService}
}

// CreateProfile handles POST /couriers (admin only).
func (cc *CourierController) CreateProfile(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.CourierProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	profile, svcErr := cc.courierService.CreateProfile(ctx.Request.Context(), actor, &input)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"courier": profile})
}

// ListCouriers handles GET /couriers (staff). ?available=true filters to
// couriers currently on shift.
func (cc *CourierController) ListCouriers(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	couriers, svcErr := cc.courierService.ListCouriers(ctx.Request.Context(), actor, ctx.Query("available") == "true")
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"couriers": couriers})
}

// SetOwnAvailability handles PATCH /courier/availability (couriers).
func (cc *CourierController) SetOwnAvailability(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := cc.courierService.SetOwnAvailability(ctx.Request.Context(), actor, *req.Available); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Availability updated"})
}

// SetAvailability handles PATCH /couriers/:id/availability (admin only).
func (cc *CourierController) SetAvailability(ctx *gin.Context) {
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
		Available *bool `json:"available" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := cc.courierService.SetAvailability(ctx.Request.Context(), actor, id, *req.Available); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Availability updated"})
}
