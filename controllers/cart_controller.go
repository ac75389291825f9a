package controllers

import (
	"net/http"

	"github.com/Mapachitomamalon/CosmoFood/middleware"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartController handles HTTP requests for the customer's shopping cart.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, svcErr := cc.cartService.GetCart(ctx.Request.Context(), actor.ID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddItem handles POST /cart/items.
func (cc *CartController) AddItem(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	item, svcErr := cc.cartService.Add(ctx.Request.Context(), actor.ID, req.ProductID, req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"item": item})
}

// ChangeQuantity handles PATCH /cart/items/:id with a {"delta": +1|-1} body.
func (cc *CartController) ChangeQuantity(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	itemID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := cc.cartService.ChangeQuantity(ctx.Request.Context(), actor.ID, itemID, req.Delta); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// RemoveItem handles DELETE /cart/items/:id.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	itemID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if svcErr := cc.cartService.Remove(ctx.Request.Context(), actor.ID, itemID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

// Totals handles GET /cart/totals.
func (cc *CartController) Totals(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	totals, svcErr := cc.cartService.Totals(ctx.Request.Context(), actor.ID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"totals": totals})
}
