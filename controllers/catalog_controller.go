package controllers

import (
	"net/http"
	"strconv"

	"github.com/Mapachitomamalon/CosmoFood/middleware"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogController handles HTTP requests for the menu, products and
// categories.
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController.
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// Menu handles GET /menu (public).
func (cc *CatalogController) Menu(ctx *gin.Context) {
	products, svcErr := cc.catalogService.Menu(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// SearchProducts handles GET /products with q, category_id, active and
// in_stock query filters.
func (cc *CatalogController) SearchProducts(ctx *gin.Context) {
	filter := repository.ProductFilter{
		Query:      ctx.Query("q"),
		ActiveOnly: ctx.DefaultQuery("active", "true") == "true",
		InStock:    ctx.Query("in_stock") == "true",
	}
	if raw := ctx.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		filter.CategoryID = &id
	}

	products, svcErr := cc.catalogService.SearchProducts(ctx.Request.Context(), filter)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /products/:id.
func (cc *CatalogController) GetProduct(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	product, svcErr := cc.catalogService.GetProduct(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct handles POST /products (admin only).
func (cc *CatalogController) CreateProduct(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := cc.catalogService.CreateProduct(ctx.Request.Context(), actor, &input)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct handles PUT /products/:id (admin only).
func (cc *CatalogController) UpdateProduct(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var input services.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := cc.catalogService.UpdateProduct(ctx.Request.Context(), actor, id, &input)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// SetProductActive handles PATCH /products/:id/active (admin only).
func (cc *CatalogController) SetProductActive(ctx *gin.Context) {
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
		Active *bool `json:"active" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := cc.catalogService.SetProductActive(ctx.Request.Context(), actor, id, *req.Active); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// LowStock handles GET /products/low-stock (staff only).
func (cc *CatalogController) LowStock(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	threshold := 5
	if raw := ctx.Query("threshold"); raw != "" {
		if t, err := strconv.Atoi(raw); err == nil {
			threshold = t
		}
	}

	products, svcErr := cc.catalogService.LowStock(ctx.Request.Context(), actor, threshold)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// ListCategories handles GET /categories (public).
func (cc *CatalogController) ListCategories(ctx *gin.Context) {
	categories, svcErr := cc.catalogService.ListCategories(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory handles POST /categories (admin only).
func (cc *CatalogController) CreateCategory(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := cc.catalogService.CreateCategory(ctx.Request.Context(), actor, &input)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory handles PUT /categories/:id (admin only).
func (cc *CatalogController) UpdateCategory(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var input services.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := cc.catalogService.UpdateCategory(ctx.Request.Context(), actor, id, &input)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles DELETE /categories/:id (admin only).
func (cc *CatalogController) DeleteCategory(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if svcErr := cc.catalogService.DeleteCategory(ctx.Request.Context(), actor, id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// pathUUID parses a UUID path parameter, writing the error response itself.
func pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
