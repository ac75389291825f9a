package controllers

import (
	"net/http"

	"github.com/Mapachitomamalon/CosmoFood/middleware"
	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
)

// ComplaintController handles HTTP requests for customer complaints.
type ComplaintController struct {
	complaintService services.ComplaintService
}

// NewComplaintController creates a new ComplaintController.
func NewComplaintController(complaintService services.ComplaintService) *ComplaintController {
	return &ComplaintController{complaintService: complaintService}
}

// File handles POST /complaints (customers).
func (cc *ComplaintController) File(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.ComplaintInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	complaint, svcErr := cc.complaintService.File(ctx.Request.Context(), actor, &input)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"complaint": complaint})
}

// MyComplaints handles GET /complaints/mine (customers).
func (cc *ComplaintController) MyComplaints(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	complaints, svcErr := cc.complaintService.MyComplaints(ctx.Request.Context(), actor)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// ListComplaints handles GET /complaints (admin only) with a status filter.
func (cc *ComplaintController) ListComplaints(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status := models.ComplaintStatus(ctx.Query("status"))
	complaints, svcErr := cc.complaintService.ListComplaints(ctx.Request.Context(), actor, status)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// Respond handles PATCH /complaints/:id (admin only).
func (cc *ComplaintController) Respond(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	var input services.ComplaintResponseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	complaint, svcErr := cc.complaintService.Respond(ctx.Request.Context(), actor, id, &input)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"complaint": complaint})
}
